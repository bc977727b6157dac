package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agrisetu/agrisetu-backend/pkg/db"
	"github.com/agrisetu/agrisetu-backend/pkg/db/models"
	"github.com/agrisetu/agrisetu-backend/pkg/enums"
	pkgerrors "github.com/agrisetu/agrisetu-backend/pkg/errors"
	"github.com/agrisetu/agrisetu-backend/pkg/logger"
	"github.com/agrisetu/agrisetu-backend/pkg/outbox"
)

// Checkout step names surfaced in partial-failure details.
const (
	stepCreateOrder   = "create_order"
	stepSnapshotLines = "snapshot_lines"
	stepClearCart     = "clear_cart"
)

// Service exposes order placement and history operations.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*OrderDTO, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
	ListOrphans(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
	ListAllOrphans(ctx context.Context) ([]OrderDTO, error)
}

type cartRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	ClearByUser(ctx context.Context, userID uuid.UUID) error
}

// ServiceParams bundles the dependencies required to build an orders service.
type ServiceParams struct {
	DB       *db.Client
	Repo     *Repository
	CartRepo cartRepository
	Outbox   *outbox.Service
	Logger   *logger.Logger
}

type service struct {
	db     *db.Client
	repo   *Repository
	cart   cartRepository
	outbox *outbox.Service
	logg   *logger.Logger
}

// NewService constructs an orders service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox service is required")
	}
	return &service{
		db:     params.DB,
		repo:   params.Repo,
		cart:   params.CartRepo,
		outbox: params.Outbox,
		logg:   params.Logger,
	}, nil
}

// Checkout turns the user's cart into an order. The flow is deliberately
// split into three separately committed steps: the order header commits on
// its own, then the line snapshot plus outbox event, then the cart wipe. A
// failure after the header exists surfaces as PARTIAL_FAILURE naming the
// order and the step that broke, so the caller never retries blindly into a
// duplicate order.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*OrderDTO, error) {
	address := strings.TrimSpace(req.ShippingAddress)
	if address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping_address is required")
	}

	rows, err := s.cart.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	total := decimal.Zero
	lines := make([]models.OrderLine, 0, len(rows))
	for _, row := range rows {
		if row.Product == nil {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart row missing product")
		}
		price := row.Product.Price
		total = total.Add(price.Mul(decimal.NewFromInt(int64(row.Quantity))))
		lines = append(lines, models.OrderLine{
			ProductID:       row.ProductID,
			Quantity:        row.Quantity,
			PriceAtPurchase: price,
		})
	}

	// step 1: order header, committed alone
	order, err := s.repo.CreateOrder(ctx, &models.Order{
		UserID:          userID,
		TotalAmount:     total,
		ShippingAddress: address,
		Status:          enums.OrderStatusPending,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, stepCreateOrder)
	}

	// step 2: line snapshot plus the order_created event, one transaction
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		for i := range lines {
			lines[i].OrderID = order.ID
		}
		if err := s.repo.WithTx(tx).CreateLines(ctx, lines); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: userID, Role: enums.UserRoleFarmer},
			Data: map[string]any{
				"order_id":     order.ID,
				"total_amount": total,
				"line_count":   len(lines),
			},
			Version: 1,
		})
	})
	if err != nil {
		return nil, s.partialFailure(ctx, userID, order.ID, stepSnapshotLines, err)
	}
	order.Lines = lines

	// step 3: cart wipe
	if err := s.cart.ClearByUser(ctx, userID); err != nil {
		return nil, s.partialFailure(ctx, userID, order.ID, stepClearCart, err)
	}

	return orderFromModel(order), nil
}

// partialFailure wraps the step error and best-effort queues a
// order_partial_failure event for the repair path.
func (s *service) partialFailure(ctx context.Context, userID, orderID uuid.UUID, step string, cause error) error {
	emitErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderPartialFailure,
			AggregateType: enums.AggregateOrder,
			AggregateID:   orderID,
			Actor:         &outbox.ActorRef{UserID: userID, Role: enums.UserRoleFarmer},
			Data: map[string]any{
				"order_id": orderID,
				"step":     step,
				"error":    cause.Error(),
			},
			Version: 1,
		})
	})
	if emitErr != nil && s.logg != nil {
		fields := map[string]any{"order_id": orderID.String(), "step": step}
		s.logg.Warn(s.logg.WithFields(ctx, fields), "failed to queue partial-failure event")
	}

	return pkgerrors.Wrap(pkgerrors.CodePartialFailure, cause, "checkout interrupted").
		WithDetails(map[string]any{
			"order_id": orderID,
			"step":     step,
		})
}

func (s *service) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByIDAndUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return orderFromModel(order), nil
}

func (s *service) ListOrders(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	result := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		result = append(result, *orderFromModel(&rows[i]))
	}
	return result, nil
}

// ListOrphans lets a user see their own line-less orders, so a checkout that
// died halfway is detectable from the client.
func (s *service) ListOrphans(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	rows, err := s.repo.ListOrphansByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orphan orders")
	}
	result := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		result = append(result, *orderFromModel(&rows[i]))
	}
	return result, nil
}

// ListAllOrphans is the admin reconciliation view across all users.
func (s *service) ListAllOrphans(ctx context.Context) ([]OrderDTO, error) {
	rows, err := s.repo.ListOrphans(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orphan orders")
	}
	result := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		result = append(result, *orderFromModel(&rows[i]))
	}
	return result, nil
}
