package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrisetu/agrisetu-backend/pkg/db/models"
	"github.com/agrisetu/agrisetu-backend/pkg/enums"
)

// CheckoutRequest is the payload accepted by the checkout endpoint.
type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address" validate:"required"`
}

// LineDTO is one immutable order line.
type LineDTO struct {
	ProductID       uuid.UUID       `json:"product_id"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

// OrderDTO is the order header plus its snapshotted lines.
type OrderDTO struct {
	ID              uuid.UUID         `json:"id"`
	TotalAmount     decimal.Decimal   `json:"total_amount"`
	ShippingAddress string            `json:"shipping_address"`
	Status          enums.OrderStatus `json:"status"`
	Lines           []LineDTO         `json:"lines"`
	CreatedAt       time.Time         `json:"created_at"`
}

func orderFromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	lines := make([]LineDTO, 0, len(o.Lines))
	for _, line := range o.Lines {
		lines = append(lines, LineDTO{
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			PriceAtPurchase: line.PriceAtPurchase,
		})
	}
	return &OrderDTO{
		ID:              o.ID,
		TotalAmount:     o.TotalAmount,
		ShippingAddress: o.ShippingAddress,
		Status:          o.Status,
		Lines:           lines,
		CreatedAt:       o.CreatedAt,
	}
}
