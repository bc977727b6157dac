package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/agrisetu/agrisetu-backend/internal/cart"
	"github.com/agrisetu/agrisetu-backend/internal/orders"
	"github.com/agrisetu/agrisetu-backend/internal/plans"
	"github.com/agrisetu/agrisetu-backend/internal/products"
	"github.com/agrisetu/agrisetu-backend/internal/prompts"
	pkgerrors "github.com/agrisetu/agrisetu-backend/pkg/errors"
	"github.com/agrisetu/agrisetu-backend/pkg/gemini"
	"github.com/agrisetu/agrisetu-backend/pkg/report"
)

// AdvisoryDTO is a normalized advisory answer.
type AdvisoryDTO struct {
	Report report.Report `json:"report"`
}

// GroundedAdvisoryDTO adds the web sources behind a grounded answer.
type GroundedAdvisoryDTO struct {
	Report  report.Report `json:"report"`
	Sources []string      `json:"sources"`
}

// DashboardDTO joins the independent home-screen fetches into one response.
type DashboardDTO struct {
	Products []products.ProductDTO `json:"products"`
	Cart     *cart.CartDTO         `json:"cart"`
	Orders   []orders.OrderDTO     `json:"orders"`
	Plans    []plans.PlanDTO       `json:"plans"`
}

// Service is the advisory aggregation layer over the completion client and
// the domain read paths.
type Service interface {
	CropIntelligence(ctx context.Context, crop string) (*AdvisoryDTO, error)
	CropAdvisory(ctx context.Context, question string) (*AdvisoryDTO, error)
	MarketInsights(ctx context.Context, query string) (*GroundedAdvisoryDTO, error)
	WeatherAlert(ctx context.Context, location string) (*GroundedAdvisoryDTO, error)
	Dashboard(ctx context.Context, userID uuid.UUID) (*DashboardDTO, error)
}

// ServiceParams bundles the dependencies required to build the advisor.
type ServiceParams struct {
	AI       gemini.CompletionClient
	Products products.Service
	Cart     cart.Service
	Orders   orders.Service
	Plans    plans.Service
}

type service struct {
	ai       gemini.CompletionClient
	products products.Service
	cart     cart.Service
	orders   orders.Service
	plans    plans.Service
}

// NewService constructs the advisor with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.AI == nil {
		return nil, fmt.Errorf("completion client is required")
	}
	if params.Products == nil || params.Cart == nil || params.Orders == nil || params.Plans == nil {
		return nil, fmt.Errorf("all domain services are required")
	}
	return &service{
		ai:       params.AI,
		products: params.Products,
		cart:     params.Cart,
		orders:   params.Orders,
		plans:    params.Plans,
	}, nil
}

// CropIntelligence anchors the answer to the catalog's crop profile when one
// exists; unknown crops fall back to the bare prompt.
func (s *service) CropIntelligence(ctx context.Context, crop string) (*AdvisoryDTO, error) {
	if strings.TrimSpace(crop) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "crop is required")
	}

	prompt := prompts.CropIntelligence(crop)
	if profile, err := s.products.GetCropProfile(ctx, crop); err == nil {
		prompt = prompts.CropIntelligenceWithProfile(
			profile.Name, string(profile.Season), profile.Duration, profile.Pests)
	}

	text, err := s.ai.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return &AdvisoryDTO{Report: report.Parse(text)}, nil
}

func (s *service) CropAdvisory(ctx context.Context, question string) (*AdvisoryDTO, error) {
	if strings.TrimSpace(question) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "question is required")
	}
	text, err := s.ai.Complete(ctx, prompts.CropAdvisory(question))
	if err != nil {
		return nil, err
	}
	return &AdvisoryDTO{Report: report.Parse(text)}, nil
}

func (s *service) MarketInsights(ctx context.Context, query string) (*GroundedAdvisoryDTO, error) {
	if strings.TrimSpace(query) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query is required")
	}
	completion, err := s.ai.CompleteGrounded(ctx, prompts.MarketInsights(query))
	if err != nil {
		return nil, err
	}
	return &GroundedAdvisoryDTO{
		Report:  report.Parse(completion.Text),
		Sources: completion.Sources,
	}, nil
}

func (s *service) WeatherAlert(ctx context.Context, location string) (*GroundedAdvisoryDTO, error) {
	if strings.TrimSpace(location) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location is required")
	}
	completion, err := s.ai.CompleteGrounded(ctx, prompts.WeatherAlert(location))
	if err != nil {
		return nil, err
	}
	return &GroundedAdvisoryDTO{
		Report:  report.Parse(completion.Text),
		Sources: completion.Sources,
	}, nil
}

// Dashboard runs the four independent reads concurrently and joins them.
// Any single failure fails the whole aggregation.
func (s *service) Dashboard(ctx context.Context, userID uuid.UUID) (*DashboardDTO, error) {
	var dashboard DashboardDTO

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		list, err := s.products.ListProducts(groupCtx, "")
		if err != nil {
			return err
		}
		dashboard.Products = list
		return nil
	})
	group.Go(func() error {
		userCart, err := s.cart.Get(groupCtx, userID)
		if err != nil {
			return err
		}
		dashboard.Cart = userCart
		return nil
	})
	group.Go(func() error {
		list, err := s.orders.ListOrders(groupCtx, userID)
		if err != nil {
			return err
		}
		dashboard.Orders = list
		return nil
	})
	group.Go(func() error {
		list, err := s.plans.List(groupCtx, userID)
		if err != nil {
			return err
		}
		dashboard.Plans = list
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return &dashboard, nil
}
