package soiltests

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agrisetu/agrisetu-backend/internal/prompts"
	"github.com/agrisetu/agrisetu-backend/pkg/db/models"
	pkgerrors "github.com/agrisetu/agrisetu-backend/pkg/errors"
	"github.com/agrisetu/agrisetu-backend/pkg/gemini"
	"github.com/agrisetu/agrisetu-backend/pkg/report"
)

// AnalyzeRequest is the payload accepted by the soil analysis endpoint.
type AnalyzeRequest struct {
	Nitrogen   float64 `json:"nitrogen"`
	Phosphorus float64 `json:"phosphorus"`
	Potassium  float64 `json:"potassium"`
	PH         float64 `json:"ph"`
	Location   string  `json:"location" validate:"required"`
}

// SoilTestDTO is one analyzed soil test with its normalized report.
type SoilTestDTO struct {
	ID         uuid.UUID     `json:"id"`
	Nitrogen   float64       `json:"nitrogen"`
	Phosphorus float64       `json:"phosphorus"`
	Potassium  float64       `json:"potassium"`
	PH         float64       `json:"ph"`
	Location   string        `json:"location"`
	Report     report.Report `json:"report"`
	CreatedAt  time.Time     `json:"created_at"`
}

// UpdateRequest carries the editable fields of a stored soil test. The
// analysis text itself is immutable once attached.
type UpdateRequest struct {
	Location *string `json:"location,omitempty"`
}

// Service runs soil analyses and serves their history.
type Service interface {
	Analyze(ctx context.Context, userID uuid.UUID, req AnalyzeRequest) (*SoilTestDTO, error)
	History(ctx context.Context, userID uuid.UUID) ([]SoilTestDTO, error)
	Update(ctx context.Context, userID, id uuid.UUID, req UpdateRequest) (*SoilTestDTO, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type service struct {
	repo *Repository
	ai   gemini.CompletionClient
}

// NewService builds a soil analysis service.
func NewService(repo *Repository, ai gemini.CompletionClient) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("soil tests repository is required")
	}
	if ai == nil {
		return nil, fmt.Errorf("completion client is required")
	}
	return &service{repo: repo, ai: ai}, nil
}

// Analyze validates the readings, asks the model for an interpretation, and
// persists the result. Nothing is stored when the completion fails.
func (s *service) Analyze(ctx context.Context, userID uuid.UUID, req AnalyzeRequest) (*SoilTestDTO, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	location := strings.TrimSpace(req.Location)

	analysis, err := s.ai.Complete(ctx, prompts.SoilHealthAnalysis(
		req.Nitrogen, req.Phosphorus, req.Potassium, req.PH, location))
	if err != nil {
		return nil, err
	}

	row, err := s.repo.Create(ctx, &models.SoilTest{
		UserID:       userID,
		Nitrogen:     req.Nitrogen,
		Phosphorus:   req.Phosphorus,
		Potassium:    req.Potassium,
		PH:           req.PH,
		Location:     location,
		AnalysisText: analysis,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store soil test")
	}
	return fromModel(row), nil
}

func (s *service) History(ctx context.Context, userID uuid.UUID) ([]SoilTestDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list soil tests")
	}
	result := make([]SoilTestDTO, 0, len(rows))
	for i := range rows {
		result = append(result, *fromModel(&rows[i]))
	}
	return result, nil
}

// Update applies the editable fields and returns the fresh record.
func (s *service) Update(ctx context.Context, userID, id uuid.UUID, req UpdateRequest) (*SoilTestDTO, error) {
	if req.Location == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	location := strings.TrimSpace(*req.Location)
	if location == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location cannot be empty")
	}

	affected, err := s.repo.UpdateLocation(ctx, userID, id, location)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update soil test")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "soil test not found")
	}

	row, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload soil test")
	}
	return fromModel(row), nil
}

// Delete removes one of the user's soil tests.
func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	affected, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete soil test")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "soil test not found")
	}
	return nil
}

func validate(req AnalyzeRequest) error {
	if req.Nitrogen < 0 || req.Phosphorus < 0 || req.Potassium < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "nutrient values cannot be negative")
	}
	if req.PH < 0 || req.PH > 14 {
		return pkgerrors.New(pkgerrors.CodeValidation, "ph must be between 0 and 14")
	}
	if strings.TrimSpace(req.Location) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "location is required")
	}
	return nil
}

func fromModel(row *models.SoilTest) *SoilTestDTO {
	return &SoilTestDTO{
		ID:         row.ID,
		Nitrogen:   row.Nitrogen,
		Phosphorus: row.Phosphorus,
		Potassium:  row.Potassium,
		PH:         row.PH,
		Location:   row.Location,
		Report:     report.Parse(row.AnalysisText),
		CreatedAt:  row.CreatedAt,
	}
}
