package plans

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrisetu/agrisetu-backend/internal/prompts"
	"github.com/agrisetu/agrisetu-backend/pkg/db/models"
	"github.com/agrisetu/agrisetu-backend/pkg/enums"
	pkgerrors "github.com/agrisetu/agrisetu-backend/pkg/errors"
	"github.com/agrisetu/agrisetu-backend/pkg/gemini"
	"github.com/agrisetu/agrisetu-backend/pkg/report"
)

// GenerateRequest is the payload accepted by the plan generation endpoint.
type GenerateRequest struct {
	CropName         string `json:"crop_name" validate:"required"`
	SoilType         string `json:"soil_type" validate:"required"`
	WeatherCondition string `json:"weather_condition" validate:"required"`
}

// AdvanceStatusRequest names the status the plan should move to.
type AdvanceStatusRequest struct {
	Status enums.PlanStatus `json:"status" validate:"required"`
}

// PlanDTO is one planting plan with its normalized report.
type PlanDTO struct {
	ID               uuid.UUID        `json:"id"`
	CropName         string           `json:"crop_name"`
	SoilType         string           `json:"soil_type"`
	WeatherCondition string           `json:"weather_condition"`
	Status           enums.PlanStatus `json:"status"`
	Report           report.Report    `json:"report"`
	CreatedAt        time.Time        `json:"created_at"`
}

// Service generates plans and walks them through their lifecycle.
type Service interface {
	Generate(ctx context.Context, userID uuid.UUID, req GenerateRequest) (*PlanDTO, error)
	Get(ctx context.Context, userID, planID uuid.UUID) (*PlanDTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]PlanDTO, error)
	AdvanceStatus(ctx context.Context, userID, planID uuid.UUID, req AdvanceStatusRequest) (*PlanDTO, error)
}

type service struct {
	repo *Repository
	ai   gemini.CompletionClient
}

// NewService builds a planting plan service.
func NewService(repo *Repository, ai gemini.CompletionClient) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("plans repository is required")
	}
	if ai == nil {
		return nil, fmt.Errorf("completion client is required")
	}
	return &service{repo: repo, ai: ai}, nil
}

// Generate asks the model for a beginner plan and stores it as a Draft.
// Nothing is stored when the completion fails.
func (s *service) Generate(ctx context.Context, userID uuid.UUID, req GenerateRequest) (*PlanDTO, error) {
	crop := strings.TrimSpace(req.CropName)
	soil := strings.TrimSpace(req.SoilType)
	weather := strings.TrimSpace(req.WeatherCondition)
	if crop == "" || soil == "" || weather == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "crop_name, soil_type and weather_condition are required")
	}

	planText, err := s.ai.Complete(ctx, prompts.BeginnerPlantingPlan(crop, soil, weather))
	if err != nil {
		return nil, err
	}

	row, err := s.repo.Create(ctx, &models.PlantingPlan{
		UserID:           userID,
		CropName:         crop,
		SoilType:         soil,
		WeatherCondition: weather,
		PlanText:         planText,
		Status:           enums.PlanStatusDraft,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store planting plan")
	}
	return fromModel(row), nil
}

func (s *service) Get(ctx context.Context, userID, planID uuid.UUID) (*PlanDTO, error) {
	row, err := s.load(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	return fromModel(row), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]PlanDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list planting plans")
	}
	result := make([]PlanDTO, 0, len(rows))
	for i := range rows {
		result = append(result, *fromModel(&rows[i]))
	}
	return result, nil
}

// AdvanceStatus moves the plan forward along Draft, Active, Completed.
// Repeating the current status is a no-op success; moving backwards or
// skipping a stage is a state conflict.
func (s *service) AdvanceStatus(ctx context.Context, userID, planID uuid.UUID, req AdvanceStatusRequest) (*PlanDTO, error) {
	target := req.Status
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid plan status")
	}

	row, err := s.load(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	currentRank := row.Status.Rank()
	targetRank := target.Rank()
	switch {
	case targetRank == currentRank:
		return fromModel(row), nil
	case targetRank != currentRank+1:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "plan status can only move forward one stage").
			WithDetails(map[string]any{
				"current":   row.Status,
				"requested": target,
			})
	}

	if err := s.repo.UpdateStatus(ctx, row.ID, target); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update plan status")
	}
	row.Status = target
	return fromModel(row), nil
}

func (s *service) load(ctx context.Context, userID, planID uuid.UUID) (*models.PlantingPlan, error) {
	row, err := s.repo.FindByIDAndUser(ctx, planID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load plan")
	}
	return row, nil
}

func fromModel(row *models.PlantingPlan) *PlanDTO {
	return &PlanDTO{
		ID:               row.ID,
		CropName:         row.CropName,
		SoilType:         row.SoilType,
		WeatherCondition: row.WeatherCondition,
		Status:           row.Status,
		Report:           report.Parse(row.PlanText),
		CreatedAt:        row.CreatedAt,
	}
}
