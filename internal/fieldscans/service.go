package fieldscans

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agrisetu/agrisetu-backend/internal/prompts"
	"github.com/agrisetu/agrisetu-backend/pkg/db/models"
	"github.com/agrisetu/agrisetu-backend/pkg/enums"
	pkgerrors "github.com/agrisetu/agrisetu-backend/pkg/errors"
	"github.com/agrisetu/agrisetu-backend/pkg/gemini"
	"github.com/agrisetu/agrisetu-backend/pkg/logger"
	"github.com/agrisetu/agrisetu-backend/pkg/report"
)

// ScanRequest carries the field photo to analyze. ImageURL records where the
// client uploaded the original; Image is the raw payload sent to the model.
type ScanRequest struct {
	ImageURL string `json:"image_url" validate:"required"`
	Image    []byte `json:"-"`
	MimeType string `json:"-"`
}

// FieldScanDTO is one analyzed scan with its normalized report.
type FieldScanDTO struct {
	ID        uuid.UUID       `json:"id"`
	ImageURL  string          `json:"image_url"`
	RiskLevel enums.RiskLevel `json:"risk_level"`
	Report    report.Report   `json:"report"`
	CreatedAt time.Time       `json:"created_at"`
}

// Service runs crop health scans and serves their history.
type Service interface {
	Scan(ctx context.Context, userID uuid.UUID, req ScanRequest) (*FieldScanDTO, error)
	History(ctx context.Context, userID uuid.UUID) ([]FieldScanDTO, error)
}

type service struct {
	repo *Repository
	ai   gemini.CompletionClient
	logg *logger.Logger
}

// NewService builds a field scan service.
func NewService(repo *Repository, ai gemini.CompletionClient, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("field scans repository is required")
	}
	if ai == nil {
		return nil, fmt.Errorf("completion client is required")
	}
	return &service{repo: repo, ai: ai, logg: logg}, nil
}

// Scan sends the photo to the vision model, grades the risk from the answer,
// and persists the result. An answer that never names a risk grade falls back
// to Medium rather than blocking the scan.
func (s *service) Scan(ctx context.Context, userID uuid.UUID, req ScanRequest) (*FieldScanDTO, error) {
	if strings.TrimSpace(req.ImageURL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image_url is required")
	}
	if len(req.Image) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image payload is required")
	}

	analysis, err := s.ai.CompleteVision(ctx, prompts.CropHealthVision(), req.Image, req.MimeType)
	if err != nil {
		return nil, err
	}

	risk, ok := report.InferRiskLevel(analysis)
	if !ok {
		risk = enums.RiskLevelMedium
		if s.logg != nil {
			s.logg.Warn(ctx, "scan analysis named no risk grade, defaulting to Medium")
		}
	}

	row, err := s.repo.Create(ctx, &models.FieldScan{
		UserID:       userID,
		ImageURL:     strings.TrimSpace(req.ImageURL),
		AnalysisText: analysis,
		RiskLevel:    risk,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store field scan")
	}
	return fromModel(row), nil
}

func (s *service) History(ctx context.Context, userID uuid.UUID) ([]FieldScanDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list field scans")
	}
	result := make([]FieldScanDTO, 0, len(rows))
	for i := range rows {
		result = append(result, *fromModel(&rows[i]))
	}
	return result, nil
}

func fromModel(row *models.FieldScan) *FieldScanDTO {
	return &FieldScanDTO{
		ID:        row.ID,
		ImageURL:  row.ImageURL,
		RiskLevel: row.RiskLevel,
		Report:    report.Parse(row.AnalysisText),
		CreatedAt: row.CreatedAt,
	}
}
