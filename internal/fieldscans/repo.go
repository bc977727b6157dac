package fieldscans

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrisetu/agrisetu-backend/pkg/db/models"
)

// Repository persists crop health scans. Rows are append-only.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a field scans repo bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a completed scan.
func (r *Repository) Create(ctx context.Context, row *models.FieldScan) (*models.FieldScan, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// ListByUser returns the user's scans newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.FieldScan, error) {
	var rows []models.FieldScan
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
