package plans

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrisetu/agrisetu-backend/pkg/db/models"
	"github.com/agrisetu/agrisetu-backend/pkg/enums"
)

// Repository persists planting plans.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a plans repo bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a generated plan.
func (r *Repository) Create(ctx context.Context, row *models.PlantingPlan) (*models.PlantingPlan, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// FindByIDAndUser loads a plan restricted to its owner.
func (r *Repository) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.PlantingPlan, error) {
	var row models.PlantingPlan
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListByUser returns the user's plans newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.PlantingPlan, error) {
	var rows []models.PlantingPlan
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateStatus sets the plan status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.PlanStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.PlantingPlan{}).
		Where("id = ?", id).
		Update("status", status).Error
}
