package soiltests

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrisetu/agrisetu-backend/pkg/db/models"
)

// Repository persists soil test history.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a soil tests repo bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a completed soil analysis.
func (r *Repository) Create(ctx context.Context, row *models.SoilTest) (*models.SoilTest, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// ListByUser returns the user's soil tests newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.SoilTest, error) {
	var rows []models.SoilTest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads one of the user's soil tests. Rows owned by other users are
// indistinguishable from missing rows.
func (r *Repository) FindByID(ctx context.Context, userID, id uuid.UUID) (*models.SoilTest, error) {
	var row models.SoilTest
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateLocation rewrites the location label on an owned soil test.
func (r *Repository) UpdateLocation(ctx context.Context, userID, id uuid.UUID, location string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.SoilTest{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("location", location)
	return result.RowsAffected, result.Error
}

// Delete removes an owned soil test.
func (r *Repository) Delete(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.SoilTest{})
	return result.RowsAffected, result.Error
}
