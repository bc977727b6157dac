package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrisetu/agrisetu-backend/pkg/db/models"
	"github.com/agrisetu/agrisetu-backend/pkg/enums"
)

// Repository wires together catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads an active product by UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDAnyStatus loads a product whether or not it is still listed.
// Admin edits need to reach retired listings too.
func (r *Repository) FindByIDAnyStatus(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a catalog listing.
func (r *Repository) Create(ctx context.Context, row *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Update persists the full product row.
func (r *Repository) Update(ctx context.Context, row *models.Product) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// List returns active products, optionally filtered by category, newest first.
func (r *Repository) List(ctx context.Context, category *enums.ProductCategory) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Where("is_active = ?", true)
	if category != nil {
		query = query.Where("category = ?", *category)
	}

	var rows []models.Product
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindManyByIDs loads active products keyed by ID.
func (r *Repository) FindManyByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	result := map[uuid.UUID]models.Product{}
	if len(ids) == 0 {
		return result, nil
	}

	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.ID] = row
	}
	return result, nil
}

// ListCropProfiles returns all reference crops ordered by name.
func (r *Repository) ListCropProfiles(ctx context.Context) ([]models.CropProfile, error) {
	var rows []models.CropProfile
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindCropProfileByName loads a single crop profile by its unique name.
// Lookup is case-insensitive; names arrive from free-text client input.
func (r *Repository) FindCropProfileByName(ctx context.Context, name string) (*models.CropProfile, error) {
	var row models.CropProfile
	if err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
