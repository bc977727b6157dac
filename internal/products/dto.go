package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrisetu/agrisetu-backend/pkg/db/models"
	"github.com/agrisetu/agrisetu-backend/pkg/enums"
)

// ProductDTO is the catalog shape returned to clients.
type ProductDTO struct {
	ID          uuid.UUID             `json:"id"`
	Name        string                `json:"name"`
	Category    enums.ProductCategory `json:"category"`
	Price       decimal.Decimal       `json:"price"`
	Description string                `json:"description"`
	ImageURL    string                `json:"image_url"`
	Rating      decimal.Decimal       `json:"rating"`
	CreatedAt   time.Time             `json:"created_at"`
}

// CropProfileDTO describes a reference crop entry.
type CropProfileDTO struct {
	ID       uuid.UUID        `json:"id"`
	Name     string           `json:"name"`
	Season   enums.CropSeason `json:"season"`
	Duration string           `json:"duration"`
	Pests    []string         `json:"pests"`
	ImageURL string           `json:"image_url"`
}

func productFromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Rating:      p.Rating,
		CreatedAt:   p.CreatedAt,
	}
}

func cropProfileFromModel(c *models.CropProfile) *CropProfileDTO {
	if c == nil {
		return nil
	}
	return &CropProfileDTO{
		ID:       c.ID,
		Name:     c.Name,
		Season:   c.Season,
		Duration: c.Duration,
		Pests:    append([]string(nil), c.Pests...),
		ImageURL: c.ImageURL,
	}
}
