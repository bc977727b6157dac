package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/agrisetu/agrisetu-backend/pkg/enums"
)

// CropProfile is reference data for the knowledge grid: one row per crop with
// its season, growth duration and common pests.
type CropProfile struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Name      string           `gorm:"column:name;not null;uniqueIndex"`
	Season    enums.CropSeason `gorm:"column:season;type:crop_season;not null"`
	Duration  string           `gorm:"column:duration;not null"`
	Pests     pq.StringArray   `gorm:"column:pests;type:text[];not null;default:ARRAY[]::text[]"`
	ImageURL  string           `gorm:"column:image_url;not null"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
