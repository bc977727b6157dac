package models

import (
	"time"

	"github.com/google/uuid"
)

// SoilTest stores one soil analysis submission and the advisory text the
// assistant produced for it. Rows are append-only.
type SoilTest struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Nitrogen     float64   `gorm:"column:nitrogen;type:numeric(8,2);not null"`
	Phosphorus   float64   `gorm:"column:phosphorus;type:numeric(8,2);not null"`
	Potassium    float64   `gorm:"column:potassium;type:numeric(8,2);not null"`
	PH           float64   `gorm:"column:ph;type:numeric(4,2);not null"`
	Location     string    `gorm:"column:location;not null"`
	AnalysisText string    `gorm:"column:analysis_text;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
