package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/agrisetu/agrisetu-backend/pkg/enums"
)

// FieldScan stores one crop health scan and its inferred risk grade.
// Rows are append-only.
type FieldScan struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	UserID       uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	ImageURL     string          `gorm:"column:image_url;not null"`
	AnalysisText string          `gorm:"column:analysis_text;not null"`
	RiskLevel    enums.RiskLevel `gorm:"column:risk_level;type:risk_level;not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}
