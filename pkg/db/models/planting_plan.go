package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/agrisetu/agrisetu-backend/pkg/enums"
)

// PlantingPlan stores a generated cultivation plan and its lifecycle status.
type PlantingPlan struct {
	ID               uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	UserID           uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index"`
	CropName         string           `gorm:"column:crop_name;not null"`
	SoilType         string           `gorm:"column:soil_type;not null"`
	WeatherCondition string           `gorm:"column:weather_condition;not null"`
	PlanText         string           `gorm:"column:plan_text;not null"`
	Status           enums.PlanStatus `gorm:"column:status;type:plan_status;not null;default:'Draft'"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
