package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/agrisetu/agrisetu-backend/pkg/enums"
)

// OutboxEvent is a row in the transactional outbox. Business writes insert
// one in the same transaction as the domain change; the relay publishes it
// later and stamps PublishedAt.
type OutboxEvent struct {
	ID            uuid.UUID                 `gorm:"column:id;type:uuid;primaryKey"`
	EventType     enums.OutboxEventType     `gorm:"column:event_type;type:event_type_enum;not null"`
	AggregateType enums.OutboxAggregateType `gorm:"column:aggregate_type;type:aggregate_type_enum;not null"`
	AggregateID   uuid.UUID                 `gorm:"column:aggregate_id;type:uuid;not null"`
	Payload       json.RawMessage           `gorm:"column:payload;type:jsonb;not null"`
	CreatedAt     time.Time                 `gorm:"column:created_at;autoCreateTime"`
	PublishedAt   *time.Time                `gorm:"column:published_at"`
	AttemptCount  int                       `gorm:"column:attempt_count;not null;default:0"`
	LastError     *string                   `gorm:"column:last_error"`
}

// Published reports whether the relay has already delivered this event.
func (e *OutboxEvent) Published() bool {
	return e.PublishedAt != nil
}
