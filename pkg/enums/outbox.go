package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateOrder OutboxAggregateType = "order"
	AggregateUser  OutboxAggregateType = "user"
)

var aggregateTypeSet = map[OutboxAggregateType]struct{}{
	AggregateOrder: {},
	AggregateUser:  {},
}

func (a OutboxAggregateType) IsValid() bool {
	_, ok := aggregateTypeSet[a]
	return ok
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	candidate := OutboxAggregateType(value)
	if !candidate.IsValid() {
		return "", fmt.Errorf("invalid aggregate type %q", value)
	}
	return candidate, nil
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventOrderCreated        OutboxEventType = "order_created"
	EventOrderPartialFailure OutboxEventType = "order_partial_failure"
	EventUserRegistered      OutboxEventType = "user_registered"
)

var outboxEventTypeSet = map[OutboxEventType]struct{}{
	EventOrderCreated:        {},
	EventOrderPartialFailure: {},
	EventUserRegistered:      {},
}

func (e OutboxEventType) IsValid() bool {
	_, ok := outboxEventTypeSet[e]
	return ok
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	candidate := OutboxEventType(value)
	if !candidate.IsValid() {
		return "", fmt.Errorf("invalid event type %q", value)
	}
	return candidate, nil
}
