package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/agrisetu/agrisetu-backend/pkg/config"
	"github.com/agrisetu/agrisetu-backend/pkg/db/models"
	"github.com/agrisetu/agrisetu-backend/pkg/enums"
	"github.com/agrisetu/agrisetu-backend/pkg/logger"
	"github.com/agrisetu/agrisetu-backend/pkg/outbox"
)

type recordingRepo struct {
	events    []models.OutboxEvent
	published []uuid.UUID
	failed    []uuid.UUID
}

func (r *recordingRepo) FetchUnpublished(int, int) ([]models.OutboxEvent, error) {
	return r.events, nil
}

func (r *recordingRepo) MarkPublished(id uuid.UUID) error {
	r.published = append(r.published, id)
	return nil
}

func (r *recordingRepo) MarkFailed(id uuid.UUID, _ error) error {
	r.failed = append(r.failed, id)
	return nil
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

type noTopicPubSub struct{ okPinger }

func (noTopicPubSub) OrdersPublisher() *gcppubsub.Publisher { return nil }

type scriptedPublisher struct {
	results  []publishResult
	messages []*gcppubsub.Message
}

func (p *scriptedPublisher) Publish(_ context.Context, msg *gcppubsub.Message) publishResult {
	p.messages = append(p.messages, msg)
	if len(p.results) == 0 {
		return nil
	}
	next := p.results[0]
	p.results = p.results[1:]
	return next
}

type scriptedResult struct{ err error }

func (r scriptedResult) Get(context.Context) (string, error) { return "", r.err }

func buildService(t *testing.T, repo outboxRepository, pub publisher) *Service {
	t.Helper()
	cfg := &config.Config{
		Outbox: config.OutboxConfig{
			BatchSize:      4,
			PollIntervalMS: 50,
			MaxAttempts:    3,
		},
	}
	logg := logger.New(logger.Options{ServiceName: "outbox-publisher-test", Output: io.Discard})
	service, err := NewService(ServiceParams{
		Config:           cfg,
		Logger:           logg,
		DB:               okPinger{},
		PubSub:           noTopicPubSub{},
		Repository:       repo,
		PublisherFactory: func() publisher { return pub },
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service
}

func orderEvent(t *testing.T, eventType enums.OutboxEventType, eventID string) models.OutboxEvent {
	t.Helper()
	envelope := outbox.PayloadEnvelope{
		Version:    1,
		EventID:    eventID,
		OccurredAt: time.Now(),
		Data:       json.RawMessage(`{"orderId":"x"}`),
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     eventType,
		AggregateType: enums.AggregateOrder,
		AggregateID:   uuid.New(),
		Payload:       payload,
		CreatedAt:     time.Now(),
	}
}

func TestProcessBatchKeepsGoingPastAFailedEvent(t *testing.T) {
	repo := &recordingRepo{events: []models.OutboxEvent{
		orderEvent(t, enums.EventOrderCreated, "ev-1"),
		orderEvent(t, enums.EventOrderCreated, "ev-2"),
	}}
	pub := &scriptedPublisher{results: []publishResult{
		scriptedResult{err: errors.New("broker unavailable")},
		scriptedResult{},
	}}
	service := buildService(t, repo, pub)

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if !processed {
		t.Fatal("batch with events should report processed")
	}
	if len(repo.failed) != 1 || repo.failed[0] != repo.events[0].ID {
		t.Fatalf("failed bookkeeping wrong: %v", repo.failed)
	}
	if len(repo.published) != 1 || repo.published[0] != repo.events[1].ID {
		t.Fatalf("published bookkeeping wrong: %v", repo.published)
	}
}

func TestProcessBatchForwardsPayloadAndAttributes(t *testing.T) {
	event := orderEvent(t, enums.EventOrderPartialFailure, "ev-partial")
	repo := &recordingRepo{events: []models.OutboxEvent{event}}
	pub := &scriptedPublisher{results: []publishResult{scriptedResult{}}}
	service := buildService(t, repo, pub)

	if _, err := service.processBatch(context.Background()); err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if len(pub.messages) != 1 {
		t.Fatalf("published %d messages, want 1", len(pub.messages))
	}

	msg := pub.messages[0]
	if string(msg.Data) != string(event.Payload) {
		t.Fatal("payload was not forwarded verbatim")
	}
	if got := msg.Attributes["event_type"]; got != string(enums.EventOrderPartialFailure) {
		t.Fatalf("event_type attribute %q", got)
	}
	if got := msg.Attributes["aggregate_type"]; got != string(enums.AggregateOrder) {
		t.Fatalf("aggregate_type attribute %q", got)
	}
	if got := msg.Attributes["aggregate_id"]; got != event.AggregateID.String() {
		t.Fatalf("aggregate_id attribute %q", got)
	}
}

func TestProcessBatchReportsIdleWhenNothingPending(t *testing.T) {
	service := buildService(t, &recordingRepo{}, &scriptedPublisher{})

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if processed {
		t.Fatal("empty batch must not report processed")
	}
}

func TestProcessBatchMarksFailedWhenPublisherMissing(t *testing.T) {
	event := orderEvent(t, enums.EventOrderCreated, "ev-stranded")
	repo := &recordingRepo{events: []models.OutboxEvent{event}}
	service := buildService(t, repo, nil)
	service.publisherFactory = func() publisher { return nil }

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if !processed {
		t.Fatal("batch should report processed")
	}
	if len(repo.failed) != 1 {
		t.Fatalf("failed rows = %d, want 1", len(repo.failed))
	}
	if len(repo.published) != 0 {
		t.Fatal("nothing should have been marked published")
	}
}
