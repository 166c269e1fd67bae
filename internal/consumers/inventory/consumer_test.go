package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/malehdhliso/chartedart-backend/pkg/enums"
	"github.com/malehdhliso/chartedart-backend/pkg/logger"
	"github.com/malehdhliso/chartedart-backend/pkg/outbox"
	"github.com/malehdhliso/chartedart-backend/pkg/outbox/payloads"
	"github.com/malehdhliso/chartedart-backend/pkg/zoho"
)

func TestInventoryConsumerCreatesZohoItem(t *testing.T) {
	client := &fakeItemCreator{}
	consumer := mustConsumer(t, client, passingIdempotency())

	variantID := uuid.New()
	envelope := buildEnvelope(t, uuid.New(), payloads.VariantCreatedEvent{
		VariantID: variantID,
		Size:      enums.PrintSizeA3,
		FrameType: enums.FrameTypeStandard,
		SKU:       enums.VariantSKU(enums.PrintSizeA3, enums.FrameTypeStandard),
		Name:      "A3 Standard Frame Kit",
		BasePrice: decimal.RequireFromString("1049.98"),
	})

	if err := consumer.Process(context.Background(), enums.EventVariantCreated, envelope); err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	if len(client.created) != 1 {
		t.Fatalf("expected 1 item created, got %d", len(client.created))
	}
	params := client.created[0]
	if params.Name != "A3 Standard Frame Kit" {
		t.Fatalf("unexpected item name: %s", params.Name)
	}
	if params.SKU != enums.VariantSKU(enums.PrintSizeA3, enums.FrameTypeStandard) {
		t.Fatalf("unexpected sku: %s", params.SKU)
	}
	if !params.Rate.Equal(decimal.RequireFromString("1049.98")) {
		t.Fatalf("unexpected rate: %s", params.Rate)
	}
}

func TestInventoryConsumerIgnoresOtherEvents(t *testing.T) {
	client := &fakeItemCreator{}
	consumer := mustConsumer(t, client, passingIdempotency())

	envelope := buildEnvelope(t, uuid.New(), payloads.VariantCreatedEvent{})
	if err := consumer.Process(context.Background(), enums.EventOrderSubmitted, envelope); err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if len(client.created) != 0 {
		t.Fatalf("expected no items created for unrelated event")
	}
}

func TestInventoryConsumerSkipsWithoutCredentials(t *testing.T) {
	client := &fakeItemCreator{err: zoho.ErrMissingCredentials}
	deleted := false
	manager := fakeIdempotency{
		check: func(_ context.Context, _ string, _ uuid.UUID) (bool, error) {
			return false, nil
		},
		deleteFn: func(_ context.Context, _ string, _ uuid.UUID) error {
			deleted = true
			return nil
		},
	}
	consumer := mustConsumer(t, client, manager)

	envelope := buildEnvelope(t, uuid.New(), payloads.VariantCreatedEvent{
		SKU:  "a4-none",
		Name: "A4 Kit",
	})
	if err := consumer.Process(context.Background(), enums.EventVariantCreated, envelope); err != nil {
		t.Fatalf("missing credentials should not be an error: %v", err)
	}
	if deleted {
		t.Fatalf("event should stay marked processed when sync is off")
	}
}

func TestInventoryConsumerIsIdempotent(t *testing.T) {
	client := &fakeItemCreator{}
	manager := fakeIdempotency{
		check: func(_ context.Context, _ string, _ uuid.UUID) (bool, error) {
			return true, nil
		},
		deleteFn: func(_ context.Context, _ string, _ uuid.UUID) error {
			return nil
		},
	}
	consumer := mustConsumer(t, client, manager)

	envelope := buildEnvelope(t, uuid.New(), payloads.VariantCreatedEvent{})
	if err := consumer.Process(context.Background(), enums.EventVariantCreated, envelope); err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if len(client.created) != 0 {
		t.Fatalf("expected no items created when already processed")
	}
}

func TestInventoryConsumerDeletesMarkOnZohoFailure(t *testing.T) {
	client := &fakeItemCreator{err: errors.New("zoho down")}
	deleted := false
	manager := fakeIdempotency{
		check: func(_ context.Context, _ string, _ uuid.UUID) (bool, error) {
			return false, nil
		},
		deleteFn: func(_ context.Context, _ string, _ uuid.UUID) error {
			deleted = true
			return nil
		},
	}
	consumer := mustConsumer(t, client, manager)

	envelope := buildEnvelope(t, uuid.New(), payloads.VariantCreatedEvent{
		SKU:  "a4-none",
		Name: "A4 Kit",
	})
	if err := consumer.Process(context.Background(), enums.EventVariantCreated, envelope); err == nil {
		t.Fatalf("expected error when zoho call fails")
	}
	if !deleted {
		t.Fatalf("expected idempotency key deletion on failure")
	}
}

type fakeItemCreator struct {
	created []zoho.CreateItemParams
	err     error
}

func (f *fakeItemCreator) CreateItem(_ context.Context, params zoho.CreateItemParams) (*zoho.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, params)
	return &zoho.Item{ItemID: "zoho-item-1", Name: params.Name, SKU: params.SKU}, nil
}

type fakeIdempotency struct {
	check    func(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error)
	deleteFn func(ctx context.Context, consumer string, eventID uuid.UUID) error
}

func (f fakeIdempotency) CheckAndMarkProcessed(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error) {
	return f.check(ctx, consumer, eventID)
}

func (f fakeIdempotency) Delete(ctx context.Context, consumer string, eventID uuid.UUID) error {
	return f.deleteFn(ctx, consumer, eventID)
}

func passingIdempotency() fakeIdempotency {
	return fakeIdempotency{
		check: func(_ context.Context, _ string, _ uuid.UUID) (bool, error) {
			return false, nil
		},
		deleteFn: func(_ context.Context, _ string, _ uuid.UUID) error {
			return nil
		},
	}
}

func mustConsumer(t *testing.T, client *fakeItemCreator, manager fakeIdempotency) *Consumer {
	t.Helper()
	consumer, err := NewConsumer(client, manager, logger.New(logger.Options{
		ServiceName: "inventory-test",
		Level:       logger.ParseLevel("debug"),
		Output:      io.Discard,
	}))
	if err != nil {
		t.Fatalf("failed to build consumer: %v", err)
	}
	return consumer
}

func buildEnvelope(t *testing.T, eventID uuid.UUID, payload any) outbox.PayloadEnvelope {
	t.Helper()
	bytes, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return outbox.PayloadEnvelope{
		Version:    1,
		EventID:    eventID.String(),
		OccurredAt: time.Now(),
		Data:       bytes,
	}
}
