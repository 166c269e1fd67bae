package salesorders

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/malehdhliso/chartedart-backend/pkg/db/models"
	"github.com/malehdhliso/chartedart-backend/pkg/enums"
	"github.com/malehdhliso/chartedart-backend/pkg/logger"
	"github.com/malehdhliso/chartedart-backend/pkg/outbox"
	"github.com/malehdhliso/chartedart-backend/pkg/outbox/payloads"
	"github.com/malehdhliso/chartedart-backend/pkg/zoho"
)

func TestSalesOrderConsumerBooksOrder(t *testing.T) {
	client := &fakeSalesOrderCreator{}
	userID := uuid.New()
	users := fakeUserFinder{user: &models.User{
		ID:        userID,
		Email:     "thandi@example.com",
		FirstName: "Thandi",
		LastName:  "Mokoena",
	}}
	consumer := mustConsumer(t, client, users, passingIdempotency())

	orderID := uuid.New()
	envelope := buildEnvelope(t, uuid.New(), payloads.OrderSubmittedEvent{
		OrderID:     orderID,
		UserID:      userID,
		TotalAmount: decimal.RequireFromString("1399.98"),
		Items: []payloads.OrderSubmittedItemSummary{
			{
				VariantID: uuid.New(),
				Size:      enums.PrintSizeA4,
				FrameType: enums.FrameTypeNone,
				Quantity:  2,
				Price:     decimal.RequireFromString("499.99"),
			},
		},
		SubmittedAt: time.Now(),
	})

	if err := consumer.Process(context.Background(), enums.EventOrderSubmitted, envelope); err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	if len(client.created) != 1 {
		t.Fatalf("expected 1 sales order, got %d", len(client.created))
	}
	params := client.created[0]
	if params.CustomerName != "Thandi Mokoena" {
		t.Fatalf("unexpected customer name: %s", params.CustomerName)
	}
	if params.CustomerEmail != "thandi@example.com" {
		t.Fatalf("unexpected customer email: %s", params.CustomerEmail)
	}
	if params.ReferenceNumber != orderID.String() {
		t.Fatalf("reference number should be the order id, got %s", params.ReferenceNumber)
	}
	if len(params.LineItems) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(params.LineItems))
	}
	line := params.LineItems[0]
	if line.SKU != enums.VariantSKU(enums.PrintSizeA4, enums.FrameTypeNone) {
		t.Fatalf("unexpected line sku: %s", line.SKU)
	}
	if line.Quantity != 2 {
		t.Fatalf("unexpected quantity: %d", line.Quantity)
	}
	if !line.Rate.Equal(decimal.RequireFromString("499.99")) {
		t.Fatalf("unexpected rate: %s", line.Rate)
	}
}

func TestSalesOrderConsumerRejectsEmptyOrder(t *testing.T) {
	client := &fakeSalesOrderCreator{}
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
	consumer := mustConsumer(t, client, fakeUserFinder{user: &models.User{}}, manager)

	envelope := buildEnvelope(t, uuid.New(), payloads.OrderSubmittedEvent{
		OrderID: uuid.New(),
		UserID:  uuid.New(),
	})
	if err := consumer.Process(context.Background(), enums.EventOrderSubmitted, envelope); err == nil {
		t.Fatalf("expected error for order without items")
	}
	if !deleted {
		t.Fatalf("expected idempotency key deletion on failure")
	}
	if len(client.created) != 0 {
		t.Fatalf("expected no sales order created")
	}
}

func TestSalesOrderConsumerSkipsWithoutCredentials(t *testing.T) {
	client := &fakeSalesOrderCreator{err: zoho.ErrMissingCredentials}
	consumer := mustConsumer(t, client, fakeUserFinder{user: &models.User{
		Email: "artist@example.com",
	}}, passingIdempotency())

	envelope := buildEnvelope(t, uuid.New(), payloads.OrderSubmittedEvent{
		OrderID: uuid.New(),
		UserID:  uuid.New(),
		Items: []payloads.OrderSubmittedItemSummary{
			{Size: enums.PrintSizeA4, FrameType: enums.FrameTypeNone, Quantity: 1, Price: decimal.RequireFromString("499.99")},
		},
	})
	if err := consumer.Process(context.Background(), enums.EventOrderSubmitted, envelope); err != nil {
		t.Fatalf("missing credentials should not be an error: %v", err)
	}
}

func TestSalesOrderConsumerFallsBackToEmailName(t *testing.T) {
	user := &models.User{Email: "anon@example.com"}
	if got := customerName(user); got != "anon@example.com" {
		t.Fatalf("expected email fallback, got %q", got)
	}
}

func TestSalesOrderConsumerDeletesMarkOnUserLookupFailure(t *testing.T) {
	client := &fakeSalesOrderCreator{}
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
	consumer := mustConsumer(t, client, fakeUserFinder{err: errors.New("user missing")}, manager)

	envelope := buildEnvelope(t, uuid.New(), payloads.OrderSubmittedEvent{
		OrderID: uuid.New(),
		UserID:  uuid.New(),
		Items: []payloads.OrderSubmittedItemSummary{
			{Size: enums.PrintSizeA4, FrameType: enums.FrameTypeNone, Quantity: 1, Price: decimal.RequireFromString("499.99")},
		},
	})
	if err := consumer.Process(context.Background(), enums.EventOrderSubmitted, envelope); err == nil {
		t.Fatalf("expected error when user lookup fails")
	}
	if !deleted {
		t.Fatalf("expected idempotency key deletion on failure")
	}
}

type fakeSalesOrderCreator struct {
	created []zoho.CreateSalesOrderParams
	err     error
}

func (f *fakeSalesOrderCreator) CreateSalesOrder(_ context.Context, params zoho.CreateSalesOrderParams) (*zoho.SalesOrder, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, params)
	return &zoho.SalesOrder{SalesOrderID: "zoho-so-1", SalesOrderNumber: "SO-0001"}, nil
}

type fakeUserFinder struct {
	user *models.User
	err  error
}

func (f fakeUserFinder) FindByID(context.Context, uuid.UUID) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
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

func mustConsumer(t *testing.T, client *fakeSalesOrderCreator, users fakeUserFinder, manager fakeIdempotency) *Consumer {
	t.Helper()
	consumer, err := NewConsumer(client, users, manager, logger.New(logger.Options{
		ServiceName: "salesorders-test",
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
