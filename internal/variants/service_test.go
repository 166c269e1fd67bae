package variants

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/malehdhliso/chartedart-backend/pkg/db"
	"github.com/malehdhliso/chartedart-backend/pkg/db/models"
	"github.com/malehdhliso/chartedart-backend/pkg/enums"
	pkgerrors "github.com/malehdhliso/chartedart-backend/pkg/errors"
	"github.com/malehdhliso/chartedart-backend/pkg/outbox"
)

func setupVariantTestDB(t *testing.T) *db.Client {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS product_variants (
  id TEXT PRIMARY KEY,
  size TEXT NOT NULL,
  frame_type TEXT NOT NULL,
  base_price NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_product_variants_size_frame
  ON product_variants(size, frame_type);`,
		`CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at DATETIME,
  published_at DATETIME,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT
);`,
	}
	for _, stmt := range schema {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}

	return db.NewFromGorm(conn)
}

func newVariantService(t *testing.T, client *db.Client) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		DB:     client,
		Outbox: outbox.NewService(outbox.NewRepository(client.DB()), nil),
	})
	if err != nil {
		t.Fatalf("new variant service: %v", err)
	}
	return svc
}

func TestResolveMintsVariantWithComputedPrice(t *testing.T) {
	client := setupVariantTestDB(t)
	svc := newVariantService(t, client)

	resp, err := svc.Resolve(context.Background(), ResolveRequest{Size: "a3", FrameType: "standard"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !resp.Created {
		t.Fatalf("expected first resolve to create the variant")
	}
	if got := resp.Variant.BasePrice.StringFixed(2); got != "1049.98" {
		t.Fatalf("expected base price 1049.98, got %s", got)
	}
	if resp.Variant.SKU != "CA-a3-STANDARD" {
		t.Fatalf("unexpected sku %s", resp.Variant.SKU)
	}
	if resp.Variant.Name != "ChartedArt Kit - A3 - Standard Frame" {
		t.Fatalf("unexpected name %s", resp.Variant.Name)
	}

	var events []models.OutboxEvent
	if err := client.DB().Find(&events).Error; err != nil {
		t.Fatalf("load outbox: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected one outbox event, got %d", len(events))
	}
	if events[0].EventType != enums.EventVariantCreated {
		t.Fatalf("unexpected event type %s", events[0].EventType)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	client := setupVariantTestDB(t)
	svc := newVariantService(t, client)
	ctx := context.Background()

	req := ResolveRequest{Size: "a4", FrameType: "none"}
	first, err := svc.Resolve(ctx, req)
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, err := svc.Resolve(ctx, req)
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if second.Created {
		t.Fatalf("second resolve must not create a new variant")
	}
	if first.Variant.ID != second.Variant.ID {
		t.Fatalf("expected the same variant id on both calls")
	}

	var variantCount, eventCount int64
	if err := client.DB().Model(&models.ProductVariant{}).Count(&variantCount).Error; err != nil {
		t.Fatalf("count variants: %v", err)
	}
	if err := client.DB().Model(&models.OutboxEvent{}).Count(&eventCount).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	if variantCount != 1 || eventCount != 1 {
		t.Fatalf("expected 1 variant and 1 event, got %d and %d", variantCount, eventCount)
	}
}

func TestResolveRejectsUnknownSizeAndFrame(t *testing.T) {
	client := setupVariantTestDB(t)
	svc := newVariantService(t, client)
	ctx := context.Background()

	cases := []ResolveRequest{
		{Size: "a9", FrameType: "none"},
		{Size: "a4", FrameType: "gilded"},
	}
	for _, req := range cases {
		_, err := svc.Resolve(ctx, req)
		if err == nil {
			t.Fatalf("expected validation error for %+v", req)
		}
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %+v, got %v", req, err)
		}
	}

	var count int64
	if err := client.DB().Model(&models.ProductVariant{}).Count(&count).Error; err != nil {
		t.Fatalf("count variants: %v", err)
	}
	if count != 0 {
		t.Fatalf("invalid input must not persist variants, got %d rows", count)
	}
}

func TestListReturnsCatalog(t *testing.T) {
	client := setupVariantTestDB(t)
	svc := newVariantService(t, client)
	ctx := context.Background()

	pairs := []ResolveRequest{
		{Size: "a4", FrameType: "none"},
		{Size: "a4", FrameType: "premium"},
		{Size: "a0", FrameType: "standard"},
	}
	for _, req := range pairs {
		if _, err := svc.Resolve(ctx, req); err != nil {
			t.Fatalf("resolve %+v: %v", req, err)
		}
	}

	listed, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != len(pairs) {
		t.Fatalf("expected %d variants, got %d", len(pairs), len(listed))
	}
}
