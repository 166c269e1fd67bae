package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/malehdhliso/chartedart-backend/pkg/enums"
	"github.com/malehdhliso/chartedart-backend/pkg/logger"
	"github.com/malehdhliso/chartedart-backend/pkg/outbox"
	"github.com/malehdhliso/chartedart-backend/pkg/outbox/payloads"
	"github.com/malehdhliso/chartedart-backend/pkg/zoho"
)

const inventoryConsumerName = "inventory"

type itemCreator interface {
	CreateItem(ctx context.Context, params zoho.CreateItemParams) (*zoho.Item, error)
}

type idempotencyChecker interface {
	CheckAndMarkProcessed(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error)
	Delete(ctx context.Context, consumer string, eventID uuid.UUID) error
}

// Consumer mirrors newly minted product variants into Zoho Inventory.
type Consumer struct {
	zoho        itemCreator
	manager     idempotencyChecker
	logg        *logger.Logger
	eventFilter map[enums.OutboxEventType]struct{}
}

// NewConsumer builds the inventory mirror consumer.
func NewConsumer(client itemCreator, manager idempotencyChecker, logg *logger.Logger) (*Consumer, error) {
	if client == nil {
		return nil, fmt.Errorf("zoho client required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		zoho:    client,
		manager: manager,
		logg:    logg,
		eventFilter: map[enums.OutboxEventType]struct{}{
			enums.EventVariantCreated: {},
		},
	}, nil
}

// Process registers the variant as a Zoho item. Missing credentials are not
// an error; the sync is simply off and the event is acknowledged.
func (c *Consumer) Process(ctx context.Context, eventType enums.OutboxEventType, envelope outbox.PayloadEnvelope) error {
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"event_id":   envelope.EventID,
		"event_type": eventType,
	})

	if _, ok := c.eventFilter[eventType]; !ok {
		c.logg.Info(logCtx, "event not handled by inventory consumer")
		return nil
	}

	if envelope.EventID == "" {
		return fmt.Errorf("event id missing")
	}
	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		return fmt.Errorf("parse event id: %w", err)
	}

	already, err := c.manager.CheckAndMarkProcessed(ctx, inventoryConsumerName, eventID)
	if err != nil {
		return fmt.Errorf("idempotency check: %w", err)
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return nil
	}

	var data payloads.VariantCreatedEvent
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		c.logg.Error(logCtx, "failed to decode variant payload", err)
		_ = c.manager.Delete(ctx, inventoryConsumerName, eventID)
		return err
	}

	item, err := c.zoho.CreateItem(ctx, zoho.CreateItemParams{
		Name: data.Name,
		SKU:  data.SKU,
		Rate: data.BasePrice,
	})
	if errors.Is(err, zoho.ErrMissingCredentials) {
		c.logg.Warn(logCtx, "zoho credentials not configured, skipping inventory mirror")
		return nil
	}
	if err != nil {
		c.logg.Error(logCtx, "failed to create zoho item", err)
		_ = c.manager.Delete(ctx, inventoryConsumerName, eventID)
		return err
	}

	c.logg.Info(c.logg.WithFields(logCtx, map[string]any{
		"variant_id":   data.VariantID.String(),
		"sku":          data.SKU,
		"zoho_item_id": item.ItemID,
	}), "variant mirrored to zoho inventory")
	return nil
}
