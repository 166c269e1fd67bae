package cartcache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/malehdhliso/chartedart-backend/pkg/enums"
	"github.com/malehdhliso/chartedart-backend/pkg/logger"
	"github.com/malehdhliso/chartedart-backend/pkg/outbox"
	"github.com/malehdhliso/chartedart-backend/pkg/outbox/payloads"
)

const cartCacheConsumerName = "cartcache"

type countCache interface {
	CartCountKey(userID string) string
	Del(ctx context.Context, keys ...string) error
}

type idempotencyChecker interface {
	CheckAndMarkProcessed(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error)
	Delete(ctx context.Context, consumer string, eventID uuid.UUID) error
}

// Consumer drops the cached cart badge count whenever a cart mutates. The
// next read repopulates it from the database, which stays authoritative.
type Consumer struct {
	cache       countCache
	manager     idempotencyChecker
	logg        *logger.Logger
	eventFilter map[enums.OutboxEventType]struct{}
}

// NewConsumer builds the cart cache invalidation consumer.
func NewConsumer(cache countCache, manager idempotencyChecker, logg *logger.Logger) (*Consumer, error) {
	if cache == nil {
		return nil, fmt.Errorf("cache client required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		cache:   cache,
		manager: manager,
		logg:    logg,
		eventFilter: map[enums.OutboxEventType]struct{}{
			enums.EventCartItemsChanged: {},
		},
	}, nil
}

// Process invalidates the cached count for the cart's owner.
func (c *Consumer) Process(ctx context.Context, eventType enums.OutboxEventType, envelope outbox.PayloadEnvelope) error {
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"event_id":   envelope.EventID,
		"event_type": eventType,
	})

	if _, ok := c.eventFilter[eventType]; !ok {
		c.logg.Info(logCtx, "event not handled by cart cache consumer")
		return nil
	}

	if envelope.EventID == "" {
		return fmt.Errorf("event id missing")
	}
	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		return fmt.Errorf("parse event id: %w", err)
	}

	already, err := c.manager.CheckAndMarkProcessed(ctx, cartCacheConsumerName, eventID)
	if err != nil {
		return fmt.Errorf("idempotency check: %w", err)
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return nil
	}

	var data payloads.CartItemsChangedEvent
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		c.logg.Error(logCtx, "failed to decode cart payload", err)
		_ = c.manager.Delete(ctx, cartCacheConsumerName, eventID)
		return err
	}
	if data.UserID == uuid.Nil {
		c.logg.Error(logCtx, "cart event missing user id", fmt.Errorf("user id is nil"))
		_ = c.manager.Delete(ctx, cartCacheConsumerName, eventID)
		return fmt.Errorf("cart event missing user id")
	}

	if err := c.cache.Del(ctx, c.cache.CartCountKey(data.UserID.String())); err != nil {
		c.logg.Error(logCtx, "failed to drop cart count cache", err)
		_ = c.manager.Delete(ctx, cartCacheConsumerName, eventID)
		return err
	}

	c.logg.Info(c.logg.WithFields(logCtx, map[string]any{
		"user_id": data.UserID.String(),
	}), "cart count cache invalidated")
	return nil
}
