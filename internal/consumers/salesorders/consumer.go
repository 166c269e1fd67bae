package salesorders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/malehdhliso/chartedart-backend/pkg/db/models"
	"github.com/malehdhliso/chartedart-backend/pkg/enums"
	"github.com/malehdhliso/chartedart-backend/pkg/logger"
	"github.com/malehdhliso/chartedart-backend/pkg/outbox"
	"github.com/malehdhliso/chartedart-backend/pkg/outbox/payloads"
	"github.com/malehdhliso/chartedart-backend/pkg/zoho"
)

const salesOrderConsumerName = "salesorders"

type salesOrderCreator interface {
	CreateSalesOrder(ctx context.Context, params zoho.CreateSalesOrderParams) (*zoho.SalesOrder, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type idempotencyChecker interface {
	CheckAndMarkProcessed(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error)
	Delete(ctx context.Context, consumer string, eventID uuid.UUID) error
}

// Consumer books submitted orders as Zoho sales orders. The order id rides
// along as the reference number so both systems can be reconciled.
type Consumer struct {
	zoho        salesOrderCreator
	users       userFinder
	manager     idempotencyChecker
	logg        *logger.Logger
	eventFilter map[enums.OutboxEventType]struct{}
}

// NewConsumer builds the sales order consumer.
func NewConsumer(client salesOrderCreator, users userFinder, manager idempotencyChecker, logg *logger.Logger) (*Consumer, error) {
	if client == nil {
		return nil, fmt.Errorf("zoho client required")
	}
	if users == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		zoho:    client,
		users:   users,
		manager: manager,
		logg:    logg,
		eventFilter: map[enums.OutboxEventType]struct{}{
			enums.EventOrderSubmitted: {},
		},
	}, nil
}

// Process books a sales order for the submitted platform order.
func (c *Consumer) Process(ctx context.Context, eventType enums.OutboxEventType, envelope outbox.PayloadEnvelope) error {
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"event_id":   envelope.EventID,
		"event_type": eventType,
	})

	if _, ok := c.eventFilter[eventType]; !ok {
		c.logg.Info(logCtx, "event not handled by sales order consumer")
		return nil
	}

	if envelope.EventID == "" {
		return fmt.Errorf("event id missing")
	}
	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		return fmt.Errorf("parse event id: %w", err)
	}

	already, err := c.manager.CheckAndMarkProcessed(ctx, salesOrderConsumerName, eventID)
	if err != nil {
		return fmt.Errorf("idempotency check: %w", err)
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return nil
	}

	var data payloads.OrderSubmittedEvent
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		c.logg.Error(logCtx, "failed to decode order payload", err)
		_ = c.manager.Delete(ctx, salesOrderConsumerName, eventID)
		return err
	}

	params, err := c.buildParams(ctx, data)
	if err != nil {
		c.logg.Error(logCtx, "failed to build sales order", err)
		_ = c.manager.Delete(ctx, salesOrderConsumerName, eventID)
		return err
	}

	salesOrder, err := c.zoho.CreateSalesOrder(ctx, *params)
	if errors.Is(err, zoho.ErrMissingCredentials) {
		c.logg.Warn(logCtx, "zoho credentials not configured, skipping sales order")
		return nil
	}
	if err != nil {
		c.logg.Error(logCtx, "failed to create zoho sales order", err)
		_ = c.manager.Delete(ctx, salesOrderConsumerName, eventID)
		return err
	}

	c.logg.Info(c.logg.WithFields(logCtx, map[string]any{
		"order_id":          data.OrderID.String(),
		"zoho_salesorder":   salesOrder.SalesOrderID,
		"salesorder_number": salesOrder.SalesOrderNumber,
	}), "order booked in zoho inventory")
	return nil
}

func (c *Consumer) buildParams(ctx context.Context, data payloads.OrderSubmittedEvent) (*zoho.CreateSalesOrderParams, error) {
	if len(data.Items) == 0 {
		return nil, fmt.Errorf("order %s has no items", data.OrderID)
	}

	user, err := c.users.FindByID(ctx, data.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", data.UserID, err)
	}

	lines := make([]zoho.SalesOrderLine, 0, len(data.Items))
	for _, item := range data.Items {
		lines = append(lines, zoho.SalesOrderLine{
			SKU:      enums.VariantSKU(item.Size, item.FrameType),
			Rate:     item.Price,
			Quantity: item.Quantity,
		})
	}

	return &zoho.CreateSalesOrderParams{
		CustomerName:    customerName(user),
		CustomerEmail:   user.Email,
		ReferenceNumber: data.OrderID.String(),
		LineItems:       lines,
	}, nil
}

func customerName(user *models.User) string {
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		return user.Email
	}
	return name
}
