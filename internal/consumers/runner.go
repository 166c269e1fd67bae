package consumers

import (
	"context"
	"encoding/json"
	"errors"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/malehdhliso/chartedart-backend/pkg/enums"
	"github.com/malehdhliso/chartedart-backend/pkg/logger"
	"github.com/malehdhliso/chartedart-backend/pkg/metrics"
	"github.com/malehdhliso/chartedart-backend/pkg/outbox"
)

// Processor handles one decoded outbox envelope.
type Processor interface {
	Process(ctx context.Context, eventType enums.OutboxEventType, envelope outbox.PayloadEnvelope) error
}

type subscriber interface {
	Receive(ctx context.Context, f func(context.Context, *gcppubsub.Message)) error
}

// Runner pumps one Pub/Sub subscription into a Processor. Malformed messages
// are acked since redelivery cannot fix them; processing errors are nacked
// and left to the subscription's retry and dead letter policy.
type Runner struct {
	name      string
	sub       subscriber
	processor Processor
	logg      *logger.Logger
	metrics   *metrics.OutboxMetrics
}

// NewRunner binds a consumer to its subscription.
func NewRunner(name string, sub subscriber, processor Processor, logg *logger.Logger, m *metrics.OutboxMetrics) (*Runner, error) {
	if name == "" {
		return nil, errors.New("runner name required")
	}
	if sub == nil {
		return nil, errors.New("subscription required")
	}
	if processor == nil {
		return nil, errors.New("processor required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &Runner{
		name:      name,
		sub:       sub,
		processor: processor,
		logg:      logg,
		metrics:   m,
	}, nil
}

// Run blocks receiving messages until the context is canceled.
func (r *Runner) Run(ctx context.Context) error {
	r.logg.Info(ctx, r.name+" consumer receiving")
	return r.sub.Receive(ctx, r.handle)
}

func (r *Runner) handle(ctx context.Context, msg *gcppubsub.Message) {
	eventType := enums.OutboxEventType(msg.Attributes["event_type"])
	logCtx := r.logg.WithFields(ctx, map[string]any{
		"consumer":   r.name,
		"event_type": eventType,
		"message_id": msg.ID,
	})

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		r.logg.Error(logCtx, "failed to decode message envelope", err)
		r.metrics.IncConsumeFailure(r.name)
		msg.Ack()
		return
	}
	if envelope.EventID == "" {
		envelope.EventID = msg.Attributes["event_id"]
	}

	if err := r.processor.Process(logCtx, eventType, envelope); err != nil {
		r.logg.Error(logCtx, "failed to process message", err)
		r.metrics.IncConsumeFailure(r.name)
		msg.Nack()
		return
	}

	r.metrics.IncConsumed(r.name)
	msg.Ack()
}
