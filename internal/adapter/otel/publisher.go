package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/pango/internal/domain"
)

var _ domain.EventPublisher = (*TracingPublisher)(nil)

// TracingPublisher wraps a domain.EventPublisher with a span per event and
// counts published events by type.
type TracingPublisher struct {
	next      domain.EventPublisher
	tracer    trace.Tracer
	published metric.Int64Counter
}

// NewTracingPublisher creates a tracing decorator around next.
func NewTracingPublisher(next domain.EventPublisher) (*TracingPublisher, error) {
	counter, err := otel.Meter(instrumentationName).Int64Counter("pango.events.published",
		metric.WithDescription("Domain events handed to the publisher."),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	return &TracingPublisher{
		next:      next,
		tracer:    otel.Tracer(instrumentationName),
		published: counter,
	}, nil
}

func (p *TracingPublisher) Publish(ctx context.Context, change domain.Change) (err error) {
	eventAttr := attribute.String("event.type", string(change.Event))

	ctx, span := p.tracer.Start(ctx, "EventPublisher.Publish",
		trace.WithAttributes(
			eventAttr,
			attribute.String("listing.id", change.ListingID),
			attribute.String("user.id", change.UserID),
		),
	)
	defer func() { finish(span, err) }()

	if err = p.next.Publish(ctx, change); err != nil {
		return err
	}

	p.published.Add(ctx, 1, metric.WithAttributes(eventAttr))
	return nil
}
