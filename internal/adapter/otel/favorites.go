package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/pango/internal/domain"
)

var _ domain.FavoriteRepository = (*TracingFavoriteRepository)(nil)

// TracingFavoriteRepository wraps a domain.FavoriteRepository with a span per call.
type TracingFavoriteRepository struct {
	next   domain.FavoriteRepository
	tracer trace.Tracer
}

// NewTracingFavoriteRepository creates a tracing decorator around next.
func NewTracingFavoriteRepository(next domain.FavoriteRepository) *TracingFavoriteRepository {
	return &TracingFavoriteRepository{
		next:   next,
		tracer: otel.Tracer(instrumentationName),
	}
}

func (r *TracingFavoriteRepository) IDs(ctx context.Context, userID string) (ids []string, err error) {
	ctx, span := r.tracer.Start(ctx, "FavoriteRepository.IDs",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer func() { finish(span, err) }()

	ids, err = r.next.IDs(ctx, userID)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(ids)))
	}
	return ids, err
}

func (r *TracingFavoriteRepository) Add(ctx context.Context, userID, listingID string) (err error) {
	ctx, span := r.tracer.Start(ctx, "FavoriteRepository.Add", favoriteAttributes(userID, listingID))
	defer func() { finish(span, err) }()

	return r.next.Add(ctx, userID, listingID)
}

func (r *TracingFavoriteRepository) Remove(ctx context.Context, userID, listingID string) (err error) {
	ctx, span := r.tracer.Start(ctx, "FavoriteRepository.Remove", favoriteAttributes(userID, listingID))
	defer func() { finish(span, err) }()

	return r.next.Remove(ctx, userID, listingID)
}

func favoriteAttributes(userID, listingID string) trace.SpanStartOption {
	return trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.String("listing.id", listingID),
	)
}
