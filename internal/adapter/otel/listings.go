package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/pango/internal/domain"
)

var _ domain.ListingRepository = (*TracingListingRepository)(nil)

// TracingListingRepository wraps a domain.ListingRepository with a span per call.
type TracingListingRepository struct {
	next   domain.ListingRepository
	tracer trace.Tracer
}

// NewTracingListingRepository creates a tracing decorator around next.
func NewTracingListingRepository(next domain.ListingRepository) *TracingListingRepository {
	return &TracingListingRepository{
		next:   next,
		tracer: otel.Tracer(instrumentationName),
	}
}

func (r *TracingListingRepository) Create(ctx context.Context, listing domain.Listing) (err error) {
	ctx, span := r.tracer.Start(ctx, "ListingRepository.Create",
		trace.WithAttributes(
			attribute.String("listing.id", listing.ID),
			attribute.String("listing.owner_id", listing.OwnerID),
			attribute.String("listing.property_type", listing.PropertyType),
		),
	)
	defer func() { finish(span, err) }()

	return r.next.Create(ctx, listing)
}

func (r *TracingListingRepository) GetByID(ctx context.Context, id string) (listing domain.Listing, err error) {
	ctx, span := r.tracer.Start(ctx, "ListingRepository.GetByID",
		trace.WithAttributes(attribute.String("listing.id", id)),
	)
	defer func() { finish(span, err) }()

	return r.next.GetByID(ctx, id)
}

func (r *TracingListingRepository) List(ctx context.Context, filter domain.ListFilter) (listings []domain.Listing, err error) {
	ctx, span := r.tracer.Start(ctx, "ListingRepository.List",
		trace.WithAttributes(
			attribute.Int("filter.limit", filter.Limit),
			attribute.Int("filter.offset", filter.Offset),
			attribute.Int("filter.ids", len(filter.IDs)),
		),
	)
	defer func() { finish(span, err) }()

	if filter.Status != nil {
		span.SetAttributes(attribute.String("filter.status", string(*filter.Status)))
	}
	if filter.OwnerID != "" {
		span.SetAttributes(attribute.String("filter.owner_id", filter.OwnerID))
	}

	listings, err = r.next.List(ctx, filter)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(listings)))
	}
	return listings, err
}

func (r *TracingListingRepository) Update(ctx context.Context, listing domain.Listing) (err error) {
	ctx, span := r.tracer.Start(ctx, "ListingRepository.Update",
		trace.WithAttributes(
			attribute.String("listing.id", listing.ID),
			attribute.String("listing.status", string(listing.Status)),
		),
	)
	defer func() { finish(span, err) }()

	return r.next.Update(ctx, listing)
}
