package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/pango/internal/domain"
)

var _ domain.ConversationRepository = (*TracingConversationRepository)(nil)

// TracingConversationRepository wraps a domain.ConversationRepository with a span per call.
type TracingConversationRepository struct {
	next   domain.ConversationRepository
	tracer trace.Tracer
}

// NewTracingConversationRepository creates a tracing decorator around next.
func NewTracingConversationRepository(next domain.ConversationRepository) *TracingConversationRepository {
	return &TracingConversationRepository{
		next:   next,
		tracer: otel.Tracer(instrumentationName),
	}
}

func (r *TracingConversationRepository) Create(ctx context.Context, c domain.Conversation) (err error) {
	ctx, span := r.tracer.Start(ctx, "ConversationRepository.Create",
		trace.WithAttributes(
			attribute.String("conversation.id", c.ID),
			attribute.String("listing.id", c.ListingID),
		),
	)
	defer func() { finish(span, err) }()

	return r.next.Create(ctx, c)
}

func (r *TracingConversationRepository) GetByID(ctx context.Context, id string) (c domain.Conversation, err error) {
	ctx, span := r.tracer.Start(ctx, "ConversationRepository.GetByID", conversationAttribute(id))
	defer func() { finish(span, err) }()

	return r.next.GetByID(ctx, id)
}

func (r *TracingConversationRepository) FindByListing(ctx context.Context, listingID, renterID string) (c domain.Conversation, err error) {
	ctx, span := r.tracer.Start(ctx, "ConversationRepository.FindByListing",
		trace.WithAttributes(
			attribute.String("listing.id", listingID),
			attribute.String("user.id", renterID),
		),
	)
	defer func() { finish(span, err) }()

	return r.next.FindByListing(ctx, listingID, renterID)
}

func (r *TracingConversationRepository) ListForUser(ctx context.Context, userID string) (convs []domain.Conversation, err error) {
	ctx, span := r.tracer.Start(ctx, "ConversationRepository.ListForUser",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer func() { finish(span, err) }()

	convs, err = r.next.ListForUser(ctx, userID)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(convs)))
	}
	return convs, err
}

func (r *TracingConversationRepository) AddMessage(ctx context.Context, m domain.Message) (err error) {
	ctx, span := r.tracer.Start(ctx, "ConversationRepository.AddMessage",
		trace.WithAttributes(
			attribute.String("conversation.id", m.ConversationID),
			attribute.String("message.id", m.ID),
		),
	)
	defer func() { finish(span, err) }()

	return r.next.AddMessage(ctx, m)
}

func (r *TracingConversationRepository) Messages(ctx context.Context, conversationID string) (msgs []domain.Message, err error) {
	ctx, span := r.tracer.Start(ctx, "ConversationRepository.Messages", conversationAttribute(conversationID))
	defer func() { finish(span, err) }()

	msgs, err = r.next.Messages(ctx, conversationID)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(msgs)))
	}
	return msgs, err
}

func (r *TracingConversationRepository) MarkRead(ctx context.Context, conversationID, readerID string) (err error) {
	ctx, span := r.tracer.Start(ctx, "ConversationRepository.MarkRead",
		trace.WithAttributes(
			attribute.String("conversation.id", conversationID),
			attribute.String("user.id", readerID),
		),
	)
	defer func() { finish(span, err) }()

	return r.next.MarkRead(ctx, conversationID, readerID)
}

func (r *TracingConversationRepository) SetParticipantName(ctx context.Context, conversationID, userID, name string) (err error) {
	ctx, span := r.tracer.Start(ctx, "ConversationRepository.SetParticipantName",
		trace.WithAttributes(
			attribute.String("conversation.id", conversationID),
			attribute.String("user.id", userID),
		),
	)
	defer func() { finish(span, err) }()

	return r.next.SetParticipantName(ctx, conversationID, userID, name)
}

func conversationAttribute(id string) trace.SpanStartOption {
	return trace.WithAttributes(attribute.String("conversation.id", id))
}
