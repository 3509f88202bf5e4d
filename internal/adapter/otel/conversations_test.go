package otel_test

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/codes"

	adapter "github.com/neomorfeo/pango/internal/adapter/otel"
	"github.com/neomorfeo/pango/internal/domain"
)

type mockConversationRepo struct {
	conversations []domain.Conversation
	messages      []domain.Message
	err           error
}

func (m *mockConversationRepo) Create(context.Context, domain.Conversation) error { return m.err }
func (m *mockConversationRepo) GetByID(context.Context, string) (domain.Conversation, error) {
	return domain.Conversation{}, m.err
}
func (m *mockConversationRepo) FindByListing(context.Context, string, string) (domain.Conversation, error) {
	return domain.Conversation{}, m.err
}
func (m *mockConversationRepo) ListForUser(context.Context, string) ([]domain.Conversation, error) {
	return m.conversations, m.err
}
func (m *mockConversationRepo) AddMessage(context.Context, domain.Message) error { return m.err }
func (m *mockConversationRepo) Messages(context.Context, string) ([]domain.Message, error) {
	return m.messages, m.err
}
func (m *mockConversationRepo) MarkRead(context.Context, string, string) error { return m.err }
func (m *mockConversationRepo) SetParticipantName(context.Context, string, string, string) error {
	return m.err
}

func TestTracingConversationRepository_ListForUser(t *testing.T) {
	exporter := setupTestTracer(t)
	repo := adapter.NewTracingConversationRepository(&mockConversationRepo{
		conversations: []domain.Conversation{{ID: "c-1"}, {ID: "c-2"}},
	})

	if _, err := repo.ListForUser(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	span := onlySpan(t, exporter)
	if span.Name != "ConversationRepository.ListForUser" {
		t.Errorf("span name = %q", span.Name)
	}
	assertAttribute(t, span, "user.id", "u1")
	assertAttribute(t, span, "result.count", "2")
}

func TestTracingConversationRepository_AddMessage(t *testing.T) {
	exporter := setupTestTracer(t)
	repo := adapter.NewTracingConversationRepository(&mockConversationRepo{})

	err := repo.AddMessage(context.Background(), domain.Message{ID: "m-1", ConversationID: "c-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	span := onlySpan(t, exporter)
	if span.Name != "ConversationRepository.AddMessage" {
		t.Errorf("span name = %q", span.Name)
	}
	assertAttribute(t, span, "conversation.id", "c-1")
	assertAttribute(t, span, "message.id", "m-1")
}

func TestTracingConversationRepository_RecordsNotFound(t *testing.T) {
	exporter := setupTestTracer(t)
	repo := adapter.NewTracingConversationRepository(&mockConversationRepo{err: domain.ErrConversationNotFound})

	if _, err := repo.GetByID(context.Background(), "missing"); err != domain.ErrConversationNotFound {
		t.Fatalf("got %v, want ErrConversationNotFound", err)
	}

	span := onlySpan(t, exporter)
	if span.Status.Code != codes.Error {
		t.Errorf("span status = %v, want %v", span.Status.Code, codes.Error)
	}
	assertAttribute(t, span, "conversation.id", "missing")
}
