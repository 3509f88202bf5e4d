package http

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"

	"github.com/neomorfeo/pango/internal/domain"
)

// ParticipantResponse is the other side of a conversation.
type ParticipantResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name" doc:"Display name, the user ID when none is known"`
}

// MessageResponse is the API representation of a chat message.
type MessageResponse struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	SenderID       string `json:"sender_id"`
	Text           string `json:"text"`
	IsMine         bool   `json:"is_mine" doc:"Whether the calling user sent it"`
	Read           bool   `json:"read" doc:"Whether the recipient has opened it"`
	SentAt         string `json:"sent_at" doc:"Send timestamp (RFC 3339)"`
}

// ConversationResponse is the API representation of a conversation as seen
// by the calling user.
type ConversationResponse struct {
	ID           string              `json:"id"`
	ListingID    string              `json:"listing_id"`
	ListingTitle string              `json:"listing_title"`
	Recipient    ParticipantResponse `json:"recipient"`
	LastMessage  *MessageResponse    `json:"last_message,omitempty"`
	Unread       int                 `json:"unread" doc:"Messages from the recipient the caller has not read"`
	CreatedAt    string              `json:"created_at"`
	UpdatedAt    string              `json:"updated_at" doc:"Time of the latest message"`
}

// MessageEvent is streamed to both participants for every new message.
type MessageEvent struct {
	ListingID string          `json:"listing_id"`
	Message   MessageResponse `json:"message"`
}

type StartConversationInput struct {
	UserID   string `header:"X-User-ID" required:"true" minLength:"1"`
	UserName string `header:"X-User-Name" required:"false" maxLength:"100" doc:"Display name shown to the other side"`
	Body     struct {
		ListingID string `json:"listing_id" minLength:"1" doc:"Listing to ask about"`
	}
}

type ConversationOutput struct {
	Status int
	Body   ConversationResponse
}

type ListConversationsInput struct {
	UserID string `header:"X-User-ID" required:"true" minLength:"1"`
	Query  string `query:"q" required:"false" maxLength:"200" doc:"Match against the other participant's name or the listing title"`
}

type ListConversationsOutput struct {
	Body []ConversationResponse
}

type ConversationInput struct {
	UserID string `header:"X-User-ID" required:"true" minLength:"1"`
	ID     string `path:"id" doc:"Conversation ID"`
}

type ListMessagesOutput struct {
	Body []MessageResponse
}

type SendMessageInput struct {
	UserID   string `header:"X-User-ID" required:"true" minLength:"1"`
	UserName string `header:"X-User-Name" required:"false" maxLength:"100"`
	ID       string `path:"id" doc:"Conversation ID"`
	Body     struct {
		Text string `json:"text" minLength:"1" maxLength:"2000"`
	}
}

type MessageOutput struct {
	Body MessageResponse
}

func (h *handlers) registerConversations(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "start-conversation",
		Method:      http.MethodPost,
		Path:        "/api/v1/conversations",
		Summary:     "Contact a listing's owner",
		Description: "Returns 201 with a new conversation, or 200 with the caller's existing one for the listing.",
		Tags:        []string{"Messages"},
	}, func(ctx context.Context, input *StartConversationInput) (*ConversationOutput, error) {
		renter := domain.Participant{UserID: input.UserID, Name: input.UserName}
		c, created, err := h.conversations.Start(ctx, renter, input.Body.ListingID)
		if err != nil {
			return nil, toHumaError(err)
		}
		out := &ConversationOutput{Status: http.StatusOK, Body: toConversationResponse(c, input.UserID)}
		if created {
			out.Status = http.StatusCreated
		}
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-conversations",
		Method:      http.MethodGet,
		Path:        "/api/v1/conversations",
		Summary:     "List the caller's conversations, latest activity first",
		Tags:        []string{"Messages"},
	}, func(ctx context.Context, input *ListConversationsInput) (*ListConversationsOutput, error) {
		convs, err := h.conversations.List(ctx, input.UserID, input.Query)
		if err != nil {
			return nil, toHumaError(err)
		}
		out := make([]ConversationResponse, len(convs))
		for i, c := range convs {
			out[i] = toConversationResponse(c, input.UserID)
		}
		return &ListConversationsOutput{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-conversation",
		Method:      http.MethodGet,
		Path:        "/api/v1/conversations/{id}",
		Summary:     "Get a conversation",
		Tags:        []string{"Messages"},
	}, func(ctx context.Context, input *ConversationInput) (*ConversationOutput, error) {
		c, err := h.conversations.Get(ctx, input.UserID, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ConversationOutput{Status: http.StatusOK, Body: toConversationResponse(c, input.UserID)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-messages",
		Method:      http.MethodGet,
		Path:        "/api/v1/conversations/{id}/messages",
		Summary:     "Read a conversation",
		Description: "Returns messages oldest first and marks the ones sent to the caller as read.",
		Tags:        []string{"Messages"},
	}, func(ctx context.Context, input *ConversationInput) (*ListMessagesOutput, error) {
		msgs, err := h.conversations.Messages(ctx, input.UserID, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		out := make([]MessageResponse, len(msgs))
		for i, m := range msgs {
			out[i] = toMessageResponse(m, input.UserID)
		}
		return &ListMessagesOutput{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "send-message",
		Method:        http.MethodPost,
		Path:          "/api/v1/conversations/{id}/messages",
		Summary:       "Send a message",
		Tags:          []string{"Messages"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *SendMessageInput) (*MessageOutput, error) {
		sender := domain.Participant{UserID: input.UserID, Name: input.UserName}
		msg, err := h.conversations.Send(ctx, sender, input.ID, input.Body.Text)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &MessageOutput{Body: toMessageResponse(msg, input.UserID)}, nil
	})

	sse.Register(api, huma.Operation{
		OperationID: "stream-messages",
		Method:      http.MethodGet,
		Path:        "/api/v1/conversations/events",
		Summary:     "Stream new messages in the caller's conversations",
		Tags:        []string{"Messages"},
	}, map[string]any{
		"message": MessageEvent{},
	}, func(ctx context.Context, input *UserInput, send sse.Sender) {
		updates, cancel := h.conversations.Subscribe(input.UserID)
		defer cancel()

		for {
			select {
			case <-ctx.Done():
				return
			case u, ok := <-updates:
				if !ok {
					return
				}
				if err := send.Data(MessageEvent{
					ListingID: u.ListingID,
					Message:   toMessageResponse(u.Message, input.UserID),
				}); err != nil {
					return
				}
			}
		}
	})
}

func toConversationResponse(c domain.Conversation, viewer string) ConversationResponse {
	recipient := c.Recipient(viewer)
	resp := ConversationResponse{
		ID:           c.ID,
		ListingID:    c.ListingID,
		ListingTitle: c.ListingTitle,
		Recipient: ParticipantResponse{
			UserID: recipient.UserID,
			Name:   recipient.DisplayName(),
		},
		Unread:    c.Unread,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
	if c.LastMessage != nil {
		last := toMessageResponse(*c.LastMessage, viewer)
		resp.LastMessage = &last
	}
	return resp
}

func toMessageResponse(m domain.Message, viewer string) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Text:           m.Text,
		IsMine:         m.SenderID == viewer,
		Read:           m.Read,
		SentAt:         m.SentAt.Format(time.RFC3339),
	}
}
