package http

import (
	"errors"
	"log/slog"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/pango/internal/domain"
)

// toHumaError translates domain errors to Huma HTTP errors.
func toHumaError(err error) error {
	if errors.Is(err, domain.ErrListingNotFound) {
		return huma.Error404NotFound("listing not found")
	}

	if errors.Is(err, domain.ErrConversationNotFound) {
		return huma.Error404NotFound("conversation not found")
	}

	if errors.Is(err, domain.ErrNotListingOwner) || errors.Is(err, domain.ErrNotParticipant) {
		return huma.Error403Forbidden(err.Error())
	}

	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return huma.Error422UnprocessableEntity("validation failed", &huma.ErrorDetail{
			Location: "body." + vErr.Field,
			Message:  vErr.Reason,
		})
	}

	var trErr *domain.TransitionError
	if errors.As(err, &trErr) {
		return huma.Error409Conflict(trErr.Error())
	}

	slog.Error("request failed", "error", err)
	return huma.Error500InternalServerError("internal server error")
}
