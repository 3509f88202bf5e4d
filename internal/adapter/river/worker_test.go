package river_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"

	riveradapter "github.com/neomorfeo/pango/internal/adapter/river"
)

func TestChangeWorker_LogsChange(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	worker := riveradapter.NewChangeWorker(logger)

	job := &river.Job[riveradapter.ChangeJobArgs]{
		JobRow: &rivertype.JobRow{ID: 7, Attempt: 1, Queue: riveradapter.QueueFavorites},
		Args: riveradapter.ChangeJobArgs{
			Event:     "favorite_removed",
			ListingID: "l-3",
			UserID:    "u9",
		},
	}

	if err := worker.Work(context.Background(), job); err != nil {
		t.Fatalf("Work: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"change published", "event=favorite_removed", "listing_id=l-3", "user_id=u9", "job_id=7"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q: %s", want, out)
		}
	}
	for _, absent := range []string{"status=", "conversation_id="} {
		if strings.Contains(out, absent) {
			t.Errorf("empty %s should not be logged: %s", absent, out)
		}
	}
}

func TestChangeWorker_LogsConversation(t *testing.T) {
	var buf bytes.Buffer
	worker := riveradapter.NewChangeWorker(slog.New(slog.NewTextHandler(&buf, nil)))

	job := &river.Job[riveradapter.ChangeJobArgs]{
		JobRow: &rivertype.JobRow{ID: 11, Attempt: 1, Queue: riveradapter.QueueMessages},
		Args: riveradapter.ChangeJobArgs{
			Event:          "message_sent",
			ListingID:      "l-3",
			UserID:         "u9",
			ConversationID: "c-5",
		},
	}

	if err := worker.Work(context.Background(), job); err != nil {
		t.Fatalf("Work: %v", err)
	}
	for _, want := range []string{"event=message_sent", "conversation_id=c-5", "queue=messages"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("log missing %q: %s", want, buf.String())
		}
	}
}
