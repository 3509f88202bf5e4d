package logging

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fluent/fluent-logger-golang/fluent"

	"github.com/neomorfeo/pango/internal/config"
)

// New builds the application logger. The returned close function flushes and
// disconnects the Fluent Bit client, if one was opened.
func New(w io.Writer, logCfg config.LogConfig, fluentCfg config.FluentConfig) (*slog.Logger, func() error, error) {
	console := NewConsoleHandler(w, logCfg.Format, logCfg.Level)
	if !fluentCfg.Enabled {
		return slog.New(console), func() error { return nil }, nil
	}

	// The client connects lazily and buffers while Fluent Bit is unreachable.
	client, err := fluent.New(fluent.Config{
		FluentHost: fluentCfg.Host,
		FluentPort: fluentCfg.Port,
		TagPrefix:  fluentCfg.TagPrefix,
		Async:      true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating fluent client: %w", err)
	}

	handler := Fanout{console, NewFluentHandler(client, fluentCfg.Level)}
	return slog.New(handler), client.Close, nil
}
