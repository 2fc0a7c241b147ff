// Package observability configures structured logging for cantus.
package observability

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

const attrService = "service"

// serviceName is the value of the service attribute on every record.
const serviceName = "cantus"

// Config selects the logging level and output encoding.
type Config struct {
	// Level is the minimum level emitted.
	Level slog.Level
	// JSON selects JSON encoding; the default is human-readable text.
	JSON bool
}

// ParseLevel maps a level name to its slog level. Unknown names map to
// info.
func ParseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger writing to stderr. The service
// attribute is pre-attached so it survives WithGroup.
func NewLogger(cfg Config) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: cfg.Level}

	var inner slog.Handler
	if cfg.JSON {
		inner = slog.NewJSONHandler(os.Stderr, handlerOpts)
	} else {
		inner = slog.NewTextHandler(os.Stderr, handlerOpts)
	}

	return slog.New(NewServiceHandler(inner, serviceName))
}

// ServiceHandler is an [slog.Handler] that pre-attaches a service
// attribute so it stays at the top level even when groups are used.
type ServiceHandler struct {
	inner slog.Handler
}

// NewServiceHandler wraps an [slog.Handler] with the service attribute.
func NewServiceHandler(inner slog.Handler, service string) *ServiceHandler {
	return &ServiceHandler{
		inner: inner.WithAttrs([]slog.Attr{slog.String(attrService, service)}),
	}
}

// Enabled delegates to the inner handler.
func (sh *ServiceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return sh.inner.Enabled(ctx, level)
}

// Handle delegates to the inner handler.
func (sh *ServiceHandler) Handle(ctx context.Context, record slog.Record) error {
	err := sh.inner.Handle(ctx, record)
	if err != nil {
		return fmt.Errorf("service handler: %w", err)
	}

	return nil
}

// WithAttrs returns a new ServiceHandler with additional attributes on
// the inner handler.
func (sh *ServiceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ServiceHandler{inner: sh.inner.WithAttrs(attrs)}
}

// WithGroup returns a new ServiceHandler with a group prefix on the
// inner handler.
func (sh *ServiceHandler) WithGroup(name string) slog.Handler {
	return &ServiceHandler{inner: sh.inner.WithGroup(name)}
}
