package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Span times one multi-step operation (an upload, an avatar review) and tags every
// log line emitted inside it with the trace and span identifiers.
type Span struct {
	name    string
	traceID string
	spanID  string
	logger  *slog.Logger
	start   time.Time
}

// StartSpan derives a child span from ctx. The trace id is inherited from a parent
// span, else taken from the request id, else generated.
func StartSpan(ctx context.Context, name string) (context.Context, *Span) {
	if ctx == nil {
		ctx = context.Background()
	}

	parent, _ := ctx.Value(spanKey).(*Span)

	traceID := RequestIDFromContext(ctx)
	if parent != nil {
		traceID = parent.traceID
	}
	if traceID == "" {
		traceID = uuid.NewString()
	}

	span := &Span{
		name:    name,
		traceID: traceID,
		spanID:  uuid.NewString(),
		start:   time.Now(),
	}

	logger := FromContext(ctx).With(
		slog.String("trace_id", traceID),
		slog.String("span_id", span.spanID),
		slog.String("span_name", name),
	)
	if parent != nil {
		logger = logger.With(slog.String("parent_span_id", parent.spanID))
	}
	span.logger = logger

	ctx = WithLogger(ctx, logger)
	ctx = context.WithValue(ctx, spanKey, span)
	return ctx, span
}

// TraceID returns the trace identifier shared by the span and its children.
func (s *Span) TraceID() string {
	if s == nil {
		return ""
	}
	return s.traceID
}

// End emits a completion entry; a non-nil err is logged at error level.
func (s *Span) End(err error) {
	if s == nil {
		return
	}
	elapsed := slog.Duration("duration", time.Since(s.start))
	if err != nil {
		s.logger.Error("span failed", elapsed, slog.String("error", err.Error()))
		return
	}
	s.logger.Info("span completed", elapsed)
}
