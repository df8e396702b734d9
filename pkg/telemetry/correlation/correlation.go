package correlation

import (
	"context"
	"strings"

	"github.com/oklog/ulid/v2"
	obscontext "github.com/smallbiznis/clans/internal/observability/context"
	"go.opentelemetry.io/otel/trace"
)

const HeaderCorrelationID = "X-Correlation-Id"

// ExtractCorrelationID fetches a correlation ID from the context if present.
func ExtractCorrelationID(ctx context.Context) string {
	return obscontext.CorrelationIDFromContext(ctx)
}

func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return obscontext.WithCorrelationID(ctx, id)
}

// EnsureCorrelationID guarantees a correlation ID on the context, generating a ULID when missing.
func EnsureCorrelationID(ctx context.Context) (context.Context, string) {
	cid := ExtractCorrelationID(ctx)
	if cid == "" {
		cid = ulid.Make().String()
	}
	return ContextWithCorrelationID(ctx, cid), cid
}

// FromHeader accepts an inbound correlation id when it is a well-formed ULID.
func FromHeader(ctx context.Context, value string) (context.Context, string) {
	value = strings.TrimSpace(value)
	if value != "" {
		if id, err := ulid.ParseStrict(value); err == nil {
			return ContextWithCorrelationID(ctx, id.String()), id.String()
		}
	}
	return EnsureCorrelationID(ctx)
}

// ContextWithRemoteSpan seeds the context with a remote span if valid identifiers are provided.
func ContextWithRemoteSpan(ctx context.Context, traceIDHex, spanIDHex string) context.Context {
	if traceIDHex == "" || spanIDHex == "" {
		return ctx
	}

	traceID, err := trace.TraceIDFromHex(traceIDHex)
	if err != nil {
		return ctx
	}
	spanID, err := trace.SpanIDFromHex(spanIDHex)
	if err != nil {
		return ctx
	}

	parent := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled, Remote: true})
	return trace.ContextWithSpanContext(ctx, parent)
}
