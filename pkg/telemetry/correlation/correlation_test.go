package correlation

import (
	"context"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestEnsureCorrelationIDGeneratesOnce(t *testing.T) {
	ctx, first := EnsureCorrelationID(context.Background())
	require.NotEmpty(t, first)
	_, err := ulid.ParseStrict(first)
	require.NoError(t, err)

	_, second := EnsureCorrelationID(ctx)
	assert.Equal(t, first, second)
}

func TestFromHeader(t *testing.T) {
	valid := ulid.Make().String()
	ctx, id := FromHeader(context.Background(), " "+valid+" ")
	assert.Equal(t, valid, id)
	assert.Equal(t, valid, ExtractCorrelationID(ctx))

	_, generated := FromHeader(context.Background(), "not-a-ulid")
	assert.NotEqual(t, "not-a-ulid", generated)
	assert.NotEmpty(t, generated)
}

func TestContextWithRemoteSpan(t *testing.T) {
	ctx := ContextWithRemoteSpan(context.Background(), "4bf92f3577b34da6a3ce929d0e0e4736", "00f067aa0ba902b7")
	sc := trace.SpanContextFromContext(ctx)
	assert.True(t, sc.IsValid())
	assert.True(t, sc.IsRemote())

	unchanged := ContextWithRemoteSpan(context.Background(), "zz", "00f067aa0ba902b7")
	assert.False(t, trace.SpanContextFromContext(unchanged).IsValid())
}
