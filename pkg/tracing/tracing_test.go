package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInitTracer OTLP导出是惰性连接的，Collector不可达也应初始化成功
func TestInitTracer(t *testing.T) {
	shutdown, err := InitTracer("bookmarket-test", "localhost:4317")
	require.NoError(t, err)
	defer func() { _ = shutdown(context.Background()) }()
}

// TestStartSpan Span创建与父子关系
func TestStartSpan(t *testing.T) {
	shutdown, err := InitTracer("bookmarket-test", "localhost:4317")
	require.NoError(t, err)
	defer func() { _ = shutdown(context.Background()) }()

	ctx, parent := StartSpan(context.Background(), "bookmarket-test", "CreateOrder")
	defer parent.End()

	require.True(t, parent.SpanContext().IsValid())

	_, child := StartSpan(ctx, "bookmarket-test", "BatchTransition")
	defer child.End()

	// 同一条Trace
	assert.Equal(t,
		parent.SpanContext().TraceID(),
		child.SpanContext().TraceID(),
	)
}

// TestExtractIDs TraceID/SpanID提取
func TestExtractIDs(t *testing.T) {
	shutdown, err := InitTracer("bookmarket-test", "localhost:4317")
	require.NoError(t, err)
	defer func() { _ = shutdown(context.Background()) }()

	// 无Span的Context
	assert.Empty(t, ExtractTraceID(context.Background()))
	assert.Empty(t, ExtractSpanID(context.Background()))

	ctx, span := StartSpan(context.Background(), "bookmarket-test", "op")
	defer span.End()

	assert.Len(t, ExtractTraceID(ctx), 32)
	assert.Len(t, ExtractSpanID(ctx), 16)
}
