package utils

import (
	"context"
	"testing"

	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"gotest.tools/v3/assert"
)

func TestNewResourceKeepsServiceName(t *testing.T) {
	res, err := newResource("simple-blog")
	assert.NilError(t, err)

	name, ok := res.Set().Value(semconv.ServiceNameKey)
	assert.Assert(t, ok)
	assert.Equal(t, name.AsString(), "simple-blog")
}

func TestInitTracingWithoutEndpointIsNoop(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), "", "simple-blog")
	assert.NilError(t, err)
	assert.NilError(t, shutdown(context.Background()))
}
