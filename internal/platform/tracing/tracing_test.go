package tracing

import (
	"context"
	"testing"

	"github.com/phrazzld/secondchance-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_DisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TracingConfig{})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_WithEndpoint(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TracingConfig{
		Endpoint:    "http://127.0.0.1:4318",
		ServiceName: "secondchance-test",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Nothing was recorded, so shutting down has nothing to flush.
	_ = shutdown(ctx)
}
