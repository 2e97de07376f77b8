package testutils

import (
	"context"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/alchemorsel/nutrimatch/internal/infrastructure/config"
)

// SetupRedis starts a disposable Redis container and returns a config
// pointing at it. The container is terminated when the test ends.
func SetupRedis(t *testing.T) config.RedisConfig {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForAll(
				wait.ForLog("Ready to accept connections").
					WithStartupTimeout(30*time.Second),
				wait.ForListeningPort("6379/tcp"),
			),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start Redis container")

	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, nat.Port("6379/tcp"))
	require.NoError(t, err)

	return config.RedisConfig{
		Enabled:      true,
		Host:         host,
		Port:         port.Int(),
		MaxRetries:   1,
		PoolSize:     5,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		KeyPrefix:    "test:",
	}
}
