package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDBConfig(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "portal")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "portal")

	cfg, err := LoadDBConfig()
	require.NoError(t, err)
	assert.Equal(t, "host=localhost port=5432 user=portal password=secret dbname=portal sslmode=disable", cfg.DSN)

	t.Setenv("DB_HOST", "")
	_, err = LoadDBConfig()
	assert.Error(t, err)
}

func TestConnectDB_StopsRetryingWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	pool, err := ConnectDB(ctx, &DBConfig{DSN: "host=127.0.0.1 port=1 user=portal dbname=portal sslmode=disable connect_timeout=1"}, zap.NewNop())

	assert.Nil(t, pool)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 2*time.Second)
}
