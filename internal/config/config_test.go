package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.PresenceTTL)
	assert.Equal(t, 15*time.Second, cfg.SweepInterval)
	assert.Equal(t, "batepapo.events", cfg.AMQPExchange)
	assert.False(t, cfg.DebugRoutes)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PRESENCE_TTL", "30s")
	t.Setenv("SWEEP_INTERVAL", "1m")
	t.Setenv("PORT", "8080")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.PresenceTTL)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
}

func TestLoadRejectsNonPositiveDurations(t *testing.T) {
	t.Setenv("PRESENCE_TTL", "0s")

	_, err := Load()
	require.Error(t, err)
}
