package resilience_test

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqicn/aqicn/internal/provider/resilience"
)

func TestRegistry_RegisterAndGetHealth(t *testing.T) {
	registry := resilience.NewRegistry()
	cfg := resilience.DefaultClientConfig("waqi")
	cfg.Registry = registry
	client := resilience.NewClient(cfg)

	health := registry.GetHealth("waqi")
	require.NotNil(t, health)
	assert.Equal(t, "waqi", health.Name)
	assert.Equal(t, gobreaker.StateClosed, health.CircuitState)
	assert.True(t, health.IsHealthy())
	assert.False(t, health.IsDegraded())
	assert.Equal(t, "waqi", client.Name())

	assert.Nil(t, registry.GetHealth("unknown"))
}

func TestRegistry_RecordOutcomes(t *testing.T) {
	registry := resilience.NewRegistry()
	cfg := resilience.DefaultClientConfig("waqi")
	cfg.Registry = registry
	_ = resilience.NewClient(cfg)

	registry.RecordSuccess("waqi")
	registry.RecordFailure("waqi", errors.New("boom"))
	registry.RecordFailure("not-registered", errors.New("ignored"))

	health := registry.GetHealth("waqi")
	require.NotNil(t, health.LastSuccessAt)
	require.NotNil(t, health.LastFailureAt)
	assert.WithinDuration(t, time.Now(), *health.LastFailureAt, time.Second)
	assert.Equal(t, "boom", health.LastError)
}

func TestRegistry_GetAllHealthSorted(t *testing.T) {
	registry := resilience.NewRegistry()
	for _, name := range []string{"waqi", "nominatim", "backup"} {
		cfg := resilience.DefaultClientConfig(name)
		cfg.Registry = registry
		_ = resilience.NewClient(cfg)
	}

	all := registry.GetAllHealth()
	require.Len(t, all, 3)
	assert.Equal(t, "backup", all[0].Name)
	assert.Equal(t, "nominatim", all[1].Name)
	assert.Equal(t, "waqi", all[2].Name)
}
