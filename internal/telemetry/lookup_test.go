package telemetry_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqicn/aqicn/internal/telemetry"
)

func TestLookupMetrics_RecordLookup(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := telemetry.NewLookupMetrics(reg)
	require.NoError(t, err)

	m.RecordLookup("current", "ok", 120*time.Millisecond)
	m.RecordLookup("current", "ok", 80*time.Millisecond)
	m.RecordLookup("forecast", "location_not_found", 10*time.Millisecond)

	expected := `
# HELP aqicn_lookups_total Air quality lookups by kind and outcome.
# TYPE aqicn_lookups_total counter
aqicn_lookups_total{kind="current",outcome="ok"} 2
aqicn_lookups_total{kind="forecast",outcome="location_not_found"} 1
`
	err = testutil.GatherAndCompare(reg, strings.NewReader(expected), "aqicn_lookups_total")
	assert.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "aqicn_lookup_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestLookupMetrics_Lint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := telemetry.NewLookupMetrics(reg)
	require.NoError(t, err)

	m.RecordLookup("current", "fetch_failed", time.Millisecond)

	problems, err := testutil.GatherAndLint(reg)
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestLookupMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := telemetry.NewLookupMetrics(reg)
	require.NoError(t, err)

	_, err = telemetry.NewLookupMetrics(reg)
	assert.Error(t, err)
}

func TestLookupMetrics_RecordProviderCall(t *testing.T) {
	m, err := telemetry.NewLookupMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		m.RecordProviderCall("waqi", "feed", 50*time.Millisecond, nil)
		m.RecordProviderCall("nominatim", "geocode", time.Second, errors.New("unavailable"))
	})
}
