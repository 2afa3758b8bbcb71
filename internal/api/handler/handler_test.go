package handler_test

import (
	"context"
	"sync"

	"github.com/aqicn/aqicn/internal/airquality"
	"github.com/aqicn/aqicn/internal/geocode"
)

// mockLooker returns canned reports and records the queries it received.
type mockLooker struct {
	mu          sync.Mutex
	queries     []geocode.Query
	currentErr  error
	forecastErr error
}

func (m *mockLooker) record(q geocode.Query) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, q)
	if q.IsEmpty() {
		return geocode.ErrEmptyQuery
	}
	return nil
}

func (m *mockLooker) Current(_ context.Context, q geocode.Query) (*airquality.Report, error) {
	if err := m.record(q); err != nil {
		return nil, err
	}
	if m.currentErr != nil {
		return nil, m.currentErr
	}
	return &airquality.Report{
		Address:           "Lincoln, Nebraska, United States",
		Sensor:            "Lincoln",
		AQI:               airquality.Some(42),
		AQICategory:       airquality.AQIGood,
		DominantPollutant: "pm25",
		PM25:              airquality.Some(10),
		UVICategory:       airquality.NotAvailable,
		Temperature:       airquality.Some(68),
		WindCardinal:      airquality.NotAvailable,
	}, nil
}

func (m *mockLooker) Forecast(_ context.Context, q geocode.Query) (*airquality.Forecast, error) {
	if err := m.record(q); err != nil {
		return nil, err
	}
	if m.forecastErr != nil {
		return nil, m.forecastErr
	}
	return &airquality.Forecast{
		Address: "Lincoln, Nebraska, United States",
		Sensor:  "Lincoln",
		Days: []airquality.ForecastDay{
			{Day: "2024-06-01", O3: airquality.Some(20), PM25: airquality.Some(30)},
		},
	}, nil
}

func (m *mockLooker) calls() []geocode.Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]geocode.Query(nil), m.queries...)
}
