package pipeline_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/airquality"
	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/envelope"
	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/pipeline"
)

// mockProvider is a scriptable Provider with per-call failure hooks and
// fetch counters.
type mockProvider struct {
	stations map[string][]airquality.Station
	sensors  map[string][]airquality.Sensor
	readings map[string]airquality.Reading

	stationsErr error
	sensorErr   map[string]error
	readingErr  map[string]error

	stationCalls atomic.Int32
	sensorCalls  atomic.Int32
	readingCalls atomic.Int32
}

func (m *mockProvider) ListStations(_ context.Context, city string) ([]airquality.Station, error) {
	m.stationCalls.Add(1)
	if m.stationsErr != nil {
		return nil, m.stationsErr
	}
	stations, ok := m.stations[city]
	if !ok {
		return nil, fmt.Errorf("%w: %q", airquality.ErrCityNotFound, city)
	}
	return stations, nil
}

func (m *mockProvider) ListSensors(_ context.Context, stationID string) ([]airquality.Sensor, error) {
	m.sensorCalls.Add(1)
	if err := m.sensorErr[stationID]; err != nil {
		return nil, err
	}
	return m.sensors[stationID], nil
}

func (m *mockProvider) LatestReading(_ context.Context, sensorID string) (airquality.Reading, error) {
	m.readingCalls.Add(1)
	if err := m.readingErr[sensorID]; err != nil {
		return airquality.Reading{}, err
	}
	return m.readings[sensorID], nil
}

func warsawProvider() *mockProvider {
	measuredAt := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	return &mockProvider{
		stations: map[string][]airquality.Station{
			"Warszawa": {
				{ID: "114", City: "Warszawa", Name: "Warszawa-Marszałkowska"},
				{ID: "115", City: "Warszawa", Name: "Warszawa-Komunikacyjna"},
			},
		},
		sensors: map[string][]airquality.Sensor{
			"114": {{ID: "672", StationID: "114", Pollutant: airquality.PollutantPM25}},
			"115": {{ID: "680", StationID: "115", Pollutant: airquality.PollutantPM10}},
		},
		readings: map[string]airquality.Reading{
			"672": {SensorID: "672", Value: ptr(15), MeasuredAt: measuredAt},
			"680": {SensorID: "680", Value: ptr(60), MeasuredAt: measuredAt},
		},
	}
}

func TestCollector_Success(t *testing.T) {
	provider := warsawProvider()
	collector := pipeline.NewCollector(provider, testLogger())

	env := collector.Run(context.Background(), "Warszawa")

	require.True(t, env.OK())
	assert.Equal(t, envelope.StatusSuccess, env.Status)
	assert.Len(t, env.Payload.Stations, 2)
	assert.Len(t, env.Payload.Sensors, 2)
	assert.Len(t, env.Payload.Readings, 2)
	assert.Equal(t, int32(1), provider.stationCalls.Load())
	assert.Equal(t, int32(2), provider.sensorCalls.Load())
}

func TestCollector_StationListFailureAbortsCity(t *testing.T) {
	provider := warsawProvider()
	provider.stationsErr = fmt.Errorf("%w: connection refused", airquality.ErrNetwork)
	collector := pipeline.NewCollector(provider, testLogger())

	env := collector.Run(context.Background(), "Warszawa")

	assert.False(t, env.OK())
	assert.ErrorIs(t, env.Err, airquality.ErrNetwork)
	assert.Equal(t, int32(0), provider.sensorCalls.Load())
}

func TestCollector_UnknownCity(t *testing.T) {
	collector := pipeline.NewCollector(warsawProvider(), testLogger())

	env := collector.Run(context.Background(), "Atlantyda")

	assert.False(t, env.OK())
	assert.ErrorIs(t, env.Err, airquality.ErrCityNotFound)
}

func TestCollector_ReadingFailureContainedAsNullReading(t *testing.T) {
	provider := warsawProvider()
	provider.readingErr = map[string]error{
		"680": fmt.Errorf("%w: timeout", airquality.ErrNetwork),
	}
	collector := pipeline.NewCollector(provider, testLogger())

	env := collector.Run(context.Background(), "Warszawa")

	require.True(t, env.OK())
	assert.Equal(t, envelope.StatusPartial, env.Status)
	assert.NotEmpty(t, env.Notes)

	// The failed sensor still appears, with a null reading.
	require.Len(t, env.Payload.Readings, 2)
	var failed *airquality.Reading
	for i := range env.Payload.Readings {
		if env.Payload.Readings[i].SensorID == "680" {
			failed = &env.Payload.Readings[i]
		}
	}
	require.NotNil(t, failed)
	assert.Nil(t, failed.Value)
}

func TestCollector_SensorListFailureSkipsStationOnly(t *testing.T) {
	provider := warsawProvider()
	provider.sensorErr = map[string]error{
		"114": fmt.Errorf("%w: timeout", airquality.ErrNetwork),
	}
	collector := pipeline.NewCollector(provider, testLogger())

	env := collector.Run(context.Background(), "Warszawa")

	require.True(t, env.OK())
	assert.Equal(t, envelope.StatusPartial, env.Status)
	require.Len(t, env.Payload.Sensors, 1)
	assert.Equal(t, "680", env.Payload.Sensors[0].ID)
}
