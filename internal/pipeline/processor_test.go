package pipeline_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/airquality"
	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/envelope"
	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/pipeline"
)

func ptr(v float64) *float64 { return &v }

func testLogger() zerolog.Logger { return zerolog.New(io.Discard) }

func rawCityData() airquality.RawCityData {
	measuredAt := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	return airquality.RawCityData{
		City: "Warszawa",
		Stations: []airquality.Station{
			{ID: "114", City: "Warszawa", Name: "Warszawa-Marszałkowska"},
			{ID: "115", City: "Warszawa", Name: "Warszawa-Komunikacyjna"},
		},
		Sensors: []airquality.Sensor{
			{ID: "672", StationID: "114", Pollutant: airquality.PollutantPM25},
			{ID: "680", StationID: "115", Pollutant: airquality.PollutantPM25},
			{ID: "673", StationID: "114", Pollutant: airquality.PollutantPM10},
		},
		Readings: []airquality.Reading{
			{SensorID: "672", Value: ptr(15), MeasuredAt: measuredAt},
			{SensorID: "680", Value: ptr(22), MeasuredAt: measuredAt.Add(-time.Hour)},
			{SensorID: "673", Value: ptr(60), MeasuredAt: measuredAt},
		},
	}
}

func findRecord(t *testing.T, records []airquality.PollutantRecord, p airquality.Pollutant) airquality.PollutantRecord {
	t.Helper()
	for _, record := range records {
		if record.Pollutant == p {
			return record
		}
	}
	t.Fatalf("no record for %s", p)
	return airquality.PollutantRecord{}
}

func TestProcessor_MostRecentReadingWins(t *testing.T) {
	processor := pipeline.NewProcessor(testLogger())

	env := processor.Run(context.Background(), rawCityData())
	require.True(t, env.OK())
	assert.Equal(t, envelope.StatusSuccess, env.Status)
	require.Len(t, env.Payload, 2)

	pm25 := findRecord(t, env.Payload, airquality.PollutantPM25)
	assert.True(t, pm25.Available)
	assert.Equal(t, 15.0, pm25.Value) // sensor 672 is one hour newer than 680
	assert.Equal(t, "114", pm25.StationID)
}

func TestProcessor_TieBreakBySmallestStationID(t *testing.T) {
	measuredAt := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	raw := airquality.RawCityData{
		City: "Warszawa",
		Stations: []airquality.Station{
			{ID: "200", City: "Warszawa"},
			{ID: "114", City: "Warszawa"},
		},
		Sensors: []airquality.Sensor{
			{ID: "b", StationID: "200", Pollutant: airquality.PollutantPM10},
			{ID: "a", StationID: "114", Pollutant: airquality.PollutantPM10},
		},
		Readings: []airquality.Reading{
			{SensorID: "b", Value: ptr(90), MeasuredAt: measuredAt},
			{SensorID: "a", Value: ptr(40), MeasuredAt: measuredAt},
		},
	}

	processor := pipeline.NewProcessor(testLogger())

	// The tie-break is deterministic across runs regardless of input order.
	for i := 0; i < 20; i++ {
		env := processor.Run(context.Background(), raw)
		require.True(t, env.OK())
		pm10 := findRecord(t, env.Payload, airquality.PollutantPM10)
		assert.Equal(t, "114", pm10.StationID)
		assert.Equal(t, 40.0, pm10.Value)
	}
}

func TestProcessor_AllNullYieldsUnavailableRecord(t *testing.T) {
	raw := airquality.RawCityData{
		City:     "Gdańsk",
		Stations: []airquality.Station{{ID: "730", City: "Gdańsk"}},
		Sensors: []airquality.Sensor{
			{ID: "900", StationID: "730", Pollutant: airquality.PollutantSO2},
		},
		Readings: []airquality.Reading{
			{SensorID: "900", Value: nil, MeasuredAt: time.Now()},
		},
	}

	env := pipeline.NewProcessor(testLogger()).Run(context.Background(), raw)
	require.True(t, env.OK())
	assert.Equal(t, envelope.StatusPartial, env.Status)

	require.Len(t, env.Payload, 1)
	assert.False(t, env.Payload[0].Available)
	assert.Equal(t, airquality.PollutantSO2, env.Payload[0].Pollutant)
}

func TestProcessor_CorruptReadingsRejected(t *testing.T) {
	measuredAt := time.Now()
	raw := airquality.RawCityData{
		City:     "Kraków",
		Stations: []airquality.Station{{ID: "400", City: "Kraków"}},
		Sensors: []airquality.Sensor{
			{ID: "690", StationID: "400", Pollutant: airquality.PollutantPM25},
			{ID: "691", StationID: "400", Pollutant: airquality.PollutantPM10},
		},
		Readings: []airquality.Reading{
			// Negative concentration is corrupt upstream data.
			{SensorID: "690", Value: ptr(-4), MeasuredAt: measuredAt},
			{SensorID: "691", Value: ptr(30), MeasuredAt: measuredAt},
		},
	}

	env := pipeline.NewProcessor(testLogger()).Run(context.Background(), raw)
	require.True(t, env.OK())
	assert.Equal(t, envelope.StatusPartial, env.Status)

	pm25 := findRecord(t, env.Payload, airquality.PollutantPM25)
	assert.False(t, pm25.Available)

	pm10 := findRecord(t, env.Payload, airquality.PollutantPM10)
	assert.True(t, pm10.Available)
	assert.Equal(t, 30.0, pm10.Value)
}

func TestProcessor_NoStationsIsError(t *testing.T) {
	env := pipeline.NewProcessor(testLogger()).Run(context.Background(), airquality.RawCityData{City: "Łódź"})

	assert.False(t, env.OK())
	assert.ErrorIs(t, env.Err, airquality.ErrNoStations)
}

func TestProcessor_RecordsInCanonicalOrder(t *testing.T) {
	env := pipeline.NewProcessor(testLogger()).Run(context.Background(), rawCityData())
	require.True(t, env.OK())
	require.Len(t, env.Payload, 2)
	assert.Equal(t, airquality.PollutantPM25, env.Payload[0].Pollutant)
	assert.Equal(t, airquality.PollutantPM10, env.Payload[1].Pollutant)
}
