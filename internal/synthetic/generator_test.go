package synthetic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/airquality"
	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/synthetic"
)

func TestGenerator_KnownCityUsesFixtures(t *testing.T) {
	gen := synthetic.NewGeneratorWithSeed(42)

	raw := gen.Generate("Warszawa")

	assert.Equal(t, "Warszawa", raw.City)
	require.Len(t, raw.Stations, 2)
	assert.Equal(t, "114", raw.Stations[0].ID)
	assert.Equal(t, "115", raw.Stations[1].ID)
	assert.Len(t, raw.Sensors, 5)
	assert.Len(t, raw.Readings, 5)
}

func TestGenerator_ReadingsAreWithinPlausibleRanges(t *testing.T) {
	gen := synthetic.NewGeneratorWithSeed(7)

	for _, city := range []string{"Warszawa", "Kraków", "Gdańsk"} {
		raw := gen.Generate(city)

		pollutantBySensor := make(map[string]airquality.Pollutant)
		for _, sensor := range raw.Sensors {
			pollutantBySensor[sensor.ID] = sensor.Pollutant
		}

		for _, reading := range raw.Readings {
			require.NotNil(t, reading.Value)
			assert.GreaterOrEqual(t, *reading.Value, 0.0)
			assert.False(t, reading.MeasuredAt.IsZero())
			assert.True(t, pollutantBySensor[reading.SensorID].Valid())
		}
	}
}

func TestGenerator_UnknownCityNeverFails(t *testing.T) {
	gen := synthetic.NewGeneratorWithSeed(1)

	raw := gen.Generate("Atlantyda")

	require.Len(t, raw.Stations, 1)
	assert.Equal(t, "Atlantyda-Centrum", raw.Stations[0].Name)
	assert.Len(t, raw.Sensors, len(airquality.Pollutants))

	// The fallback station ID is stable across generators.
	other := synthetic.NewGeneratorWithSeed(99).Generate("Atlantyda")
	assert.Equal(t, raw.Stations[0].ID, other.Stations[0].ID)
}

func TestGenerator_SeededValuesAreReproducible(t *testing.T) {
	first := synthetic.NewGeneratorWithSeed(5).Generate("Kraków")
	second := synthetic.NewGeneratorWithSeed(5).Generate("Kraków")

	require.Equal(t, len(first.Readings), len(second.Readings))
	for i := range first.Readings {
		assert.Equal(t, *first.Readings[i].Value, *second.Readings[i].Value)
	}
}
