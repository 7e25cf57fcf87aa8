package synthetic_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/airquality"
	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/synthetic"
)

func TestProvider_ServesGeneratedDataSet(t *testing.T) {
	provider := synthetic.NewProvider(synthetic.NewGeneratorWithSeed(3))
	ctx := context.Background()

	stations, err := provider.ListStations(ctx, "Gdańsk")
	require.NoError(t, err)
	require.Len(t, stations, 2)

	sensors, err := provider.ListSensors(ctx, stations[0].ID)
	require.NoError(t, err)
	require.NotEmpty(t, sensors)

	reading, err := provider.LatestReading(ctx, sensors[0].ID)
	require.NoError(t, err)
	require.NotNil(t, reading.Value)
	assert.Equal(t, sensors[0].ID, reading.SensorID)
}

func TestProvider_UnknownLookupsFail(t *testing.T) {
	provider := synthetic.NewProvider(synthetic.NewGeneratorWithSeed(3))
	ctx := context.Background()

	_, err := provider.ListSensors(ctx, "999")
	assert.ErrorIs(t, err, airquality.ErrNetwork)

	_, err = provider.LatestReading(ctx, "999")
	assert.ErrorIs(t, err, airquality.ErrNetwork)
}
