package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/airquality"
	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/envelope"
)

// CollectorName identifies the collector stage.
const CollectorName = "collector"

// Collector fetches raw station, sensor and reading data for one city.
// Transport failures at the station-list step fail the whole call; failures
// for an individual sensor's reading are contained as a null reading and a
// partial envelope.
type Collector struct {
	provider Provider
	logger   zerolog.Logger
}

// NewCollector creates a collector backed by the given provider.
func NewCollector(provider Provider, logger zerolog.Logger) *Collector {
	return &Collector{provider: provider, logger: logger}
}

// Name implements Stage.
func (c *Collector) Name() string { return CollectorName }

// Run implements Stage. The input is the city name.
func (c *Collector) Run(ctx context.Context, city string) envelope.Envelope[airquality.RawCityData] {
	stations, err := c.provider.ListStations(ctx, city)
	if err != nil {
		c.logger.Error().Err(err).Str("city", city).Msg("station list fetch failed")
		return envelope.WrapError[airquality.RawCityData](CollectorName, err)
	}

	raw := airquality.RawCityData{City: city, Stations: stations}
	var notes []string

	for _, station := range stations {
		sensors, err := c.provider.ListSensors(ctx, station.ID)
		if err != nil {
			// A single station's sensor list failing does not abort the
			// city; the remaining stations may still produce data.
			c.logger.Warn().Err(err).Str("station_id", station.ID).Msg("sensor list fetch failed")
			notes = append(notes, fmt.Sprintf("station %s: sensor list unavailable", station.ID))
			continue
		}
		raw.Sensors = append(raw.Sensors, sensors...)

		for _, sensor := range sensors {
			reading, err := c.provider.LatestReading(ctx, sensor.ID)
			if err != nil {
				notes = append(notes, fmt.Sprintf("sensor %s: reading unavailable", sensor.ID))
				raw.Readings = append(raw.Readings, airquality.Reading{SensorID: sensor.ID})
				continue
			}
			raw.Readings = append(raw.Readings, reading)
		}
	}

	c.logger.Debug().
		Str("city", city).
		Int("stations", len(raw.Stations)).
		Int("sensors", len(raw.Sensors)).
		Int("failed", len(notes)).
		Msg("city data collected")

	if len(notes) > 0 {
		return envelope.WrapPartial(CollectorName, raw, notes)
	}
	return envelope.Wrap(CollectorName, raw)
}
