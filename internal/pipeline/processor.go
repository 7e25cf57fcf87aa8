package pipeline

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/airquality"
	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/envelope"
)

// ProcessorName identifies the processor stage.
const ProcessorName = "processor"

// Processor normalizes raw city data into one record per (city, pollutant)
// pair. Pollutants without any usable reading are recorded as unavailable
// rather than omitted.
type Processor struct {
	logger zerolog.Logger
}

// NewProcessor creates a processor.
func NewProcessor(logger zerolog.Logger) *Processor {
	return &Processor{logger: logger}
}

// Name implements Stage.
func (p *Processor) Name() string { return ProcessorName }

// Run implements Stage.
func (p *Processor) Run(_ context.Context, raw airquality.RawCityData) envelope.Envelope[[]airquality.PollutantRecord] {
	// Defensive second check: the collector already rejects cities without
	// stations.
	if len(raw.Stations) == 0 {
		return envelope.WrapError[[]airquality.PollutantRecord](ProcessorName, airquality.ErrNoStations)
	}

	stationBySensor := make(map[string]string, len(raw.Sensors))
	pollutantBySensor := make(map[string]airquality.Pollutant, len(raw.Sensors))
	sensorCount := make(map[airquality.Pollutant]int)
	for _, sensor := range raw.Sensors {
		stationBySensor[sensor.ID] = sensor.StationID
		pollutantBySensor[sensor.ID] = sensor.Pollutant
		sensorCount[sensor.Pollutant]++
	}

	// Best usable reading per pollutant: most recent non-null wins; on a
	// timestamp tie the lexicographically smallest station ID wins.
	type candidate struct {
		value      float64
		stationID  string
		measuredAt time.Time
	}
	best := make(map[airquality.Pollutant]candidate)
	var notes []string

	for _, reading := range raw.Readings {
		pollutant, ok := pollutantBySensor[reading.SensorID]
		if !ok || reading.Value == nil {
			continue
		}

		value := *reading.Value
		if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
			// Corrupt upstream data, rejected locally.
			notes = append(notes, fmt.Sprintf("sensor %s: corrupt %s reading rejected", reading.SensorID, pollutant))
			continue
		}

		next := candidate{
			value:      value,
			stationID:  stationBySensor[reading.SensorID],
			measuredAt: reading.MeasuredAt.UTC(),
		}

		current, exists := best[pollutant]
		switch {
		case !exists:
			best[pollutant] = next
		case next.measuredAt.After(current.measuredAt):
			best[pollutant] = next
		case next.measuredAt.Equal(current.measuredAt) && next.stationID < current.stationID:
			best[pollutant] = next
		}
	}

	var records []airquality.PollutantRecord
	unavailable := 0
	for _, pollutant := range airquality.Pollutants {
		if sensorCount[pollutant] == 0 {
			continue
		}

		record := airquality.PollutantRecord{City: raw.City, Pollutant: pollutant}
		if chosen, ok := best[pollutant]; ok {
			record.Available = true
			record.Value = chosen.value
			record.StationID = chosen.stationID
			record.MeasuredAt = chosen.measuredAt
		} else {
			unavailable++
			notes = append(notes, fmt.Sprintf("%s: no usable reading", pollutant))
		}
		records = append(records, record)
	}

	p.logger.Debug().
		Str("city", raw.City).
		Int("records", len(records)).
		Int("unavailable", unavailable).
		Msg("raw data normalized")

	if len(notes) > 0 {
		return envelope.WrapPartial(ProcessorName, records, notes)
	}
	return envelope.Wrap(ProcessorName, records)
}
