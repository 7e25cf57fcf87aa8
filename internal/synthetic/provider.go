package synthetic

import (
	"context"
	"fmt"
	"sync"

	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/airquality"
)

// Provider adapts a Generator to the collector's provider interface so the
// whole pipeline can run offline. Each ListStations call produces a fresh
// data set for the city; sensor and reading lookups serve from it.
type Provider struct {
	gen *Generator

	mu       sync.Mutex
	sensors  map[string][]airquality.Sensor // station ID -> sensors
	readings map[string]airquality.Reading  // sensor ID -> reading
}

// NewProvider creates a provider backed by the generator.
func NewProvider(gen *Generator) *Provider {
	return &Provider{
		gen:      gen,
		sensors:  make(map[string][]airquality.Sensor),
		readings: make(map[string]airquality.Reading),
	}
}

// ListStations generates a data set for the city and returns its stations.
func (p *Provider) ListStations(_ context.Context, city string) ([]airquality.Station, error) {
	raw := p.gen.Generate(city)

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, station := range raw.Stations {
		p.sensors[station.ID] = nil
	}
	for _, sensor := range raw.Sensors {
		p.sensors[sensor.StationID] = append(p.sensors[sensor.StationID], sensor)
	}
	for _, reading := range raw.Readings {
		p.readings[reading.SensorID] = reading
	}
	return raw.Stations, nil
}

// ListSensors returns the sensors generated for a station.
func (p *Provider) ListSensors(_ context.Context, stationID string) ([]airquality.Sensor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	sensors, ok := p.sensors[stationID]
	if !ok {
		return nil, fmt.Errorf("%w: unknown station %q", airquality.ErrNetwork, stationID)
	}
	return sensors, nil
}

// LatestReading returns the reading generated for a sensor.
func (p *Provider) LatestReading(_ context.Context, sensorID string) (airquality.Reading, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	reading, ok := p.readings[sensorID]
	if !ok {
		return airquality.Reading{}, fmt.Errorf("%w: unknown sensor %q", airquality.ErrNetwork, sensorID)
	}
	return reading, nil
}
