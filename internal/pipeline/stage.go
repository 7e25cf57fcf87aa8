// Package pipeline implements the four transformation stages of the air
// quality pipeline: collection, processing, classification and advisory.
// Each stage is a pure function from its input type to an envelope of its
// output type; the coordinator chains them per city.
package pipeline

import (
	"context"

	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/airquality"
	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/envelope"
)

// Stage is the common contract all pipeline stages satisfy. The coordinator
// dispatches stages uniformly through this shape; payload types alone carry
// meaning between stages.
type Stage[In, Out any] interface {
	// Name identifies the stage in envelopes and logs.
	Name() string

	// Run transforms the input into an enveloped output. Failures are
	// reported through the envelope, never by panicking.
	Run(ctx context.Context, in In) envelope.Envelope[Out]
}

// Provider is the upstream data source consumed by the collector.
type Provider interface {
	// ListStations returns the stations in a city. Fails with
	// airquality.ErrCityNotFound or airquality.ErrNetwork.
	ListStations(ctx context.Context, city string) ([]airquality.Station, error)

	// ListSensors returns the sensors at a station. Fails with
	// airquality.ErrNetwork.
	ListSensors(ctx context.Context, stationID string) ([]airquality.Sensor, error)

	// LatestReading returns the most recent reading for a sensor, which may
	// carry a nil value. Fails with airquality.ErrNetwork.
	LatestReading(ctx context.Context, sensorID string) (airquality.Reading, error)
}
