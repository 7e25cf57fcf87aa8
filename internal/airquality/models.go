// Package airquality defines the domain model for the Polish air quality
// monitoring pipeline: stations, sensors, readings, pollutant records and
// the classification/advisory types derived from them.
package airquality

import (
	"errors"
	"time"
)

// Domain errors surfaced by the pipeline.
var (
	// ErrCityNotFound means no monitoring station exists for the requested city.
	ErrCityNotFound = errors.New("city not found")

	// ErrNetwork wraps transport failures against the upstream provider.
	ErrNetwork = errors.New("provider network error")

	// ErrInsufficientData means no pollutant had a usable reading, so no
	// classification can be produced.
	ErrInsufficientData = errors.New("insufficient data for classification")

	// ErrNoStations means a raw payload reached the processor without any
	// station. The collector should have rejected the city before this point.
	ErrNoStations = errors.New("no stations in raw data")
)

// Pollutant is a pollutant code measured by a single sensor.
type Pollutant string

const (
	PollutantPM25 Pollutant = "PM2.5"
	PollutantPM10 Pollutant = "PM10"
	PollutantNO2  Pollutant = "NO2"
	PollutantSO2  Pollutant = "SO2"
	PollutantO3   Pollutant = "O3"
	PollutantCO   Pollutant = "CO"
)

// Pollutants lists all tracked pollutant codes in canonical order.
// The order is load-bearing: the classifier breaks driving-pollutant ties by
// taking the first pollutant in this order.
var Pollutants = []Pollutant{
	PollutantPM25,
	PollutantPM10,
	PollutantNO2,
	PollutantSO2,
	PollutantO3,
	PollutantCO,
}

// Valid reports whether p is one of the tracked pollutant codes.
func (p Pollutant) Valid() bool {
	for _, known := range Pollutants {
		if p == known {
			return true
		}
	}
	return false
}

// Station is a fixed monitoring location. Immutable once fetched.
type Station struct {
	ID   string
	City string
	Name string
	Lat  float64
	Lon  float64
}

// Sensor is a single-pollutant instrument at a station. Immutable once fetched.
type Sensor struct {
	ID        string
	StationID string
	Pollutant Pollutant
}

// Reading is one raw measurement from a sensor. A nil Value is a first-class
// case (sensor online but no data), not an error.
type Reading struct {
	SensorID   string
	Value      *float64
	MeasuredAt time.Time
}

// RawCityData is the collector's output: stations, sensors and raw readings
// scoped to a single city, with no cleaning applied.
type RawCityData struct {
	City     string
	Stations []Station
	Sensors  []Sensor
	Readings []Reading
}

// PollutantRecord is the processor's output: one record per (city, pollutant)
// pair that has at least one sensor. Unavailable records are kept rather than
// omitted so downstream stages can tell "measured clean" from "not measured".
type PollutantRecord struct {
	City       string
	Pollutant  Pollutant
	Value      float64
	Available  bool
	StationID  string
	MeasuredAt time.Time
}

// Classification is the per-city outcome of the classifier. Recomputed every
// run, never mutated in place.
type Classification struct {
	City          string
	Category      Category
	Dominant      Pollutant
	DominantValue float64
	Color         string
}

// Advisory carries the human-facing guidance for a city's classification.
type Advisory struct {
	City        string
	Category    Category
	General     string
	Sensitive   string
	Suggested   []string
	Discouraged []string
}

// Provenance marks where a result's raw data came from.
type Provenance string

const (
	ProvenanceLive      Provenance = "live"
	ProvenanceSynthetic Provenance = "synthetic"
)

// EnrichedResult is the unit cached and handed to the presentation layer.
type EnrichedResult struct {
	City           string
	Records        []PollutantRecord
	Classification Classification
	Advisory       Advisory
	Provenance     Provenance
	FetchedAt      time.Time
}
