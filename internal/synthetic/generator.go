// Package synthetic generates structurally valid raw city data without any
// network dependency. The coordinator substitutes it for live collection when
// the provider is unreachable and fallback is enabled.
package synthetic

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"sync"
	"time"

	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/airquality"
)

// ProviderName identifies synthetic data in logs.
const ProviderName = "synthetic"

// Typical concentration ranges (µg/m³) used to generate plausible values.
var valueRanges = map[airquality.Pollutant][2]float64{
	airquality.PollutantPM25: {5, 80},
	airquality.PollutantPM10: {10, 120},
	airquality.PollutantNO2:  {10, 150},
	airquality.PollutantSO2:  {5, 100},
	airquality.PollutantO3:   {20, 160},
	airquality.PollutantCO:   {200, 5000},
}

// Station fixtures modeled on real GIOŚ stations in the target cities.
var fixtures = map[string][]stationFixture{
	"Warszawa": {
		{id: "114", name: "Warszawa-Marszałkowska", lat: 52.219568, lon: 21.012568,
			pollutants: []airquality.Pollutant{airquality.PollutantPM25, airquality.PollutantPM10, airquality.PollutantNO2}},
		{id: "115", name: "Warszawa-Komunikacyjna", lat: 52.219300, lon: 21.005200,
			pollutants: []airquality.Pollutant{airquality.PollutantPM25, airquality.PollutantPM10}},
	},
	"Kraków": {
		{id: "400", name: "Kraków, Aleja Krasińskiego", lat: 50.057678, lon: 19.926189,
			pollutants: []airquality.Pollutant{airquality.PollutantPM25, airquality.PollutantPM10, airquality.PollutantNO2}},
		{id: "401", name: "Kraków, ul. Bujaka", lat: 50.010575, lon: 19.949189,
			pollutants: []airquality.Pollutant{airquality.PollutantPM25, airquality.PollutantPM10}},
	},
	"Gdańsk": {
		{id: "730", name: "Gdańsk-Wrzeszcz", lat: 54.380279, lon: 18.620274,
			pollutants: []airquality.Pollutant{airquality.PollutantPM25, airquality.PollutantPM10, airquality.PollutantSO2}},
		{id: "731", name: "Gdańsk-Nowy Port", lat: 54.400798, lon: 18.657497,
			pollutants: []airquality.Pollutant{airquality.PollutantPM10, airquality.PollutantO3}},
	},
}

type stationFixture struct {
	id         string
	name       string
	lat        float64
	lon        float64
	pollutants []airquality.Pollutant
}

// Generator produces synthetic raw city data. Safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator creates a generator seeded from the current time.
func NewGenerator() *Generator {
	return NewGeneratorWithSeed(time.Now().UnixNano())
}

// NewGeneratorWithSeed creates a generator with a fixed seed so tests get
// reproducible values.
func NewGeneratorWithSeed(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)), //nolint:gosec // not used for security
		now: time.Now,
	}
}

// Generate builds a full raw data set for the city. It never fails: cities
// without fixtures get a single synthesized station covering every pollutant.
func (g *Generator) Generate(city string) airquality.RawCityData {
	stations := fixtures[city]
	if len(stations) == 0 {
		stations = []stationFixture{{
			id:         fallbackStationID(city),
			name:       city + "-Centrum",
			pollutants: airquality.Pollutants,
		}}
	}

	raw := airquality.RawCityData{City: city}
	measuredAt := g.now().Truncate(time.Hour)

	for _, fixture := range stations {
		raw.Stations = append(raw.Stations, airquality.Station{
			ID:   fixture.id,
			City: city,
			Name: fixture.name,
			Lat:  fixture.lat,
			Lon:  fixture.lon,
		})

		for i, pollutant := range fixture.pollutants {
			sensorID := fmt.Sprintf("%s-%d", fixture.id, i)
			raw.Sensors = append(raw.Sensors, airquality.Sensor{
				ID:        sensorID,
				StationID: fixture.id,
				Pollutant: pollutant,
			})

			value := g.value(pollutant)
			raw.Readings = append(raw.Readings, airquality.Reading{
				SensorID:   sensorID,
				Value:      &value,
				MeasuredAt: measuredAt,
			})
		}
	}
	return raw
}

// value draws a plausible concentration for the pollutant.
func (g *Generator) value(p airquality.Pollutant) float64 {
	bounds, ok := valueRanges[p]
	if !ok {
		bounds = [2]float64{0, 100}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return bounds[0] + g.rng.Float64()*(bounds[1]-bounds[0])
}

// fallbackStationID derives a stable station identifier for cities without
// fixtures.
func fallbackStationID(city string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(city))
	return fmt.Sprintf("syn-%d", h.Sum32()%100000)
}
