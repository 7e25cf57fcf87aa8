// Package gios provides a client for the GIOŚ (Główny Inspektorat Ochrony
// Środowiska) air quality REST API.
package gios

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/airquality"
	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/gios/resilience"
)

const (
	// DefaultBaseURL is the base URL of the GIOŚ v1 REST API.
	DefaultBaseURL = "https://api.gios.gov.pl/pjp-api/v1/rest"

	// ProviderName identifies this provider.
	ProviderName = "gios"

	// timeLayout is the timestamp format used by the GIOŚ API.
	timeLayout = "2006-01-02 15:04:05"
)

// HTTPDoer abstracts HTTP request execution so tests can stub transport.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the GIOŚ client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use. If nil, a resilient client with
	// retries and a circuit breaker is created.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 30s).
	Timeout time.Duration
}

// Client is a GIOŚ API client.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new GIOŚ client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:            ProviderName,
			Timeout:         timeout,
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		})
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// API response types. The v1 API uses Polish field names.

type stationsResponse struct {
	Stations   []stationData `json:"Lista stacji pomiarowych"`
	TotalPages int           `json:"totalPages"`
}

type stationData struct {
	ID       int    `json:"Identyfikator stacji"`
	Name     string `json:"Nazwa stacji"`
	Lat      string `json:"WGS84 φ N"`
	Lon      string `json:"WGS84 λ E"`
	CityName string `json:"Nazwa miasta"`
}

type sensorsResponse struct {
	Sensors []sensorData `json:"Lista stanowisk pomiarowych dla podanej stacji"`
}

type sensorData struct {
	ID        int    `json:"Identyfikator stanowiska"`
	StationID int    `json:"Identyfikator stacji"`
	ParamCode string `json:"Wskaźnik - kod"`
}

type readingsResponse struct {
	Readings []readingData `json:"Lista danych pomiarowych"`
}

type readingData struct {
	Date  string   `json:"Data"`
	Value *float64 `json:"Wartość"`
}

// ListStations retrieves all monitoring stations located in the given city.
// Returns airquality.ErrCityNotFound when the provider knows no station for
// the city and airquality.ErrNetwork on transport failure.
func (c *Client) ListStations(ctx context.Context, city string) ([]airquality.Station, error) {
	var stations []airquality.Station
	page := 1

	for {
		pageStations, lastPage, err := c.fetchStationsPage(ctx, city, page)
		if err != nil {
			return nil, err
		}
		stations = append(stations, pageStations...)

		if page >= lastPage {
			break
		}
		page++
	}

	if len(stations) == 0 {
		return nil, fmt.Errorf("%w: %q", airquality.ErrCityNotFound, city)
	}
	return stations, nil
}

// fetchStationsPage fetches one page of the station list, filtered by city.
func (c *Client) fetchStationsPage(ctx context.Context, city string, page int) ([]airquality.Station, int, error) {
	endpoint := fmt.Sprintf("%s/station/findAll?page=%d", c.baseURL, page)

	var result stationsResponse
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return nil, 0, err
	}

	var stations []airquality.Station
	for _, s := range result.Stations {
		if s.CityName != city {
			continue
		}
		stations = append(stations, toStation(s))
	}

	lastPage := result.TotalPages
	if lastPage < 1 {
		lastPage = 1
	}
	return stations, lastPage, nil
}

// ListSensors retrieves all sensors installed at a station. Sensors for
// pollutants outside the tracked set are skipped.
func (c *Client) ListSensors(ctx context.Context, stationID string) ([]airquality.Sensor, error) {
	endpoint := fmt.Sprintf("%s/station/sensors/%s", c.baseURL, url.PathEscape(stationID))

	var result sensorsResponse
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return nil, err
	}

	var sensors []airquality.Sensor
	for _, s := range result.Sensors {
		pollutant := airquality.Pollutant(s.ParamCode)
		if !pollutant.Valid() {
			continue
		}
		sensors = append(sensors, airquality.Sensor{
			ID:        strconv.Itoa(s.ID),
			StationID: strconv.Itoa(s.StationID),
			Pollutant: pollutant,
		})
	}
	return sensors, nil
}

// LatestReading retrieves the most recent reading for a sensor. The API
// returns measurements newest-first with possible null values; the newest
// non-null entry wins. When every entry is null (or the list is empty) the
// returned reading carries a nil value, which downstream stages treat as a
// first-class "no data" case.
func (c *Client) LatestReading(ctx context.Context, sensorID string) (airquality.Reading, error) {
	endpoint := fmt.Sprintf("%s/data/getData/%s", c.baseURL, url.PathEscape(sensorID))

	var result readingsResponse
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return airquality.Reading{}, err
	}

	reading := airquality.Reading{SensorID: sensorID}
	for _, entry := range result.Readings {
		measuredAt, parseErr := time.Parse(timeLayout, entry.Date)
		if parseErr != nil {
			continue
		}
		if reading.MeasuredAt.IsZero() {
			reading.MeasuredAt = measuredAt
		}
		if entry.Value != nil {
			value := *entry.Value
			reading.Value = &value
			reading.MeasuredAt = measuredAt
			break
		}
	}
	return reading, nil
}

// getJSON performs a GET request and decodes the JSON body into out.
// Transport and decode failures surface as airquality.ErrNetwork.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", airquality.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", airquality.ErrNetwork, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", airquality.ErrNetwork, err)
	}
	return nil
}

// toStation converts API station data to the domain Station.
func toStation(s stationData) airquality.Station {
	lat, _ := strconv.ParseFloat(s.Lat, 64)
	lon, _ := strconv.ParseFloat(s.Lon, 64)
	return airquality.Station{
		ID:   strconv.Itoa(s.ID),
		City: s.CityName,
		Name: s.Name,
		Lat:  lat,
		Lon:  lon,
	}
}
