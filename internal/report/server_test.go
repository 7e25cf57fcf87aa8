package report_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/airquality"
	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/coordinator"
	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/history"
	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/report"
)

func newTestServer(t *testing.T, repo history.Repository) (*httptest.Server, *report.Store) {
	t.Helper()

	store := report.NewStore()
	router := report.NewRouter(report.RouterConfig{
		Store:   store,
		History: repo,
		Logger:  zerolog.New(io.Discard),
		Version: "test",
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, store
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestServer_ListCities(t *testing.T) {
	server, store := newTestServer(t, nil)

	store.Set(map[string]coordinator.Outcome{
		"Warszawa": doneOutcome("Warszawa", airquality.CategoryGood, airquality.PollutantPM25, 15),
		"Gdańsk": {
			City:  "Gdańsk",
			State: coordinator.StateFailed,
			Err:   errors.New("insufficient data for classification"),
		},
	})

	var payload struct {
		Cities []struct {
			City           string `json:"city"`
			State          string `json:"state"`
			Error          string `json:"error"`
			Provenance     string `json:"provenance"`
			Classification *struct {
				Category   string `json:"category"`
				CategoryPL string `json:"category_pl"`
				Color      string `json:"color"`
			} `json:"classification"`
		} `json:"cities"`
	}

	status := getJSON(t, server.URL+"/v1/cities", &payload)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, payload.Cities, 2)

	for _, city := range payload.Cities {
		switch city.City {
		case "Warszawa":
			assert.Equal(t, "done", city.State)
			assert.Equal(t, "live", city.Provenance)
			require.NotNil(t, city.Classification)
			assert.Equal(t, "Good", city.Classification.Category)
			assert.Equal(t, "Dobry", city.Classification.CategoryPL)
			assert.Equal(t, "#00CC00", city.Classification.Color)
		case "Gdańsk":
			assert.Equal(t, "failed", city.State)
			assert.NotEmpty(t, city.Error)
			assert.Nil(t, city.Classification)
		default:
			t.Errorf("unexpected city %q", city.City)
		}
	}
}

func TestServer_GetCity(t *testing.T) {
	server, store := newTestServer(t, nil)
	store.Set(map[string]coordinator.Outcome{
		"Kraków": doneOutcome("Kraków", airquality.CategoryBad, airquality.PollutantPM10, 130),
	})

	var payload struct {
		City     string `json:"city"`
		Advisory *struct {
			General string `json:"general"`
		} `json:"advisory"`
	}

	status := getJSON(t, server.URL+"/v1/cities/Kraków", &payload)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Kraków", payload.City)
	require.NotNil(t, payload.Advisory)
	assert.Contains(t, payload.Advisory.General, "Avoid outdoor activities")
}

func TestServer_GetCityNotMonitored(t *testing.T) {
	server, _ := newTestServer(t, nil)

	status := getJSON(t, server.URL+"/v1/cities/Atlantyda", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestServer_CityHistory(t *testing.T) {
	repo := history.NewInMemoryRepository()
	outcome := doneOutcome("Warszawa", airquality.CategoryGood, airquality.PollutantPM25, 15)
	require.NoError(t, repo.Save(context.Background(),
		history.FromResult(uuid.New(), *outcome.Result)))

	server, _ := newTestServer(t, repo)

	var payload []struct {
		Category   string `json:"category"`
		Dominant   string `json:"dominant_pollutant"`
		Provenance string `json:"provenance"`
	}

	status := getJSON(t, server.URL+"/v1/cities/Warszawa/history", &payload)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, payload, 1)
	assert.Equal(t, "Good", payload[0].Category)
	assert.Equal(t, "PM2.5", payload[0].Dominant)
	assert.Equal(t, "live", payload[0].Provenance)
}

func TestServer_CityHistoryDisabled(t *testing.T) {
	server, _ := newTestServer(t, nil)

	status := getJSON(t, server.URL+"/v1/cities/Warszawa/history", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestServer_TextReport(t *testing.T) {
	server, store := newTestServer(t, nil)
	store.Set(map[string]coordinator.Outcome{
		"Warszawa": doneOutcome("Warszawa", airquality.CategoryModerate, airquality.PollutantPM10, 60),
	})

	resp, err := http.Get(server.URL + "/v1/report")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "AIR QUALITY REPORT")
	assert.Contains(t, string(body), "Warszawa")
}

func TestServer_Health(t *testing.T) {
	server, _ := newTestServer(t, nil)

	var payload map[string]string
	status := getJSON(t, server.URL+"/v1/ops/health", &payload)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", payload["status"])
	assert.Equal(t, "test", payload["version"])
}
