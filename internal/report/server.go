package report

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/coordinator"
	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/history"
)

// RouterConfig holds configuration for the presentation router.
type RouterConfig struct {
	Store   *Store
	History history.Repository // optional
	Logger  zerolog.Logger
	Version string
}

// NewRouter creates the chi router for the presentation API.
func NewRouter(cfg RouterConfig) *chi.Mux {
	h := &handler{
		store:   cfg.Store,
		history: cfg.History,
		version: cfg.Version,
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(cfg.Logger))
	r.Use(chimiddleware.Recoverer)

	r.Route("/v1", func(r chi.Router) {
		r.Use(httprate.Limit(100, time.Minute, httprate.WithKeyFuncs(httprate.KeyByRealIP)))
		r.Get("/cities", h.listCities)
		r.Get("/cities/{city}", h.getCity)
		r.Get("/cities/{city}/history", h.cityHistory)
		r.Get("/report", h.textReport)
		r.Get("/ops/health", h.health)
	})

	return r
}

type handler struct {
	store   *Store
	history history.Repository
	version string
}

// Response DTOs.

type classificationDTO struct {
	Category      string  `json:"category"`
	CategoryPL    string  `json:"category_pl"`
	Color         string  `json:"color"`
	Dominant      string  `json:"dominant_pollutant"`
	DominantValue float64 `json:"dominant_value"`
}

type advisoryDTO struct {
	General     string   `json:"general"`
	Sensitive   string   `json:"sensitive"`
	Suggested   []string `json:"suggested,omitempty"`
	Discouraged []string `json:"discouraged,omitempty"`
}

type recordDTO struct {
	Pollutant  string   `json:"pollutant"`
	Value      *float64 `json:"value"`
	StationID  string   `json:"station_id,omitempty"`
	MeasuredAt string   `json:"measured_at,omitempty"`
}

type cityDTO struct {
	City           string             `json:"city"`
	State          string             `json:"state"`
	Error          string             `json:"error,omitempty"`
	Provenance     string             `json:"provenance,omitempty"`
	FetchedAt      *time.Time         `json:"fetched_at,omitempty"`
	Classification *classificationDTO `json:"classification,omitempty"`
	Advisory       *advisoryDTO       `json:"advisory,omitempty"`
	Records        []recordDTO        `json:"records,omitempty"`
}

type citiesDTO struct {
	UpdatedAt time.Time `json:"updated_at"`
	Cities    []cityDTO `json:"cities"`
}

func toCityDTO(outcome coordinator.Outcome) cityDTO {
	dto := cityDTO{City: outcome.City, State: string(outcome.State)}
	if outcome.Err != nil {
		dto.Error = outcome.Err.Error()
	}
	if outcome.Result == nil {
		return dto
	}

	result := outcome.Result
	dto.Provenance = string(result.Provenance)
	fetchedAt := result.FetchedAt
	dto.FetchedAt = &fetchedAt
	dto.Classification = &classificationDTO{
		Category:      result.Classification.Category.String(),
		CategoryPL:    result.Classification.Category.NamePL(),
		Color:         result.Classification.Color,
		Dominant:      string(result.Classification.Dominant),
		DominantValue: result.Classification.DominantValue,
	}
	dto.Advisory = &advisoryDTO{
		General:     result.Advisory.General,
		Sensitive:   result.Advisory.Sensitive,
		Suggested:   result.Advisory.Suggested,
		Discouraged: result.Advisory.Discouraged,
	}
	for _, record := range result.Records {
		rec := recordDTO{Pollutant: string(record.Pollutant), StationID: record.StationID}
		if record.Available {
			value := record.Value
			rec.Value = &value
			rec.MeasuredAt = record.MeasuredAt.Format(time.RFC3339)
		}
		dto.Records = append(dto.Records, rec)
	}
	return dto
}

func (h *handler) listCities(w http.ResponseWriter, r *http.Request) {
	outcomes, updatedAt := h.store.Snapshot()

	payload := citiesDTO{UpdatedAt: updatedAt, Cities: make([]cityDTO, 0, len(outcomes))}
	for _, outcome := range outcomes {
		payload.Cities = append(payload.Cities, toCityDTO(outcome))
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *handler) getCity(w http.ResponseWriter, r *http.Request) {
	city := chi.URLParam(r, "city")
	outcome, ok := h.store.Get(city)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "city not monitored"})
		return
	}
	writeJSON(w, http.StatusOK, toCityDTO(outcome))
}

func (h *handler) cityHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "history not enabled"})
		return
	}

	city := chi.URLParam(r, "city")
	entries, err := h.history.ListByCity(r.Context(), city, history.ListOptions{Limit: 24})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "history unavailable"})
		return
	}

	type entryDTO struct {
		RunID      string    `json:"run_id"`
		Category   string    `json:"category"`
		Dominant   string    `json:"dominant_pollutant"`
		Provenance string    `json:"provenance"`
		FetchedAt  time.Time `json:"fetched_at"`
	}
	payload := make([]entryDTO, 0, len(entries))
	for _, entry := range entries {
		payload = append(payload, entryDTO{
			RunID:      entry.RunID.String(),
			Category:   entry.Category.String(),
			Dominant:   string(entry.Dominant),
			Provenance: string(entry.Provenance),
			FetchedAt:  entry.FetchedAt,
		})
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *handler) textReport(w http.ResponseWriter, _ *http.Request) {
	outcomes, updatedAt := h.store.Snapshot()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(RenderText(outcomes, updatedAt)))
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "version": h.version})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// requestLogger logs each request the way the rest of the process logs:
// structured zerolog events.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(wrapped, r)

			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", wrapped.Status()).
				Dur("duration", time.Since(start)).
				Str("remote_addr", r.RemoteAddr).
				Msg("request completed")
		})
	}
}
