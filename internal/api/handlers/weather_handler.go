package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/alfredhq/alfred/internal/application/services"
	"github.com/alfredhq/alfred/internal/domain/entities"
)

// WeatherHandler handles weather HTTP requests
type WeatherHandler struct {
	service  *services.WeatherService
	notifier *services.Notifier
}

// NewWeatherHandler creates a new weather handler
func NewWeatherHandler(service *services.WeatherService, notifier *services.Notifier) *WeatherHandler {
	return &WeatherHandler{
		service:  service,
		notifier: notifier,
	}
}

// GetByLocation handles GET /api/weather/location/{location}
func (h *WeatherHandler) GetByLocation(w http.ResponseWriter, r *http.Request) {
	location := r.PathValue("location")
	if location == "" {
		respondWithError(w, http.StatusBadRequest, "location is required")
		return
	}

	record, err := h.service.GetByLocation(r.Context(), location)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, record)
}

// GetByLocations handles POST /api/weather/multiple
func (h *WeatherHandler) GetByLocations(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Locations []string `json:"locations"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	records, err := h.service.GetByLocations(r.Context(), payload.Locations)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if records == nil {
		records = []*entities.WeatherRecord{}
	}

	respondWithJSON(w, http.StatusOK, records)
}

// UpsertWeather handles POST /api/weather/location/{location}
func (h *WeatherHandler) UpsertWeather(w http.ResponseWriter, r *http.Request) {
	location := r.PathValue("location")
	if location == "" {
		respondWithError(w, http.StatusBadRequest, "location is required")
		return
	}

	var record entities.WeatherRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	record.Location = location

	if err := h.service.Upsert(r.Context(), &record); err != nil {
		respondWithAppError(w, err)
		return
	}

	h.broadcastUpdate(r, &record)
	respondWithJSON(w, http.StatusCreated, &record)
}

// UpdateWeather handles PUT /api/weather/location/{location}
func (h *WeatherHandler) UpdateWeather(w http.ResponseWriter, r *http.Request) {
	location := r.PathValue("location")
	if location == "" {
		respondWithError(w, http.StatusBadRequest, "location is required")
		return
	}

	var record entities.WeatherRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	record.Location = location

	if err := h.service.Update(r.Context(), &record); err != nil {
		respondWithAppError(w, err)
		return
	}

	h.broadcastUpdate(r, &record)
	respondWithJSON(w, http.StatusOK, &record)
}

// DeleteWeather handles DELETE /api/weather/location/{location}
func (h *WeatherHandler) DeleteWeather(w http.ResponseWriter, r *http.Request) {
	location := r.PathValue("location")
	if location == "" {
		respondWithError(w, http.StatusBadRequest, "location is required")
		return
	}

	if err := h.service.Delete(r.Context(), location); err != nil {
		respondWithAppError(w, err)
		return
	}

	h.notifier.BroadcastAll(r.Context(), entities.TopicWeatherDeleted, map[string]interface{}{"location": location})
	respondWithMessage(w, http.StatusOK, nil, "weather data deleted")
}

// SimulateWeather handles POST /api/weather/simulate/{location}
func (h *WeatherHandler) SimulateWeather(w http.ResponseWriter, r *http.Request) {
	location := r.PathValue("location")
	if location == "" {
		respondWithError(w, http.StatusBadRequest, "location is required")
		return
	}

	record, err := h.service.Simulate(r.Context(), location)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	h.broadcastUpdate(r, record)
	respondWithJSON(w, http.StatusOK, record)
}

// GetForecast handles GET /api/weather/forecast/{location}
func (h *WeatherHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	location := r.PathValue("location")
	if location == "" {
		respondWithError(w, http.StatusBadRequest, "location is required")
		return
	}

	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "days must be a number")
			return
		}
		days = parsed
	}

	forecast, err := h.service.Forecast(r.Context(), location, days)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, forecast)
}

// StatsOverview handles GET /api/weather/stats/overview
func (h *WeatherHandler) StatsOverview(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Statistics(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

// StatsExtreme handles GET /api/weather/stats/extreme
func (h *WeatherHandler) StatsExtreme(w http.ResponseWriter, r *http.Request) {
	extremes, err := h.service.Extremes(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, extremes)
}

// TestSocket handles POST /api/weather/test-socket. It pushes a fabricated
// reading through the event pipeline without touching storage.
func (h *WeatherHandler) TestSocket(w http.ResponseWriter, r *http.Request) {
	payload := map[string]interface{}{
		"location": "test-site",
		"data": map[string]interface{}{
			"temperature": 25.0,
			"windSpeed":   10.0,
			"condition":   "Clear",
			"humidity":    50.0,
			"pressure":    1013.0,
			"updatedAt":   time.Now(),
		},
	}

	h.notifier.BroadcastAll(r.Context(), entities.TopicWeatherTest, payload)
	respondWithMessage(w, http.StatusOK, nil, "test event broadcast")
}

func (h *WeatherHandler) broadcastUpdate(r *http.Request, record *entities.WeatherRecord) {
	h.notifier.BroadcastAll(r.Context(), entities.TopicWeatherUpdate, map[string]interface{}{
		"location": record.Location,
		"data":     record,
	})
}
