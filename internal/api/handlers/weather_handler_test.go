package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfredhq/alfred/internal/api/handlers"
	"github.com/alfredhq/alfred/internal/application/services"
	"github.com/alfredhq/alfred/internal/domain/entities"
	"github.com/alfredhq/alfred/internal/domain/providers"
)

func newWeatherHandler(repo *fakeWeatherRepo, bus *recordingBus) *handlers.WeatherHandler {
	service := services.NewWeatherService(repo)
	notifier := services.NewNotifier(bus, nil)
	return handlers.NewWeatherHandler(service, notifier)
}

func seedWeather(t *testing.T, repo *fakeWeatherRepo) {
	t.Helper()
	err := repo.Upsert(context.Background(), &entities.WeatherRecord{
		ID:          "w-1",
		Location:    "phoenix",
		Temperature: 38,
		WindSpeed:   12,
		Condition:   "Clear",
		Humidity:    20,
		Pressure:    1010,
		UpdatedAt:   time.Now(),
	})
	require.NoError(t, err)
}

func TestWeatherHandler_Upsert_BroadcastsLocationAndData(t *testing.T) {
	repo := newFakeWeatherRepo()
	bus := newRecordingBus()
	handler := newWeatherHandler(repo, bus)

	body := `{"temperature":31,"windSpeed":8,"condition":"Partly Cloudy","humidity":35,"pressure":1012}`
	req := httptest.NewRequest("POST", "/api/weather/location/Tucson", strings.NewReader(body))
	req.SetPathValue("location", "Tucson")
	w := httptest.NewRecorder()
	handler.UpsertWeather(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	// first-time create still broadcasts a weather update
	events := bus.published(providers.EventChannelAll)
	require.Len(t, events, 1)
	assert.Equal(t, entities.TopicWeatherUpdate, events[0].Topic)

	var payload struct {
		Location string                 `json:"location"`
		Data     entities.WeatherRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(events[0].Payload, &payload))
	assert.Equal(t, "tucson", payload.Location)
	assert.Equal(t, 31.0, payload.Data.Temperature)
}

func TestWeatherHandler_GetByLocation_CaseInsensitive(t *testing.T) {
	repo := newFakeWeatherRepo()
	seedWeather(t, repo)
	handler := newWeatherHandler(repo, newRecordingBus())

	req := httptest.NewRequest("GET", "/api/weather/location/PHOENIX", nil)
	req.SetPathValue("location", "PHOENIX")
	w := httptest.NewRecorder()
	handler.GetByLocation(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var record entities.WeatherRecord
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &record))
	assert.Equal(t, "phoenix", record.Location)
}

func TestWeatherHandler_Simulate_PersistsAndBroadcasts(t *testing.T) {
	repo := newFakeWeatherRepo()
	seedWeather(t, repo)
	bus := newRecordingBus()
	handler := newWeatherHandler(repo, bus)

	req := httptest.NewRequest("POST", "/api/weather/simulate/phoenix", nil)
	req.SetPathValue("location", "phoenix")
	w := httptest.NewRecorder()
	handler.SimulateWeather(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var simulated entities.WeatherRecord
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &simulated))
	assert.InDelta(t, 38, simulated.Temperature, 4.01)
	assert.Contains(t, entities.WeatherConditions, simulated.Condition)

	stored, err := repo.GetByLocation(context.Background(), "phoenix")
	require.NoError(t, err)
	assert.Equal(t, simulated.Temperature, stored.Temperature)

	events := bus.published(providers.EventChannelAll)
	require.Len(t, events, 1)
	assert.Equal(t, entities.TopicWeatherUpdate, events[0].Topic)
}

func TestWeatherHandler_Forecast_UnseededLocation(t *testing.T) {
	handler := newWeatherHandler(newFakeWeatherRepo(), newRecordingBus())

	req := httptest.NewRequest("GET", "/api/weather/forecast/nowhere", nil)
	req.SetPathValue("location", "nowhere")
	w := httptest.NewRecorder()
	handler.GetForecast(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWeatherHandler_Forecast_DaysLimit(t *testing.T) {
	repo := newFakeWeatherRepo()
	seedWeather(t, repo)
	handler := newWeatherHandler(repo, newRecordingBus())

	req := httptest.NewRequest("GET", "/api/weather/forecast/phoenix?days=15", nil)
	req.SetPathValue("location", "phoenix")
	w := httptest.NewRecorder()
	handler.GetForecast(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWeatherHandler_Forecast_DefaultFiveDays(t *testing.T) {
	repo := newFakeWeatherRepo()
	seedWeather(t, repo)
	handler := newWeatherHandler(repo, newRecordingBus())

	req := httptest.NewRequest("GET", "/api/weather/forecast/phoenix", nil)
	req.SetPathValue("location", "phoenix")
	w := httptest.NewRecorder()
	handler.GetForecast(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var forecast []*entities.ForecastEntry
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &forecast))
	assert.Len(t, forecast, 5)

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	assert.Equal(t, tomorrow, forecast[0].Date)
}

func TestWeatherHandler_Delete_BroadcastsLocation(t *testing.T) {
	repo := newFakeWeatherRepo()
	seedWeather(t, repo)
	bus := newRecordingBus()
	handler := newWeatherHandler(repo, bus)

	req := httptest.NewRequest("DELETE", "/api/weather/location/phoenix", nil)
	req.SetPathValue("location", "phoenix")
	w := httptest.NewRecorder()
	handler.DeleteWeather(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	events := bus.published(providers.EventChannelAll)
	require.Len(t, events, 1)
	assert.Equal(t, entities.TopicWeatherDeleted, events[0].Topic)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(events[0].Payload, &payload))
	assert.Equal(t, "phoenix", payload["location"])
}

func TestWeatherHandler_TestSocket(t *testing.T) {
	bus := newRecordingBus()
	handler := newWeatherHandler(newFakeWeatherRepo(), bus)

	w := httptest.NewRecorder()
	handler.TestSocket(w, httptest.NewRequest("POST", "/api/weather/test-socket", nil))

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "test event broadcast", env.Message)

	events := bus.published(providers.EventChannelAll)
	require.Len(t, events, 1)
	assert.Equal(t, entities.TopicWeatherTest, events[0].Topic)
}
