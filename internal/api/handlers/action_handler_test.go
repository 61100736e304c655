package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfredhq/alfred/internal/api/handlers"
	"github.com/alfredhq/alfred/internal/application/services"
	"github.com/alfredhq/alfred/internal/domain/entities"
	"github.com/alfredhq/alfred/internal/domain/providers"
)

func newActionHandler(actionRepo *fakeActionRepo, riskRepo *fakeRiskRepo, bus *recordingBus) *handlers.ActionHandler {
	service := services.NewActionService(actionRepo, riskRepo)
	notifier := services.NewNotifier(bus, nil)
	return handlers.NewActionHandler(service, notifier)
}

func seedAction(t *testing.T, actionRepo *fakeActionRepo, riskRepo *fakeRiskRepo, bus *recordingBus) *entities.ActionItem {
	t.Helper()
	handler := newActionHandler(actionRepo, riskRepo, bus)

	body := `{"title":"Inspect inverter string 4","projectId":"site-alpha","dueDate":"2026-09-15T00:00:00Z"}`
	req := httptest.NewRequest("POST", "/api/actions", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.CreateAction(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var item entities.ActionItem
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &item))
	return &item
}

func TestActionHandler_CreateAction_DefaultsAndBroadcast(t *testing.T) {
	actionRepo := newFakeActionRepo()
	riskRepo := newFakeRiskRepo()
	bus := newRecordingBus()
	item := seedAction(t, actionRepo, riskRepo, bus)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, entities.ActionStatusNew, item.Status)
	assert.Equal(t, entities.ActionPriorityMedium, item.Priority)
	assert.Equal(t, entities.ActionTypeTask, item.Type)

	events := bus.published(providers.EventChannelAll)
	require.Len(t, events, 1)
	assert.Equal(t, entities.TopicActionNew, events[0].Topic)
}

func TestActionHandler_UpdateStatus_ValidTransition(t *testing.T) {
	actionRepo := newFakeActionRepo()
	riskRepo := newFakeRiskRepo()
	bus := newRecordingBus()
	item := seedAction(t, actionRepo, riskRepo, bus)
	handler := newActionHandler(actionRepo, riskRepo, bus)

	req := httptest.NewRequest("PATCH", "/api/actions/"+item.ID+"/status", strings.NewReader(`{"status":"in-progress"}`))
	req.SetPathValue("id", item.ID)
	w := httptest.NewRecorder()
	handler.UpdateActionStatus(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var updated entities.ActionItem
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, entities.ActionStatusInProgress, updated.Status)

	events := bus.published(providers.EventChannelAll)
	require.Len(t, events, 2)
	assert.Equal(t, entities.TopicActionUpdate, events[1].Topic)
}

func TestActionHandler_UpdateStatus_InvalidValue(t *testing.T) {
	actionRepo := newFakeActionRepo()
	riskRepo := newFakeRiskRepo()
	bus := newRecordingBus()
	item := seedAction(t, actionRepo, riskRepo, bus)
	handler := newActionHandler(actionRepo, riskRepo, bus)

	req := httptest.NewRequest("PATCH", "/api/actions/"+item.ID+"/status", strings.NewReader(`{"status":"bogus"}`))
	req.SetPathValue("id", item.ID)
	w := httptest.NewRecorder()
	handler.UpdateActionStatus(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "invalid status value")

	// storage untouched, nothing broadcast beyond the seed create
	assert.Equal(t, 0, actionRepo.statusUpdates)
	assert.Len(t, bus.published(providers.EventChannelAll), 1)
}

func TestActionHandler_DeleteAction(t *testing.T) {
	actionRepo := newFakeActionRepo()
	riskRepo := newFakeRiskRepo()
	bus := newRecordingBus()
	item := seedAction(t, actionRepo, riskRepo, bus)
	handler := newActionHandler(actionRepo, riskRepo, bus)

	req := httptest.NewRequest("DELETE", "/api/actions/"+item.ID, nil)
	req.SetPathValue("id", item.ID)
	w := httptest.NewRecorder()
	handler.DeleteAction(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	events := bus.published(providers.EventChannelAll)
	require.Len(t, events, 2)
	assert.Equal(t, entities.TopicActionDeleted, events[1].Topic)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(events[1].Payload, &payload))
	assert.Equal(t, item.ID, payload["id"])
}

func TestActionHandler_CreateRisk_Broadcast(t *testing.T) {
	actionRepo := newFakeActionRepo()
	riskRepo := newFakeRiskRepo()
	bus := newRecordingBus()
	handler := newActionHandler(actionRepo, riskRepo, bus)

	body := `{"description":"Monsoon season grading delays","impact":"high","probability":"medium","projectId":"site-alpha"}`
	req := httptest.NewRequest("POST", "/api/actions/risks", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.CreateRisk(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var risk entities.RiskAssessment
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &risk))
	assert.NotEmpty(t, risk.ID)
	assert.Equal(t, entities.RiskStatusOpen, risk.Status)

	events := bus.published(providers.EventChannelAll)
	require.Len(t, events, 1)
	assert.Equal(t, entities.TopicRiskNew, events[0].Topic)
}
