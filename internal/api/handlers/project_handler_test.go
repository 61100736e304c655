package handlers_test

import (
	"context"
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

func newProjectHandler(repo *fakeProjectRepo, bus *recordingBus) *handlers.ProjectHandler {
	service := services.NewProjectService(repo)
	notifier := services.NewNotifier(bus, nil)
	return handlers.NewProjectHandler(service, nil, notifier)
}

func seedProject(t *testing.T, repo *fakeProjectRepo, bus *recordingBus) *entities.Project {
	t.Helper()
	handler := newProjectHandler(repo, bus)

	body := `{"name":"Desert Sun Array","location":{"city":"Phoenix","state":"AZ"},"capacity":"150MW","progress":40}`
	req := httptest.NewRequest("POST", "/api/projects", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.CreateProject(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var project entities.Project
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &project))
	return &project
}

func TestProjectHandler_CreateProject_BroadcastsOnce(t *testing.T) {
	repo := newFakeProjectRepo()
	bus := newRecordingBus()
	project := seedProject(t, repo, bus)

	assert.NotEmpty(t, project.ID)
	assert.Equal(t, entities.ProjectStatusActive, project.Status)

	events := bus.published(providers.EventChannelAll)
	require.Len(t, events, 1)
	assert.Equal(t, entities.TopicProjectNew, events[0].Topic)

	var payload entities.Project
	require.NoError(t, json.Unmarshal(events[0].Payload, &payload))
	assert.Equal(t, project.ID, payload.ID)
	assert.Equal(t, "Desert Sun Array", payload.Name)
}

func TestProjectHandler_CreateProject_MissingName(t *testing.T) {
	repo := newFakeProjectRepo()
	bus := newRecordingBus()
	handler := newProjectHandler(repo, bus)

	req := httptest.NewRequest("POST", "/api/projects", strings.NewReader(`{"capacity":"10MW"}`))
	w := httptest.NewRecorder()
	handler.CreateProject(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, bus.published(providers.EventChannelAll))
}

func TestProjectHandler_UpdateProgress_ReducedPayload(t *testing.T) {
	repo := newFakeProjectRepo()
	bus := newRecordingBus()
	project := seedProject(t, repo, bus)
	handler := newProjectHandler(repo, bus)

	req := httptest.NewRequest("PATCH", "/api/projects/"+project.ID+"/progress", strings.NewReader(`{"progress":65}`))
	req.SetPathValue("id", project.ID)
	w := httptest.NewRecorder()
	handler.UpdateProgress(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	events := bus.published(providers.EventChannelAll)
	require.Len(t, events, 2) // create + progress update

	progressEvent := events[1]
	assert.Equal(t, entities.TopicProjectUpdate, progressEvent.Topic)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(progressEvent.Payload, &payload))
	assert.Equal(t, project.ID, payload["id"])
	assert.Equal(t, float64(65), payload["progress"])
	assert.Contains(t, payload, "updatedAt")
	assert.NotContains(t, payload, "name")
	assert.NotContains(t, payload, "capacity")
}

func TestProjectHandler_UpdateProgress_OutOfRange(t *testing.T) {
	repo := newFakeProjectRepo()
	bus := newRecordingBus()
	project := seedProject(t, repo, bus)
	handler := newProjectHandler(repo, bus)

	for _, progress := range []string{"-1", "101"} {
		req := httptest.NewRequest("PATCH", "/api/projects/"+project.ID+"/progress", strings.NewReader(`{"progress":`+progress+`}`))
		req.SetPathValue("id", project.ID)
		w := httptest.NewRecorder()
		handler.UpdateProgress(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w)
		assert.False(t, env.Success)
	}

	// only the seed create event was broadcast
	assert.Len(t, bus.published(providers.EventChannelAll), 1)

	stored, err := repo.GetByID(context.Background(), project.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, stored.Progress)
}

func TestProjectHandler_DeleteProject(t *testing.T) {
	repo := newFakeProjectRepo()
	bus := newRecordingBus()
	project := seedProject(t, repo, bus)
	handler := newProjectHandler(repo, bus)

	delReq := httptest.NewRequest("DELETE", "/api/projects/"+project.ID, nil)
	delReq.SetPathValue("id", project.ID)
	w := httptest.NewRecorder()
	handler.DeleteProject(w, delReq)

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "project deleted", env.Message)

	events := bus.published(providers.EventChannelAll)
	require.Len(t, events, 2)
	assert.Equal(t, entities.TopicProjectDeleted, events[1].Topic)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(events[1].Payload, &payload))
	assert.Equal(t, project.ID, payload["id"])
	assert.Len(t, payload, 1)

	// gone afterwards
	getReq := httptest.NewRequest("GET", "/api/projects/"+project.ID, nil)
	getReq.SetPathValue("id", project.ID)
	w2 := httptest.NewRecorder()
	handler.GetProject(w2, getReq)
	assert.Equal(t, http.StatusNotFound, w2.Code)
}

func TestProjectHandler_GetProject_NotFound(t *testing.T) {
	handler := newProjectHandler(newFakeProjectRepo(), newRecordingBus())

	getReq := httptest.NewRequest("GET", "/api/projects/missing", nil)
	getReq.SetPathValue("id", "missing")
	w := httptest.NewRecorder()
	handler.GetProject(w, getReq)

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
}

func TestProjectHandler_ListProjects_EmptyIsArray(t *testing.T) {
	handler := newProjectHandler(newFakeProjectRepo(), newRecordingBus())

	w := httptest.NewRecorder()
	handler.ListProjects(w, httptest.NewRequest("GET", "/api/projects", nil))

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "[]", strings.TrimSpace(string(env.Data)))
}
