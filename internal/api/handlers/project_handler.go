package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/alfredhq/alfred/internal/application/services"
	"github.com/alfredhq/alfred/internal/domain/entities"
	"github.com/alfredhq/alfred/internal/domain/repositories"
)

// ProjectHandler handles project-related HTTP requests
type ProjectHandler struct {
	service  *services.ProjectService
	reports  *services.ReportService
	notifier *services.Notifier
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(service *services.ProjectService, reports *services.ReportService, notifier *services.Notifier) *ProjectHandler {
	return &ProjectHandler{
		service:  service,
		reports:  reports,
		notifier: notifier,
	}
}

// ListProjects handles GET /api/projects
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repositories.ProjectFilter{
		Status: query.Get("status"),
		City:   query.Get("city"),
		State:  query.Get("state"),
	}

	projects, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if projects == nil {
		projects = []*entities.Project{}
	}

	respondWithJSON(w, http.StatusOK, projects)
}

// GetProject handles GET /api/projects/{id}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "project ID is required")
		return
	}

	project, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, project)
}

// CreateProject handles POST /api/projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var project entities.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.service.Create(r.Context(), &project); err != nil {
		respondWithAppError(w, err)
		return
	}

	h.notifier.BroadcastAll(r.Context(), entities.TopicProjectNew, &project)
	respondWithJSON(w, http.StatusCreated, &project)
}

// UpdateProject handles PUT /api/projects/{id}
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "project ID is required")
		return
	}

	var project entities.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	project.ID = id

	if err := h.service.Update(r.Context(), &project); err != nil {
		respondWithAppError(w, err)
		return
	}

	h.notifier.BroadcastAll(r.Context(), entities.TopicProjectUpdate, &project)
	respondWithJSON(w, http.StatusOK, &project)
}

// UpdateProgress handles PATCH /api/projects/{id}/progress
func (h *ProjectHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "project ID is required")
		return
	}

	var payload struct {
		Progress int `json:"progress"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	project, err := h.service.UpdateProgress(r.Context(), id, payload.Progress)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	// Progress-only updates carry a reduced payload
	h.notifier.BroadcastAll(r.Context(), entities.TopicProjectUpdate, map[string]interface{}{
		"id":        project.ID,
		"progress":  project.Progress,
		"updatedAt": project.UpdatedAt,
	})
	respondWithJSON(w, http.StatusOK, project)
}

// DeleteProject handles DELETE /api/projects/{id}
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "project ID is required")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondWithAppError(w, err)
		return
	}

	h.notifier.BroadcastAll(r.Context(), entities.TopicProjectDeleted, map[string]interface{}{"id": id})
	respondWithMessage(w, http.StatusOK, nil, "project deleted")
}

// GetMetrics handles GET /api/projects/{id}/metrics
func (h *ProjectHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "project ID is required")
		return
	}

	metrics, err := h.service.Metrics(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, metrics)
}

// StatsOverview handles GET /api/projects/stats/overview
func (h *ProjectHandler) StatsOverview(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Statistics(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

// ListByStatus handles GET /api/projects/status/{status}
func (h *ProjectHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	status := r.PathValue("status")
	if status == "" {
		respondWithError(w, http.StatusBadRequest, "status is required")
		return
	}

	projects, err := h.service.List(r.Context(), repositories.ProjectFilter{Status: status})
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if projects == nil {
		projects = []*entities.Project{}
	}

	respondWithJSON(w, http.StatusOK, projects)
}

// SearchByLocation handles GET /api/projects/location/search
func (h *ProjectHandler) SearchByLocation(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	city := query.Get("city")
	state := query.Get("state")
	if city == "" && state == "" {
		respondWithError(w, http.StatusBadRequest, "city or state query parameter is required")
		return
	}

	projects, err := h.service.List(r.Context(), repositories.ProjectFilter{City: city, State: state})
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if projects == nil {
		projects = []*entities.Project{}
	}

	respondWithJSON(w, http.StatusOK, projects)
}

// NetworkOverview handles GET /api/projects/network/overview. The payload is
// returned bare, without the envelope.
func (h *ProjectHandler) NetworkOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.NetworkOverview(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondRaw(w, http.StatusOK, overview)
}

// GetSchematic handles GET /api/projects/{id}/schematic
func (h *ProjectHandler) GetSchematic(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "project ID is required")
		return
	}

	schematic, err := h.service.Schematic(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, schematic)
}

// ExportReport handles GET /api/projects/export/report
func (h *ProjectHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.reports.WriteNetworkReport(r.Context(), &buf); err != nil {
		respondWithAppError(w, err)
		return
	}

	filename := fmt.Sprintf("network-report-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
