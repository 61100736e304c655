package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/alfredhq/alfred/internal/application/services"
	"github.com/alfredhq/alfred/internal/domain/entities"
	"github.com/alfredhq/alfred/internal/domain/repositories"
)

// CommunicationHandler handles communication-related HTTP requests
type CommunicationHandler struct {
	service  *services.CommunicationService
	notifier *services.Notifier
}

// NewCommunicationHandler creates a new communication handler
func NewCommunicationHandler(service *services.CommunicationService, notifier *services.Notifier) *CommunicationHandler {
	return &CommunicationHandler{
		service:  service,
		notifier: notifier,
	}
}

// ListCommunications handles GET /api/communications
func (h *CommunicationHandler) ListCommunications(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repositories.CommunicationFilter{
		Type:      query.Get("type"),
		Priority:  query.Get("priority"),
		ProjectID: query.Get("projectId"),
		Source:    query.Get("source"),
	}

	comms, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if comms == nil {
		comms = []*entities.Communication{}
	}

	respondWithJSON(w, http.StatusOK, comms)
}

// ListByProject handles GET /api/communications/project/{projectId}
func (h *CommunicationHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectId")
	if projectID == "" {
		respondWithError(w, http.StatusBadRequest, "project ID is required")
		return
	}

	comms, err := h.service.List(r.Context(), repositories.CommunicationFilter{ProjectID: projectID})
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if comms == nil {
		comms = []*entities.Communication{}
	}

	respondWithJSON(w, http.StatusOK, comms)
}

// SearchCommunications handles GET /api/communications/search
func (h *CommunicationHandler) SearchCommunications(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		respondWithError(w, http.StatusBadRequest, "search term is required")
		return
	}

	comms, err := h.service.Search(r.Context(), term)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if comms == nil {
		comms = []*entities.Communication{}
	}

	respondWithJSON(w, http.StatusOK, comms)
}

// GetCommunication handles GET /api/communications/{id}
func (h *CommunicationHandler) GetCommunication(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "communication ID is required")
		return
	}

	comm, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, comm)
}

// CreateCommunication handles POST /api/communications
func (h *CommunicationHandler) CreateCommunication(w http.ResponseWriter, r *http.Request) {
	var comm entities.Communication
	if err := json.NewDecoder(r.Body).Decode(&comm); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.service.Create(r.Context(), &comm); err != nil {
		respondWithAppError(w, err)
		return
	}

	h.notifier.BroadcastAll(r.Context(), entities.TopicCommunicationNew, &comm)
	respondWithJSON(w, http.StatusCreated, &comm)
}

// UpdateCommunication handles PUT /api/communications/{id}
func (h *CommunicationHandler) UpdateCommunication(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "communication ID is required")
		return
	}

	var comm entities.Communication
	if err := json.NewDecoder(r.Body).Decode(&comm); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	comm.ID = id

	if err := h.service.Update(r.Context(), &comm); err != nil {
		respondWithAppError(w, err)
		return
	}

	h.notifier.BroadcastAll(r.Context(), entities.TopicCommunicationUpdate, &comm)
	respondWithJSON(w, http.StatusOK, &comm)
}

// DeleteCommunication handles DELETE /api/communications/{id}
func (h *CommunicationHandler) DeleteCommunication(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "communication ID is required")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondWithAppError(w, err)
		return
	}

	h.notifier.BroadcastAll(r.Context(), entities.TopicCommunicationDeleted, map[string]interface{}{"id": id})
	respondWithMessage(w, http.StatusOK, nil, "communication deleted")
}

// CreateAIInsight handles POST /api/communications/ai-insight
func (h *CommunicationHandler) CreateAIInsight(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ProjectID   string `json:"projectId"`
		InsightType string `json:"insightType"`
		Message     string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	comm, err := h.service.CreateAIInsight(r.Context(), payload.ProjectID, payload.InsightType, payload.Message)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	h.notifier.BroadcastAll(r.Context(), entities.TopicAIInsight, comm)
	respondWithJSON(w, http.StatusCreated, comm)
}

// ListAIInsights handles GET /api/communications/ai-insights
func (h *CommunicationHandler) ListAIInsights(w http.ResponseWriter, r *http.Request) {
	comms, err := h.service.ListAIInsights(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if comms == nil {
		comms = []*entities.Communication{}
	}

	respondWithJSON(w, http.StatusOK, comms)
}

// TestSocket handles POST /api/communications/test-socket. It broadcasts a
// throwaway event without touching the database.
func (h *CommunicationHandler) TestSocket(w http.ResponseWriter, r *http.Request) {
	h.notifier.BroadcastAll(r.Context(), entities.TopicCommunicationNew, map[string]interface{}{
		"id":       "test",
		"title":    "Test Communication",
		"content":  "Broadcast test event",
		"type":     entities.CommunicationTypeStatusUpdate,
		"priority": entities.CommunicationPriorityNormal,
		"source":   entities.CommunicationSourceSystem,
		"postedAt": time.Now(),
	})
	respondWithMessage(w, http.StatusOK, nil, "test event broadcast")
}
