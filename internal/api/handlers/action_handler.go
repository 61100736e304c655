package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/alfredhq/alfred/internal/application/services"
	"github.com/alfredhq/alfred/internal/domain/entities"
	"github.com/alfredhq/alfred/internal/domain/repositories"
)

// ActionHandler handles action item and risk assessment HTTP requests
type ActionHandler struct {
	service  *services.ActionService
	notifier *services.Notifier
}

// NewActionHandler creates a new action handler
func NewActionHandler(service *services.ActionService, notifier *services.Notifier) *ActionHandler {
	return &ActionHandler{
		service:  service,
		notifier: notifier,
	}
}

// ListActions handles GET /api/actions
func (h *ActionHandler) ListActions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repositories.ActionFilter{
		Priority:  query.Get("priority"),
		Status:    query.Get("status"),
		ProjectID: query.Get("projectId"),
		Type:      query.Get("type"),
	}

	items, err := h.service.ListActions(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if items == nil {
		items = []*entities.ActionItem{}
	}

	respondWithJSON(w, http.StatusOK, items)
}

// ListOverdue handles GET /api/actions/overdue
func (h *ActionHandler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListOverdueActions(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if items == nil {
		items = []*entities.ActionItem{}
	}

	respondWithJSON(w, http.StatusOK, items)
}

// GetAction handles GET /api/actions/{id}
func (h *ActionHandler) GetAction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "action ID is required")
		return
	}

	item, err := h.service.GetAction(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, item)
}

// CreateAction handles POST /api/actions
func (h *ActionHandler) CreateAction(w http.ResponseWriter, r *http.Request) {
	var item entities.ActionItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.service.CreateAction(r.Context(), &item); err != nil {
		respondWithAppError(w, err)
		return
	}

	h.notifier.BroadcastAll(r.Context(), entities.TopicActionNew, &item)
	respondWithJSON(w, http.StatusCreated, &item)
}

// UpdateAction handles PUT /api/actions/{id}
func (h *ActionHandler) UpdateAction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "action ID is required")
		return
	}

	var item entities.ActionItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	item.ID = id

	if err := h.service.UpdateAction(r.Context(), &item); err != nil {
		respondWithAppError(w, err)
		return
	}

	h.notifier.BroadcastAll(r.Context(), entities.TopicActionUpdate, &item)
	respondWithJSON(w, http.StatusOK, &item)
}

// UpdateActionStatus handles PATCH /api/actions/{id}/status
func (h *ActionHandler) UpdateActionStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "action ID is required")
		return
	}

	var payload struct {
		Status entities.ActionStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	item, err := h.service.UpdateActionStatus(r.Context(), id, payload.Status)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	h.notifier.BroadcastAll(r.Context(), entities.TopicActionUpdate, item)
	respondWithJSON(w, http.StatusOK, item)
}

// DeleteAction handles DELETE /api/actions/{id}
func (h *ActionHandler) DeleteAction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "action ID is required")
		return
	}

	if err := h.service.DeleteAction(r.Context(), id); err != nil {
		respondWithAppError(w, err)
		return
	}

	h.notifier.BroadcastAll(r.Context(), entities.TopicActionDeleted, map[string]interface{}{"id": id})
	respondWithMessage(w, http.StatusOK, nil, "action deleted")
}

// ListRisks handles GET /api/actions/risks/all
func (h *ActionHandler) ListRisks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repositories.RiskFilter{
		Impact:      query.Get("impact"),
		Probability: query.Get("probability"),
		Status:      query.Get("status"),
		ProjectID:   query.Get("projectId"),
	}

	risks, err := h.service.ListRisks(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if risks == nil {
		risks = []*entities.RiskAssessment{}
	}

	respondWithJSON(w, http.StatusOK, risks)
}

// ListHighRisks handles GET /api/actions/risks/high
func (h *ActionHandler) ListHighRisks(w http.ResponseWriter, r *http.Request) {
	risks, err := h.service.ListHighRisks(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if risks == nil {
		risks = []*entities.RiskAssessment{}
	}

	respondWithJSON(w, http.StatusOK, risks)
}

// GetRisk handles GET /api/actions/risks/{id}
func (h *ActionHandler) GetRisk(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "risk ID is required")
		return
	}

	risk, err := h.service.GetRisk(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, risk)
}

// CreateRisk handles POST /api/actions/risks
func (h *ActionHandler) CreateRisk(w http.ResponseWriter, r *http.Request) {
	var risk entities.RiskAssessment
	if err := json.NewDecoder(r.Body).Decode(&risk); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.service.CreateRisk(r.Context(), &risk); err != nil {
		respondWithAppError(w, err)
		return
	}

	h.notifier.BroadcastAll(r.Context(), entities.TopicRiskNew, &risk)
	respondWithJSON(w, http.StatusCreated, &risk)
}

// UpdateRisk handles PUT /api/actions/risks/{id}
func (h *ActionHandler) UpdateRisk(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "risk ID is required")
		return
	}

	var risk entities.RiskAssessment
	if err := json.NewDecoder(r.Body).Decode(&risk); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	risk.ID = id

	if err := h.service.UpdateRisk(r.Context(), &risk); err != nil {
		respondWithAppError(w, err)
		return
	}

	h.notifier.BroadcastAll(r.Context(), entities.TopicRiskUpdate, &risk)
	respondWithJSON(w, http.StatusOK, &risk)
}

// DeleteRisk handles DELETE /api/actions/risks/{id}
func (h *ActionHandler) DeleteRisk(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "risk ID is required")
		return
	}

	if err := h.service.DeleteRisk(r.Context(), id); err != nil {
		respondWithAppError(w, err)
		return
	}

	h.notifier.BroadcastAll(r.Context(), entities.TopicRiskDeleted, map[string]interface{}{"id": id})
	respondWithMessage(w, http.StatusOK, nil, "risk deleted")
}

// StatsOverview handles GET /api/actions/stats/overview
func (h *ActionHandler) StatsOverview(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.StatsOverview(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}
