package routes

import (
	"net/http"

	"github.com/alfredhq/alfred/internal/api/handlers"
	"github.com/alfredhq/alfred/internal/api/middleware"
	"github.com/alfredhq/alfred/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	projectHandler       *handlers.ProjectHandler
	communicationHandler *handlers.CommunicationHandler
	actionHandler        *handlers.ActionHandler
	weatherHandler       *handlers.WeatherHandler
	streamHandler        *handlers.StreamHandler

	cacheMiddleware *middleware.CacheMiddleware
	rateLimiter     *middleware.RateLimiter
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	projectHandler *handlers.ProjectHandler,
	communicationHandler *handlers.CommunicationHandler,
	actionHandler *handlers.ActionHandler,
	weatherHandler *handlers.WeatherHandler,
	streamHandler *handlers.StreamHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	rateLimiter *middleware.RateLimiter,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		projectHandler:       projectHandler,
		communicationHandler: communicationHandler,
		actionHandler:        actionHandler,
		weatherHandler:       weatherHandler,
		streamHandler:        streamHandler,

		cacheMiddleware: cacheMiddleware,
		rateLimiter:     rateLimiter,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Project endpoints
	r.mux.HandleFunc("GET /api/projects", r.projectHandler.ListProjects)
	r.mux.HandleFunc("POST /api/projects", r.projectHandler.CreateProject)
	r.mux.HandleFunc("GET /api/projects/stats/overview", r.projectHandler.StatsOverview)
	r.mux.HandleFunc("GET /api/projects/network/overview", r.projectHandler.NetworkOverview)
	r.mux.HandleFunc("GET /api/projects/status/{status}", r.projectHandler.ListByStatus)
	r.mux.HandleFunc("GET /api/projects/location/search", r.projectHandler.SearchByLocation)
	r.mux.HandleFunc("GET /api/projects/export/report", r.projectHandler.ExportReport)
	r.mux.HandleFunc("GET /api/projects/{id}", r.projectHandler.GetProject)
	r.mux.HandleFunc("PUT /api/projects/{id}", r.projectHandler.UpdateProject)
	r.mux.HandleFunc("DELETE /api/projects/{id}", r.projectHandler.DeleteProject)
	r.mux.HandleFunc("PATCH /api/projects/{id}/progress", r.projectHandler.UpdateProgress)
	r.mux.HandleFunc("GET /api/projects/{id}/metrics", r.projectHandler.GetMetrics)
	r.mux.HandleFunc("GET /api/projects/{id}/schematic", r.projectHandler.GetSchematic)

	// Communication endpoints
	r.mux.HandleFunc("GET /api/communications", r.communicationHandler.ListCommunications)
	r.mux.HandleFunc("POST /api/communications", r.communicationHandler.CreateCommunication)
	r.mux.HandleFunc("GET /api/communications/search", r.communicationHandler.SearchCommunications)
	r.mux.HandleFunc("GET /api/communications/project/{projectId}", r.communicationHandler.ListByProject)
	r.mux.HandleFunc("POST /api/communications/ai-insight", r.communicationHandler.CreateAIInsight)
	r.mux.HandleFunc("GET /api/communications/ai-insights", r.communicationHandler.ListAIInsights)
	r.mux.HandleFunc("POST /api/communications/test-socket", r.communicationHandler.TestSocket)
	r.mux.HandleFunc("GET /api/communications/{id}", r.communicationHandler.GetCommunication)
	r.mux.HandleFunc("PUT /api/communications/{id}", r.communicationHandler.UpdateCommunication)
	r.mux.HandleFunc("DELETE /api/communications/{id}", r.communicationHandler.DeleteCommunication)

	// Action item endpoints
	r.mux.HandleFunc("GET /api/actions", r.actionHandler.ListActions)
	r.mux.HandleFunc("POST /api/actions", r.actionHandler.CreateAction)
	r.mux.HandleFunc("GET /api/actions/overdue", r.actionHandler.ListOverdue)
	r.mux.HandleFunc("GET /api/actions/stats/overview", r.actionHandler.StatsOverview)
	r.mux.HandleFunc("GET /api/actions/{id}", r.actionHandler.GetAction)
	r.mux.HandleFunc("PUT /api/actions/{id}", r.actionHandler.UpdateAction)
	r.mux.HandleFunc("PATCH /api/actions/{id}/status", r.actionHandler.UpdateActionStatus)
	r.mux.HandleFunc("DELETE /api/actions/{id}", r.actionHandler.DeleteAction)

	// Risk assessment endpoints nested under actions
	r.mux.HandleFunc("GET /api/actions/risks/all", r.actionHandler.ListRisks)
	r.mux.HandleFunc("GET /api/actions/risks/high", r.actionHandler.ListHighRisks)
	r.mux.HandleFunc("POST /api/actions/risks", r.actionHandler.CreateRisk)
	r.mux.HandleFunc("GET /api/actions/risks/{id}", r.actionHandler.GetRisk)
	r.mux.HandleFunc("PUT /api/actions/risks/{id}", r.actionHandler.UpdateRisk)
	r.mux.HandleFunc("DELETE /api/actions/risks/{id}", r.actionHandler.DeleteRisk)

	// Weather endpoints
	r.mux.HandleFunc("GET /api/weather/location/{location}", r.weatherHandler.GetByLocation)
	r.mux.HandleFunc("POST /api/weather/location/{location}", r.weatherHandler.UpsertWeather)
	r.mux.HandleFunc("PUT /api/weather/location/{location}", r.weatherHandler.UpdateWeather)
	r.mux.HandleFunc("DELETE /api/weather/location/{location}", r.weatherHandler.DeleteWeather)
	r.mux.HandleFunc("POST /api/weather/multiple", r.weatherHandler.GetByLocations)
	r.mux.HandleFunc("GET /api/weather/forecast/{location}", r.weatherHandler.GetForecast)
	r.mux.HandleFunc("POST /api/weather/simulate/{location}", r.weatherHandler.SimulateWeather)
	r.mux.HandleFunc("GET /api/weather/stats/overview", r.weatherHandler.StatsOverview)
	r.mux.HandleFunc("GET /api/weather/stats/extreme", r.weatherHandler.StatsExtreme)
	r.mux.HandleFunc("POST /api/weather/test-socket", r.weatherHandler.TestSocket)

	// Real-time stream endpoints
	r.mux.HandleFunc("GET /api/stream", r.streamHandler.StreamAll)
	r.mux.HandleFunc("GET /api/stream/projects/{id}", r.streamHandler.StreamProject)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.Logging(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}
	if r.rateLimiter != nil {
		handler = r.rateLimiter.Middleware(handler)
	}

	handler = middleware.Observability(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.SecurityHeaders(handler)
	handler = middleware.Recovery(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORS(handler)

	return handler
}
