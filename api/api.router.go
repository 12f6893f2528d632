package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/washlane/equipmenthub/api/middleware"
	"github.com/washlane/equipmenthub/api/resources"
	"github.com/washlane/equipmenthub/internal/hubservice"
)

type Router struct {
	router    *mux.Router
	auth      *middleware.KeycloakMiddleware
	resources *resources.Resources
}

func NewRouter(svc *hubservice.HubService, keycloakConfig middleware.KeycloakConfig) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		auth:      middleware.NewKeycloakMiddleware(keycloakConfig),
		resources: resources.NewResources(svc),
	}

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	// API version prefix
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/health", r.resources.HealthCheck).Methods(http.MethodGet)
	api.HandleFunc("/metrics", r.resources.Metrics).Methods(http.MethodGet)

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(r.auth.Authenticate)

	// Telemetry ingestion
	protected.HandleFunc("/telemetry", r.resources.Telemetry.RecordReading).Methods(http.MethodPost)

	// Equipment
	equipment := protected.PathPrefix("/equipment").Subrouter()
	equipment.HandleFunc("", r.resources.Equipment.ListEquipment).Methods(http.MethodGet)
	equipment.HandleFunc("", r.resources.Equipment.CreateEquipment).Methods(http.MethodPost)
	equipment.HandleFunc("/{id}", r.resources.Equipment.GetEquipment).Methods(http.MethodGet)
	equipment.HandleFunc("/{id}", r.resources.Equipment.UpdateEquipment).Methods(http.MethodPut)
	equipment.HandleFunc("/{id}", r.resources.Equipment.DeleteEquipment).Methods(http.MethodDelete)
	equipment.HandleFunc("/{id}/status", r.resources.Equipment.GetEquipmentStatus).Methods(http.MethodGet)
	equipment.HandleFunc("/{id}/maintenance", r.resources.Equipment.RecordMaintenance).Methods(http.MethodPost)
	equipment.HandleFunc("/{id}/readings", r.resources.Telemetry.GetReadings).Methods(http.MethodGet)
	equipment.HandleFunc("/{id}/readings/latest", r.resources.Telemetry.GetLatestReading).Methods(http.MethodGet)
	equipment.HandleFunc("/{id}/usage", r.resources.Insights.GetUsageMetrics).Methods(http.MethodGet)
	equipment.HandleFunc("/{id}/recommendations", r.resources.Insights.GetRecommendations).Methods(http.MethodGet)

	// Alerts
	alerts := protected.PathPrefix("/alerts").Subrouter()
	alerts.HandleFunc("", r.resources.Alerts.ListAlerts).Methods(http.MethodGet)
	alerts.HandleFunc("/{id}/acknowledge", r.resources.Alerts.AcknowledgeAlert).Methods(http.MethodPost)
	alerts.HandleFunc("/{id}/resolve", r.resources.Alerts.ResolveAlert).Methods(http.MethodPost)

	// Fleet-wide usage
	protected.HandleFunc("/usage", r.resources.Insights.GetTenantUsageMetrics).Methods(http.MethodGet)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
