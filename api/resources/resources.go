// FilePath: api/resources/resources.go
package resources

import (
	"net/http"

	nuts "github.com/vaudience/go-nuts"
	"github.com/washlane/equipmenthub/internal/hubservice"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	Equipment   *EquipmentHandlers
	Telemetry   *TelemetryHandlers
	Alerts      *AlertHandlers
	Insights    *InsightHandlers
	HealthCheck func(w http.ResponseWriter, r *http.Request)
	Metrics     func(w http.ResponseWriter, r *http.Request)
}

// NewResources creates a new Resources instance
func NewResources(svc *hubservice.HubService) *Resources {
	return &Resources{
		Equipment:   &EquipmentHandlers{hubservice: svc},
		Telemetry:   &TelemetryHandlers{hubservice: svc},
		Alerts:      &AlertHandlers{hubservice: svc},
		Insights:    &InsightHandlers{hubservice: svc},
		HealthCheck: defaultHealthCheck,
		Metrics:     defaultMetrics,
	}
}

func defaultHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok","version":"` + nuts.GetVersion() + `"}`))
}

func defaultMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// SetHealthCheck sets the health check handler
func (r *Resources) SetHealthCheck(h func(w http.ResponseWriter, r *http.Request)) {
	r.HealthCheck = h
}

// SetMetrics sets the metrics handler
func (r *Resources) SetMetrics(h func(w http.ResponseWriter, r *http.Request)) {
	r.Metrics = h
}
