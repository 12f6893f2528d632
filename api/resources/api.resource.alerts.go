// FilePath: api/resources/api.resource.alerts.go
package resources

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	nuts "github.com/vaudience/go-nuts"
	"github.com/washlane/equipmenthub/internal/errors"
	"github.com/washlane/equipmenthub/internal/hubservice"
	"github.com/washlane/equipmenthub/internal/models"
)

// AlertHandlers encapsulates the maintenance alert HTTP handlers
type AlertHandlers struct {
	hubservice *hubservice.HubService
}

var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// @Summary List maintenance alerts
// @Description Get the tenant's alerts, most severe and most recent first
// @Tags alerts
// @Produce json
// @Param status query string false "Filter by status (open, acknowledged, resolved)"
// @Param severity query string false "Filter by severity"
// @Param type query string false "Filter by alert type"
// @Param equipment_id query string false "Filter by equipment"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {array} models.MaintenanceAlert
// @Failure 400 {object} errors.APIError
// @Router /alerts [get]
func (h *AlertHandlers) ListAlerts(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var filters models.AlertFilters
	if err := queryDecoder.Decode(&filters, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid filter parameters", err).WithRequestID(requestID))
		return
	}

	alerts, err := h.hubservice.ListAlerts(r.Context(), filters)
	if err != nil {
		respondWithAPIError(w, err, requestID, "failed to list alerts")
		return
	}

	respondWithJSON(w, http.StatusOK, alerts)
}

// @Summary Acknowledge an alert
// @Description Mark an alert as seen by an operator, optionally with a note
// @Tags alerts
// @Accept json
// @Produce json
// @Param id path string true "Alert ID"
// @Success 200 {object} models.MaintenanceAlert
// @Failure 404 {object} errors.APIError
// @Router /alerts/{id}/acknowledge [post]
// @Security BearerAuth
func (h *AlertHandlers) AcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	// The body is optional; an empty or absent body acknowledges without notes.
	var body struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && err != io.EOF {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	alert, err := h.hubservice.AcknowledgeAlert(r.Context(), id, body.Notes)
	if err != nil {
		respondWithAPIError(w, err, requestID, "failed to acknowledge alert")
		return
	}

	respondWithJSON(w, http.StatusOK, alert)
}

// @Summary Resolve an alert
// @Description Close an alert with a resolution note
// @Tags alerts
// @Accept json
// @Produce json
// @Param id path string true "Alert ID"
// @Success 200 {object} models.MaintenanceAlert
// @Failure 400 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /alerts/{id}/resolve [post]
// @Security BearerAuth
func (h *AlertHandlers) ResolveAlert(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	var body struct {
		Resolution string `json:"resolution"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	alert, err := h.hubservice.ResolveAlert(r.Context(), id, body.Resolution)
	if err != nil {
		respondWithAPIError(w, err, requestID, "failed to resolve alert")
		return
	}

	respondWithJSON(w, http.StatusOK, alert)
}
