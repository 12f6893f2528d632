// FilePath: api/resources/api.resource.telemetry.go
package resources

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	nuts "github.com/vaudience/go-nuts"
	"github.com/washlane/equipmenthub/internal/errors"
	"github.com/washlane/equipmenthub/internal/hubservice"
	"github.com/washlane/equipmenthub/internal/models"
)

// TelemetryHandlers encapsulates the telemetry ingestion and query handlers
type TelemetryHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary Ingest a telemetry reading
// @Description Record a telemetry reading; anomaly detection and alert
// @Description lifecycle updates run as part of ingestion
// @Tags telemetry
// @Accept json
// @Produce json
// @Param reading body models.TelemetryReading true "Telemetry reading"
// @Success 202 {object} models.TelemetryReading
// @Failure 400 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /telemetry [post]
// @Security BearerAuth
func (h *TelemetryHandlers) RecordReading(w http.ResponseWriter, r *http.Request) {
	var reading models.TelemetryReading
	requestID := nuts.NID("req", 12)

	if err := json.NewDecoder(r.Body).Decode(&reading); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	if err := h.hubservice.RecordReading(r.Context(), &reading); err != nil {
		respondWithAPIError(w, err, requestID, "failed to record reading")
		return
	}

	respondWithJSON(w, http.StatusAccepted, reading)
}

// @Summary Get telemetry readings
// @Description Get readings for a machine over a time range (defaults to the
// @Description last 24 hours)
// @Tags telemetry
// @Produce json
// @Param id path string true "Equipment ID"
// @Param start query string false "Range start (RFC3339)"
// @Param end query string false "Range end (RFC3339)"
// @Success 200 {array} models.TelemetryReading
// @Failure 400 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /equipment/{id}/readings [get]
func (h *TelemetryHandlers) GetReadings(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	start, err := parseTimeParam(r, "start")
	if err != nil {
		respondWithError(w, errors.NewValidationError("invalid start time", err).WithRequestID(requestID))
		return
	}
	end, err := parseTimeParam(r, "end")
	if err != nil {
		respondWithError(w, errors.NewValidationError("invalid end time", err).WithRequestID(requestID))
		return
	}

	readings, err := h.hubservice.GetReadings(r.Context(), id, start, end)
	if err != nil {
		respondWithAPIError(w, err, requestID, "failed to get readings")
		return
	}

	respondWithJSON(w, http.StatusOK, readings)
}

// @Summary Get latest reading
// @Description Get the most recent telemetry reading for a machine
// @Tags telemetry
// @Produce json
// @Param id path string true "Equipment ID"
// @Success 200 {object} models.TelemetryReading
// @Failure 404 {object} errors.APIError
// @Router /equipment/{id}/readings/latest [get]
func (h *TelemetryHandlers) GetLatestReading(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	reading, err := h.hubservice.GetLatestReading(r.Context(), id)
	if err != nil {
		respondWithAPIError(w, err, requestID, "no readings for equipment")
		return
	}

	respondWithJSON(w, http.StatusOK, reading)
}

func parseTimeParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}
