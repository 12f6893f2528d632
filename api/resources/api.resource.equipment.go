// FilePath: api/resources/api.resource.equipment.go
package resources

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	nuts "github.com/vaudience/go-nuts"
	"github.com/washlane/equipmenthub/internal/errors"
	"github.com/washlane/equipmenthub/internal/hubservice"
	"github.com/washlane/equipmenthub/internal/models"
)

// EquipmentHandlers encapsulates the equipment-related HTTP handlers
type EquipmentHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary Register new equipment
// @Description Register a new machine with the provided details
// @Tags equipment
// @Accept json
// @Produce json
// @Param equipment body models.Equipment true "Equipment details"
// @Success 201 {object} models.Equipment
// @Failure 400 {object} errors.APIError
// @Failure 401 {object} errors.APIError
// @Router /equipment [post]
// @Security BearerAuth
func (h *EquipmentHandlers) CreateEquipment(w http.ResponseWriter, r *http.Request) {
	var equipment models.Equipment
	requestID := nuts.NID("req", 12)

	if err := json.NewDecoder(r.Body).Decode(&equipment); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	err := h.hubservice.CreateEquipment(r.Context(), &equipment)
	if err != nil {
		respondWithAPIError(w, err, requestID, "failed to create equipment")
		return
	}

	respondWithJSON(w, http.StatusCreated, equipment)
}

// @Summary Get equipment by ID
// @Description Get detailed information about a specific machine
// @Tags equipment
// @Produce json
// @Param id path string true "Equipment ID"
// @Success 200 {object} models.Equipment
// @Failure 404 {object} errors.APIError
// @Router /equipment/{id} [get]
func (h *EquipmentHandlers) GetEquipment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	equipment, err := h.hubservice.GetEquipment(r.Context(), id)
	if err != nil {
		respondWithAPIError(w, err, requestID, "equipment not found")
		return
	}

	respondWithJSON(w, http.StatusOK, equipment)
}

// @Summary List equipment
// @Description Get a paginated list of the tenant's machines
// @Tags equipment
// @Produce json
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {array} models.Equipment
// @Router /equipment [get]
func (h *EquipmentHandlers) ListEquipment(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	offset, limit := getPaginationParams(r)

	equipment, err := h.hubservice.ListEquipment(r.Context(), offset, limit)
	if err != nil {
		respondWithAPIError(w, err, requestID, "failed to list equipment")
		return
	}

	respondWithJSON(w, http.StatusOK, equipment)
}

// @Summary Update equipment
// @Description Update an existing machine's details
// @Tags equipment
// @Accept json
// @Produce json
// @Param id path string true "Equipment ID"
// @Param equipment body models.Equipment true "Updated equipment details"
// @Success 200 {object} models.Equipment
// @Failure 400 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /equipment/{id} [put]
// @Security BearerAuth
func (h *EquipmentHandlers) UpdateEquipment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	var equipment models.Equipment
	if err := json.NewDecoder(r.Body).Decode(&equipment); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	equipment.ID = id
	err := h.hubservice.UpdateEquipment(r.Context(), &equipment)
	if err != nil {
		respondWithAPIError(w, err, requestID, "failed to update equipment")
		return
	}

	respondWithJSON(w, http.StatusOK, equipment)
}

// @Summary Delete equipment
// @Description Delete a machine and all its telemetry
// @Tags equipment
// @Param id path string true "Equipment ID"
// @Success 204 "No Content"
// @Failure 404 {object} errors.APIError
// @Router /equipment/{id} [delete]
// @Security BearerAuth
func (h *EquipmentHandlers) DeleteEquipment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	if err := h.hubservice.DeleteEquipment(r.Context(), id); err != nil {
		respondWithAPIError(w, err, requestID, "failed to delete equipment")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary Get equipment status
// @Description Get a machine with its latest reading and active alerts
// @Tags equipment
// @Produce json
// @Param id path string true "Equipment ID"
// @Success 200 {object} hubservice.EquipmentStatus
// @Failure 404 {object} errors.APIError
// @Router /equipment/{id}/status [get]
func (h *EquipmentHandlers) GetEquipmentStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	status, err := h.hubservice.GetEquipmentStatus(r.Context(), id)
	if err != nil {
		respondWithAPIError(w, err, requestID, "failed to get equipment status")
		return
	}

	respondWithJSON(w, http.StatusOK, status)
}

// @Summary Record maintenance
// @Description Record a completed maintenance visit for a machine
// @Tags equipment
// @Accept json
// @Param id path string true "Equipment ID"
// @Success 204 "No Content"
// @Failure 404 {object} errors.APIError
// @Router /equipment/{id}/maintenance [post]
// @Security BearerAuth
func (h *EquipmentHandlers) RecordMaintenance(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	var body struct {
		Date time.Time `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}
	if body.Date.IsZero() {
		body.Date = time.Now()
	}

	if err := h.hubservice.RecordMaintenance(r.Context(), id, body.Date); err != nil {
		respondWithAPIError(w, err, requestID, "failed to record maintenance")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Helper functions

func getPaginationParams(r *http.Request) (offset, limit int) {
	query := r.URL.Query()
	offset, _ = strconv.Atoi(query.Get("offset"))
	limit, _ = strconv.Atoi(query.Get("limit"))

	if limit <= 0 || limit > 100 {
		limit = 50 // Default limit
	}
	if offset < 0 {
		offset = 0
	}

	return offset, limit
}

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
	nuts.L.Errorf("[API] %s", err.Error())
}

// respondWithAPIError preserves typed service errors and wraps everything
// else as an internal error with the given message.
func respondWithAPIError(w http.ResponseWriter, err error, requestID, fallback string) {
	if apiErr, ok := err.(*errors.APIError); ok {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}
	respondWithError(w, errors.NewInternalError(fallback, err).WithRequestID(requestID))
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
