// FilePath: api/resources/api.resource.insights.go
package resources

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	nuts "github.com/vaudience/go-nuts"
	"github.com/washlane/equipmenthub/internal/hubservice"
)

// InsightHandlers encapsulates the usage metrics and recommendation handlers
type InsightHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary Get usage metrics
// @Description Get aggregated energy, water and cycle usage for a machine
// @Tags insights
// @Produce json
// @Param id path string true "Equipment ID"
// @Param window_days query int false "Aggregation window in days"
// @Success 200 {object} models.UsageMetrics
// @Failure 404 {object} errors.APIError
// @Router /equipment/{id}/usage [get]
func (h *InsightHandlers) GetUsageMetrics(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)
	windowDays, _ := strconv.Atoi(r.URL.Query().Get("window_days"))

	metrics, err := h.hubservice.GetUsageMetrics(r.Context(), id, windowDays)
	if err != nil {
		respondWithAPIError(w, err, requestID, "failed to compute usage metrics")
		return
	}

	respondWithJSON(w, http.StatusOK, metrics)
}

// @Summary Get optimization recommendations
// @Description Get cost-saving recommendations for a machine, sorted by
// @Description estimated monthly savings
// @Tags insights
// @Produce json
// @Param id path string true "Equipment ID"
// @Param window_days query int false "Aggregation window in days"
// @Success 200 {object} hubservice.UsageReport
// @Failure 404 {object} errors.APIError
// @Router /equipment/{id}/recommendations [get]
func (h *InsightHandlers) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)
	windowDays, _ := strconv.Atoi(r.URL.Query().Get("window_days"))

	report, err := h.hubservice.GetRecommendations(r.Context(), id, windowDays)
	if err != nil {
		respondWithAPIError(w, err, requestID, "failed to compute recommendations")
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}

// @Summary Get tenant usage metrics
// @Description Get aggregated usage across the tenant's whole fleet
// @Tags insights
// @Produce json
// @Param window_days query int false "Aggregation window in days"
// @Success 200 {object} models.UsageMetrics
// @Router /usage [get]
func (h *InsightHandlers) GetTenantUsageMetrics(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	windowDays, _ := strconv.Atoi(r.URL.Query().Get("window_days"))

	metrics, err := h.hubservice.GetTenantUsageMetrics(r.Context(), windowDays)
	if err != nil {
		respondWithAPIError(w, err, requestID, "failed to compute tenant usage metrics")
		return
	}

	respondWithJSON(w, http.StatusOK, metrics)
}
