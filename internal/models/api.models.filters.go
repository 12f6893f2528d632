// FilePath: internal/models/api.models.filters.go
package models

// AlertFilters defines the available filter options for alert listings.
// Schema tags allow decoding straight from query strings.
type AlertFilters struct {
	Status      AlertStatus   `json:"status" schema:"status"`
	Severity    AlertSeverity `json:"severity" schema:"severity"`
	Type        AlertType     `json:"type" schema:"type"`
	EquipmentID string        `json:"equipment_id" schema:"equipment_id"`
	Offset      int           `json:"offset" schema:"offset"`
	Limit       int           `json:"limit" schema:"limit"`
}
