package hubservice

import (
	"context"
	"time"

	"github.com/itsatony/struccy"
	nuts "github.com/vaudience/go-nuts"
	"github.com/washlane/equipmenthub/internal/errors"
	"github.com/washlane/equipmenthub/internal/models"
)

// EquipmentStatus bundles what a dashboard needs to render one machine tile.
type EquipmentStatus struct {
	Equipment     *models.Equipment          `json:"equipment"`
	LatestReading *models.TelemetryReading   `json:"latest_reading,omitempty"`
	ActiveAlerts  []*models.MaintenanceAlert `json:"active_alerts"`
	OnlineStatus  string                     `json:"online_status"`
}

// CreateEquipment registers a new machine for the authenticated tenant.
func (s *HubService) CreateEquipment(ctx context.Context, equipment *models.Equipment) error {
	if equipment.Name == "" {
		return errors.NewValidationError("equipment name is required", nil)
	}
	if !equipment.KnownType() {
		return errors.NewValidationError("unknown equipment type: "+string(equipment.Type), nil)
	}

	if equipment.ID == "" {
		equipment.ID = nuts.NID("eq", 12)
	}
	if equipment.TenantID == "" {
		equipment.TenantID = GetTenantID(ctx)
	}
	if equipment.TenantID == "" {
		return errors.NewValidationError("equipment tenant is required", nil)
	}

	now := time.Now()
	equipment.CreatedAt = now
	equipment.UpdatedAt = now
	if equipment.Status == "" {
		equipment.Status = models.EquipmentActive
	}

	nuts.L.Infof("[EquipmentService] Creating equipment: %s (%s, %s)", equipment.Name, equipment.ID, equipment.Type)
	return s.Equipment.Create(ctx, equipment)
}

// GetEquipment retrieves a machine, enforcing tenant scope and role-based
// field filtering.
func (s *HubService) GetEquipment(ctx context.Context, id string) (*models.Equipment, error) {
	equipment, err := s.Equipment.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if tenant := GetTenantID(ctx); tenant != "" && equipment.TenantID != tenant {
		return nil, errors.NewNotFoundError("equipment not found", nil)
	}

	roles := GetUserRoles(ctx)
	filteredMap, err := struccy.StructToMapFieldsWithReadXS(equipment, roles)
	if err != nil {
		return nil, errors.NewInternalError("failed to filter equipment fields", err)
	}
	filtered := &models.Equipment{}
	_, err = struccy.MergeMapStringFieldsToStruct(filtered, filteredMap, roles)
	if err != nil {
		return nil, errors.NewInternalError("failed to map filtered fields to equipment struct", err)
	}

	return filtered, nil
}

// UpdateEquipment updates an existing machine with role-based access control
func (s *HubService) UpdateEquipment(ctx context.Context, equipment *models.Equipment) error {
	existing, err := s.Equipment.Get(ctx, equipment.ID)
	if err != nil {
		return err
	}
	if tenant := GetTenantID(ctx); tenant != "" && existing.TenantID != tenant {
		return errors.NewNotFoundError("equipment not found", nil)
	}

	roles := GetUserRoles(ctx)
	updatedFields, _, err := struccy.UpdateStructFields(existing, equipment, roles, true, true)
	if err != nil {
		return errors.NewAuthorizationError("unauthorized field update", err)
	}

	equipment.TenantID = existing.TenantID
	equipment.UpdatedAt = time.Now()

	nuts.L.Infof("[EquipmentService] Updating equipment %s, fields changed: %v", equipment.ID, updatedFields)
	return s.Equipment.Update(ctx, equipment)
}

// DeleteEquipment removes a machine together with its telemetry and cached
// state.
func (s *HubService) DeleteEquipment(ctx context.Context, id string) error {
	equipment, err := s.Equipment.Get(ctx, id)
	if err != nil {
		return err
	}
	if tenant := GetTenantID(ctx); tenant != "" && equipment.TenantID != tenant {
		return errors.NewNotFoundError("equipment not found", nil)
	}

	if err := s.Telemetry.DeleteByEquipmentID(ctx, id); err != nil {
		nuts.L.Warnf("[EquipmentService] Failed to delete telemetry for equipment %s: %v", id, err)
	}
	if err := s.LatestCache.Invalidate(ctx, id); err != nil {
		nuts.L.Warnf("[EquipmentService] Failed to invalidate cache for equipment %s: %v", id, err)
	}

	nuts.L.Infof("[EquipmentService] Deleting equipment: %s", id)
	return s.Equipment.Delete(ctx, id)
}

// ListEquipment retrieves a paginated, tenant-scoped equipment list.
func (s *HubService) ListEquipment(ctx context.Context, offset, limit int) ([]*models.Equipment, error) {
	if limit <= 0 || limit > 100 {
		limit = 50 // Default limit
	}
	if offset < 0 {
		offset = 0
	}

	tenant := GetTenantID(ctx)
	if tenant == "" {
		return nil, errors.NewAuthorizationError("tenant scope required", nil)
	}

	return s.Equipment.ListByTenant(ctx, tenant, offset, limit)
}

// GetEquipmentStatus retrieves a machine together with its latest reading and
// currently active alerts.
func (s *HubService) GetEquipmentStatus(ctx context.Context, id string) (*EquipmentStatus, error) {
	equipment, err := s.GetEquipment(ctx, id)
	if err != nil {
		return nil, err
	}

	latest, err := s.LatestCache.Get(ctx, id)
	if err != nil {
		if !errors.IsNotFound(err) {
			nuts.L.Warnf("[EquipmentService] Latest-reading cache miss fallthrough for %s: %v", id, err)
		}
		latest, err = s.Telemetry.GetLatestReading(ctx, id)
		if err != nil && !errors.IsNotFound(err) {
			return nil, err
		}
	}

	active, err := s.Alerts.ActiveForEquipment(ctx, id)
	if err != nil {
		nuts.L.Warnf("[EquipmentService] Failed to list active alerts for %s: %v", id, err)
		active = []*models.MaintenanceAlert{}
	}

	return &EquipmentStatus{
		Equipment:     equipment,
		LatestReading: latest,
		ActiveAlerts:  active,
		OnlineStatus:  determineOnlineStatus(latest),
	}, nil
}

// RecordMaintenance stamps a completed maintenance visit on the machine.
func (s *HubService) RecordMaintenance(ctx context.Context, id string, date time.Time) error {
	if _, err := s.GetEquipment(ctx, id); err != nil {
		return err
	}
	return s.Equipment.UpdateLastMaintenance(ctx, id, date)
}

func determineOnlineStatus(latest *models.TelemetryReading) string {
	if latest == nil {
		return "unknown"
	}
	sinceLastReading := time.Since(latest.Timestamp)

	switch {
	case sinceLastReading < 15*time.Minute:
		return "online"
	case sinceLastReading < time.Hour:
		return "stale"
	default:
		return "offline"
	}
}
