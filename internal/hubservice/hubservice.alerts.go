package hubservice

import (
	"context"

	nuts "github.com/vaudience/go-nuts"
	"github.com/washlane/equipmenthub/internal/errors"
	"github.com/washlane/equipmenthub/internal/models"
)

// ListAlerts retrieves alerts for the authenticated tenant, newest and most
// severe first, optionally narrowed by status, severity, type or equipment.
func (s *HubService) ListAlerts(ctx context.Context, filters models.AlertFilters) ([]*models.MaintenanceAlert, error) {
	tenant := GetTenantID(ctx)
	if tenant == "" {
		return nil, errors.NewAuthorizationError("tenant scope required", nil)
	}
	return s.Alerts.List(ctx, tenant, filters)
}

// AcknowledgeAlert marks an alert as seen by an operator. Notes are optional.
func (s *HubService) AcknowledgeAlert(ctx context.Context, id string, notes string) (*models.MaintenanceAlert, error) {
	if _, err := s.ownedAlert(ctx, id); err != nil {
		return nil, err
	}
	nuts.L.Infof("[AlertService] Acknowledging alert %s", id)
	return s.Alerts.Acknowledge(ctx, id, notes)
}

// ResolveAlert closes an alert with the operator's resolution note.
func (s *HubService) ResolveAlert(ctx context.Context, id string, resolution string) (*models.MaintenanceAlert, error) {
	if _, err := s.ownedAlert(ctx, id); err != nil {
		return nil, err
	}
	nuts.L.Infof("[AlertService] Resolving alert %s", id)
	return s.Alerts.Resolve(ctx, id, resolution)
}

// ownedAlert fetches an alert and checks it belongs to the caller's tenant.
func (s *HubService) ownedAlert(ctx context.Context, id string) (*models.MaintenanceAlert, error) {
	alert, err := s.Alerts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if tenant := GetTenantID(ctx); tenant != "" && alert.TenantID != tenant {
		return nil, errors.NewNotFoundError("alert not found", nil)
	}
	return alert, nil
}
