// FilePath: internal/repository/postgres/postgres.alerts.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	nuts "github.com/vaudience/go-nuts"
	"github.com/washlane/equipmenthub/internal/database"
	"github.com/washlane/equipmenthub/internal/errors"
	"github.com/washlane/equipmenthub/internal/models"
	"github.com/washlane/equipmenthub/internal/repository"
)

type AlertRepo struct {
	PostgresBaseRepo
}

func NewAlertRepository(db database.DB) (*AlertRepo, error) {
	repo := &AlertRepo{PostgresBaseRepo: PostgresBaseRepo{db: db}}
	if err := repo.initializeSchema(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *AlertRepo) initializeSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS maintenance_alerts (
			id TEXT PRIMARY KEY,
			equipment_id TEXT NOT NULL,
			tenant_id TEXT NOT NULL,
			type TEXT NOT NULL,
			severity TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			recommendation TEXT NOT NULL DEFAULT '',
			trigger_data JSONB NOT NULL DEFAULT '{}',
			status TEXT NOT NULL DEFAULT 'open',
			created_at TIMESTAMPTZ NOT NULL,
			acknowledged_at TIMESTAMPTZ,
			notes TEXT NOT NULL DEFAULT '',
			resolved_at TIMESTAMPTZ,
			resolution TEXT NOT NULL DEFAULT ''
		)`,
		// Enforces the one-active-alert-per-(equipment,type) rule at the
		// storage layer so concurrent ingests cannot both insert.
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_alerts_active
			ON maintenance_alerts (equipment_id, type)
			WHERE status IN ('open', 'acknowledged')`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_tenant_created
			ON maintenance_alerts (tenant_id, created_at DESC)`,
	}

	for _, query := range queries {
		_, err := r.db.GetDB().Exec(query)
		if err != nil {
			return errors.NewDatabaseError("failed to initialize alerts schema", err)
		}
	}
	return nil
}

// CreateIfAbsent inserts the alert unless an active alert for the same
// (equipment, type) already exists. The ON CONFLICT clause targets the
// partial unique index, so zero rows affected means a duplicate was
// suppressed and the caller gets repository.ErrDuplicate.
func (r *AlertRepo) CreateIfAbsent(ctx context.Context, alert *models.MaintenanceAlert) error {
	query := `
		INSERT INTO maintenance_alerts (
			id, equipment_id, tenant_id, type, severity, title,
			description, recommendation, trigger_data, status,
			created_at, acknowledged_at, notes, resolved_at, resolution
		) VALUES (
			:id, :equipment_id, :tenant_id, :type, :severity, :title,
			:description, :recommendation, :trigger_data, :status,
			:created_at, :acknowledged_at, :notes, :resolved_at, :resolution
		)
		ON CONFLICT (equipment_id, type) WHERE status IN ('open', 'acknowledged')
		DO NOTHING`

	result, err := r.db.GetDB().NamedExecContext(ctx, query, alert)
	if err != nil {
		return errors.NewDatabaseError("failed to create alert", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}

	if rows == 0 {
		return repository.ErrDuplicate
	}

	return nil
}

func (r *AlertRepo) Get(ctx context.Context, id string) (*models.MaintenanceAlert, error) {
	alert := &models.MaintenanceAlert{}
	query := `SELECT * FROM maintenance_alerts WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, alert, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("alert not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get alert", err)
	}
	return alert, nil
}

func (r *AlertRepo) ListActiveByEquipment(ctx context.Context, equipmentID string) ([]*models.MaintenanceAlert, error) {
	alerts := []*models.MaintenanceAlert{}
	query := `
		SELECT * FROM maintenance_alerts
		WHERE equipment_id = $1 AND status IN ('open', 'acknowledged')
		ORDER BY created_at DESC`

	err := r.db.GetDB().SelectContext(ctx, &alerts, query, equipmentID)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list active alerts", err)
	}

	return alerts, nil
}

func (r *AlertRepo) UpdateStatus(ctx context.Context, id string, status models.AlertStatus, at time.Time, text string) error {
	var result sql.Result
	var err error
	switch status {
	case models.AlertAcknowledged:
		result, err = r.db.GetDB().ExecContext(ctx,
			`UPDATE maintenance_alerts SET status = $1, acknowledged_at = $2, notes = $3 WHERE id = $4`,
			status, at, text, id)
	case models.AlertResolved:
		result, err = r.db.GetDB().ExecContext(ctx,
			`UPDATE maintenance_alerts SET status = $1, resolved_at = $2, resolution = $3 WHERE id = $4`,
			status, at, text, id)
	default:
		result, err = r.db.GetDB().ExecContext(ctx,
			`UPDATE maintenance_alerts SET status = $1 WHERE id = $2`,
			status, id)
	}
	if err != nil {
		return errors.NewDatabaseError("failed to update alert status", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}

	if rows == 0 {
		return errors.NewNotFoundError("alert not found", nil)
	}

	return nil
}

func (r *AlertRepo) List(ctx context.Context, tenantID string, filters models.AlertFilters) ([]*models.MaintenanceAlert, error) {
	query := `SELECT * FROM maintenance_alerts WHERE tenant_id = $1`
	args := []interface{}{tenantID}

	if filters.Status != "" {
		args = append(args, filters.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filters.Severity != "" {
		args = append(args, filters.Severity)
		query += fmt.Sprintf(" AND severity = $%d", len(args))
	}
	if filters.Type != "" {
		args = append(args, filters.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filters.EquipmentID != "" {
		args = append(args, filters.EquipmentID)
		query += fmt.Sprintf(" AND equipment_id = $%d", len(args))
	}

	// CRITICAL first, then most recent
	query += `
		ORDER BY CASE severity
			WHEN 'CRITICAL' THEN 4
			WHEN 'HIGH' THEN 3
			WHEN 'MEDIUM' THEN 2
			ELSE 1
		END DESC, created_at DESC`

	limit := filters.Limit
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	offset := filters.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	alerts := []*models.MaintenanceAlert{}
	err := r.db.GetDB().SelectContext(ctx, &alerts, query, args...)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list alerts", err)
	}

	nuts.L.Infof("[AlertRepo] Listed %d alerts for tenant %s", len(alerts), tenantID)
	return alerts, nil
}
