// FilePath: internal/repository/postgres/postgres.equipment.go
package postgres

import (
	"context"
	"database/sql"
	"time"

	nuts "github.com/vaudience/go-nuts"
	"github.com/washlane/equipmenthub/internal/database"
	"github.com/washlane/equipmenthub/internal/errors"
	"github.com/washlane/equipmenthub/internal/models"
)

type EquipmentRepo struct {
	PostgresBaseRepo
}

func NewEquipmentRepository(db database.DB) (*EquipmentRepo, error) {
	repo := &EquipmentRepo{PostgresBaseRepo: PostgresBaseRepo{db: db}}
	if err := repo.initializeSchema(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *EquipmentRepo) initializeSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS equipment (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			model TEXT NOT NULL DEFAULT '',
			serial_number TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'active',
			purchase_date TIMESTAMPTZ,
			last_maintenance_date TIMESTAMPTZ,
			metadata JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_equipment_tenant
			ON equipment (tenant_id, created_at DESC)`,
	}

	for _, query := range queries {
		_, err := r.db.GetDB().Exec(query)
		if err != nil {
			return errors.NewDatabaseError("failed to initialize equipment schema", err)
		}
	}
	return nil
}

func (r *EquipmentRepo) Create(ctx context.Context, equipment *models.Equipment) error {
	query := `
		INSERT INTO equipment (
			id, tenant_id, name, type, model, serial_number,
			location, status, purchase_date, last_maintenance_date,
			metadata, created_at, updated_at
		) VALUES (
			:id, :tenant_id, :name, :type, :model, :serial_number,
			:location, :status, :purchase_date, :last_maintenance_date,
			:metadata, :created_at, :updated_at
		)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, equipment)
	if err != nil {
		return errors.NewDatabaseError("failed to create equipment", err)
	}
	return nil
}

func (r *EquipmentRepo) Get(ctx context.Context, id string) (*models.Equipment, error) {
	equipment := &models.Equipment{}
	query := `SELECT * FROM equipment WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, equipment, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("equipment not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get equipment", err)
	}
	return equipment, nil
}

func (r *EquipmentRepo) Update(ctx context.Context, equipment *models.Equipment) error {
	query := `
		UPDATE equipment SET
			name = :name,
			type = :type,
			model = :model,
			serial_number = :serial_number,
			location = :location,
			status = :status,
			purchase_date = :purchase_date,
			last_maintenance_date = :last_maintenance_date,
			metadata = :metadata,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.GetDB().NamedExecContext(ctx, query, equipment)
	if err != nil {
		return errors.NewDatabaseError("failed to update equipment", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}

	if rows == 0 {
		return errors.NewNotFoundError("equipment not found", nil)
	}

	return nil
}

func (r *EquipmentRepo) UpdateLastMaintenance(ctx context.Context, id string, date time.Time) error {
	query := `
		UPDATE equipment SET
			last_maintenance_date = $1,
			updated_at = $2
		WHERE id = $3`

	result, err := r.db.GetDB().ExecContext(ctx, query, date, time.Now(), id)
	if err != nil {
		return errors.NewDatabaseError("failed to update last maintenance date", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}

	if rows == 0 {
		return errors.NewNotFoundError("equipment not found", nil)
	}

	return nil
}

func (r *EquipmentRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM equipment WHERE id = $1`

	result, err := r.db.GetDB().ExecContext(ctx, query, id)
	if err != nil {
		return errors.NewDatabaseError("failed to delete equipment", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}

	if rows == 0 {
		return errors.NewNotFoundError("equipment not found", nil)
	}

	nuts.L.Infof("[EquipmentRepo] Deleted equipment %s", id)
	return nil
}

func (r *EquipmentRepo) ListByTenant(ctx context.Context, tenantID string, offset, limit int) ([]*models.Equipment, error) {
	equipment := []*models.Equipment{}
	query := `
		SELECT * FROM equipment
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	err := r.db.GetDB().SelectContext(ctx, &equipment, query, tenantID, limit, offset)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list equipment", err)
	}

	return equipment, nil
}
