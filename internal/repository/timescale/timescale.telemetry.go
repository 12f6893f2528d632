// FilePath: internal/repository/timescale/timescale.telemetry.go
package timescale

import (
	"context"
	"database/sql"
	"time"

	nuts "github.com/vaudience/go-nuts"
	"github.com/washlane/equipmenthub/internal/database"
	"github.com/washlane/equipmenthub/internal/errors"
	"github.com/washlane/equipmenthub/internal/models"
)

type TelemetryRepo struct {
	db database.DB
}

func NewTelemetryRepository(db database.DB) (*TelemetryRepo, error) {
	repo := &TelemetryRepo{db: db}
	err := repo.initializeSchema()
	if err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *TelemetryRepo) initializeSchema() error {
	// Create hypertable for telemetry readings
	queries := []string{
		`CREATE TABLE IF NOT EXISTS telemetry_readings (
			id TEXT PRIMARY KEY,
			equipment_id TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL,
			power_watts DOUBLE PRECISION,
			water_liters DOUBLE PRECISION,
			temperature DOUBLE PRECISION,
			vibration DOUBLE PRECISION,
			cycle_count BIGINT,
			is_running BOOLEAN,
			health_score DOUBLE PRECISION,
			efficiency_score DOUBLE PRECISION
		)`,
		`SELECT create_hypertable('telemetry_readings', 'timestamp',
			chunk_time_interval => INTERVAL '1 day',
			if_not_exists => TRUE
		)`,
		// Index for per-equipment window scans and latest-reading queries
		`CREATE INDEX IF NOT EXISTS idx_telemetry_equipment_timestamp
			ON telemetry_readings (equipment_id, timestamp DESC)`,
	}

	for _, query := range queries {
		_, err := r.db.GetDB().Exec(query)
		if err != nil {
			return errors.NewDatabaseError("failed to initialize telemetry schema", err)
		}
	}

	r.setupRetentionPolicy()
	return nil
}

func (r *TelemetryRepo) setupRetentionPolicy() {
	// Readings must outlive the 30 day aggregation window; keep a margin.
	query := `
		SELECT add_retention_policy('telemetry_readings',
			INTERVAL '90 days',
			if_not_exists => TRUE
		)`

	_, err := r.db.GetDB().Exec(query)
	if err != nil {
		nuts.L.Errorf("[TelemetryRepo] Failed to set up retention policy: %v", err)
	}
}

func (r *TelemetryRepo) InsertReading(ctx context.Context, reading *models.TelemetryReading) error {
	query := `
		INSERT INTO telemetry_readings (
			id, equipment_id, timestamp, power_watts, water_liters,
			temperature, vibration, cycle_count, is_running,
			health_score, efficiency_score
		) VALUES (
			:id, :equipment_id, :timestamp, :power_watts, :water_liters,
			:temperature, :vibration, :cycle_count, :is_running,
			:health_score, :efficiency_score
		)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, reading)
	if err != nil {
		return errors.NewDatabaseError("failed to insert telemetry reading", err)
	}
	return nil
}

func (r *TelemetryRepo) GetReadings(ctx context.Context, equipmentID string, start, end time.Time) ([]models.TelemetryReading, error) {
	readings := []models.TelemetryReading{}
	query := `
		SELECT * FROM telemetry_readings
		WHERE equipment_id = $1 AND timestamp >= $2 AND timestamp < $3
		ORDER BY timestamp ASC`

	err := r.db.GetDB().SelectContext(ctx, &readings, query, equipmentID, start, end)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get telemetry readings", err)
	}

	return readings, nil
}

func (r *TelemetryRepo) GetReadingsByTenant(ctx context.Context, tenantID string, start, end time.Time) ([]models.TelemetryReading, error) {
	readings := []models.TelemetryReading{}
	query := `
		SELECT t.* FROM telemetry_readings t
		JOIN equipment e ON e.id = t.equipment_id
		WHERE e.tenant_id = $1 AND t.timestamp >= $2 AND t.timestamp < $3
		ORDER BY t.timestamp ASC`

	err := r.db.GetDB().SelectContext(ctx, &readings, query, tenantID, start, end)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get tenant telemetry readings", err)
	}

	return readings, nil
}

func (r *TelemetryRepo) GetLatestReading(ctx context.Context, equipmentID string) (*models.TelemetryReading, error) {
	reading := &models.TelemetryReading{}
	query := `
		SELECT * FROM telemetry_readings
		WHERE equipment_id = $1
		ORDER BY timestamp DESC
		LIMIT 1`

	err := r.db.GetDB().GetContext(ctx, reading, query, equipmentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("no telemetry readings for equipment", err)
		}
		return nil, errors.NewDatabaseError("failed to get latest reading", err)
	}
	return reading, nil
}

func (r *TelemetryRepo) DeleteByEquipmentID(ctx context.Context, equipmentID string) error {
	query := `DELETE FROM telemetry_readings WHERE equipment_id = $1`

	result, err := r.db.GetDB().ExecContext(ctx, query, equipmentID)
	if err != nil {
		return errors.NewDatabaseError("failed to delete telemetry readings", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}

	nuts.L.Infof("[TelemetryRepo] Deleted %d readings for equipment %s", rows, equipmentID)
	return nil
}

func (r *TelemetryRepo) DeleteOldData(ctx context.Context, before time.Time) error {
	query := `DELETE FROM telemetry_readings WHERE timestamp < $1`

	result, err := r.db.GetDB().ExecContext(ctx, query, before)
	if err != nil {
		return errors.NewDatabaseError("failed to delete old telemetry readings", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}

	nuts.L.Infof("[TelemetryRepo] Deleted %d readings older than %v", rows, before)
	return nil
}
