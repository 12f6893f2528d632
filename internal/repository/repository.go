// FilePath: internal/repository/repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/washlane/equipmenthub/internal/database"
	"github.com/washlane/equipmenthub/internal/models"
)

var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicate indicates that a resource already exists
	ErrDuplicate = errors.New("resource already exists")
	// ErrInvalidInput indicates that the input data is invalid
	ErrInvalidInput = errors.New("invalid input")
)

// EquipmentRepository defines the interface for the equipment registry
type EquipmentRepository interface {
	database.Repository
	Create(ctx context.Context, equipment *models.Equipment) error
	Get(ctx context.Context, id string) (*models.Equipment, error)
	Update(ctx context.Context, equipment *models.Equipment) error
	Delete(ctx context.Context, id string) error
	ListByTenant(ctx context.Context, tenantID string, offset, limit int) ([]*models.Equipment, error)
	UpdateLastMaintenance(ctx context.Context, id string, date time.Time) error
}

// AlertRepository defines the interface for maintenance alert storage.
// CreateIfAbsent is the atomic variant of "check for an active alert, then
// insert": the store must reject a second open-or-acknowledged alert for the
// same (equipment, type) pair with ErrDuplicate, even under concurrent
// ingestion. The postgres implementation relies on a partial unique index for
// this; a plain check-then-insert would race.
// UpdateStatus's text parameter carries acknowledgement notes or the
// resolution description, depending on the target status.
type AlertRepository interface {
	database.Repository
	CreateIfAbsent(ctx context.Context, alert *models.MaintenanceAlert) error
	Get(ctx context.Context, id string) (*models.MaintenanceAlert, error)
	ListActiveByEquipment(ctx context.Context, equipmentID string) ([]*models.MaintenanceAlert, error)
	UpdateStatus(ctx context.Context, id string, status models.AlertStatus, at time.Time, text string) error
	List(ctx context.Context, tenantID string, filters models.AlertFilters) ([]*models.MaintenanceAlert, error)
}

// TelemetryRepository defines the interface for telemetry reading storage
type TelemetryRepository interface {
	InsertReading(ctx context.Context, reading *models.TelemetryReading) error
	GetReadings(ctx context.Context, equipmentID string, start, end time.Time) ([]models.TelemetryReading, error)
	GetReadingsByTenant(ctx context.Context, tenantID string, start, end time.Time) ([]models.TelemetryReading, error)
	GetLatestReading(ctx context.Context, equipmentID string) (*models.TelemetryReading, error)
	DeleteByEquipmentID(ctx context.Context, equipmentID string) error
	DeleteOldData(ctx context.Context, before time.Time) error
}

// LatestReadingCache caches the most recent reading per equipment for cheap
// status lookups without touching the hypertable.
type LatestReadingCache interface {
	Set(ctx context.Context, reading *models.TelemetryReading) error
	Get(ctx context.Context, equipmentID string) (*models.TelemetryReading, error)
	Invalidate(ctx context.Context, equipmentID string) error
}
