// FilePath: internal/models/models.equipment.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// JSON is a wrapper around map[string]interface{} for database storage
type JSON map[string]interface{}

// Value implements the driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, &j)
}

type EquipmentType string

const (
	Washer  EquipmentType = "WASHER"
	Dryer   EquipmentType = "DRYER"
	Steamer EquipmentType = "STEAMER"
	Presser EquipmentType = "PRESSER"
)

type EquipmentStatus string

const (
	EquipmentActive         EquipmentStatus = "active"
	EquipmentInactive       EquipmentStatus = "inactive"
	EquipmentInMaintenance  EquipmentStatus = "maintenance"
	EquipmentDecommissioned EquipmentStatus = "decommissioned"
)

// Equipment describes one machine registered by a tenant. The type determines
// which threshold catalog row and expected-power baseline apply to its
// telemetry.
type Equipment struct {
	ID                  string          `json:"id" db:"id"`
	TenantID            string          `json:"tenant_id" db:"tenant_id"`
	Name                string          `json:"name" db:"name"`
	Type                EquipmentType   `json:"type" db:"type"`
	Model               string          `json:"model" db:"model"`
	SerialNumber        string          `json:"serial_number" db:"serial_number" readxs:"owner,system,superadmin" writexs:"owner,system,superadmin"`
	Location            string          `json:"location" db:"location"`
	Status              EquipmentStatus `json:"status" db:"status"`
	PurchaseDate        *time.Time      `json:"purchase_date,omitempty" db:"purchase_date"`
	LastMaintenanceDate *time.Time      `json:"last_maintenance_date,omitempty" db:"last_maintenance_date"`
	Metadata            JSON            `json:"metadata" db:"metadata"`
	CreatedAt           time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at" db:"updated_at"`
}

// KnownType reports whether the equipment carries one of the catalogued types.
// Type-specific detection rules are skipped for anything else.
func (e *Equipment) KnownType() bool {
	switch e.Type {
	case Washer, Dryer, Steamer, Presser:
		return true
	}
	return false
}
