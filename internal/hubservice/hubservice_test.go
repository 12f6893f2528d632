// FilePath: internal/hubservice/hubservice_test.go
package hubservice

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/washlane/equipmenthub/internal/config"
	"github.com/washlane/equipmenthub/internal/database"
	"github.com/washlane/equipmenthub/internal/errors"
	"github.com/washlane/equipmenthub/internal/models"
	"github.com/washlane/equipmenthub/internal/repository"
)

// In-memory fakes mirroring the behavior of the real repositories, including
// the one-active-alert-per-(equipment,type) rule of the alert store.

type fakeEquipmentRepo struct {
	mu        sync.Mutex
	equipment map[string]*models.Equipment
}

func newFakeEquipmentRepo() *fakeEquipmentRepo {
	return &fakeEquipmentRepo{equipment: make(map[string]*models.Equipment)}
}

func (r *fakeEquipmentRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	return nil, nil
}

func (r *fakeEquipmentRepo) Create(ctx context.Context, equipment *models.Equipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *equipment
	r.equipment[equipment.ID] = &cp
	return nil
}

func (r *fakeEquipmentRepo) Get(ctx context.Context, id string) (*models.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	equipment, ok := r.equipment[id]
	if !ok {
		return nil, errors.NewNotFoundError("equipment not found", nil)
	}
	cp := *equipment
	return &cp, nil
}

func (r *fakeEquipmentRepo) Update(ctx context.Context, equipment *models.Equipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.equipment[equipment.ID]; !ok {
		return errors.NewNotFoundError("equipment not found", nil)
	}
	cp := *equipment
	r.equipment[equipment.ID] = &cp
	return nil
}

func (r *fakeEquipmentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.equipment[id]; !ok {
		return errors.NewNotFoundError("equipment not found", nil)
	}
	delete(r.equipment, id)
	return nil
}

func (r *fakeEquipmentRepo) ListByTenant(ctx context.Context, tenantID string, offset, limit int) ([]*models.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Equipment
	for _, equipment := range r.equipment {
		if equipment.TenantID == tenantID {
			cp := *equipment
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeEquipmentRepo) UpdateLastMaintenance(ctx context.Context, id string, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	equipment, ok := r.equipment[id]
	if !ok {
		return errors.NewNotFoundError("equipment not found", nil)
	}
	equipment.LastMaintenanceDate = &date
	return nil
}

type fakeTelemetryRepo struct {
	mu       sync.Mutex
	readings []models.TelemetryReading
}

func (r *fakeTelemetryRepo) InsertReading(ctx context.Context, reading *models.TelemetryReading) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readings = append(r.readings, *reading)
	return nil
}

func (r *fakeTelemetryRepo) GetReadings(ctx context.Context, equipmentID string, start, end time.Time) ([]models.TelemetryReading, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TelemetryReading
	for _, reading := range r.readings {
		if reading.EquipmentID == equipmentID && !reading.Timestamp.Before(start) && reading.Timestamp.Before(end) {
			out = append(out, reading)
		}
	}
	return out, nil
}

func (r *fakeTelemetryRepo) GetReadingsByTenant(ctx context.Context, tenantID string, start, end time.Time) ([]models.TelemetryReading, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.TelemetryReading{}, r.readings...), nil
}

func (r *fakeTelemetryRepo) GetLatestReading(ctx context.Context, equipmentID string) (*models.TelemetryReading, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.TelemetryReading
	for i := range r.readings {
		reading := &r.readings[i]
		if reading.EquipmentID != equipmentID {
			continue
		}
		if latest == nil || reading.Timestamp.After(latest.Timestamp) {
			latest = reading
		}
	}
	if latest == nil {
		return nil, errors.NewNotFoundError("no telemetry readings for equipment", nil)
	}
	cp := *latest
	return &cp, nil
}

func (r *fakeTelemetryRepo) DeleteByEquipmentID(ctx context.Context, equipmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.readings[:0]
	for _, reading := range r.readings {
		if reading.EquipmentID != equipmentID {
			kept = append(kept, reading)
		}
	}
	r.readings = kept
	return nil
}

func (r *fakeTelemetryRepo) DeleteOldData(ctx context.Context, before time.Time) error {
	return nil
}

type fakeCache struct {
	mu      sync.Mutex
	latest  map[string]*models.TelemetryReading
	failSet bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{latest: make(map[string]*models.TelemetryReading)}
}

func (c *fakeCache) Set(ctx context.Context, reading *models.TelemetryReading) error {
	if c.failSet {
		return errors.NewInternalError("cache unavailable", nil)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *reading
	c.latest[reading.EquipmentID] = &cp
	return nil
}

func (c *fakeCache) Get(ctx context.Context, equipmentID string) (*models.TelemetryReading, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	reading, ok := c.latest[equipmentID]
	if !ok {
		return nil, errors.NewNotFoundError("no cached reading for equipment", nil)
	}
	cp := *reading
	return &cp, nil
}

func (c *fakeCache) Invalidate(ctx context.Context, equipmentID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.latest, equipmentID)
	return nil
}

type fakeAlertRepo struct {
	mu     sync.Mutex
	alerts map[string]*models.MaintenanceAlert
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{alerts: make(map[string]*models.MaintenanceAlert)}
}

func (r *fakeAlertRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	return nil, nil
}

func (r *fakeAlertRepo) CreateIfAbsent(ctx context.Context, alert *models.MaintenanceAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.alerts {
		if existing.EquipmentID == alert.EquipmentID && existing.Type == alert.Type && existing.Status.Active() {
			return repository.ErrDuplicate
		}
	}
	cp := *alert
	r.alerts[alert.ID] = &cp
	return nil
}

func (r *fakeAlertRepo) Get(ctx context.Context, id string) (*models.MaintenanceAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	alert, ok := r.alerts[id]
	if !ok {
		return nil, errors.NewNotFoundError("alert not found", nil)
	}
	cp := *alert
	return &cp, nil
}

func (r *fakeAlertRepo) ListActiveByEquipment(ctx context.Context, equipmentID string) ([]*models.MaintenanceAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.MaintenanceAlert
	for _, alert := range r.alerts {
		if alert.EquipmentID == equipmentID && alert.Status.Active() {
			cp := *alert
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeAlertRepo) UpdateStatus(ctx context.Context, id string, status models.AlertStatus, at time.Time, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	alert, ok := r.alerts[id]
	if !ok {
		return errors.NewNotFoundError("alert not found", nil)
	}
	alert.Status = status
	switch status {
	case models.AlertAcknowledged:
		alert.AcknowledgedAt = &at
		alert.Notes = text
	case models.AlertResolved:
		alert.ResolvedAt = &at
		alert.Resolution = text
	}
	return nil
}

func (r *fakeAlertRepo) List(ctx context.Context, tenantID string, filters models.AlertFilters) ([]*models.MaintenanceAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.MaintenanceAlert
	for _, alert := range r.alerts {
		if alert.TenantID != tenantID {
			continue
		}
		if filters.Status != "" && alert.Status != filters.Status {
			continue
		}
		cp := *alert
		out = append(out, &cp)
	}
	return out, nil
}

// Test harness

type testEnv struct {
	svc       *HubService
	equipment *fakeEquipmentRepo
	telemetry *fakeTelemetryRepo
	alerts    *fakeAlertRepo
	cache     *fakeCache
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		equipment: newFakeEquipmentRepo(),
		telemetry: &fakeTelemetryRepo{},
		alerts:    newFakeAlertRepo(),
		cache:     newFakeCache(),
	}
	env.svc = New(env.equipment, env.telemetry, env.alerts, env.cache, config.InsightsConfig{
		EnergyRatePerKwh:         0.13,
		WaterRatePerGallon:       0.004,
		LitersPerGallon:          3.785,
		ReportingIntervalMinutes: 5,
		WindowDays:               30,
	})

	washer := &models.Equipment{
		ID:       "eq1",
		TenantID: "t1",
		Name:     "Washer 1",
		Type:     models.Washer,
		Status:   models.EquipmentActive,
	}
	if err := env.equipment.Create(context.Background(), washer); err != nil {
		t.Fatalf("seed equipment: %v", err)
	}
	return env
}

func authedCtx() context.Context {
	ctx := context.WithValue(context.Background(), "tenant_id", "t1")
	return context.WithValue(ctx, "user_roles", []string{"owner"})
}

func f64(v float64) *float64 { return &v }

func TestRecordReadingStoresAndCaches(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedCtx()

	reading := &models.TelemetryReading{
		EquipmentID: "eq1",
		PowerWatts:  f64(1800),
		Vibration:   f64(2.0),
	}
	if err := env.svc.RecordReading(ctx, reading); err != nil {
		t.Fatalf("RecordReading() error = %v", err)
	}
	if reading.ID == "" {
		t.Error("expected reading ID to be assigned")
	}
	if reading.Timestamp.IsZero() {
		t.Error("expected reading timestamp to be assigned")
	}

	if len(env.telemetry.readings) != 1 {
		t.Fatalf("stored readings = %d, want 1", len(env.telemetry.readings))
	}
	cached, err := env.cache.Get(ctx, "eq1")
	if err != nil {
		t.Fatalf("expected cached latest reading: %v", err)
	}
	if cached.ID != reading.ID {
		t.Errorf("cached reading ID = %s, want %s", cached.ID, reading.ID)
	}
}

func TestRecordReadingRejectsInvalid(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedCtx()

	err := env.svc.RecordReading(ctx, &models.TelemetryReading{Vibration: f64(2.0)})
	if !errors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	err = env.svc.RecordReading(ctx, &models.TelemetryReading{EquipmentID: "eq1", PowerWatts: f64(-5)})
	if !errors.IsValidation(err) {
		t.Fatalf("expected validation error for negative value, got %v", err)
	}
}

func TestRecordReadingUnknownEquipment(t *testing.T) {
	env := newTestEnv(t)

	err := env.svc.RecordReading(authedCtx(), &models.TelemetryReading{EquipmentID: "ghost"})
	if !errors.IsNotFound(err) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestRecordReadingCreatesAlert(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedCtx()

	err := env.svc.RecordReading(ctx, &models.TelemetryReading{
		EquipmentID: "eq1",
		Vibration:   f64(8.5),
	})
	if err != nil {
		t.Fatalf("RecordReading() error = %v", err)
	}

	active, err := env.alerts.ListActiveByEquipment(ctx, "eq1")
	if err != nil {
		t.Fatalf("ListActiveByEquipment() error = %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("active alerts = %d, want 1", len(active))
	}
	if active[0].Type != models.AlertHighVibration {
		t.Errorf("alert type = %s, want %s", active[0].Type, models.AlertHighVibration)
	}
	if active[0].Severity != models.SeverityCritical {
		t.Errorf("alert severity = %s, want %s", active[0].Severity, models.SeverityCritical)
	}
}

func TestRecordReadingDeduplicatesAlert(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedCtx()

	for i := 0; i < 3; i++ {
		err := env.svc.RecordReading(ctx, &models.TelemetryReading{
			EquipmentID: "eq1",
			Vibration:   f64(6.0),
		})
		if err != nil {
			t.Fatalf("RecordReading() #%d error = %v", i, err)
		}
	}

	active, _ := env.alerts.ListActiveByEquipment(ctx, "eq1")
	if len(active) != 1 {
		t.Fatalf("active alerts = %d, want 1 after repeated anomalies", len(active))
	}
}

func TestRecordReadingAutoResolves(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedCtx()

	if err := env.svc.RecordReading(ctx, &models.TelemetryReading{EquipmentID: "eq1", Vibration: f64(6.0)}); err != nil {
		t.Fatalf("anomalous reading: %v", err)
	}
	if err := env.svc.RecordReading(ctx, &models.TelemetryReading{EquipmentID: "eq1", Vibration: f64(3.0)}); err != nil {
		t.Fatalf("recovered reading: %v", err)
	}

	active, _ := env.alerts.ListActiveByEquipment(ctx, "eq1")
	if len(active) != 0 {
		t.Fatalf("active alerts = %d, want 0 after recovery", len(active))
	}
}

func TestRecordReadingToleratesCacheFailure(t *testing.T) {
	env := newTestEnv(t)
	env.cache.failSet = true

	err := env.svc.RecordReading(authedCtx(), &models.TelemetryReading{
		EquipmentID: "eq1",
		PowerWatts:  f64(1800),
	})
	if err != nil {
		t.Fatalf("RecordReading() should tolerate cache failure, got %v", err)
	}
	if len(env.telemetry.readings) != 1 {
		t.Fatalf("stored readings = %d, want 1", len(env.telemetry.readings))
	}
}

func TestGetEquipmentStatusFallsBackToStore(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedCtx()

	reading := &models.TelemetryReading{EquipmentID: "eq1", PowerWatts: f64(1800)}
	if err := env.svc.RecordReading(ctx, reading); err != nil {
		t.Fatalf("RecordReading() error = %v", err)
	}
	if err := env.cache.Invalidate(ctx, "eq1"); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}

	status, err := env.svc.GetEquipmentStatus(ctx, "eq1")
	if err != nil {
		t.Fatalf("GetEquipmentStatus() error = %v", err)
	}
	if status.LatestReading == nil || status.LatestReading.ID != reading.ID {
		t.Errorf("expected latest reading from store after cache miss")
	}
	if status.OnlineStatus != "online" {
		t.Errorf("online status = %s, want online", status.OnlineStatus)
	}
}

func TestGetEquipmentStatusNoReadings(t *testing.T) {
	env := newTestEnv(t)

	status, err := env.svc.GetEquipmentStatus(authedCtx(), "eq1")
	if err != nil {
		t.Fatalf("GetEquipmentStatus() error = %v", err)
	}
	if status.LatestReading != nil {
		t.Errorf("expected no latest reading")
	}
	if status.OnlineStatus != "unknown" {
		t.Errorf("online status = %s, want unknown", status.OnlineStatus)
	}
}

func TestGetEquipmentTenantScoped(t *testing.T) {
	env := newTestEnv(t)

	other := context.WithValue(context.Background(), "tenant_id", "t2")
	other = context.WithValue(other, "user_roles", []string{"owner"})

	if _, err := env.svc.GetEquipment(other, "eq1"); !errors.IsNotFound(err) {
		t.Fatalf("expected not found for foreign tenant, got %v", err)
	}
}

func TestDeleteEquipmentCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedCtx()

	if err := env.svc.RecordReading(ctx, &models.TelemetryReading{EquipmentID: "eq1", PowerWatts: f64(1800)}); err != nil {
		t.Fatalf("RecordReading() error = %v", err)
	}
	if err := env.svc.DeleteEquipment(ctx, "eq1"); err != nil {
		t.Fatalf("DeleteEquipment() error = %v", err)
	}

	if len(env.telemetry.readings) != 0 {
		t.Errorf("telemetry readings = %d, want 0 after delete", len(env.telemetry.readings))
	}
	if _, err := env.cache.Get(ctx, "eq1"); !errors.IsNotFound(err) {
		t.Errorf("expected cache invalidated after delete")
	}
	if _, err := env.equipment.Get(ctx, "eq1"); !errors.IsNotFound(err) {
		t.Errorf("expected equipment removed")
	}
}

func TestResolveAlertRequiresResolution(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedCtx()

	if err := env.svc.RecordReading(ctx, &models.TelemetryReading{EquipmentID: "eq1", Vibration: f64(6.0)}); err != nil {
		t.Fatalf("RecordReading() error = %v", err)
	}
	active, _ := env.alerts.ListActiveByEquipment(ctx, "eq1")
	if len(active) != 1 {
		t.Fatalf("active alerts = %d, want 1", len(active))
	}

	if _, err := env.svc.ResolveAlert(ctx, active[0].ID, "  "); !errors.IsValidation(err) {
		t.Fatalf("expected validation error for blank resolution, got %v", err)
	}

	resolved, err := env.svc.ResolveAlert(ctx, active[0].ID, "Replaced drum bearing")
	if err != nil {
		t.Fatalf("ResolveAlert() error = %v", err)
	}
	if resolved.Status != models.AlertResolved {
		t.Errorf("alert status = %s, want %s", resolved.Status, models.AlertResolved)
	}
	if resolved.Resolution != "Replaced drum bearing" {
		t.Errorf("resolution = %q", resolved.Resolution)
	}
}

func TestGetUsageMetricsUsesEquipmentType(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedCtx()

	now := time.Now()
	for i := 0; i < 12; i++ {
		env.telemetry.readings = append(env.telemetry.readings, models.TelemetryReading{
			ID:          "r",
			EquipmentID: "eq1",
			Timestamp:   now.Add(-time.Duration(i) * 5 * time.Minute),
			PowerWatts:  f64(2000),
			WaterLiters: f64(10),
		})
	}

	metrics, err := env.svc.GetUsageMetrics(ctx, "eq1", 30)
	if err != nil {
		t.Fatalf("GetUsageMetrics() error = %v", err)
	}
	if metrics.ReadingCount != 12 {
		t.Errorf("reading count = %d, want 12", metrics.ReadingCount)
	}
	if metrics.TotalWaterLiters != 120 {
		t.Errorf("total water = %v, want 120", metrics.TotalWaterLiters)
	}
}
