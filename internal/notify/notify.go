// FilePath: internal/notify/notify.go
package notify

import (
	nuts "github.com/vaudience/go-nuts"
	"github.com/washlane/equipmenthub/internal/models"
)

// Service fans out alert notifications. Only HIGH and CRITICAL alerts are
// worth waking anyone up for; everything else stays in the dashboard.
// Delivery channels (push, email, SMS) register as event handlers.
type Service struct {
	events *nuts.EventEmitter
}

func New() *Service {
	return &Service{events: nuts.NewEventEmitter()}
}

// AlertCreated is the hook the alert lifecycle manager calls for every new
// alert. Low-severity alerts are dropped here, not at the source.
func (s *Service) AlertCreated(alert *models.MaintenanceAlert) {
	if alert.Severity != models.SeverityHigh && alert.Severity != models.SeverityCritical {
		return
	}
	nuts.L.Infof("[Notify] Dispatching %s alert %s for equipment %s", alert.Severity, alert.ID, alert.EquipmentID)
	s.events.Emit("alert.created", alert)
}

// OnAlert registers a delivery handler for notifiable alerts.
func (s *Service) OnAlert(name string, handler func(alert *models.MaintenanceAlert)) {
	s.events.On("alert.created", name, func(args ...interface{}) {
		if len(args) > 0 {
			if alert, ok := args[0].(*models.MaintenanceAlert); ok {
				handler(alert)
			}
		}
	})
}
