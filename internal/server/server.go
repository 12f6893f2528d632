// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	nuts "github.com/vaudience/go-nuts"
	"github.com/washlane/equipmenthub/api"
	"github.com/washlane/equipmenthub/api/middleware"
	"github.com/washlane/equipmenthub/internal/config"
	"github.com/washlane/equipmenthub/internal/database"
	"github.com/washlane/equipmenthub/internal/hubservice"
	"github.com/washlane/equipmenthub/internal/models"
	"github.com/washlane/equipmenthub/internal/monitoring"
	"github.com/washlane/equipmenthub/internal/repository/postgres"
	"github.com/washlane/equipmenthub/internal/repository/rediscache"
	"github.com/washlane/equipmenthub/internal/repository/timescale"
)

// Server represents our HTTP server
type Server struct {
	config     *config.Config
	srv        *http.Server
	hubservice *hubservice.HubService
	monitoring *monitoring.Service
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	return &Server{
		config: cfg,
		srv: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Initialize services
	s.hubservice = initializeHubService(s.config)
	s.monitoring = monitoring.NewService(monitoring.Config{
		PrometheusEndpoint: s.config.Monitoring.PrometheusEndpoint,
		LokiEndpoint:       s.config.Monitoring.LokiEndpoint,
	})

	if err := s.hubservice.Validate(); err != nil {
		return err
	}

	// Record every dispatched alert so notification volume is observable
	s.setupAlertHandlers()

	// Router plus standard middleware stack
	router := api.NewRouter(s.hubservice, middleware.KeycloakConfig{
		URL:          s.config.Keycloak.URL,
		Realm:        s.config.Keycloak.Realm,
		ClientID:     s.config.Keycloak.ClientID,
		ClientSecret: s.config.Keycloak.ClientSecret,
	})
	s.srv.Handler = handlers.RecoveryHandler()(
		handlers.CORS(
			handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		)(handlers.CombinedLoggingHandler(os.Stdout, router)))

	// Start server
	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

func (s *Server) setupAlertHandlers() {
	s.hubservice.Notify.OnAlert("monitoring", func(alert *models.MaintenanceAlert) {
		s.monitoring.RecordEvent("alert_dispatched", map[string]string{
			"alert_id":     alert.ID,
			"equipment_id": alert.EquipmentID,
			"type":         string(alert.Type),
			"severity":     string(alert.Severity),
		})
	})
}

// initializeHubService creates and configures the hub service
func initializeHubService(cfg *config.Config) *hubservice.HubService {
	// Initialize database connections
	tsdb := initTimescaleDB(cfg.Database.TimescaleDB)
	appDB := initAppDB(cfg.Database.AppDB)

	// Initialize repositories
	equipment, err := postgres.NewEquipmentRepository(appDB)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to initialize equipment repository: %v", err)
	}
	alerts, err := postgres.NewAlertRepository(appDB)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to initialize alert repository: %v", err)
	}
	telemetry, err := timescale.NewTelemetryRepository(tsdb)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to initialize telemetry repository: %v", err)
	}
	cache := rediscache.NewLatestReadingCache(cfg.Redis)

	// Create and return hub service
	return hubservice.New(equipment, telemetry, alerts, cache, cfg.Insights)
}

func initTimescaleDB(cfg config.PostgresConfig) database.DB {
	wrappedDB, err := database.NewTimescaleDB(cfg)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to connect to TimescaleDB: %v", err)
	}
	db := wrappedDB.GetDB()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		nuts.L.Fatalf("[Server] Failed to ping TimescaleDB: %v", err)
	}
	return wrappedDB
}

func initAppDB(cfg config.PostgresConfig) database.DB {
	wrappedDB, err := database.NewPostgresDB(cfg)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to connect to AppDB: %v", err)
	}
	db := wrappedDB.GetDB()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		nuts.L.Fatalf("[Server] Failed to ping AppDB: %v", err)
	}
	return wrappedDB
}
