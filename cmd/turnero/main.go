package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avillagra/turnero/config"
	v1 "github.com/avillagra/turnero/internal/handler/v1"
	"github.com/avillagra/turnero/internal/repository"
	"github.com/avillagra/turnero/internal/service"
	"github.com/avillagra/turnero/pkg/database"
	"github.com/avillagra/turnero/pkg/logger"
	"github.com/avillagra/turnero/pkg/metrics"
	"github.com/avillagra/turnero/pkg/tracer"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "turnero: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := database.Migrate(db, log); err != nil {
		return err
	}

	collector := metrics.NewCollector("turnero")

	// Sample pool usage for the db gauge until shutdown.
	gaugeDone := make(chan struct{})
	defer close(gaugeDone)
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				collector.DBConnections.Set(float64(sqlDB.Stats().OpenConnections))
			case <-gaugeDone:
				return
			}
		}
	}()

	auditSvc := service.NewAuditService(repository.NewAuditRepository(db), log)
	defer auditSvc.Shutdown()

	patientRepo := repository.NewPatientRepository(db)
	physicianRepo := repository.NewPhysicianRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)

	patientSvc := service.NewPatientService(patientRepo, auditSvc, log)
	physicianSvc := service.NewPhysicianService(physicianRepo, auditSvc, log)
	schedulingSvc := service.NewSchedulingService(appointmentRepo, patientRepo, physicianRepo, auditSvc, collector, log)

	router := v1.NewRouter(v1.RouterDeps{
		Patients:     v1.NewPatientHandler(patientSvc, schedulingSvc),
		Physicians:   v1.NewPhysicianHandler(physicianSvc, schedulingSvc),
		Appointments: v1.NewAppointmentHandler(schedulingSvc),
		Collector:    collector,
		Log:          log,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Environment),
			zap.String("version", cfg.App.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
