package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/elmarkeb/clinicdesk/cmd/mainconfig"
	"github.com/elmarkeb/clinicdesk/internal/agenda"
	"github.com/elmarkeb/clinicdesk/internal/api/router"
	"github.com/elmarkeb/clinicdesk/internal/appointments"
	"github.com/elmarkeb/clinicdesk/internal/auth"
	"github.com/elmarkeb/clinicdesk/internal/cache"
	"github.com/elmarkeb/clinicdesk/internal/catalog"
	appconfig "github.com/elmarkeb/clinicdesk/internal/config"
	"github.com/elmarkeb/clinicdesk/internal/docstore"
	"github.com/elmarkeb/clinicdesk/internal/observability/metrics"
	"github.com/elmarkeb/clinicdesk/internal/patients"
	"github.com/elmarkeb/clinicdesk/internal/revenue"
	"github.com/elmarkeb/clinicdesk/internal/schedule"
	"github.com/elmarkeb/clinicdesk/internal/visits"
	"github.com/elmarkeb/clinicdesk/pkg/logging"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinicdesk API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	awsCfg, err := mainconfig.LoadAWSConfig(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}
	dynamoClient := dynamodb.NewFromConfig(awsCfg)
	s3Client := s3.NewFromConfig(awsCfg)

	entityCache := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisTLS, cfg.CacheTTL, logger)
	defer entityCache.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	bookingMetrics := metrics.NewBookingMetrics(registry)

	patientsColl := docstore.NewCollection(dynamoClient, cfg.PatientsTable, logger)
	servicesColl := docstore.NewCollection(dynamoClient, cfg.ServicesTable, logger)
	appointmentsColl := docstore.NewCollection(dynamoClient, cfg.AppointmentsTable, logger)
	for _, coll := range []*docstore.Collection{patientsColl, servicesColl, appointmentsColl} {
		coll.SetLatencyObserver(bookingMetrics.ObserveStoreLatency)
	}

	patientsRepo := patients.NewRepository(patientsColl, entityCache)
	servicesRepo := catalog.NewRepository(servicesColl, entityCache)
	appointmentsRepo := appointments.NewRepository(appointmentsColl, entityCache)

	loc := cfg.Location()
	slotCatalog := schedule.NewCatalog(cfg.OpenTime, cfg.CloseTime, cfg.SlotStep)
	attachments := visits.NewAttachmentStore(s3Client, cfg.AttachmentsBucket, logger)

	routerCfg := &router.Config{
		Logger:              logger,
		AuthHandler:         auth.NewHandler(cfg.JWTSecret, cfg.AdminUser, cfg.AdminPassword, cfg.TokenTTL, logger),
		PatientsHandler:     patients.NewHandler(patientsRepo, logger),
		ServicesHandler:     catalog.NewHandler(servicesRepo, logger),
		AppointmentsHandler: appointments.NewHandler(appointmentsRepo, patientsRepo, servicesRepo, loc, bookingMetrics, logger),
		VisitsHandler:       visits.NewHandler(appointmentsRepo, patientsRepo, servicesRepo, attachments, logger),
		AgendaHandler:       agenda.NewHandler(appointmentsRepo, patientsRepo, servicesRepo, slotCatalog, cfg.WeekStartDay, loc, logger),
		RevenueHandler:      revenue.NewHandler(appointmentsRepo, servicesRepo, cfg.WeekStartDay, loc, logger),
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		AuthSecret:          cfg.JWTSecret,
		CORSAllowedOrigins:  cfg.AllowedOrigins,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
