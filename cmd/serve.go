package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meinhoongagan/medcare/config"
	"github.com/meinhoongagan/medcare/controllers"
	appcron "github.com/meinhoongagan/medcare/cron"
	"github.com/meinhoongagan/medcare/db"
	"github.com/meinhoongagan/medcare/logger"
	"github.com/meinhoongagan/medcare/metrics"
	"github.com/meinhoongagan/medcare/middleware"
	"github.com/meinhoongagan/medcare/redis"
	"github.com/meinhoongagan/medcare/repositories"
	"github.com/meinhoongagan/medcare/routes"
	"github.com/meinhoongagan/medcare/services"
	"github.com/meinhoongagan/medcare/utils"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

// bootstrap loads config and builds the logger shared by every server-side
// command.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	zap.ReplaceGlobals(log)
	return cfg, log, nil
}

func runServer() error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		return err
	}
	loc, _ := cfg.Location()

	database, err := db.Open(cfg.DatabaseURL, !cfg.IsProduction(), log)
	if err != nil {
		return err
	}
	if err := db.Migrate(database, log); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := redis.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer rdb.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	bookingMetrics := metrics.NewBooking(reg)

	userRepo := repositories.NewUserRepository(database, log)
	doctorRepo := repositories.NewDoctorRepository(database, log)
	serviceRepo := repositories.NewMedicalServiceRepository(database, log)
	scheduleRepo := repositories.NewScheduleRepository(database, log)
	appointmentRepo := repositories.NewAppointmentRepository(database, log)

	var photos services.PhotoStore
	if cfg.CloudinaryEnabled() {
		uploader, err := utils.NewPhotoUploader(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey,
			cfg.CloudinaryAPISecret, cfg.CloudinaryUploadPreset)
		if err != nil {
			return err
		}
		photos = uploader
	} else {
		log.Warn("cloudinary not configured, doctor photo uploads disabled")
	}

	authService := services.NewAuthService(userRepo, redis.NewTokenStore(rdb), cfg.JWTSecret, cfg.JWTTTL, cfg.RefreshTTL, log)
	staffService := services.NewStaffService(userRepo, authService, log)
	doctorService := services.NewDoctorService(doctorRepo, scheduleRepo, photos, log)
	catalogService := services.NewCatalogService(serviceRepo, log)
	bookingService := services.NewBookingService(
		repositories.NewTransactor(database),
		appointmentRepo, doctorRepo, serviceRepo, scheduleRepo,
		bookingMetrics,
		services.BookingConfig{Location: loc, StepMinutes: cfg.SlotStepMinutes},
		log,
	)
	reportService := services.NewReportService(appointmentRepo, doctorRepo, serviceRepo, userRepo, loc, log)

	var mailer appcron.Sender
	if cfg.MailEnabled() {
		mailer = utils.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass)
	}
	scheduler, err := appcron.NewDigest(reportService, mailer, cfg.DigestRecipient, loc, log).Start(cfg.DigestCron)
	if err != nil {
		return err
	}
	defer scheduler.Stop()

	app := fiber.New(fiber.Config{
		AppName:      "medcare",
		ErrorHandler: controllers.ErrorHandler(log),
		BodyLimit:    8 * 1024 * 1024,
	})
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	routes.Setup(app, routes.Handlers{
		Auth:         controllers.NewAuthHandler(authService, log),
		Staff:        controllers.NewStaffHandler(staffService, log),
		Doctors:      controllers.NewDoctorHandler(doctorService, log),
		Services:     controllers.NewServiceHandler(catalogService, log),
		Appointments: controllers.NewAppointmentHandler(bookingService, log),
		Reports:      controllers.NewReportHandler(reportService, log),
	}, routes.Guards{
		Protected:    middleware.Protected(cfg.JWTSecret, authService, log),
		LoginLimiter: middleware.NewIPRateLimiter(cfg.LoginRatePerMinute).Handler(),
	}, reg)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("port", cfg.AppPort), zap.String("env", cfg.Env))
		errCh <- app.Listen(":" + cfg.AppPort)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	return app.ShutdownWithTimeout(10 * time.Second)
}
