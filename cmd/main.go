package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	appointmentActionHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/appointment_action"
	createAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getMyAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_my_appointments"
	healthHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/health"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/migrations"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/identity"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notificationbus"
	userServiceClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
	appointmentsService "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/notifications"
	appointmentActionUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/appointment_action"
	createAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/tracing"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "appointment-service",
		Short: "Appointment negotiation service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(configPath)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "path to config file")

	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(migrateCmd(&configPath))
	rootCmd.AddCommand(tokenCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(*configPath)
		},
	}
}

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply embedded database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer log.Close()

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := migrations.Apply(cmd.Context(), db, log)
			if err != nil {
				log.Error("Migration failed: %v", err)
				return err
			}
			log.Info("Migrations completed: %d files applied", applied)
			return nil
		},
	}
}

// tokenCmd выпускает токен для локальной отладки API
func tokenCmd(configPath *string) *cobra.Command {
	var (
		userID string
		role   string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			verifier := identity.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
			token, err := verifier.Issue(domain.Identity{UserID: userID, Role: domain.Role(role)}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id (subject)")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleCustomer), "customer or professional")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func bootstrap(configPath string) (*config.Config, *logger.Logger, error) {
	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return nil, nil, err
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		return nil, nil, err
	}

	log.Info("Configuration loaded from %s", configPath)
	return cfg, log, nil
}

func openDB(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func runServer(configPath string) error {
	cfg, log, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer log.Close()

	log.Info("Starting SMC-AppointmentService...")

	// Трассировка
	shutdownTracing, err := tracing.Setup(context.Background(), tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Error("Failed to setup tracing: %v", err)
		return err
	}

	// Инициализируем метрики (если включены).
	// Интерфейсы заполняются только при включенных метриках, nil *Metrics в них не попадает.
	var (
		metricsCollector   *metrics.Metrics
		dbRecorder         dbmetrics.Recorder
		transitionRecorder appointmentActionUC.MetricsRecorder
		notifyRecorder     notifications.MetricsRecorder
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		dbRecorder = metricsCollector
		transitionRecorder = metricsCollector
		notifyRecorder = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := openDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return err
	}
	defer db.Close()
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, dbRecorder, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)

	// Справочник пользователей, с кэшем в Redis если он настроен
	var userDirectory userServiceClient.Directory = userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		userDirectory = userServiceClient.NewCachedClient(userDirectory, rdb, time.Duration(cfg.Redis.TTL)*time.Second, log)
		log.Info("User directory cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTL)
	}
	log.Info("UserService client initialized (url=%s, timeout=%ds)", cfg.UserService.URL, cfg.UserService.Timeout)

	// Канал уведомлений: Kafka или только журнал
	var notifier interface {
		notifications.Notifier
		Close() error
	}
	if brokers := notificationbus.SplitBrokers(cfg.Kafka.Brokers); len(brokers) > 0 {
		notifier = notificationbus.NewNotifier(notificationbus.NewKafkaWriter(brokers), cfg.Kafka.TopicPrefix, log)
		log.Info("Kafka notifier enabled (brokers=%v, topic_prefix=%s)", brokers, cfg.Kafka.TopicPrefix)
	} else {
		notifier = notificationbus.NewLogNotifier(log)
		log.Warn("Kafka brokers not configured, notifications are only logged")
	}
	defer notifier.Close()

	dispatcher := notifications.NewDispatcher(notifier, userDirectory, notifyRecorder, log)
	verifier := identity.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	// Сервисы и use cases
	appointmentSvc := appointmentsService.NewService(appointmentRepository, log)

	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		userDirectory,
		dispatcher,
		txMgr,
		log,
	)
	appointmentActionUseCase := appointmentActionUC.NewUseCase(
		appointmentRepository,
		dispatcher,
		txMgr,
		transitionRecorder,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		userDirectory,
		cfg.Slots.StepMinutes,
		log,
	)

	// Handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	appointmentAction := appointmentActionHandler.NewHandler(appointmentActionUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	getMyAppointments := getMyAppointmentsHandler.NewHandler(appointmentSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	health := healthHandler.NewHandler(db, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/professionals/{professionalId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (Authorization: Bearer <token>)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(verifier, log))

	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	// /mine регистрируется раньше /{appointmentId}
	protected.HandleFunc("/appointments/mine", getMyAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/action", appointmentAction.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      otelhttp.NewHandler(r, cfg.Metrics.ServiceName),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Ожидаем сигнал завершения или падение сервера
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		log.Error("Server failed: %v", err)
		close(stopMetricsCh)
		return err
	}

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Failed to flush traces: %v", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
