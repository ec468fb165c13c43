package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelReservationHandler "github.com/m04kA/PWS-ReservationService/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/m04kA/PWS-ReservationService/internal/api/handlers/create_reservation"
	getFreeSlotsHandler "github.com/m04kA/PWS-ReservationService/internal/api/handlers/get_free_slots"
	getProviderReservationsHandler "github.com/m04kA/PWS-ReservationService/internal/api/handlers/get_provider_reservations"
	getReservationHandler "github.com/m04kA/PWS-ReservationService/internal/api/handlers/get_reservation"
	getUserReservationsHandler "github.com/m04kA/PWS-ReservationService/internal/api/handlers/get_user_reservations"
	setReservationStatusHandler "github.com/m04kA/PWS-ReservationService/internal/api/handlers/set_reservation_status"
	subscribeAreaEventsHandler "github.com/m04kA/PWS-ReservationService/internal/api/handlers/subscribe_area_events"
	updateProviderScheduleHandler "github.com/m04kA/PWS-ReservationService/internal/api/handlers/update_provider_schedule"
	"github.com/m04kA/PWS-ReservationService/internal/api/middleware"
	"github.com/m04kA/PWS-ReservationService/internal/config"
	"github.com/m04kA/PWS-ReservationService/internal/events"
	providerRepo "github.com/m04kA/PWS-ReservationService/internal/infra/storage/provider"
	reservationRepo "github.com/m04kA/PWS-ReservationService/internal/infra/storage/reservation"
	identityClient "github.com/m04kA/PWS-ReservationService/internal/integrations/identity"
	mailServiceClient "github.com/m04kA/PWS-ReservationService/internal/integrations/mailservice"
	petServiceClient "github.com/m04kA/PWS-ReservationService/internal/integrations/petservice"
	reservationsService "github.com/m04kA/PWS-ReservationService/internal/service/reservations"
	createReservationUC "github.com/m04kA/PWS-ReservationService/internal/usecase/create_reservation"
	getFreeSlotsUC "github.com/m04kA/PWS-ReservationService/internal/usecase/get_free_slots"
	setReservationStatusUC "github.com/m04kA/PWS-ReservationService/internal/usecase/set_reservation_status"
	updateProviderScheduleUC "github.com/m04kA/PWS-ReservationService/internal/usecase/update_provider_schedule"
	"github.com/m04kA/PWS-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/PWS-ReservationService/pkg/logger"
	"github.com/m04kA/PWS-ReservationService/pkg/metrics"
	"github.com/m04kA/PWS-ReservationService/pkg/simpletxmanager"
	"github.com/m04kA/PWS-ReservationService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting PWS-ReservationService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	identity := identityClient.NewClient(
		cfg.IdentityService.URL,
		time.Duration(cfg.IdentityService.Timeout)*time.Second,
		log,
	)
	petClient := petServiceClient.NewClient(
		cfg.PetService.URL,
		time.Duration(cfg.PetService.Timeout)*time.Second,
		log,
	)
	mailClient := mailServiceClient.NewClient(
		cfg.MailService.URL,
		time.Duration(cfg.MailService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (IdentityService=%s, PetService=%s, MailService=%s)",
		cfg.IdentityService.URL, cfg.PetService.URL, cfg.MailService.URL)

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		reservationRepository *reservationRepo.Repository
		providerRepository    *providerRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		providerRepository = providerRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		reservationRepository = reservationRepo.NewRepository(db)
		providerRepository = providerRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Брокер live-событий и диспетчер уведомлений
	broker := events.NewBroker(log)

	var dispatcherMetrics events.Metrics
	if cfg.Metrics.Enabled {
		dispatcherMetrics = metricsCollector
	}
	notifier := events.NewDispatcher(mailClient, broker, dispatcherMetrics, log)
	log.Info("Event broker and notification dispatcher initialized")

	// Инициализируем сервис чтения и отмены резерваций
	reservationsSvc := reservationsService.NewService(
		reservationRepository,
		providerRepository,
		identity,
		notifier,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		providerRepository,
		identity,
		petClient,
		notifier,
		txMgr,
		cfg.Scheduling.MinLeadDays,
		log,
	)

	getFreeSlotsUseCase := getFreeSlotsUC.NewUseCase(
		providerRepository,
		reservationRepository,
		identity,
		getFreeSlotsUC.Config{
			SlotStepMinutes: cfg.Scheduling.SlotStepMinutes,
			HorizonDays:     cfg.Scheduling.FreeSlotsHorizonDays,
		},
		log,
	)

	setReservationStatusUseCase := setReservationStatusUC.NewUseCase(
		reservationRepository,
		providerRepository,
		identity,
		notifier,
		txMgr,
		log,
	)

	updateProviderScheduleUseCase := updateProviderScheduleUC.NewUseCase(
		providerRepository,
		reservationRepository,
		identity,
		txMgr,
		cfg.Scheduling.EditCooldownDays,
		log,
	)

	// Инициализируем handlers
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getFreeSlots := getFreeSlotsHandler.NewHandler(getFreeSlotsUseCase, log)
	setReservationStatus := setReservationStatusHandler.NewHandler(setReservationStatusUseCase, log)
	updateProviderSchedule := updateProviderScheduleHandler.NewHandler(updateProviderScheduleUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationsSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationsSvc, log)
	getUserReservations := getUserReservationsHandler.NewHandler(reservationsSvc, log)
	getProviderReservations := getProviderReservationsHandler.NewHandler(reservationsSvc, log)
	subscribeAreaEvents := subscribeAreaEventsHandler.NewHandler(broker, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Live-события резерваций по зоне обслуживания (websocket)
	api.HandleFunc("/areas/{area}/events", subscribeAreaEvents.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Свободные слоты ---
	protected.HandleFunc("/slots", getFreeSlots.Handle).Methods(http.MethodGet)

	// --- Резервации ---
	// Создание резервации
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)

	// Получение резервации по ID
	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)

	// Явный переход статуса (accept / reject / cancel / complete)
	protected.HandleFunc("/reservations/{reservationId}/status", setReservationStatus.Handle).Methods(http.MethodPatch)

	// Отмена резервации заказчиком
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)

	// История резерваций заказчика
	protected.HandleFunc("/users/{userId}/reservations", getUserReservations.Handle).Methods(http.MethodGet)

	// --- Управление исполнителем ---
	// Список резерваций исполнителя
	protected.HandleFunc("/providers/{providerId}/reservations", getProviderReservations.Handle).Methods(http.MethodGet)

	// Замена расписания и зон обслуживания
	protected.HandleFunc("/providers/{providerId}/schedule", updateProviderSchedule.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
