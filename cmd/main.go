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
	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	assignTechnicianHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/assign_technician"
	getAvailabilityHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_booking"
	getConfigHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_config"
	listBookingsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/list_bookings"
	optimizeTourHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/optimize_tour"
	reserveSessionHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/reserve_session"
	updateBookingStatusHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_booking_status"
	updateConfigHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_config"
	wizardSessionHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/wizard_session"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/config"
	"github.com/m04kA/SMC-SchedulingService/internal/events"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/export"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/session"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/migrations"
	tenantRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/tenant"
	bookingsService "github.com/m04kA/SMC-SchedulingService/internal/service/bookings"
	configService "github.com/m04kA/SMC-SchedulingService/internal/service/config"
	wizardService "github.com/m04kA/SMC-SchedulingService/internal/service/wizard"
	getAvailabilityUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_availability"
	optimizeTourUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/optimize_tour"
	reserveSessionUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/reserve_session"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}
	cfg, err := config.Load(configPath)
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

	log.Info("Starting SMC-SchedulingService...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	driver := cfg.Database.Driver
	db, err := sql.Open(driver, cfg.Database.DSN())
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
	log.Info("Successfully connected to database (driver=%s)", driver)

	if cfg.Database.AutoMigrate {
		applied, err := migrations.Apply(context.Background(), db, driver)
		if err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Migrations applied: %v", applied)
	}

	// Обёртка считает запросы, если метрики включены. Без коллектора она только пробрасывает вызовы
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	// Менеджер транзакций: для SQLite запись сериализуется блокировкой базы
	txOpts := txmanager.DefaultOptions()
	txOpts.MaxRetries = cfg.Database.TxMaxRetries
	if driver == "sqlite3" {
		txOpts.SerializableLevel = sql.LevelDefault
	}
	if metricsCollector != nil {
		txOpts.Observer = metricsCollector
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB, txOpts)

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB, driver)
	tenantRepository := tenantRepo.NewRepository(wrappedDB, driver)

	// Шина событий бронирований
	eventBus := events.NewEventBus()
	logBookingEvents(eventBus, log)

	// Хранилище сессий мастера
	sessionTTL := time.Duration(cfg.Wizard.SessionTTL) * time.Minute
	var sessionStore wizardService.SessionStore
	switch cfg.Wizard.SessionStore {
	case "redis":
		redisClient := session.NewRedisClient(cfg.Redis)
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to connect to Redis: %v", err)
		}
		sessionStore = session.NewRedisStore(redisClient, sessionTTL)
		log.Info("Wizard sessions are stored in Redis (%s), ttl=%s", cfg.Redis.Address, sessionTTL)
	default:
		sessionStore = session.NewMemoryStore(sessionTTL)
		log.Info("Wizard sessions are stored in memory, ttl=%s", sessionTTL)
	}

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		bookingRepository,
		tenantRepository,
		metricsCollector,
		log,
	)
	reserveSessionUseCase := reserveSessionUC.NewUseCase(
		bookingRepository,
		tenantRepository,
		txMgr,
		eventBus,
		metricsCollector,
		log,
	)
	optimizeTourUseCase := optimizeTourUC.NewUseCase(
		bookingRepository,
		export.NewRouteSheetExporter(),
		metricsCollector,
		log,
	)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, txMgr, eventBus, log)
	configSvc := configService.NewService(tenantRepository, log)
	wizardSvc := wizardService.NewService(
		sessionStore,
		tenantRepository,
		getAvailabilityUseCase,
		reserveSessionUseCase,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	reserveSession := reserveSessionHandler.NewHandler(reserveSessionUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	assignTechnician := assignTechnicianHandler.NewHandler(bookingSvc, log)
	getConfig := getConfigHandler.NewHandler(configSvc, log)
	updateConfig := updateConfigHandler.NewHandler(configSvc, log)
	wizardSession := wizardSessionHandler.NewHandler(wizardSvc, log)
	optimizeTour := optimizeTourHandler.NewHandler(optimizeTourUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := db.PingContext(req.Context()); err != nil {
			handlers.RespondError(w, http.StatusServiceUnavailable, "база данных недоступна")
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// READ ROUTES
	// ============================================================

	// Календарь доступности на месяц
	api.HandleFunc("/tenants/{tenantId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Конфигурация расписания тенанта
	api.HandleFunc("/tenants/{tenantId}/config", getConfig.Handle).Methods(http.MethodGet)

	// Бронирования тенанта
	api.HandleFunc("/tenants/{tenantId}/bookings", listBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/tenants/{tenantId}/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Текущий шаг мастера
	api.HandleFunc("/wizard/sessions/{sessionId}", wizardSession.Get).Methods(http.MethodGet)

	// Маршрут техника на день и маршрутный лист
	api.HandleFunc("/tenants/{tenantId}/tours", optimizeTour.Day).Methods(http.MethodGet)
	api.HandleFunc("/tenants/{tenantId}/tours/export", optimizeTour.Export).Methods(http.MethodGet)

	// ============================================================
	// MUTATING ROUTES (ограничены по частоте запросов)
	// ============================================================

	mutating := api.PathPrefix("").Subrouter()
	if cfg.RateLimit.Enabled {
		mutating.Use(middleware.NewRateLimiter(middleware.RateLimitOptions{
			RPS:               cfg.RateLimit.RPS,
			Burst:             cfg.RateLimit.Burst,
			TrustForwardedFor: cfg.RateLimit.TrustForwardedFor,
			IdleTTL:           time.Duration(cfg.RateLimit.IdleTTL) * time.Second,
		}).Middleware)
		log.Info("Rate limit enabled: rps=%.2f, burst=%d, trust_forwarded_for=%t",
			cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.TrustForwardedFor)
	}

	// Резервирование окна
	mutating.HandleFunc("/tenants/{tenantId}/bookings", reserveSession.Handle).Methods(http.MethodPost)

	// Смена статуса бронирования
	mutating.HandleFunc("/tenants/{tenantId}/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	mutating.HandleFunc("/tenants/{tenantId}/bookings/{bookingId}/technician", assignTechnician.Handle).Methods(http.MethodPatch)

	// Обновление конфигурации тенанта
	mutating.HandleFunc("/tenants/{tenantId}/config", updateConfig.Handle).Methods(http.MethodPut)

	// Мастер записи
	mutating.HandleFunc("/tenants/{tenantId}/wizard/sessions", wizardSession.Start).Methods(http.MethodPost)
	mutating.HandleFunc("/wizard/sessions/{sessionId}/submit", wizardSession.Submit).Methods(http.MethodPost)
	mutating.HandleFunc("/wizard/sessions/{sessionId}/back", wizardSession.Back).Methods(http.MethodPost)

	// Маршрут по явному списку остановок
	mutating.HandleFunc("/tours/optimize", optimizeTour.Optimize).Methods(http.MethodPost)

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
	close(stopMetricsCh)

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

// logBookingEvents пишет события бронирований в лог
func logBookingEvents(bus *events.EventBus, log *logger.Logger) {
	handler := func(event *events.Event) error {
		var payload events.BookingEventPayload
		if err := event.Decode(&payload); err != nil {
			log.Warn("event %s: failed to decode payload: %v", event.ID, err)
			return err
		}
		log.Info("event %s: type=%s, booking_id=%d, tenant_id=%d, date=%s, session=%s, status=%s",
			event.ID, event.Type, payload.BookingID, payload.TenantID, payload.Date, payload.SessionID, payload.Status)
		return nil
	}

	bus.Subscribe(events.EventBookingCreated, handler)
	bus.Subscribe(events.EventBookingStatusChanged, handler)
}
