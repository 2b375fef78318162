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
	"github.com/redis/go-redis/v9"

	closeSessionHandler "github.com/m04kA/SMC-TutorBooking/internal/api/handlers/close_session"
	confirmSessionHandler "github.com/m04kA/SMC-TutorBooking/internal/api/handlers/confirm_session"
	createSessionHandler "github.com/m04kA/SMC-TutorBooking/internal/api/handlers/create_session"
	disableDayHandler "github.com/m04kA/SMC-TutorBooking/internal/api/handlers/disable_day"
	ensureMonthHandler "github.com/m04kA/SMC-TutorBooking/internal/api/handlers/ensure_month"
	focusDateHandler "github.com/m04kA/SMC-TutorBooking/internal/api/handlers/focus_date"
	getCalendarHandler "github.com/m04kA/SMC-TutorBooking/internal/api/handlers/get_calendar"
	getSessionHandler "github.com/m04kA/SMC-TutorBooking/internal/api/handlers/get_session"
	getWeekHandler "github.com/m04kA/SMC-TutorBooking/internal/api/handlers/get_week"
	publishHoursHandler "github.com/m04kA/SMC-TutorBooking/internal/api/handlers/publish_hours"
	removeSlotHandler "github.com/m04kA/SMC-TutorBooking/internal/api/handlers/remove_slot"
	selectRescheduleStartHandler "github.com/m04kA/SMC-TutorBooking/internal/api/handlers/select_reschedule_start"
	toggleHourHandler "github.com/m04kA/SMC-TutorBooking/internal/api/handlers/toggle_hour"
	"github.com/m04kA/SMC-TutorBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TutorBooking/internal/config"
	agendaCache "github.com/m04kA/SMC-TutorBooking/internal/infra/cache/agenda"
	submissionRepo "github.com/m04kA/SMC-TutorBooking/internal/infra/storage/submission"
	"github.com/m04kA/SMC-TutorBooking/internal/integrations/tutorapi"
	"github.com/m04kA/SMC-TutorBooking/internal/service/conflict"
	"github.com/m04kA/SMC-TutorBooking/internal/service/session"
	createBookingUC "github.com/m04kA/SMC-TutorBooking/internal/usecase/create_booking"
	manageAvailabilityUC "github.com/m04kA/SMC-TutorBooking/internal/usecase/manage_availability"
	rescheduleBookingUC "github.com/m04kA/SMC-TutorBooking/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-TutorBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-TutorBooking/pkg/logger"
	"github.com/m04kA/SMC-TutorBooking/pkg/metrics"
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

	log.Info("Starting SMC-TutorBooking...")
	log.Info("Configuration loaded from config.toml")

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Failed to load timezone %q: %v", cfg.Booking.Timezone, err)
	}

	// Инициализируем метрики (если включены)
	// Методы *metrics.Metrics допускают nil, поэтому при выключенных метриках передаем nil
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Журнал отправок (опционален)
	var (
		journal createBookingUC.SubmissionRepository
		history getSessionHandler.SubmissionHistory
	)
	if cfg.Database.Enabled {
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

		var observer dbmetrics.Observer
		if metricsCollector != nil {
			observer = metricsCollector
		}
		repo := submissionRepo.NewRepository(dbmetrics.Wrap(db, observer))
		journal = repo
		history = repo
	} else {
		log.Warn("Submission journal disabled: repeated confirmations will be sent to the backend again")
	}

	// Инициализируем клиента бэкенда репетиторов
	tutorClient := tutorapi.NewClient(
		cfg.TutorAPI.BaseURL,
		time.Duration(cfg.TutorAPI.Timeout)*time.Second,
		log,
	)
	log.Info("Tutor API client initialized (url=%s, timeout=%ds)", cfg.TutorAPI.BaseURL, cfg.TutorAPI.Timeout)

	// Общий кэш расписания (опционален)
	var (
		agendaSource session.AgendaSource = tutorClient
		invalidator  manageAvailabilityUC.AgendaInvalidator
	)
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			// Кэш работает в обход Redis, пока тот недоступен
			log.Warn("Redis is not reachable at %s: %v", cfg.Redis.Addr, err)
		} else {
			log.Info("Successfully connected to redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)
		}
		cancelPing()

		cache := agendaCache.New(redisClient, tutorClient, time.Duration(cfg.Redis.TTL)*time.Second, metricsCollector, log)
		agendaSource = cache
		invalidator = cache
	}

	// Инициализируем сервисы и use cases
	guard := conflict.NewGuard(log)

	createBookingUseCase := createBookingUC.NewUseCase(tutorClient, journal, invalidator, metricsCollector, log)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(tutorClient, guard, journal, invalidator, metricsCollector, log)
	manageAvailabilityUseCase := manageAvailabilityUC.NewUseCase(tutorClient, guard, invalidator, log)

	sessionDeps := session.Deps{
		Agenda:        agendaSource,
		Quotes:        tutorClient,
		Bookings:      createBookingUseCase,
		Reschedules:   rescheduleBookingUseCase,
		QuoteDebounce: cfg.Booking.QuoteDebounce(),
		Logger:        log,
	}
	if metricsCollector != nil {
		sessionDeps.Metrics = metricsCollector
	}
	sessions, err := session.NewManager(sessionDeps, time.Duration(cfg.Booking.SessionTTL)*time.Second)
	if err != nil {
		log.Fatal("Failed to create session manager: %v", err)
	}

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go sessions.Run(janitorCtx, time.Duration(cfg.Booking.JanitorInterval)*time.Second)
	log.Info("Session manager started (ttl=%ds, janitor=%ds, quote_debounce=%dms)",
		cfg.Booking.SessionTTL, cfg.Booking.JanitorInterval, cfg.Booking.QuoteDebounceMs)

	// Инициализируем handlers
	getCalendar := getCalendarHandler.NewHandler(location, log)
	createSession := createSessionHandler.NewHandler(sessions, createSessionHandler.Defaults{
		HourlyRateCents: cfg.Booking.HourlyRateCents,
		Location:        location,
	}, log)
	getSession := getSessionHandler.NewHandler(sessions, history, log)
	ensureMonth := ensureMonthHandler.NewHandler(sessions, location, log)
	focusDate := focusDateHandler.NewHandler(sessions, log)
	toggleHour := toggleHourHandler.NewHandler(sessions, log)
	selectRescheduleStart := selectRescheduleStartHandler.NewHandler(sessions, log)
	confirmSession := confirmSessionHandler.NewHandler(sessions, log)
	closeSession := closeSessionHandler.NewHandler(sessions, log)
	getWeek := getWeekHandler.NewHandler(manageAvailabilityUseCase, location, log)
	publishHours := publishHoursHandler.NewHandler(manageAvailabilityUseCase, log)
	disableDay := disableDayHandler.NewHandler(manageAvailabilityUseCase, location, log)
	removeSlot := removeSlotHandler.NewHandler(manageAvailabilityUseCase, location, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recover(log))

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Сетка месяца 6x7
	api.HandleFunc("/calendar", getCalendar.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют Authorization: Bearer)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Сессии бронирования ---
	protected.HandleFunc("/sessions", createSession.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/sessions/{sessionId}", getSession.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/sessions/{sessionId}", closeSession.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/sessions/{sessionId}/months", ensureMonth.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/sessions/{sessionId}/focus", focusDate.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/sessions/{sessionId}/hours/toggle", toggleHour.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/sessions/{sessionId}/reschedule/start", selectRescheduleStart.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/sessions/{sessionId}/confirm", confirmSession.Handle).Methods(http.MethodPost)

	// --- Расписание репетитора ---
	protected.HandleFunc("/owners/{subjectId:[0-9]+}/week", getWeek.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/owners/preferences/{preferenceId:[0-9]+}/hours", publishHours.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/owners/{subjectId:[0-9]+}/days/{dayOfWeek:[1-7]}/disable", disableDay.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/owners/{subjectId:[0-9]+}/slots/{availabilityId:[0-9]+}", removeSlot.Handle).Methods(http.MethodDelete)

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Закрываем открытые сессии: отменяем котировки и загрузки
	stopJanitor()
	sessions.Shutdown()

	log.Info("Server stopped gracefully")
}
