package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	analytics_api_client "miniapp-service/internal/adapters/analytics_api"
	kvstore_adapter "miniapp-service/internal/adapters/kvstore"
	localstore_adapter "miniapp-service/internal/adapters/localstore"
	logger_adapter "miniapp-service/internal/adapters/logger"
	rabbitmq_adapter "miniapp-service/internal/adapters/rabbitmq"
	"miniapp-service/internal/adapters/rest"
	"miniapp-service/internal/adapters/scheduler"
	webhook_client "miniapp-service/internal/adapters/webhook"
	"miniapp-service/internal/configs"
	"miniapp-service/internal/constants"
	"miniapp-service/internal/contracts"
	"miniapp-service/internal/core/port"
	"miniapp-service/internal/core/usecase"
	fluentlogger "miniapp-service/pkg/fluent_logger"
	"miniapp-service/pkg/postgres"
	"miniapp-service/pkg/querycache"
	"miniapp-service/pkg/rabbitmq/rabbitmq_common"
	"miniapp-service/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	config    *configs.AppConfig
	dbPool    *pgxpool.Pool
	apiServer *rest.Server
	jobs      *scheduler.Scheduler

	rabbitManager *rabbitmq_common.ConnectionManager
	leadProducer  *rabbitmq_producer.Publisher

	fluentClient *fluent.Fluent
	logger       port.LoggerPort
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	slogCfg := logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false, // текстовый формат
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- 2. НИЗКОУРОВНЕВЫЕ ЗАВИСИМОСТИ ---
	dbPool, err := postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Database.URL})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	schemaRegistry, err := contracts.NewRegistry()
	if err != nil {
		dbPool.Close()
		appLogger.Error("Failed to compile contract schemas", err, nil)
		return nil, fmt.Errorf("failed to compile contract schemas: %w", err)
	}

	// --- 3. ХРАНИЛИЩЕ ПОЛЬЗОВАТЕЛЬСКИХ ДАННЫХ ---
	userStore, err := kvstore_adapter.NewPostgresStore(dbPool)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create user store adapter: %w", err)
	}
	debouncedStore := kvstore_adapter.NewDebouncedWriter(userStore, constants.HistoryDebounceWindow, baseLogger)

	historyRepo := localstore_adapter.NewHistoryRepository(userStore, debouncedStore)
	mandateRepo := localstore_adapter.NewMandateRepository(userStore)
	dealRepo := localstore_adapter.NewDealRepository(userStore)
	authRepo := localstore_adapter.NewAuthStateRepository(userStore)
	preferenceRepo := localstore_adapter.NewPreferenceRepository(userStore)

	// --- 4. КЛИЕНТЫ ВНЕШНИХ СЕРВИСОВ ---
	analyticsClient := analytics_api_client.NewClient(appConfig.AnalyticsAPI.BaseURL, constants.ResponseCacheTTL, time.Now)
	webhooks := webhook_client.NewClient(appConfig.Webhooks.AnalyzeURL, appConfig.Webhooks.ForecastURL, baseLogger)

	queries := querycache.New(querycache.Config{
		FreshFor:        constants.ResponseCacheTTL,
		MaxRetries:      constants.QueryMaxRetries,
		MutationRetries: constants.MutationMaxRetries,
		BackoffBase:     constants.QueryBackoffBase,
		BackoffCap:      constants.QueryBackoffCap,
		Logger:          rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "querycache"})),
	})

	// RabbitMQ опционален: без брокера сервис работает, событие о лиде
	// просто не публикуется.
	var rabbitManager *rabbitmq_common.ConnectionManager
	var leadProducer *rabbitmq_producer.Publisher
	var leadQueue port.LeadEventQueuePort
	if appConfig.RabbitMQ.Enabled {
		connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn"}))
		rabbitManager, err = rabbitmq_common.NewManager(rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL}, connManagerBridge)
		if err != nil {
			dbPool.Close()
			appLogger.Error("Failed to create RabbitMQ connection manager", err, nil)
			return nil, fmt.Errorf("failed to create rabbitmq connection manager: %w", err)
		}

		producerBridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"}))
		leadProducer, err = rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
			ExchangeName:             constants.LeadsExchangeName,
			ExchangeType:             constants.LeadsExchangeType,
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,
			Logger:                   producerBridge,
		}, rabbitManager)
		if err != nil {
			rabbitManager.Close()
			dbPool.Close()
			appLogger.Error("Failed to create lead event publisher", err, nil)
			return nil, fmt.Errorf("failed to create lead event publisher: %w", err)
		}

		leadQueue, err = rabbitmq_adapter.NewLeadEventQueueAdapter(leadProducer, constants.RoutingKeyUrgentSaleLead)
		if err != nil {
			leadProducer.Close()
			rabbitManager.Close()
			dbPool.Close()
			return nil, fmt.Errorf("failed to create lead event queue adapter: %w", err)
		}
	}
	appLogger.Info("All persistence and service adapters initialized.", nil)

	// --- 5. USE CASES ---
	searchByAddressUC := usecase.NewSearchByAddressUseCase(analyticsClient, historyRepo, queries)
	searchByDistrictUC := usecase.NewSearchByDistrictUseCase(analyticsClient, queries)
	searchByCityUC := usecase.NewSearchByCityUseCase(analyticsClient, queries)
	listCitiesUC := usecase.NewListCitiesUseCase(analyticsClient, queries)
	suggestAddressesUC := usecase.NewSuggestAddressesUseCase(analyticsClient)
	suggestCitiesUC := usecase.NewSuggestCitiesUseCase(analyticsClient)

	topInvestmentsUC := usecase.NewGetTopInvestmentsUseCase(analyticsClient, authRepo, queries)
	authorizeInvestorUC := usecase.NewAuthorizeInvestorUseCase(analyticsClient, authRepo, queries)

	historyUC := usecase.NewManageHistoryUseCase(historyRepo)
	mandatesUC := usecase.NewManageMandatesUseCase(mandateRepo)
	dealsUC := usecase.NewManageDealsUseCase(dealRepo)
	preferencesUC := usecase.NewManagePreferencesUseCase(preferenceRepo)

	urgentSaleUC := usecase.NewSubmitUrgentSaleUseCase(analyticsClient, webhooks, leadQueue, schemaRegistry)
	forecastUC := usecase.NewRequestForecastUseCase(webhooks)

	// --- 6. REST API И ПЛАНИРОВЩИК ---
	analyticsHandler := rest.NewAnalyticsHandler(searchByAddressUC, searchByDistrictUC, searchByCityUC, listCitiesUC, suggestAddressesUC, suggestCitiesUC)
	investHandler := rest.NewInvestHandler(topInvestmentsUC, authorizeInvestorUC)
	collectionsHandler := rest.NewCollectionsHandler(historyUC, mandatesUC, dealsUC, preferencesUC)
	leadsHandler := rest.NewLeadsHandler(urgentSaleUC, forecastUC)

	apiServer := rest.NewServer(
		appConfig.Rest.PORT,
		appConfig.Rest.AllowedOrigins,
		analyticsHandler,
		investHandler,
		collectionsHandler,
		leadsHandler,
		baseLogger,
	)

	jobs := scheduler.New(baseLogger)
	warmJob := scheduler.NewWarmCacheJob(analyticsClient, analyticsClient, queries, baseLogger)
	if err := jobs.AddJob("@every 4m", warmJob); err != nil {
		appLogger.Error("Failed to register cache warm job", err, nil)
	}
	appLogger.Info("REST API server configured.", nil)

	application := &App{
		config:    appConfig,
		dbPool:    dbPool,
		apiServer: apiServer,
		jobs:      jobs,

		rabbitManager: rabbitManager,
		leadProducer:  leadProducer,

		fluentClient: fluentClient,
		logger:       appLogger,
	}

	return application, nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		if a.jobs != nil {
			a.jobs.Stop()
		}

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		if a.leadProducer != nil {
			if err := a.leadProducer.Close(); err != nil {
				a.logger.Error("Error closing lead producer", err, nil)
			}
		}
		if a.rabbitManager != nil {
			if err := a.rabbitManager.Close(); err != nil {
				a.logger.Error("Error closing RabbitMQ connection", err, nil)
			}
		}

		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("PostgreSQL pool closed.", nil)
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// Логируем в stdout, так как fluent может быть уже недоступен
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	a.jobs.Start()

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case <-appCtx.Done():
		a.logger.Warn("Context was cancelled unexpectedly, shutting down...", nil)
	case err := <-serverErrors:
		a.logger.Error("Server failed to start, shutting down", err, nil)
	}

	cancelApp()

	return nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
