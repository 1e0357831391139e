package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/nepalmeatshop/backend/internal/application/billing"
	cartapp "github.com/nepalmeatshop/backend/internal/application/cart"
	catalogapp "github.com/nepalmeatshop/backend/internal/application/catalog"
	deliveryapp "github.com/nepalmeatshop/backend/internal/application/delivery"
	eventapp "github.com/nepalmeatshop/backend/internal/application/event"
	identityapp "github.com/nepalmeatshop/backend/internal/application/identity"
	importapp "github.com/nepalmeatshop/backend/internal/application/import"
	inventoryapp "github.com/nepalmeatshop/backend/internal/application/inventory"
	"github.com/nepalmeatshop/backend/internal/application/jobs"
	notificationapp "github.com/nepalmeatshop/backend/internal/application/notification"
	orderapp "github.com/nepalmeatshop/backend/internal/application/order"
	paymentapp "github.com/nepalmeatshop/backend/internal/application/payment"
	printingapp "github.com/nepalmeatshop/backend/internal/application/printing"
	reportapp "github.com/nepalmeatshop/backend/internal/application/report"
	reviewapp "github.com/nepalmeatshop/backend/internal/application/review"
	billingdomain "github.com/nepalmeatshop/backend/internal/domain/billing"
	catalogdomain "github.com/nepalmeatshop/backend/internal/domain/catalog"
	deliverydomain "github.com/nepalmeatshop/backend/internal/domain/delivery"
	"github.com/nepalmeatshop/backend/internal/infrastructure/auth"
	"github.com/nepalmeatshop/backend/internal/infrastructure/cache"
	"github.com/nepalmeatshop/backend/internal/infrastructure/config"
	"github.com/nepalmeatshop/backend/internal/infrastructure/event"
	"github.com/nepalmeatshop/backend/internal/infrastructure/logger"
	paygw "github.com/nepalmeatshop/backend/internal/infrastructure/payment"
	"github.com/nepalmeatshop/backend/internal/infrastructure/persistence"
	infraprinting "github.com/nepalmeatshop/backend/internal/infrastructure/printing"
	"github.com/nepalmeatshop/backend/internal/infrastructure/printing/providers"
	"github.com/nepalmeatshop/backend/internal/infrastructure/scheduler"
	"github.com/nepalmeatshop/backend/internal/infrastructure/storage"
	"github.com/nepalmeatshop/backend/internal/infrastructure/telemetry"
	"github.com/nepalmeatshop/backend/internal/interfaces/http/handler"
	"github.com/nepalmeatshop/backend/internal/interfaces/http/middleware"
	"github.com/nepalmeatshop/backend/internal/interfaces/http/router"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Nepal Meat Shop API
//	@version		1.0
//	@description	Bilingual meat shop storefront and back-office API with session carts, simulated Nepali payment gateways, invoicing and PDF printing.

//	@contact.name	API Support
//	@contact.email	info@nepalmeatshop.com.np

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting meat shop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Business knobs the domain reads as package-level defaults
	applyShopConfig(&cfg.Shop)

	rootCtx := context.Background()

	// OpenTelemetry providers. When disabled everything below keeps
	// working against nil-safe no-ops.
	var (
		meterProvider   *telemetry.MeterProvider
		businessMetrics *telemetry.BusinessMetrics
		tracingMW       gin.HandlerFunc
		metricsMW       gin.HandlerFunc
	)
	if cfg.Telemetry.Enabled {
		tracerProvider, err := telemetry.NewTracerProvider(rootCtx, telemetry.Config{
			Enabled:           true,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			SamplingRatio:     cfg.Telemetry.SamplingRatio,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize tracer provider", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(ctx); err != nil {
				log.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()

		meterProvider, err = telemetry.NewMeterProvider(rootCtx, telemetry.MetricsConfig{
			Enabled:           true,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize meter provider", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := meterProvider.Shutdown(ctx); err != nil {
				log.Error("Error shutting down meter provider", zap.Error(err))
			}
		}()

		loggerProvider, err := telemetry.NewLoggerProvider(rootCtx, telemetry.LogsConfig{
			Enabled:           true,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize logger provider", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := loggerProvider.Shutdown(ctx); err != nil {
				log.Error("Error shutting down logger provider", zap.Error(err))
			}
		}()

		// Tee zap output into the OTLP log pipeline
		logLevel, parseErr := zapcore.ParseLevel(cfg.Log.Level)
		if parseErr != nil {
			logLevel = zapcore.InfoLevel
		}
		otelCore := telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			LoggerProvider: loggerProvider,
			Level:          logLevel,
		})
		log = telemetry.NewBridgedLogger(log.Core(), otelCore)

		tracingMW = middleware.Tracing()
		metricsMW = middleware.HTTPMetricsWithMeter(meterProvider.Meter("meatshop-http"), true)

		log.Info("Telemetry enabled",
			zap.String("collector", cfg.Telemetry.CollectorEndpoint),
			zap.Float64("sampling_ratio", cfg.Telemetry.SamplingRatio),
		)
	}

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Database telemetry plugins and business metrics
	if meterProvider != nil {
		if cfg.Telemetry.DBTraceEnabled {
			tracingPlugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
				Enabled:         true,
				LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
				SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			}, log)
			if err := tracingPlugin.RegisterOtelGorm(db.DB); err != nil {
				log.Warn("Failed to install DB tracing plugin", zap.Error(err))
			}
		}

		dbMetrics, err := telemetry.NewDBMetrics(meterProvider.Meter("meatshop-db"), telemetry.DBMetricsConfig{
			Enabled:            true,
			SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
		}, log)
		if err != nil {
			log.Warn("Failed to initialize DB metrics", zap.Error(err))
		} else if err := db.DB.Use(telemetry.NewDBMetricsPlugin(dbMetrics, log)); err != nil {
			log.Warn("Failed to install DB metrics plugin", zap.Error(err))
		}

		businessMetrics, err = telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:         meterProvider.Meter("meatshop-business"),
			Logger:        log,
			StockProvider: telemetry.NewGormStockMetricsProvider(db.DB),
		})
		if err != nil {
			log.Warn("Failed to initialize business metrics", zap.Error(err))
		} else {
			businessMetrics.StartPeriodicCollection(rootCtx, 5*time.Minute)
			defer businessMetrics.Stop()
		}
	}

	// Redis backs the session carts, catalog cache, token blacklist and
	// idempotency stores
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis client", zap.Error(err))
		}
	}()
	log.Info("Redis connected successfully")

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	checkoutStore := persistence.NewGormCheckoutStore(db.DB)
	areaRepo := persistence.NewGormDeliveryAreaRepository(db.DB)
	gatewayRepo := persistence.NewGormGatewayRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	stockAlertRepo := persistence.NewGormStockAlertRepository(db.DB)
	stockTxnRepo := persistence.NewGormStockTransactionRepository(db.DB)
	attachmentRepo := persistence.NewGormProductAttachmentRepository(db.DB)
	importHistoryRepo := persistence.NewGormImportHistoryRepository(db.DB)
	notificationTemplateRepo := persistence.NewGormNotificationTemplateRepository(db.DB)
	notificationLogRepo := persistence.NewGormNotificationLogRepository(db.DB)
	printTemplateRepo := persistence.NewGormPrintTemplateRepository(db.DB)
	printJobRepo := persistence.NewGormPrintJobRepository(db.DB)
	salesReportRepo := persistence.NewGormSalesReportRepository(db.DB)
	dashboardRepo := persistence.NewGormDashboardRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Initialize event serializer and register all event types
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	// Outbox publisher saves events in the same transaction as the
	// aggregate write
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)
	orderRepo.SetOutboxEventSaver(outboxPublisher)
	checkoutStore.SetOutboxEventSaver(outboxPublisher)

	// In-process event bus; the outbox processor feeds it persisted
	// events, services publish transient ones directly
	eventBus := event.NewInMemoryEventBus(log)

	// Cart and catalog caches
	cartStore := cache.NewRedisCartStore(redisClient,
		cache.WithCartTTL(cfg.Session.TTL),
		cache.WithCartLogger(log),
	)
	cacheCfg := catalogdomain.DefaultCacheConfig()
	catalogCache := cache.NewTieredCatalogCache(
		cache.NewInMemoryCatalogCache(cache.WithInMemoryConfig(cacheCfg), cache.WithInMemoryLogger(log)),
		cache.NewRedisCatalogCache(redisClient, cache.WithCacheConfig(cacheCfg), cache.WithCacheLogger(log)),
		cache.NewRedisCatalogCacheInvalidator(redisClient,
			cache.WithInvalidatorChannel(cacheCfg.PubSubChannel),
			cache.WithInvalidatorLogger(log),
		),
		cache.WithTieredConfig(cacheCfg),
		cache.WithTieredLogger(log),
	)
	if err := catalogCache.StartInvalidationSubscription(rootCtx); err != nil {
		log.Warn("Failed to start catalog cache invalidation subscription", zap.Error(err))
	}

	// Idempotency stores: one namespace for event handlers, one for
	// gateway callbacks
	idemFactory := cache.NewIdempotencyStoreFactory(redisClient)
	eventIdemStore, err := idemFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create event idempotency store", zap.Error(err))
	}
	callbackIdemFactory := cache.NewIdempotencyStoreFactory(redisClient,
		cache.WithKeyPrefix(cache.CallbackIdempotencyPrefix))
	callbackIdemStore, err := callbackIdemFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create callback idempotency store", zap.Error(err))
	}

	// Auth infrastructure
	jwtService := auth.NewJWTService(cfg.JWT)
	tokenBlacklist := auth.NewRedisTokenBlacklist(redisClient)

	// Object storage for product images and gateway QR codes
	objectStorage, err := storage.NewObjectStorage(&cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// Payment gateway simulators
	gatewaySim := paygw.NewGatewaySimulator()
	esewaAdapter, err := paygw.NewEsewaAdapter(&paygw.EsewaConfig{
		ProductCode: cfg.Payment.Esewa.MerchantCode,
		SecretKey:   cfg.Payment.Esewa.SecretKey,
		FormURL:     cfg.Payment.Esewa.Endpoint,
	}, gatewaySim)
	if err != nil {
		log.Fatal("Failed to initialize eSewa adapter", zap.Error(err))
	}
	khaltiAdapter, err := paygw.NewKhaltiAdapter(&paygw.KhaltiConfig{
		SecretKey:  cfg.Payment.Khalti.SecretKey,
		WebsiteURL: cfg.Payment.Khalti.WebsiteURL,
	}, gatewaySim)
	if err != nil {
		log.Fatal("Failed to initialize Khalti adapter", zap.Error(err))
	}
	bankTransferProcessor, err := paygw.NewBankTransferProcessor(&paygw.BankTransferConfig{
		BankName:      cfg.Payment.BankTransfer.BankName,
		AccountNumber: cfg.Payment.BankTransfer.AccountNumber,
		AccountName:   cfg.Payment.BankTransfer.AccountName,
	}, gatewaySim)
	if err != nil {
		log.Fatal("Failed to initialize bank transfer processor", zap.Error(err))
	}
	phonePayProcessor, err := paygw.NewPhonePayProcessor(gatewaySim)
	if err != nil {
		log.Fatal("Failed to initialize PhonePay processor", zap.Error(err))
	}
	mobileBankingProcessor, err := paygw.NewMobileBankingProcessor(gatewaySim)
	if err != nil {
		log.Fatal("Failed to initialize mobile banking processor", zap.Error(err))
	}
	processorRegistry := paygw.NewProcessorRegistry(
		esewaAdapter,
		khaltiAdapter,
		paygw.NewCODProcessor(),
		bankTransferProcessor,
		phonePayProcessor,
		mobileBankingProcessor,
	)

	// Initialize application services
	productService := catalogapp.NewProductService(productRepo, categoryRepo, catalogCache, cacheCfg, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, catalogCache, log)
	attachmentService := catalogapp.NewAttachmentService(attachmentRepo, productRepo, objectStorage, catalogCache, log)
	cartService := cartapp.NewCartService(cartStore, productRepo, log)
	areaService := deliveryapp.NewAreaService(areaRepo, log)
	orderService := orderapp.NewOrderService(orderRepo, checkoutStore, cartStore, productRepo, areaRepo, gatewayRepo, log)
	paymentService := paymentapp.NewPaymentService(orderRepo, gatewayRepo, userRepo, processorRegistry, callbackIdemStore,
		paymentapp.Config{CallbackBaseURL: cfg.Payment.CallbackBaseURL}, log)
	gatewayService := paymentapp.NewGatewayService(gatewayRepo, objectStorage, log)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, orderRepo, userRepo, log)
	inventoryService := inventoryapp.NewInventoryService(productRepo, stockTxnRepo, stockAlertRepo, log)
	reviewService := reviewapp.NewReviewService(reviewRepo, productRepo, log)
	reportService := reportapp.NewReportService(salesReportRepo, dashboardRepo, orderRepo, log)
	notificationService := notificationapp.NewNotificationService(notificationTemplateRepo, notificationLogRepo,
		notificationapp.Config{
			Enabled:     cfg.Notification.Enabled,
			EmailFrom:   cfg.Notification.EmailFrom,
			SMSSenderID: cfg.Notification.SMSSenderID,
		}, log)
	importService := importapp.NewProductImportService(productRepo, categoryRepo, importHistoryRepo, stockTxnRepo, eventBus, log)
	importHistoryService := importapp.NewImportHistoryService(importHistoryRepo)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	// Identity services
	authService := identityapp.NewAuthService(userRepo, jwtService, tokenBlacklist, identityapp.DefaultAuthServiceConfig(), log)
	userService := identityapp.NewUserService(userRepo, jwtService, tokenBlacklist, log)

	if businessMetrics != nil {
		orderService.SetBusinessMetrics(businessMetrics)
		paymentService.SetBusinessMetrics(businessMetrics)
	}

	// Printing stack: templates, renderer chain, filesystem storage and
	// the per-document data providers
	templateStore, err := infraprinting.NewTemplateStore(&infraprinting.TemplateStoreConfig{
		ExternalDir: cfg.Printing.TemplateDir,
	})
	if err != nil {
		log.Fatal("Failed to load print templates", zap.Error(err))
	}
	templateEngine := infraprinting.NewTemplateEngine()
	pdfRenderer, err := buildRenderer(&cfg.Printing, log)
	if err != nil {
		log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
	}
	pdfStorage, err := infraprinting.NewFileSystemStorage(&infraprinting.FileSystemStorageConfig{
		BasePath:      cfg.Printing.OutputDir,
		BaseURL:       "/api/v1/prints",
		RetentionDays: 90,
		Logger:        log,
	})
	if err != nil {
		log.Fatal("Failed to initialize PDF storage", zap.Error(err))
	}
	shopInfo := infraprinting.ShopInfo{
		Name:       cfg.Shop.Name,
		NameNepali: cfg.Shop.NameNepali,
		Address:    cfg.Shop.Address,
		Phone:      cfg.Shop.Phone,
		Email:      cfg.Shop.Email,
		PANNumber:  cfg.Shop.PANNumber,
	}
	providerRegistry := providers.NewDataProviderRegistry()
	providerRegistry.Register(providers.NewInvoiceProvider(invoiceRepo, orderRepo, shopInfo))
	providerRegistry.Register(providers.NewReceiptProvider(orderRepo, userRepo, shopInfo))
	printService := printingapp.NewPrintService(printTemplateRepo, printJobRepo, templateStore, templateEngine,
		providerRegistry, pdfRenderer, pdfStorage, log)

	// Product and category changes invalidate the tiered catalog cache
	cacheInvalidationHandler := catalogapp.NewCacheInvalidationHandler(catalogCache, log)
	eventBus.Subscribe(cacheInvalidationHandler)

	// Low stock events page the shop admin, behind the per-product
	// cooldown and an idempotency guard against redelivery
	lowStockNotifier := notificationapp.NewAdminLowStockNotifier(notificationService, cfg.Shop.Email, cfg.Shop.Phone)
	stockLowHandler := inventoryapp.NewStockLowHandler(stockAlertRepo, lowStockNotifier, log)
	eventBus.Subscribe(event.NewIdempotentHandler(stockLowHandler, eventIdemStore, log))

	// Order lifecycle events drive the customer notifications
	orderNotificationHandler := notificationapp.NewOrderNotificationHandler(notificationService, userRepo, log)
	eventBus.Subscribe(event.NewIdempotentHandler(orderNotificationHandler, eventIdemStore, log))

	log.Info("Event handlers registered",
		zap.Strings("cache_invalidation_events", cacheInvalidationHandler.EventTypes()),
		zap.Strings("stock_low_events", stockLowHandler.EventTypes()),
		zap.Strings("order_notification_events", orderNotificationHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(rootCtx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	productService.SetEventPublisher(eventBus)
	authService.SetEventPublisher(eventBus)
	userService.SetEventPublisher(eventBus)
	areaService.SetEventPublisher(eventBus)
	reviewService.SetEventPublisher(eventBus)
	gatewayService.SetEventPublisher(eventBus)
	invoiceService.SetEventPublisher(eventBus)
	inventoryService.SetEventPublisher(eventBus)

	// Outbox processor relays persisted events to the bus
	if cfg.Event.ProcessorEnabled {
		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, event.OutboxProcessorConfig{
			BatchSize:        cfg.Event.BatchSize,
			PollInterval:     cfg.Event.PollInterval,
			CleanupEnabled:   cfg.Event.CleanupEnabled,
			CleanupRetention: cfg.Event.CleanupRetention,
		}, log)
		if err := outboxProcessor.Start(rootCtx); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", cfg.Event.BatchSize),
			zap.Duration("poll_interval", cfg.Event.PollInterval),
		)
	}

	// Nightly jobs and the low stock sweeper
	if cfg.Scheduler.Enabled {
		dispatcher := jobs.NewDispatcher(jobs.DefaultDispatcherConfig(),
			reportService, inventoryService, attachmentService, printService, log)
		cronScheduler := scheduler.NewCronScheduler(scheduler.CronSchedulerConfig{
			Enabled:            true,
			DailyCronSchedule:  cfg.Scheduler.DailyReportSchedule,
			JobTimeout:         cfg.Scheduler.JobTimeout,
			MaxConcurrentJobs:  cfg.Scheduler.MaxConcurrentJobs,
			RetryAttempts:      cfg.Scheduler.RetryAttempts,
			RetryDelay:         cfg.Scheduler.RetryDelay,
			PrintRetentionDays: 90,
		}, dispatcher, scheduler.NewSchedulerJobRepository(db.DB), log)
		if err := cronScheduler.Start(rootCtx); err != nil {
			log.Fatal("Failed to start cron scheduler", zap.Error(err))
		}
		defer func() {
			if err := cronScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping cron scheduler", zap.Error(err))
			}
		}()

		sweeper := scheduler.NewLowStockSweeper(scheduler.LowStockSweeperConfig{
			Enabled:       true,
			SweepInterval: cfg.Scheduler.LowStockSweep,
		}, cronScheduler, log)
		if err := sweeper.Start(rootCtx); err != nil {
			log.Fatal("Failed to start low stock sweeper", zap.Error(err))
		}
		defer func() {
			if err := sweeper.Stop(context.Background()); err != nil {
				log.Error("Error stopping low stock sweeper", zap.Error(err))
			}
		}()
		log.Info("Scheduler started",
			zap.String("daily_report_schedule", cfg.Scheduler.DailyReportSchedule),
			zap.Duration("low_stock_sweep", cfg.Scheduler.LowStockSweep),
		)
	}

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService)
	cartHandler := handler.NewCartHandler(cartService)
	deliveryHandler := handler.NewDeliveryAreaHandler(areaService)
	orderHandler := handler.NewOrderHandler(orderService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	gatewayHandler := handler.NewGatewayHandler(gatewayService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, printService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	reportHandler := handler.NewReportHandler(reportService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	printHandler := handler.NewPrintHandler(printService, pdfStorage)
	importHandler := handler.NewImportHandler(importService, importHistoryService)
	defer importHandler.Stop()
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	outboxHandler := handler.NewOutboxHandler(outboxService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if tracingMW != nil {
		engine.Use(tracingMW)
	}
	if metricsMW != nil {
		engine.Use(metricsMW)
	}
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Anonymous cart session cookie
	engine.Use(middleware.SessionMiddlewareWithConfig(middleware.SessionConfigFromApp(cfg.Session, cfg.Cookie)))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, redisClient))
	engine.GET("/ready", healthHandler(db, redisClient))

	// JWT middleware used on routes inside otherwise-public prefixes
	requireAuth := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		Logger:         log,
	})

	// Swagger documentation endpoint
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, requireAuth),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	// Gateway redirect landings bypass authentication entirely; the
	// gateways call these, not the customer's session
	callbackGroup := engine.Group("/api/v1/payment/callback")
	callbackGroup.GET("/esewa/:outcome/:order_number", paymentHandler.EsewaCallback)
	callbackGroup.GET("/khalti", paymentHandler.KhaltiCallback)
	callbackGroup.GET("/:method/:order_number", paymentHandler.MethodCallback)

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// JWT authentication for the API surface. Browsing, cart and the
	// gateway callbacks stay public; checkout and everything personal
	// or administrative needs a token.
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/api/v1/system/ping",
			"/api/v1/system/info",
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/payment/methods",
		},
		SkipPathPrefixes: []string{
			"/api/v1/products",
			"/api/v1/categories",
			"/api/v1/cart",
			"/api/v1/delivery-areas",
			"/api/v1/payment/callback",
		},
		Logger: log,
	}))

	// Public auth routes, with the stricter limiter against
	// credential stuffing
	authPublicRoutes := router.NewDomainGroup("auth-public", "/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authPublicRoutes.Use(middleware.AuthRateLimit(authLimiter))
	}
	authPublicRoutes.POST("/register", authHandler.Register)
	authPublicRoutes.POST("/login", authHandler.Login)
	authPublicRoutes.POST("/refresh", authHandler.RefreshToken)

	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/profile", authHandler.GetCurrentUser)
	authRoutes.PUT("/profile", authHandler.UpdateProfile)
	authRoutes.POST("/password", authHandler.ChangePassword)

	// Storefront catalog
	productRoutes := router.NewDomainGroup("products", "/products")
	productRoutes.GET("", productHandler.ListActive)
	productRoutes.GET("/featured", productHandler.ListFeatured)
	productRoutes.GET("/:id", productHandler.GetStorefrontDetail)
	productRoutes.GET("/:id/images", attachmentHandler.ListImages)
	productRoutes.GET("/:id/reviews", reviewHandler.ListForProduct)
	productRoutes.POST("/:id/reviews", requireAuth, reviewHandler.Submit)

	categoryRoutes := router.NewDomainGroup("categories", "/categories")
	categoryRoutes.GET("", categoryHandler.ListActive)

	// Session cart
	cartRoutes := router.NewDomainGroup("cart", "/cart")
	cartRoutes.GET("", cartHandler.Get)
	cartRoutes.POST("/items", cartHandler.AddItem)
	cartRoutes.PUT("/items/:product_id", cartHandler.UpdateItem)
	cartRoutes.DELETE("/items/:product_id", cartHandler.RemoveItem)
	cartRoutes.DELETE("", cartHandler.Clear)

	deliveryRoutes := router.NewDomainGroup("delivery", "/delivery-areas")
	deliveryRoutes.GET("", deliveryHandler.ListActive)

	// Checkout and the customer's orders
	checkoutRoutes := router.NewDomainGroup("checkout", "")
	checkoutRoutes.POST("/checkout", orderHandler.Checkout)

	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.GET("", orderHandler.ListMine)
	orderRoutes.GET("/:id", orderHandler.GetByID)
	orderRoutes.POST("/:id/cancel", orderHandler.Cancel)

	paymentRoutes := router.NewDomainGroup("payment", "/payment")
	paymentRoutes.GET("/methods", paymentHandler.ListMethods)
	paymentRoutes.POST("/initiate", paymentHandler.Initiate)

	// Rendered PDFs stay behind the back-office
	printsRoutes := router.NewDomainGroup("prints", "/prints")
	printsRoutes.GET("/:year/:month/:filename", middleware.RequireAdmin(), printHandler.ServePDF)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	// Back-office
	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminRoutes.Use(middleware.RequireAdmin())

	// Product management
	adminRoutes.POST("/products", productHandler.Create)
	adminRoutes.GET("/products", productHandler.List)
	adminRoutes.GET("/products/:id", productHandler.GetByID)
	adminRoutes.PUT("/products/:id", productHandler.Update)
	adminRoutes.DELETE("/products/:id", productHandler.Delete)
	adminRoutes.POST("/products/:id/activate", productHandler.Activate)
	adminRoutes.POST("/products/:id/deactivate", productHandler.Deactivate)

	// Stock
	adminRoutes.POST("/products/:id/stock", inventoryHandler.AdjustStock)
	adminRoutes.GET("/products/:id/transactions", inventoryHandler.ListTransactions)
	adminRoutes.PUT("/products/:id/stock-alert", inventoryHandler.ConfigureAlert)
	adminRoutes.GET("/stock-alerts", inventoryHandler.ListAlerts)
	adminRoutes.POST("/stock-alerts/sweep", inventoryHandler.SweepLowStock)

	// Product images
	adminRoutes.POST("/attachments/initiate", attachmentHandler.InitiateUpload)
	adminRoutes.POST("/attachments/confirm", attachmentHandler.ConfirmUpload)
	adminRoutes.GET("/attachments/:id", attachmentHandler.GetByID)
	adminRoutes.POST("/attachments/:id/set-main", attachmentHandler.SetAsMainImage)
	adminRoutes.DELETE("/attachments/:id", attachmentHandler.Delete)
	adminRoutes.DELETE("/attachments/:id/permanent", attachmentHandler.PermanentDelete)
	adminRoutes.GET("/products/:id/attachments", attachmentHandler.ListForProduct)
	adminRoutes.PUT("/products/:id/attachments/reorder", attachmentHandler.Reorder)

	// CSV import
	adminRoutes.POST("/products/import/validate", importHandler.Validate)
	adminRoutes.POST("/products/import", importHandler.Import)
	adminRoutes.GET("/imports", importHandler.ListHistory)
	adminRoutes.GET("/imports/:id", importHandler.GetHistory)
	adminRoutes.GET("/imports/:id/errors", importHandler.DownloadErrors)
	adminRoutes.DELETE("/imports/:id", importHandler.DeleteHistory)

	// Categories
	adminRoutes.POST("/categories", categoryHandler.Create)
	adminRoutes.GET("/categories", categoryHandler.List)
	adminRoutes.GET("/categories/:id", categoryHandler.GetByID)
	adminRoutes.PUT("/categories/:id", categoryHandler.Update)
	adminRoutes.POST("/categories/:id/activate", categoryHandler.Activate)
	adminRoutes.POST("/categories/:id/deactivate", categoryHandler.Deactivate)
	adminRoutes.DELETE("/categories/:id", categoryHandler.Delete)

	// Delivery areas
	adminRoutes.POST("/delivery-areas", deliveryHandler.Create)
	adminRoutes.GET("/delivery-areas", deliveryHandler.List)
	adminRoutes.GET("/delivery-areas/:id", deliveryHandler.GetByID)
	adminRoutes.PUT("/delivery-areas/:id", deliveryHandler.Update)
	adminRoutes.POST("/delivery-areas/:id/activate", deliveryHandler.Activate)
	adminRoutes.POST("/delivery-areas/:id/deactivate", deliveryHandler.Deactivate)
	adminRoutes.DELETE("/delivery-areas/:id", deliveryHandler.Delete)

	// Orders
	adminRoutes.GET("/orders", orderHandler.List)
	adminRoutes.GET("/orders/:id", orderHandler.AdminGetByID)
	adminRoutes.POST("/orders/:id/status", orderHandler.UpdateStatus)
	adminRoutes.POST("/orders/:id/payment-status", orderHandler.UpdatePaymentStatus)
	adminRoutes.POST("/orders/:id/invoice", invoiceHandler.Generate)
	adminRoutes.GET("/orders/:id/invoice", invoiceHandler.GetByOrder)
	adminRoutes.GET("/orders/:id/notifications", notificationHandler.LogsForOrder)

	// Invoices
	adminRoutes.GET("/invoices", invoiceHandler.List)
	adminRoutes.GET("/invoices/:id", invoiceHandler.GetByID)
	adminRoutes.PUT("/invoices/:id", invoiceHandler.Update)
	adminRoutes.POST("/invoices/:id/pdf", invoiceHandler.GeneratePDF)

	// Review moderation
	adminRoutes.GET("/reviews", reviewHandler.List)
	adminRoutes.POST("/reviews/:id/approve", reviewHandler.Approve)
	adminRoutes.POST("/reviews/:id/reject", reviewHandler.Reject)
	adminRoutes.DELETE("/reviews/:id", reviewHandler.Delete)

	// User management
	adminRoutes.GET("/users", userHandler.List)
	adminRoutes.GET("/users/:id", userHandler.Get)
	adminRoutes.POST("/users/:id/activate", userHandler.Activate)
	adminRoutes.POST("/users/:id/deactivate", userHandler.Deactivate)
	adminRoutes.POST("/users/:id/unlock", userHandler.Unlock)
	adminRoutes.POST("/users/:id/promote", userHandler.Promote)
	adminRoutes.POST("/users/:id/demote", userHandler.Demote)
	adminRoutes.POST("/users/:id/reset-password", userHandler.ResetPassword)

	// Notifications
	adminRoutes.POST("/notifications/templates", notificationHandler.CreateTemplate)
	adminRoutes.GET("/notifications/templates", notificationHandler.ListTemplates)
	adminRoutes.GET("/notifications/templates/:id", notificationHandler.GetTemplate)
	adminRoutes.PUT("/notifications/templates/:id", notificationHandler.UpdateTemplate)
	adminRoutes.DELETE("/notifications/templates/:id", notificationHandler.DeleteTemplate)
	adminRoutes.GET("/notifications/logs", notificationHandler.ListLogs)

	// Payment gateways
	adminRoutes.GET("/payment/gateways", gatewayHandler.List)
	adminRoutes.GET("/payment/gateways/:id", gatewayHandler.GetByID)
	adminRoutes.PUT("/payment/gateways/:id", gatewayHandler.Update)
	adminRoutes.POST("/payment/gateways/:id/enable", gatewayHandler.Enable)
	adminRoutes.POST("/payment/gateways/:id/disable", gatewayHandler.Disable)
	adminRoutes.PUT("/payment/gateways/:id/qr", gatewayHandler.UploadQR)

	// Reports
	adminRoutes.GET("/reports/dashboard", reportHandler.Dashboard)
	adminRoutes.GET("/reports/daily", reportHandler.GetDaily)
	adminRoutes.GET("/reports/range", reportHandler.GetRange)
	adminRoutes.POST("/reports/backfill", reportHandler.Backfill)

	// Printing
	adminRoutes.POST("/print/templates", printHandler.CreateTemplate)
	adminRoutes.GET("/print/templates", printHandler.ListTemplates)
	adminRoutes.GET("/print/templates/:id", printHandler.GetTemplate)
	adminRoutes.PUT("/print/templates/:id", printHandler.UpdateTemplate)
	adminRoutes.DELETE("/print/templates/:id", printHandler.DeleteTemplate)
	adminRoutes.POST("/print/templates/:id/set-default", printHandler.SetDefaultTemplate)
	adminRoutes.POST("/print/templates/:id/activate", printHandler.ActivateTemplate)
	adminRoutes.POST("/print/templates/:id/deactivate", printHandler.DeactivateTemplate)
	adminRoutes.GET("/print/templates/by-doc-type/:doc_type", printHandler.GetTemplatesByDocType)
	adminRoutes.POST("/print/templates/install-defaults", printHandler.InstallDefaultTemplates)
	adminRoutes.POST("/print/preview", printHandler.PreviewDocument)
	adminRoutes.POST("/print/generate", printHandler.GeneratePDF)
	adminRoutes.GET("/print/jobs", printHandler.ListJobs)
	adminRoutes.GET("/print/jobs/:id", printHandler.GetJob)
	adminRoutes.GET("/print/jobs/:id/download", printHandler.DownloadPDF)
	adminRoutes.GET("/print/jobs/by-document/:doc_type/:document_id", printHandler.GetJobsByDocument)
	adminRoutes.GET("/print/document-types", printHandler.GetDocumentTypes)
	adminRoutes.GET("/print/paper-sizes", printHandler.GetPaperSizes)

	// Outbox inspection
	adminRoutes.GET("/system/outbox/dead", outboxHandler.GetDeadLetterEntries)
	adminRoutes.GET("/system/outbox/stats", outboxHandler.GetStats)
	adminRoutes.GET("/system/outbox/:id", outboxHandler.GetEntry)
	adminRoutes.POST("/system/outbox/:id/retry", outboxHandler.RetryDeadEntry)
	adminRoutes.POST("/system/outbox/dead/retry-all", outboxHandler.RetryAllDeadEntries)

	r.Register(authPublicRoutes).
		Register(authRoutes).
		Register(productRoutes).
		Register(categoryRoutes).
		Register(cartRoutes).
		Register(deliveryRoutes).
		Register(checkoutRoutes).
		Register(orderRoutes).
		Register(paymentRoutes).
		Register(printsRoutes).
		Register(systemRoutes).
		Register(adminRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// applyShopConfig pushes configured business values into the domain
// defaults the pricing and alerting rules read
func applyShopConfig(shop *config.ShopConfig) {
	if shop.VATRate > 0 {
		billingdomain.VATRate = decimal.NewFromFloat(shop.VATRate)
	}
	if shop.FreeDeliveryThreshold > 0 {
		deliverydomain.FreeDeliveryThreshold = decimal.NewFromFloat(shop.FreeDeliveryThreshold)
	}
	if shop.ReducedDeliveryThreshold > 0 {
		deliverydomain.ReducedChargeThreshold = decimal.NewFromFloat(shop.ReducedDeliveryThreshold)
	}
	if shop.ReducedDeliveryCharge > 0 {
		deliverydomain.ReducedCharge = decimal.NewFromFloat(shop.ReducedDeliveryCharge)
	}
	if shop.DefaultDeliveryCharge > 0 {
		deliverydomain.DefaultCharge = decimal.NewFromFloat(shop.DefaultDeliveryCharge)
	}
	if shop.LowStockThresholdKg > 0 {
		catalogdomain.LowStockThresholdKg = decimal.NewFromFloat(shop.LowStockThresholdKg)
	}
}

// buildRenderer assembles the PDF renderer chain. The configured
// backend renders first; the other one picks up renders the primary
// could not finish.
func buildRenderer(cfg *config.PrintingConfig, log *zap.Logger) (*infraprinting.FailoverRenderer, error) {
	chromeRenderer, chromeErr := infraprinting.NewChromedpRenderer(&infraprinting.ChromedpConfig{
		DefaultTimeout: cfg.RenderTimeout,
		ExecPath:       cfg.ChromePath,
		Headless:       true,
		DisableGPU:     true,
		NoSandbox:      true,
	})
	wkRenderer, wkErr := infraprinting.NewWkhtmltopdfRenderer(&infraprinting.WkhtmltopdfConfig{
		BinaryPath:     cfg.WkhtmltopdfPath,
		DefaultTimeout: cfg.RenderTimeout,
	})

	var primary, fallback infraprinting.PDFRenderer
	switch cfg.Renderer {
	case "wkhtmltopdf":
		primary, fallback = wkRenderer, chromeRenderer
		if wkErr != nil {
			return nil, wkErr
		}
		if chromeErr != nil {
			log.Warn("Chromium fallback renderer unavailable", zap.Error(chromeErr))
			fallback = nil
		}
	default:
		primary, fallback = chromeRenderer, wkRenderer
		if chromeErr != nil {
			return nil, chromeErr
		}
		if wkErr != nil {
			log.Warn("wkhtmltopdf fallback renderer unavailable", zap.Error(wkErr))
			fallback = nil
		}
	}

	return infraprinting.NewFailoverRenderer(primary, fallback, log)
}

// healthHandler reports liveness of the process and its two stores
func healthHandler(db *persistence.Database, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		dbStatus := "ok"
		redisStatus := "ok"

		if err := db.Ping(); err != nil {
			status = http.StatusServiceUnavailable
			dbStatus = "error"
		}
		if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
			status = http.StatusServiceUnavailable
			redisStatus = "error"
		}

		body := gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": dbStatus,
			"redis":    redisStatus,
		}
		if status != http.StatusOK {
			body["status"] = "unhealthy"
		}
		c.JSON(status, body)
	}
}
