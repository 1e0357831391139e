package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Cookie       CookieConfig
	Session      SessionConfig
	Log          LogConfig
	Event        EventConfig
	HTTP         HTTPConfig
	Payment      PaymentConfig
	Shop         ShopConfig
	Storage      StorageConfig
	Printing     PrintingConfig
	Notification NotificationConfig
	Scheduler    SchedulerConfig
	Swagger      SwaggerConfig
	Telemetry    TelemetryConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret                 string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
	RefreshSecret          string
	MaxRefreshCount        int
}

// CookieConfig holds cookie settings for the refresh token
type CookieConfig struct {
	Domain   string // Domain for cookies (empty = current domain)
	Path     string // Path for cookies
	Secure   bool   // Secure flag (should be true in production for HTTPS)
	SameSite string // SameSite policy: "strict", "lax", or "none"
}

// SessionConfig holds cart session cookie settings
type SessionConfig struct {
	CookieName string        // Name of the session cookie
	TTL        time.Duration // Sliding cart expiry, refreshed on access
	Secure     bool
	SameSite   string
}

// EventConfig holds event processing configuration
type EventConfig struct {
	ProcessorEnabled bool
	BatchSize        int
	PollInterval     time.Duration
	MaxRetries       int
	CleanupEnabled   bool
	CleanupRetention time.Duration
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout           time.Duration
	WriteTimeout          time.Duration
	IdleTimeout           time.Duration
	MaxHeaderBytes        int
	MaxBodySize           int64
	RateLimitEnabled      bool
	RateLimitRequests     int
	RateLimitWindow       time.Duration
	AuthRateLimitEnabled  bool          // Enable stricter rate limiting for auth endpoints
	AuthRateLimitRequests int           // Max auth attempts (default: 5)
	AuthRateLimitWindow   time.Duration // Auth rate limit window (default: 1 minute)
	CORSAllowOrigins      []string
	CORSAllowMethods      []string
	CORSAllowHeaders      []string
	TrustedProxies        []string
}

// PaymentConfig holds payment gateway settings. All gateways run in
// simulated mode, the merchant credentials only shape the generated
// redirect and form payloads.
type PaymentConfig struct {
	CallbackBaseURL string // Public base URL for gateway callbacks
	Esewa           EsewaConfig
	Khalti          KhaltiConfig
	BankTransfer    BankTransferConfig
}

// EsewaConfig holds eSewa ePay merchant settings
type EsewaConfig struct {
	MerchantCode string
	SecretKey    string
	Endpoint     string
}

// KhaltiConfig holds Khalti ePayment merchant settings
type KhaltiConfig struct {
	PublicKey  string
	SecretKey  string
	WebsiteURL string
}

// BankTransferConfig holds the merchant account shown on bank transfer
// payment instructions
type BankTransferConfig struct {
	BankName      string
	AccountNumber string
	AccountName   string
}

// ShopConfig holds storefront business settings. Zero values fall back
// to the domain defaults. The identity fields appear on printed invoices
// and receipts.
type ShopConfig struct {
	Name                     string
	NameNepali               string
	Address                  string
	Phone                    string
	Email                    string
	PANNumber                string
	Currency                 string
	VATRate                  float64
	FreeDeliveryThreshold    float64
	ReducedDeliveryThreshold float64
	ReducedDeliveryCharge    float64
	DefaultDeliveryCharge    float64
	LowStockThresholdKg      float64
	StockAlertCooldown       time.Duration
}

// StorageConfig holds object storage settings for product images,
// gateway QR images and rendered PDFs
type StorageConfig struct {
	Provider      string // "s3" or "local"
	PublicBaseURL string // Base URL prepended to stored object keys
	LocalDir      string // Directory for the local provider
	S3            S3Config
}

// S3Config holds S3 client settings
type S3Config struct {
	Region          string
	Bucket          string
	Endpoint        string // Custom endpoint for MinIO or localstack
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

// PrintingConfig holds PDF rendering settings
type PrintingConfig struct {
	Renderer        string        // "chromedp" or "wkhtmltopdf"
	ChromePath      string        // Optional explicit Chrome binary path
	WkhtmltopdfPath string        // wkhtmltopdf binary for the fallback renderer
	RenderTimeout   time.Duration // Per-document render budget
	OutputDir       string        // Directory rendered PDFs are written to
	TemplateDir     string        // Optional directory of external template overrides
}

// NotificationConfig holds notification dispatch settings. Delivery is
// simulated, rendered messages are logged and recorded.
type NotificationConfig struct {
	Enabled     bool
	EmailFrom   string
	SMSSenderID string
}

// SchedulerConfig holds background job configuration
type SchedulerConfig struct {
	Enabled             bool
	DailyReportSchedule string        // Cron expression for the daily sales report
	LowStockSweep       time.Duration // Interval between low-stock sweeps
	MaxConcurrentJobs   int
	JobTimeout          time.Duration
	RetryAttempts       int
	RetryDelay          time.Duration
}

// SwaggerConfig holds Swagger documentation endpoint configuration
type SwaggerConfig struct {
	Enabled     bool     // Whether to enable Swagger endpoint
	RequireAuth bool     // Require authentication to access Swagger
	AllowedIPs  []string // IP whitelist (empty = allow all)
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string  // Service name for traces
	Insecure          bool    // Use insecure (non-TLS) connection (development only)
	// Database tracing options
	DBTraceEnabled    bool          // Enable database query tracing (otelgorm)
	DBLogFullSQL      bool          // Log full SQL statements (dev only, disable in prod for security)
	DBSlowQueryThresh time.Duration // Slow query threshold for warnings (default: 200ms)
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with MEATSHOP_ prefix (e.g., MEATSHOP_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	// Set config file settings
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/meatshop")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	// Enable environment variable override
	v.SetEnvPrefix("MEATSHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Build config struct
	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:                 v.GetString("jwt.secret"),
			AccessTokenExpiration:  v.GetDuration("jwt.access_token_expiration"),
			RefreshTokenExpiration: v.GetDuration("jwt.refresh_token_expiration"),
			Issuer:                 v.GetString("jwt.issuer"),
			RefreshSecret:          v.GetString("jwt.refresh_secret"),
			MaxRefreshCount:        v.GetInt("jwt.max_refresh_count"),
		},
		Cookie: CookieConfig{
			Domain:   v.GetString("cookie.domain"),
			Path:     v.GetString("cookie.path"),
			Secure:   v.GetBool("cookie.secure"),
			SameSite: v.GetString("cookie.same_site"),
		},
		Session: SessionConfig{
			CookieName: v.GetString("session.cookie_name"),
			TTL:        v.GetDuration("session.ttl"),
			Secure:     v.GetBool("session.secure"),
			SameSite:   v.GetString("session.same_site"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Event: EventConfig{
			ProcessorEnabled: v.GetBool("event.processor_enabled"),
			BatchSize:        v.GetInt("event.batch_size"),
			PollInterval:     v.GetDuration("event.poll_interval"),
			MaxRetries:       v.GetInt("event.max_retries"),
			CleanupEnabled:   v.GetBool("event.cleanup_enabled"),
			CleanupRetention: v.GetDuration("event.cleanup_retention"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:           v.GetDuration("http.read_timeout"),
			WriteTimeout:          v.GetDuration("http.write_timeout"),
			IdleTimeout:           v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:        v.GetInt("http.max_header_bytes"),
			MaxBodySize:           v.GetInt64("http.max_body_size"),
			RateLimitEnabled:      v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests:     v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:       v.GetDuration("http.rate_limit_window"),
			AuthRateLimitEnabled:  v.GetBool("http.auth_rate_limit_enabled"),
			AuthRateLimitRequests: v.GetInt("http.auth_rate_limit_requests"),
			AuthRateLimitWindow:   v.GetDuration("http.auth_rate_limit_window"),
			CORSAllowOrigins:      v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:      v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:      v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:        v.GetStringSlice("http.trusted_proxies"),
		},
		Payment: PaymentConfig{
			CallbackBaseURL: v.GetString("payment.callback_base_url"),
			Esewa: EsewaConfig{
				MerchantCode: v.GetString("payment.esewa.merchant_code"),
				SecretKey:    v.GetString("payment.esewa.secret_key"),
				Endpoint:     v.GetString("payment.esewa.endpoint"),
			},
			Khalti: KhaltiConfig{
				PublicKey:  v.GetString("payment.khalti.public_key"),
				SecretKey:  v.GetString("payment.khalti.secret_key"),
				WebsiteURL: v.GetString("payment.khalti.website_url"),
			},
			BankTransfer: BankTransferConfig{
				BankName:      v.GetString("payment.bank_transfer.bank_name"),
				AccountNumber: v.GetString("payment.bank_transfer.account_number"),
				AccountName:   v.GetString("payment.bank_transfer.account_name"),
			},
		},
		Shop: ShopConfig{
			Name:                     v.GetString("shop.name"),
			NameNepali:               v.GetString("shop.name_nepali"),
			Address:                  v.GetString("shop.address"),
			Phone:                    v.GetString("shop.phone"),
			Email:                    v.GetString("shop.email"),
			PANNumber:                v.GetString("shop.pan_number"),
			Currency:                 v.GetString("shop.currency"),
			VATRate:                  v.GetFloat64("shop.vat_rate"),
			FreeDeliveryThreshold:    v.GetFloat64("shop.free_delivery_threshold"),
			ReducedDeliveryThreshold: v.GetFloat64("shop.reduced_delivery_threshold"),
			ReducedDeliveryCharge:    v.GetFloat64("shop.reduced_delivery_charge"),
			DefaultDeliveryCharge:    v.GetFloat64("shop.default_delivery_charge"),
			LowStockThresholdKg:      v.GetFloat64("shop.low_stock_threshold_kg"),
			StockAlertCooldown:       v.GetDuration("shop.stock_alert_cooldown"),
		},
		Storage: StorageConfig{
			Provider:      v.GetString("storage.provider"),
			PublicBaseURL: v.GetString("storage.public_base_url"),
			LocalDir:      v.GetString("storage.local_dir"),
			S3: S3Config{
				Region:          v.GetString("storage.s3.region"),
				Bucket:          v.GetString("storage.s3.bucket"),
				Endpoint:        v.GetString("storage.s3.endpoint"),
				AccessKeyID:     v.GetString("storage.s3.access_key_id"),
				SecretAccessKey: v.GetString("storage.s3.secret_access_key"),
				UsePathStyle:    v.GetBool("storage.s3.use_path_style"),
			},
		},
		Printing: PrintingConfig{
			Renderer:        v.GetString("printing.renderer"),
			ChromePath:      v.GetString("printing.chrome_path"),
			WkhtmltopdfPath: v.GetString("printing.wkhtmltopdf_path"),
			RenderTimeout:   v.GetDuration("printing.render_timeout"),
			OutputDir:       v.GetString("printing.output_dir"),
			TemplateDir:     v.GetString("printing.template_dir"),
		},
		Notification: NotificationConfig{
			Enabled:     v.GetBool("notification.enabled"),
			EmailFrom:   v.GetString("notification.email_from"),
			SMSSenderID: v.GetString("notification.sms_sender_id"),
		},
		Scheduler: SchedulerConfig{
			Enabled:             v.GetBool("scheduler.enabled"),
			DailyReportSchedule: v.GetString("scheduler.daily_report_schedule"),
			LowStockSweep:       v.GetDuration("scheduler.low_stock_sweep"),
			MaxConcurrentJobs:   v.GetInt("scheduler.max_concurrent_jobs"),
			JobTimeout:          v.GetDuration("scheduler.job_timeout"),
			RetryAttempts:       v.GetInt("scheduler.retry_attempts"),
			RetryDelay:          v.GetDuration("scheduler.retry_delay"),
		},
		Swagger: SwaggerConfig{
			Enabled:     v.GetBool("swagger.enabled"),
			RequireAuth: v.GetBool("swagger.require_auth"),
			AllowedIPs:  v.GetStringSlice("swagger.allowed_ips"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBLogFullSQL:      v.GetBool("telemetry.db_log_full_sql"),
			DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
		},
	}

	// Apply defaults for empty values
	applyDefaults(cfg)

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "meatshop-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "meatshop"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.JWT.AccessTokenExpiration == 0 {
		cfg.JWT.AccessTokenExpiration = 15 * time.Minute
	}
	if cfg.JWT.RefreshTokenExpiration == 0 {
		cfg.JWT.RefreshTokenExpiration = 168 * time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "meatshop-backend"
	}
	if cfg.JWT.MaxRefreshCount == 0 {
		cfg.JWT.MaxRefreshCount = 10
	}
	// Cookie defaults
	if cfg.Cookie.Path == "" {
		cfg.Cookie.Path = "/"
	}
	if cfg.Cookie.SameSite == "" {
		cfg.Cookie.SameSite = "lax"
	}
	// Session defaults
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "msid"
	}
	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = 72 * time.Hour
	}
	if cfg.Session.SameSite == "" {
		cfg.Session.SameSite = "lax"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Event.BatchSize == 0 {
		cfg.Event.BatchSize = 100
	}
	if cfg.Event.PollInterval == 0 {
		cfg.Event.PollInterval = 5 * time.Second
	}
	if cfg.Event.MaxRetries == 0 {
		cfg.Event.MaxRetries = 5
	}
	if cfg.Event.CleanupRetention == 0 {
		cfg.Event.CleanupRetention = 168 * time.Hour
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20 // 10MB
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 100
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	if cfg.HTTP.AuthRateLimitRequests == 0 {
		cfg.HTTP.AuthRateLimitRequests = 5
	}
	if cfg.HTTP.AuthRateLimitWindow == 0 {
		cfg.HTTP.AuthRateLimitWindow = time.Minute
	}
	// CORS origins have no wildcard fallback. An empty list means no
	// cross-origin requests are allowed until explicitly configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
	// Payment defaults point at the public sandbox endpoints
	if cfg.Payment.CallbackBaseURL == "" {
		cfg.Payment.CallbackBaseURL = "http://localhost:8080"
	}
	if cfg.Payment.Esewa.MerchantCode == "" {
		cfg.Payment.Esewa.MerchantCode = "EPAYTEST"
	}
	if cfg.Payment.Esewa.Endpoint == "" {
		cfg.Payment.Esewa.Endpoint = "https://rc-epay.esewa.com.np/api/epay/main/v2/form"
	}
	// Published UAT secrets, fine to ship as defaults since the
	// gateways run in simulated mode
	if cfg.Payment.Esewa.SecretKey == "" {
		cfg.Payment.Esewa.SecretKey = "8gBm/:&EnhH.1/q"
	}
	if cfg.Payment.Khalti.SecretKey == "" {
		cfg.Payment.Khalti.SecretKey = "05bf95cc57244045b8df5fad06748dab"
	}
	if cfg.Payment.Khalti.WebsiteURL == "" {
		cfg.Payment.Khalti.WebsiteURL = "https://nepalmeatshop.com.np"
	}
	if cfg.Payment.BankTransfer.BankName == "" {
		cfg.Payment.BankTransfer.BankName = "Nepal Bank Ltd"
	}
	if cfg.Payment.BankTransfer.AccountNumber == "" {
		cfg.Payment.BankTransfer.AccountNumber = "04510100012345"
	}
	if cfg.Payment.BankTransfer.AccountName == "" {
		cfg.Payment.BankTransfer.AccountName = "Nepal Meat Shop Pvt Ltd"
	}
	// Shop defaults mirror the domain constants
	if cfg.Shop.Name == "" {
		cfg.Shop.Name = "Nepal Meat Shop"
	}
	if cfg.Shop.NameNepali == "" {
		cfg.Shop.NameNepali = "नेपाल मासु पसल"
	}
	if cfg.Shop.Address == "" {
		cfg.Shop.Address = "New Road, Kathmandu"
	}
	if cfg.Shop.Phone == "" {
		cfg.Shop.Phone = "+977-1-4221234"
	}
	if cfg.Shop.Email == "" {
		cfg.Shop.Email = "info@nepalmeatshop.com.np"
	}
	if cfg.Shop.PANNumber == "" {
		cfg.Shop.PANNumber = "601234567"
	}
	if cfg.Shop.Currency == "" {
		cfg.Shop.Currency = "NPR"
	}
	if cfg.Shop.VATRate == 0 {
		cfg.Shop.VATRate = 0.13
	}
	if cfg.Shop.FreeDeliveryThreshold == 0 {
		cfg.Shop.FreeDeliveryThreshold = 2000
	}
	if cfg.Shop.ReducedDeliveryThreshold == 0 {
		cfg.Shop.ReducedDeliveryThreshold = 1000
	}
	if cfg.Shop.ReducedDeliveryCharge == 0 {
		cfg.Shop.ReducedDeliveryCharge = 25
	}
	if cfg.Shop.DefaultDeliveryCharge == 0 {
		cfg.Shop.DefaultDeliveryCharge = 50
	}
	if cfg.Shop.LowStockThresholdKg == 0 {
		cfg.Shop.LowStockThresholdKg = 5
	}
	if cfg.Shop.StockAlertCooldown == 0 {
		cfg.Shop.StockAlertCooldown = 6 * time.Hour
	}
	// Storage defaults
	if cfg.Storage.Provider == "" {
		cfg.Storage.Provider = "local"
	}
	if cfg.Storage.LocalDir == "" {
		cfg.Storage.LocalDir = "./data/uploads"
	}
	if cfg.Storage.S3.Region == "" {
		cfg.Storage.S3.Region = "ap-south-1"
	}
	// Printing defaults
	if cfg.Printing.Renderer == "" {
		cfg.Printing.Renderer = "chromedp"
	}
	if cfg.Printing.WkhtmltopdfPath == "" {
		cfg.Printing.WkhtmltopdfPath = "wkhtmltopdf"
	}
	if cfg.Printing.RenderTimeout == 0 {
		cfg.Printing.RenderTimeout = 30 * time.Second
	}
	if cfg.Printing.OutputDir == "" {
		cfg.Printing.OutputDir = "./data/prints"
	}
	// Notification defaults
	if cfg.Notification.EmailFrom == "" {
		cfg.Notification.EmailFrom = "orders@meatshop.com.np"
	}
	if cfg.Notification.SMSSenderID == "" {
		cfg.Notification.SMSSenderID = "MEATSHOP"
	}
	// Scheduler defaults
	if cfg.Scheduler.DailyReportSchedule == "" {
		cfg.Scheduler.DailyReportSchedule = "30 0 * * *"
	}
	if cfg.Scheduler.LowStockSweep == 0 {
		cfg.Scheduler.LowStockSweep = 30 * time.Minute
	}
	if cfg.Scheduler.MaxConcurrentJobs == 0 {
		cfg.Scheduler.MaxConcurrentJobs = 3
	}
	if cfg.Scheduler.JobTimeout == 0 {
		cfg.Scheduler.JobTimeout = 30 * time.Minute
	}
	if cfg.Scheduler.RetryAttempts == 0 {
		cfg.Scheduler.RetryAttempts = 3
	}
	if cfg.Scheduler.RetryDelay == 0 {
		cfg.Scheduler.RetryDelay = 5 * time.Minute
	}
	// Telemetry defaults
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317" // Default gRPC endpoint
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0 // 100% in development
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "meatshop-backend"
	}
	// Insecure defaults to false for safety (TLS enabled by default).
	// DBTraceEnabled and DBLogFullSQL need explicit enabling.
	if cfg.Telemetry.DBSlowQueryThresh == 0 {
		cfg.Telemetry.DBSlowQueryThresh = 200 * time.Millisecond
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	// Validate connection pool settings
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Storage.Provider != "local" && c.Storage.Provider != "s3" {
		return fmt.Errorf("storage.provider must be 'local' or 's3', got %q", c.Storage.Provider)
	}
	if c.Printing.Renderer != "chromedp" && c.Printing.Renderer != "wkhtmltopdf" {
		return fmt.Errorf("printing.renderer must be 'chromedp' or 'wkhtmltopdf', got %q", c.Printing.Renderer)
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		// Refresh token and cart session cookies ride on HTTPS only
		if !c.Cookie.Secure {
			return fmt.Errorf("cookie.secure must be true in production (HTTPS required for secure cookies)")
		}
		if !c.Session.Secure {
			return fmt.Errorf("session.secure must be true in production")
		}
		if c.Cookie.SameSite == "none" && !c.Cookie.Secure {
			return fmt.Errorf("cookie.same_site=none requires cookie.secure=true")
		}
		// CORS must not use wildcard with credentials
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		// Swagger must be disabled OR protected in production
		if c.Swagger.Enabled {
			if !c.Swagger.RequireAuth && len(c.Swagger.AllowedIPs) == 0 {
				return fmt.Errorf("swagger endpoint must be disabled, require authentication, or have IP restriction in production")
			}
		}
		// Full SQL logging is a data exposure risk in production traces
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production to prevent sensitive data exposure in traces")
		}
	}

	// Validate telemetry configuration (all environments)
	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	if c.Shop.VATRate < 0 || c.Shop.VATRate > 1 {
		return fmt.Errorf("shop.vat_rate must be between 0.0 and 1.0, got %f", c.Shop.VATRate)
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Addr returns the host:port address for the Redis client
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
