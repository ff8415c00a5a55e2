package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Business  BusinessConfig
	Currency  CurrencyConfig
	Catalog   CatalogConfig
	Storage   StorageConfig
	Logging   LoggingConfig
	Server    ServerConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Admin     AdminConfig
	Jobs      JobsConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

type DatabaseConfig struct {
	// Driver selects the store backing the key-value table: "sqlite" for the
	// embedded local store, "postgres" for server deployments.
	Driver          string
	Path            string // sqlite file path (":memory:" for tests)
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
}

// BusinessConfig carries the business rules the storefront needs at quoting
// time. Values under the persisted config key override these defaults.
type BusinessConfig struct {
	Name                      string
	Phone                     string // international format, digits only
	Email                     string
	Address                   string
	QuotationValidityDays     int
	InstallationPricePerMeter float64
	PostSpacingMeters         float64
	MarginPercent             float64
	RequiredCustomerFields    []string
	OptionalCustomerFields    []string
	// TermsTemplate is the PDF footer text; "{days}" is replaced with the
	// validity window.
	TermsTemplate string
}

// CurrencyConfig drives money formatting. Injected, never hardcoded.
type CurrencyConfig struct {
	Locale            string
	Symbol            string
	Code              string
	MinFractionDigits int
	MaxFractionDigits int
}

// CatalogConfig points at the remote catalog source (a published sheet
// returning loosely-typed rows) and its fetch timeout.
type CatalogConfig struct {
	SourceURL    string
	FetchTimeout int // seconds
}

type StorageConfig struct {
	Mode                  string // "local" or "azure"
	LocalBasePath         string
	CloudConnectionString string
	CloudContainer        string
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout  int
	WriteTimeout int
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	WhitelistPaths    []string
}

// AdminConfig holds the admin surface credentials
type AdminConfig struct {
	APIKey      string
	JWTSecret   string
	TokenTTLMin int
}

// JobsConfig holds background cleanup scheduling
type JobsConfig struct {
	Enabled            bool
	CleanupCron        string
	OrderRetentionDays int
}

// ConnectionString builds the PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// FetchTimeoutDuration returns the catalog fetch timeout as duration
func (c *CatalogConfig) FetchTimeoutDuration() time.Duration {
	return time.Duration(c.FetchTimeout) * time.Second
}

// TokenTTL returns the admin token lifetime as duration
func (a *AdminConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLMin) * time.Minute
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	// Read from config file
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Admin credentials come from the environment when not in the file
	if cfg.Admin.APIKey == "" {
		cfg.Admin.APIKey = v.GetString("ADMIN_API_KEY")
	}
	if cfg.Admin.JWTSecret == "" {
		cfg.Admin.JWTSecret = v.GetString("ADMIN_JWT_SECRET")
	}
	if cfg.Storage.CloudConnectionString == "" {
		cfg.Storage.CloudConnectionString = v.GetString("STORAGE_CLOUDCONNECTIONSTRING")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "Cercos del Sur Storefront API")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 8080)

	// Database defaults: embedded sqlite store, mirroring the original
	// single-client local persistence
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/storefront.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "storefront")
	v.SetDefault("database.user", "storefront_user")
	v.SetDefault("database.password", "storefront_password")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", 300)

	// Business defaults
	v.SetDefault("business.name", "Cercos del Sur")
	v.SetDefault("business.phone", "5492995550123")
	v.SetDefault("business.email", "ventas@cercosdelsur.com.ar")
	v.SetDefault("business.address", "Ruta 22 km 1214, Neuquén, Argentina")
	v.SetDefault("business.quotationValidityDays", 30)
	v.SetDefault("business.installationPricePerMeter", 2500)
	v.SetDefault("business.postSpacingMeters", 3)
	v.SetDefault("business.marginPercent", 35)
	v.SetDefault("business.requiredCustomerFields", []string{"name", "phone"})
	v.SetDefault("business.optionalCustomerFields", []string{"email", "address", "installationDate", "paymentMethod"})
	v.SetDefault("business.termsTemplate", "Presupuesto válido por {days} días. Precios sujetos a cambio sin previo aviso. No incluye IVA.")

	// Currency defaults
	v.SetDefault("currency.locale", "es-AR")
	v.SetDefault("currency.symbol", "$")
	v.SetDefault("currency.code", "ARS")
	v.SetDefault("currency.minFractionDigits", 0)
	v.SetDefault("currency.maxFractionDigits", 2)

	// Catalog source defaults (empty URL disables the remote source)
	v.SetDefault("catalog.sourceURL", "")
	v.SetDefault("catalog.fetchTimeout", 15)

	// Storage defaults
	v.SetDefault("storage.mode", "local")
	v.SetDefault("storage.localBasePath", "./storage")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Server defaults
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)

	// CORS defaults - restrictive by default
	v.SetDefault("cors.allowedOrigins", []string{})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"})
	v.SetDefault("cors.exposedHeaders", []string{"Location", "X-Request-ID"})
	v.SetDefault("cors.allowCredentials", true)
	v.SetDefault("cors.maxAge", 300)

	// Rate limiting defaults
	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requestsPerMinute", 120)
	v.SetDefault("rateLimit.whitelistPaths", []string{"/health", "/health/db"})

	// Admin defaults
	v.SetDefault("admin.tokenTTLMin", 60)

	// Background jobs
	v.SetDefault("jobs.enabled", true)
	v.SetDefault("jobs.cleanupCron", "0 0 3 * * *")
	v.SetDefault("jobs.orderRetentionDays", 90)
}
