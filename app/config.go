package app

import (
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/xy-planning-network/outpost"
	"github.com/xy-planning-network/outpost/auth"
	"github.com/xy-planning-network/outpost/logger"
	"github.com/xy-planning-network/outpost/nav"
	"github.com/xy-planning-network/outpost/postgres"
)

const (
	// Base URL defaults
	BaseURLEnvVar = "BASE_URL"

	// Environment defaults
	environmentEnvVar = "ENVIRONMENT"

	// Log defaults
	logLevelEnvVar  = "LOG_LEVEL"
	sentryDsnEnvVar = "SENTRY_DSN"

	// API defaults
	apiBaseURLEnvVar  = "API_BASE_URL"
	DefaultAPIBaseURL = "http://localhost:8080/api"

	// Catalog loading defaults
	catalogLoadTimeoutEnvVar = "CATALOG_LOAD_TIMEOUT"
	catalogBackoffBaseEnvVar = "CATALOG_BACKOFF_BASE"
	catalogBackoffMaxEnvVar  = "CATALOG_BACKOFF_MAX"

	// Session state defaults
	stateStorageEnvVar  = "STATE_STORAGE"
	stateFileEnvVar     = "STATE_FILE"
	defaultStateFile    = ".outpost-state.json"
	redisAddrEnvVar     = "REDIS_ADDR"
	defaultRedisAddr    = "localhost:6379"
	redisPasswordEnvVar = "REDIS_PASSWORD"

	// Flash defaults
	flashStorageEnvVar      = "FLASH_STORAGE"
	SessionAuthKeyEnvVar    = "SESSION_AUTH_KEY"
	SessionEncryptKeyEnvVar = "SESSION_ENCRYPTION_KEY"

	// Database defaults
	dbHostEnvVar     = "DATABASE_HOST"
	defaultDBHost    = "localhost"
	dbNameEnvVar     = "DATABASE_NAME"
	dbPassEnvVar     = "DATABASE_PASSWORD"
	dbPortEnvVar     = "DATABASE_PORT"
	defaultDBPort    = "5432"
	dbSSLModeEnvVar  = "DATABASE_SSLMODE"
	defaultDBSSLMode = "prefer"
	dbURLEnvVar      = "DATABASE_URL"
	dbUserEnvVar     = "DATABASE_USER"

	// Catalog server defaults
	corsOriginEnvVar   = "CORS_ORIGIN"
	jwtSecretEnvVar    = "JWT_SECRET"
	jwtTTLEnvVar       = "JWT_TTL"
	DefaultCatalogPort = ":8080"

	// Web server defaults
	DefaultHost               = "localhost"
	hostEnvVar                = "HOST"
	DefaultPort               = ":3000"
	portEnvVar                = "PORT"
	serverReadTimeoutEnvVar   = "SERVER_READ_TIMEOUT"
	DefaultServerReadTimeout  = 5 * time.Second
	serverIdleTimeoutEnvVar   = "SERVER_IDLE_TIMEOUT"
	DefaultServerIdleTimeout  = 120 * time.Second
	serverWriteTimeoutEnvVar  = "SERVER_WRITE_TIMEOUT"
	DefaultServerWriteTimeout = 35 * time.Second
)

// Where session state and flashes are kept.
const (
	StorageCookie = "cookie"
	StorageFile   = "file"
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// A Config holds what the console reads from its environment.
type Config struct {
	Env       outpost.Environment
	LogLevel  logger.LogLevel
	SentryDSN string

	BaseURL string
	Port    string

	ReadTimeout  time.Duration
	IdleTimeout  time.Duration
	WriteTimeout time.Duration

	APIBaseURL string

	LoadTimeout time.Duration
	BackoffBase time.Duration
	BackoffMax  time.Duration

	// StateStorage is one of StorageFile, StorageMemory, or StorageRedis.
	StateStorage  string
	StateFile     string
	RedisAddr     string
	RedisPassword string

	// FlashStorage is one of StorageCookie or StorageRedis.
	FlashStorage string

	// Hex-encoded keys.
	SessionAuthKey    string
	SessionEncryptKey string
}

// NewConfig reads a Config from environment variables,
// which a ".env" file in the working directory may set.
func NewConfig() Config {
	port := outpost.EnvVarOrString(portEnvVar, DefaultPort)
	if port[0] != ':' {
		port = ":" + port
	}

	host := outpost.EnvVarOrString(hostEnvVar, DefaultHost)

	return Config{
		Env:       outpost.EnvVarOrEnv(environmentEnvVar, outpost.Development),
		LogLevel:  EnvVarOrLogLevel(logLevelEnvVar, logger.LogLevelInfo),
		SentryDSN: os.Getenv(sentryDsnEnvVar),

		BaseURL: outpost.EnvVarOrURL(BaseURLEnvVar, "http://"+host+port).String(),
		Port:    port,

		ReadTimeout:  outpost.EnvVarOrDuration(serverReadTimeoutEnvVar, DefaultServerReadTimeout),
		IdleTimeout:  outpost.EnvVarOrDuration(serverIdleTimeoutEnvVar, DefaultServerIdleTimeout),
		WriteTimeout: outpost.EnvVarOrDuration(serverWriteTimeoutEnvVar, DefaultServerWriteTimeout),

		APIBaseURL: outpost.EnvVarOrString(apiBaseURLEnvVar, DefaultAPIBaseURL),

		LoadTimeout: outpost.EnvVarOrDuration(catalogLoadTimeoutEnvVar, nav.DefaultLoadTimeout),
		BackoffBase: outpost.EnvVarOrDuration(catalogBackoffBaseEnvVar, nav.DefaultBackoffBase),
		BackoffMax:  outpost.EnvVarOrDuration(catalogBackoffMaxEnvVar, nav.DefaultBackoffMax),

		StateStorage:  outpost.EnvVarOrString(stateStorageEnvVar, StorageFile),
		StateFile:     outpost.EnvVarOrString(stateFileEnvVar, defaultStateFile),
		RedisAddr:     outpost.EnvVarOrString(redisAddrEnvVar, defaultRedisAddr),
		RedisPassword: os.Getenv(redisPasswordEnvVar),

		FlashStorage: outpost.EnvVarOrString(flashStorageEnvVar, StorageCookie),

		SessionAuthKey:    os.Getenv(SessionAuthKeyEnvVar),
		SessionEncryptKey: os.Getenv(SessionEncryptKeyEnvVar),
	}
}

// A CatalogConfig holds what the catalog server reads from its environment.
type CatalogConfig struct {
	Env       outpost.Environment
	LogLevel  logger.LogLevel
	SentryDSN string

	Port         string
	ReadTimeout  time.Duration
	IdleTimeout  time.Duration
	WriteTimeout time.Duration

	DB *postgres.CxnConfig

	CORSOrigin string
	JWTSecret  string
	JWTTTL     time.Duration
}

// NewCatalogConfig reads a CatalogConfig from environment variables.
func NewCatalogConfig() CatalogConfig {
	port := outpost.EnvVarOrString(portEnvVar, DefaultCatalogPort)
	if port[0] != ':' {
		port = ":" + port
	}

	return CatalogConfig{
		Env:       outpost.EnvVarOrEnv(environmentEnvVar, outpost.Development),
		LogLevel:  EnvVarOrLogLevel(logLevelEnvVar, logger.LogLevelInfo),
		SentryDSN: os.Getenv(sentryDsnEnvVar),

		Port:         port,
		ReadTimeout:  outpost.EnvVarOrDuration(serverReadTimeoutEnvVar, DefaultServerReadTimeout),
		IdleTimeout:  outpost.EnvVarOrDuration(serverIdleTimeoutEnvVar, DefaultServerIdleTimeout),
		WriteTimeout: outpost.EnvVarOrDuration(serverWriteTimeoutEnvVar, DefaultServerWriteTimeout),

		DB: NewPostgresConfig(),

		CORSOrigin: os.Getenv(corsOriginEnvVar),
		JWTSecret:  os.Getenv(jwtSecretEnvVar),
		JWTTTL:     outpost.EnvVarOrDuration(jwtTTLEnvVar, auth.DefaultTTL),
	}
}

// NewPostgresConfig constructs a *postgres.CxnConfig from the DATABASE env vars.
// DATABASE_URL, when set, replaces all others.
func NewPostgresConfig() *postgres.CxnConfig {
	if url := os.Getenv(dbURLEnvVar); url != "" {
		return &postgres.CxnConfig{URL: url}
	}

	return &postgres.CxnConfig{
		Host:     outpost.EnvVarOrString(dbHostEnvVar, defaultDBHost),
		Name:     os.Getenv(dbNameEnvVar),
		Password: os.Getenv(dbPassEnvVar),
		Port:     outpost.EnvVarOrString(dbPortEnvVar, defaultDBPort),
		SSLMode:  outpost.EnvVarOrString(dbSSLModeEnvVar, defaultDBSSLMode),
		User:     os.Getenv(dbUserEnvVar),
	}
}

// EnvVarOrLogLevel gets the environment variable for the provided key
// and parses it into a logger.LogLevel,
// or returns the provided default logger.LogLevel if it is unset.
func EnvVarOrLogLevel(key string, def logger.LogLevel) logger.LogLevel {
	val := os.Getenv(key)
	if val == "" {
		return def
	}

	return logger.NewLogLevel(strings.ToUpper(val))
}
