package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Cart          CartConfig
	Store         StoreConfig
	ExchangeRate  ExchangeRateConfig
	Cron          CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.ExchangeRate.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LOYAFU_APP_ENV" required:"true"`
	Port         string `envconfig:"LOYAFU_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LOYAFU_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LOYAFU_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"LOYAFU_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"LOYAFU_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN string `envconfig:"LOYAFU_DB_DSN"`

	LegacyHost     string `envconfig:"LOYAFU_DB_HOST"`
	LegacyPort     int    `envconfig:"LOYAFU_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LOYAFU_DB_USER"`
	LegacyPassword string `envconfig:"LOYAFU_DB_PASSWORD"`
	LegacyName     string `envconfig:"LOYAFU_DB_NAME"`
	LegacySSLMode  string `envconfig:"LOYAFU_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LOYAFU_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"LOYAFU_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"LOYAFU_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LOYAFU_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQuery       time.Duration `envconfig:"LOYAFU_DB_SLOW_QUERY" default:"250ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LOYAFU_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LOYAFU_REDIS_ADDR"`
	Password     string        `envconfig:"LOYAFU_REDIS_PASSWORD"`
	DB           int           `envconfig:"LOYAFU_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LOYAFU_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LOYAFU_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LOYAFU_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LOYAFU_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"LOYAFU_REDIS_WRITE_TIMEOUT" default:"3s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"LOYAFU_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"LOYAFU_JWT_ISSUER" default:"loyafu"`
	ExpirationMinutes      int    `envconfig:"LOYAFU_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"LOYAFU_REFRESH_TOKEN_TTL_MINUTES" default:"10080"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LOYAFU_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LOYAFU_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LOYAFU_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LOYAFU_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LOYAFU_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"LOYAFU_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"LOYAFU_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"LOYAFU_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`

	// Public testimonial submissions are throttled per IP with the same limiter.
	TestimonialWindow  time.Duration `envconfig:"LOYAFU_RATE_LIMIT_TESTIMONIAL_WINDOW" default:"1h"`
	TestimonialIPLimit int           `envconfig:"LOYAFU_RATE_LIMIT_TESTIMONIAL_IP_LIMIT" default:"5"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LOYAFU_AUTO_MIGRATE" default:"false"`
	// AdminRegisterToken gates the non-production admin bootstrap endpoint.
	AdminRegisterToken string `envconfig:"LOYAFU_ADMIN_REGISTER_TOKEN"`
}

type CartConfig struct {
	SessionTTL      time.Duration `envconfig:"LOYAFU_CART_SESSION_TTL" default:"720h"`
	CheckoutBaseURL string        `envconfig:"LOYAFU_CART_CHECKOUT_BASE_URL" default:"https://wa.me"`
}

// StoreConfig carries the identity defaults used when site settings are empty.
type StoreConfig struct {
	Name            string `envconfig:"LOYAFU_STORE_NAME" default:"Loyafu"`
	WelcomeMessage  string `envconfig:"LOYAFU_STORE_WELCOME_MESSAGE" default:"Hola! Quiero realizar el siguiente pedido en"`
	WhatsAppNumber  string `envconfig:"LOYAFU_STORE_WHATSAPP_NUMBER" default:"584244096534"`
	DeliveryMessage string `envconfig:"LOYAFU_STORE_DELIVERY_MESSAGE"`
}

type ExchangeRateConfig struct {
	SourceURL    string        `envconfig:"LOYAFU_EXCHANGE_RATE_SOURCE_URL"`
	APIKey       string        `envconfig:"LOYAFU_EXCHANGE_RATE_API_KEY"`
	FallbackRate string        `envconfig:"LOYAFU_EXCHANGE_RATE_FALLBACK" default:"40"`
	CacheTTL     time.Duration `envconfig:"LOYAFU_EXCHANGE_RATE_CACHE_TTL" default:"6h"`
	MaxStaleness time.Duration `envconfig:"LOYAFU_EXCHANGE_RATE_MAX_STALENESS" default:"24h"`
	Retention    time.Duration `envconfig:"LOYAFU_EXCHANGE_RATE_RETENTION" default:"2160h"`
}

func (e ExchangeRateConfig) validate() error {
	if strings.TrimSpace(e.FallbackRate) == "" {
		return nil
	}
	parsed, err := decimal.NewFromString(strings.TrimSpace(e.FallbackRate))
	if err != nil {
		return fmt.Errorf("%s must be numeric: %w", EnvExchangeRateFallback, err)
	}
	if !parsed.IsPositive() {
		return fmt.Errorf("%s must be positive", EnvExchangeRateFallback)
	}
	return nil
}

// Fallback returns the configured fallback rate or zero when unset.
func (e ExchangeRateConfig) Fallback() decimal.Decimal {
	parsed, err := decimal.NewFromString(strings.TrimSpace(e.FallbackRate))
	if err != nil {
		return decimal.Zero
	}
	return parsed
}

type CronConfig struct {
	Interval   time.Duration `envconfig:"LOYAFU_CRON_INTERVAL" default:"1h"`
	LockTTL    time.Duration `envconfig:"LOYAFU_CRON_LOCK_TTL" default:"10m"`
	JobTimeout time.Duration `envconfig:"LOYAFU_CRON_JOB_TIMEOUT" default:"5m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
