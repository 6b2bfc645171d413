package config

// EnvPrefix is handed to envconfig; every field tag already carries the full name.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv                 = "LOYAFU_APP_ENV"
	EnvPort                   = "LOYAFU_APP_PORT"
	EnvDBDSN                  = "LOYAFU_DB_DSN"
	EnvDBHost                 = "LOYAFU_DB_HOST"
	EnvDBUser                 = "LOYAFU_DB_USER"
	EnvDBName                 = "LOYAFU_DB_NAME"
	EnvRedisURL               = "LOYAFU_REDIS_URL"
	EnvJWTSecret              = "LOYAFU_JWT_SECRET"
	EnvJWTIssuer              = "LOYAFU_JWT_ISSUER"
	EnvJWTExpMins             = "LOYAFU_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "LOYAFU_REFRESH_TOKEN_TTL_MINUTES"
	EnvStoreName              = "LOYAFU_STORE_NAME"
	EnvCartSessionTTL         = "LOYAFU_CART_SESSION_TTL"
	EnvExchangeRateFallback   = "LOYAFU_EXCHANGE_RATE_FALLBACK"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
