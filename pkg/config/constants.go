package config

const EnvPrefix = "STOCKMASTER"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv     = "STOCKMASTER_APP_ENV"
	EnvPort       = "STOCKMASTER_APP_PORT"
	EnvDBDSN      = "STOCKMASTER_DB_DSN"
	EnvDBHost     = "STOCKMASTER_DB_HOST"
	EnvDBUser     = "STOCKMASTER_DB_USER"
	EnvDBName     = "STOCKMASTER_DB_NAME"
	EnvRedisURL   = "STOCKMASTER_REDIS_URL"
	EnvJWTSecret  = "STOCKMASTER_JWT_SECRET"
	EnvJWTIssuer  = "STOCKMASTER_JWT_ISSUER"
	EnvJWTExpMins = "STOCKMASTER_JWT_EXPIRATION_MINUTES"
)

// legacyDBEnvVars are the discrete connection vars accepted when
// STOCKMASTER_DB_DSN is not set.
var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
