package config

const (
	EnvPrefix = "AGRISETU"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv                 = "AGRISETU_APP_ENV"
	EnvPort                   = "AGRISETU_APP_PORT"
	EnvRedisURL               = "AGRISETU_REDIS_URL"
	EnvJWTSecret              = "AGRISETU_JWT_SECRET"
	EnvJWTIssuer              = "AGRISETU_JWT_ISSUER"
	EnvJWTExpMins             = "AGRISETU_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "AGRISETU_REFRESH_TOKEN_TTL_MINUTES"
	EnvGeminiAPIKey           = "AGRISETU_GEMINI_API_KEY"

	EnvDBDSN  = "AGRISETU_DB_DSN"
	EnvDBHost = "AGRISETU_DB_HOST"
	EnvDBUser = "AGRISETU_DB_USER"
	EnvDBName = "AGRISETU_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
