package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
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
	Gemini        GeminiConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"AGRISETU_APP_ENV" required:"true"`
	Port         string `envconfig:"AGRISETU_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AGRISETU_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AGRISETU_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"AGRISETU_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"AGRISETU_DB_DSN"`
	Driver string `envconfig:"AGRISETU_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AGRISETU_DB_HOST"`
	LegacyPort     int    `envconfig:"AGRISETU_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AGRISETU_DB_USER"`
	LegacyPassword string `envconfig:"AGRISETU_DB_PASSWORD"`
	LegacyName     string `envconfig:"AGRISETU_DB_NAME"`
	LegacySSLMode  string `envconfig:"AGRISETU_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AGRISETU_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AGRISETU_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AGRISETU_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AGRISETU_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AGRISETU_REDIS_URL" required:"true"`
	Password     string        `envconfig:"AGRISETU_REDIS_PASSWORD"`
	DB           int           `envconfig:"AGRISETU_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AGRISETU_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AGRISETU_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AGRISETU_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AGRISETU_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AGRISETU_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"AGRISETU_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"AGRISETU_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"AGRISETU_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"AGRISETU_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"AGRISETU_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AGRISETU_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"AGRISETU_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AGRISETU_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AGRISETU_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"AGRISETU_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"AGRISETU_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"AGRISETU_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"AGRISETU_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"AGRISETU_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"AGRISETU_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"AGRISETU_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"AGRISETU_AUTO_MIGRATE" default:"false"`
}

type GeminiConfig struct {
	APIKey         string        `envconfig:"AGRISETU_GEMINI_API_KEY" required:"true"`
	TextModel      string        `envconfig:"AGRISETU_GEMINI_TEXT_MODEL" default:"gemini-2.5-flash"`
	VisionModel    string        `envconfig:"AGRISETU_GEMINI_VISION_MODEL" default:"gemini-2.5-flash"`
	RequestTimeout time.Duration `envconfig:"AGRISETU_GEMINI_REQUEST_TIMEOUT" default:"30s"`
	RetryBackoff   time.Duration `envconfig:"AGRISETU_GEMINI_RETRY_BACKOFF" default:"500ms"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"AGRISETU_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"AGRISETU_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"AGRISETU_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"AGRISETU_PUBSUB_ORDERS_TOPIC" default:"agrisetu-order-events"`
	OrdersSubscription string `envconfig:"AGRISETU_PUBSUB_ORDERS_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"AGRISETU_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"AGRISETU_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"AGRISETU_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
