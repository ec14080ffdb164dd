package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "postlane"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "POSTLANE_DB_DSN"
	EnvDBHost = "POSTLANE_DB_HOST"
	EnvDBUser = "POSTLANE_DB_USER"
	EnvDBName = "POSTLANE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Eventing     EventingConfig
	RateLimit    RateLimitConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Scheduler    SchedulerConfig
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
	Env          string `envconfig:"POSTLANE_APP_ENV" required:"true"`
	Port         string `envconfig:"POSTLANE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"POSTLANE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"POSTLANE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"POSTLANE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"POSTLANE_DB_DSN"`
	Driver string `envconfig:"POSTLANE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"POSTLANE_DB_HOST"`
	LegacyPort     int    `envconfig:"POSTLANE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"POSTLANE_DB_USER"`
	LegacyPassword string `envconfig:"POSTLANE_DB_PASSWORD"`
	LegacyName     string `envconfig:"POSTLANE_DB_NAME"`
	LegacySSLMode  string `envconfig:"POSTLANE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"POSTLANE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"POSTLANE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"POSTLANE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"POSTLANE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"POSTLANE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"POSTLANE_REDIS_ADDR"`
	Password     string        `envconfig:"POSTLANE_REDIS_PASSWORD"`
	DB           int           `envconfig:"POSTLANE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"POSTLANE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"POSTLANE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"POSTLANE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"POSTLANE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"POSTLANE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"POSTLANE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"POSTLANE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"POSTLANE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"POSTLANE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"POSTLANE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"POSTLANE_AUTO_MIGRATE" default:"false"`
}

type EventingConfig struct {
	OutboxIdempotencyTTL time.Duration `envconfig:"POSTLANE_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"POSTLANE_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"POSTLANE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"POSTLANE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	DomainTopic              string `envconfig:"POSTLANE_PUBSUB_DOMAIN_TOPIC" required:"true"`
	DomainSubscription       string `envconfig:"POSTLANE_PUBSUB_DOMAIN_SUBSCRIPTION" required:"true"`
	NotificationTopic        string `envconfig:"POSTLANE_PUBSUB_NOTIFICATION_TOPIC" default:"pl-notification-events"`
	NotificationSubscription string `envconfig:"POSTLANE_PUBSUB_NOTIFICATION_SUBSCRIPTION" required:"true"`
}

type RateLimitConfig struct {
	WriteWindow    time.Duration `envconfig:"POSTLANE_RATE_LIMIT_WRITE_WINDOW" default:"1m"`
	WriteIPLimit   int           `envconfig:"POSTLANE_RATE_LIMIT_WRITE_IP_LIMIT" default:"120"`
	WriteUserLimit int           `envconfig:"POSTLANE_RATE_LIMIT_WRITE_USER_LIMIT" default:"60"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"POSTLANE_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"POSTLANE_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"POSTLANE_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type SchedulerConfig struct {
	PollInterval time.Duration `envconfig:"POSTLANE_SCHEDULER_POLL_INTERVAL" default:"30s"`
	BatchSize    int           `envconfig:"POSTLANE_SCHEDULER_BATCH_SIZE" default:"100"`
	MetricsPort  string        `envconfig:"POSTLANE_SCHEDULER_METRICS_PORT" default:"9090"`
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
