package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
	Wallet       WalletConfig
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
	Env          string `envconfig:"GLAMBOOK_APP_ENV" required:"true"`
	Port         string `envconfig:"GLAMBOOK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GLAMBOOK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GLAMBOOK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GLAMBOOK_DB_DSN"`
	Driver string `envconfig:"GLAMBOOK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GLAMBOOK_DB_HOST"`
	LegacyPort     int    `envconfig:"GLAMBOOK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GLAMBOOK_DB_USER"`
	LegacyPassword string `envconfig:"GLAMBOOK_DB_PASSWORD"`
	LegacyName     string `envconfig:"GLAMBOOK_DB_NAME"`
	LegacySSLMode  string `envconfig:"GLAMBOOK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GLAMBOOK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GLAMBOOK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GLAMBOOK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GLAMBOOK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GLAMBOOK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GLAMBOOK_REDIS_ADDR"`
	Password     string        `envconfig:"GLAMBOOK_REDIS_PASSWORD"`
	DB           int           `envconfig:"GLAMBOOK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GLAMBOOK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GLAMBOOK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GLAMBOOK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GLAMBOOK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GLAMBOOK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CronConfig struct {
	Interval     time.Duration `envconfig:"GLAMBOOK_CRON_INTERVAL" default:"24h"`
	LockKey      string        `envconfig:"GLAMBOOK_CRON_LOCK_KEY" default:"cron:leader"`
	LockTTL      time.Duration `envconfig:"GLAMBOOK_CRON_LOCK_TTL" default:"25h"`
	MetricsPort  string        `envconfig:"GLAMBOOK_CRON_METRICS_PORT" default:"9100"`
	NotifRetain  int           `envconfig:"GLAMBOOK_CRON_NOTIFICATION_RETENTION_DAYS" default:"30"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GLAMBOOK_AUTO_MIGRATE" default:"false"`
}

type WalletConfig struct {
	// MaxRechargePaise caps a single recharge request. Zero disables the cap.
	MaxRechargePaise int64 `envconfig:"GLAMBOOK_WALLET_MAX_RECHARGE_PAISE" default:"0"`
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
