package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "WISHLISTED_DB_DSN"
	EnvDBHost = "WISHLISTED_DB_HOST"
	EnvDBUser = "WISHLISTED_DB_USER"
	EnvDBName = "WISHLISTED_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Proxy        ProxyConfig
	Storefront   StorefrontConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Proxy.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Storefront.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"WISHLISTED_APP_ENV" required:"true"`
	Port         string `envconfig:"WISHLISTED_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"WISHLISTED_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WISHLISTED_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"WISHLISTED_DB_DSN"`
	Driver string `envconfig:"WISHLISTED_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"WISHLISTED_DB_HOST"`
	LegacyPort     int    `envconfig:"WISHLISTED_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"WISHLISTED_DB_USER"`
	LegacyPassword string `envconfig:"WISHLISTED_DB_PASSWORD"`
	LegacyName     string `envconfig:"WISHLISTED_DB_NAME"`
	LegacySSLMode  string `envconfig:"WISHLISTED_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WISHLISTED_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"WISHLISTED_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"WISHLISTED_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WISHLISTED_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"WISHLISTED_REDIS_URL"`
	Address      string        `envconfig:"WISHLISTED_REDIS_ADDR"`
	Password     string        `envconfig:"WISHLISTED_REDIS_PASSWORD"`
	DB           int           `envconfig:"WISHLISTED_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WISHLISTED_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WISHLISTED_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WISHLISTED_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WISHLISTED_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WISHLISTED_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// ProxyConfig holds the app-proxy trust boundary settings. The signature
// mode must match the upstream signer exactly; it is never auto-detected.
type ProxyConfig struct {
	Secret        string `envconfig:"WISHLISTED_PROXY_SECRET" required:"true"`
	SignatureMode string `envconfig:"WISHLISTED_PROXY_SIGNATURE_MODE" default:"app_proxy"`
}

func (p ProxyConfig) validate() error {
	switch p.SignatureMode {
	case "app_proxy", "oauth_hmac":
		return nil
	}
	return fmt.Errorf("unsupported proxy signature mode %q", p.SignatureMode)
}

type StorefrontConfig struct {
	Domain      string        `envconfig:"WISHLISTED_STOREFRONT_DOMAIN" required:"true"`
	AccessToken string        `envconfig:"WISHLISTED_STOREFRONT_ACCESS_TOKEN" required:"true"`
	APIVersion  string        `envconfig:"WISHLISTED_STOREFRONT_API_VERSION" default:"2025-07"`
	Timeout     time.Duration `envconfig:"WISHLISTED_STOREFRONT_TIMEOUT" default:"5s"`
	CacheTTL    time.Duration `envconfig:"WISHLISTED_STOREFRONT_CACHE_TTL" default:"5m"`
}

func (s StorefrontConfig) validate() error {
	if strings.Contains(s.Domain, "://") {
		return fmt.Errorf("storefront domain must be a bare hostname, got %q", s.Domain)
	}
	return nil
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"WISHLISTED_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"WISHLISTED_AUTO_MIGRATE" default:"false"`
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
