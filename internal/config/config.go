package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultJWTSecret is the development signing secret. Refused when Env is "prod".
const DefaultJWTSecret = "supersecretkey"

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// Env is "dev" (default) or "prod". When "prod", JWT_SECRET must be set and not the default.
	Env string `env:"ENV" envDefault:"dev"`

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	// LogLevel is a slog level: -4 debug, 0 info, 4 warn, 8 error.
	LogLevel int `env:"LOG_LEVEL" envDefault:"0"`

	// MaxBodyBytes caps request bodies on POST and PUT routes (default 1 MiB).
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" envDefault:"1048576"`

	// PostsEmptyListNotFound makes GET /posts answer 404 instead of an empty array
	// when no post matches.
	PostsEmptyListNotFound bool `env:"POSTS_EMPTY_LIST_NOT_FOUND" envDefault:"true"`

	DB   DB   `envPrefix:"DB_"`
	JWT  JWT  `envPrefix:"JWT_"`
	TLS  TLS  `envPrefix:"TLS_"`
	CORS CORS `envPrefix:"CORS_"`
}

type DB struct {
	Host string `env:"HOST" envDefault:"localhost"`
	Port string `env:"PORT" envDefault:"5432"`
	Name string `env:"NAME" envDefault:"blogdb"`
	User string `env:"USER" envDefault:"bloguser"`
	Pass string `env:"PASS" envDefault:"blogpass"`

	// MaxOpenConns is the maximum number of open connections to the database (default 25).
	MaxOpenConns int `env:"MAX_OPEN_CONNS" envDefault:"25"`
	// MaxIdleConns is the maximum number of idle connections (default 5).
	MaxIdleConns int `env:"MAX_IDLE_CONNS" envDefault:"5"`
}

// DSN returns the lib/pq keyword/value connection string.
func (d DB) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s dbname=%s user=%s password=%s sslmode=disable",
		d.Host, d.Port, d.Name, d.User, d.Pass,
	)
}

// URL returns the postgres:// form used by the migrator.
func (d DB) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Pass),
		Host:     d.Host + ":" + d.Port,
		Path:     d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

type JWT struct {
	Secret string `env:"SECRET" envDefault:"supersecretkey"`
	// ExpireHours is the token lifetime in hours (default 720, i.e. 30 days).
	ExpireHours int `env:"EXPIRE_HOURS" envDefault:"720"`
}

// TTL returns the token lifetime.
func (j JWT) TTL() time.Duration {
	return time.Duration(j.ExpireHours) * time.Hour
}

// TLS enables HTTPS when both files are set. When empty, the API listens with plain HTTP.
type TLS struct {
	CertFile string `env:"CERT_FILE"`
	KeyFile  string `env:"KEY_FILE"`
}

// Enabled reports whether both the certificate and the key are configured.
func (t TLS) Enabled() bool {
	return t.CertFile != "" && t.KeyFile != ""
}

type CORS struct {
	// AllowedOrigins is a comma-separated list of origins (e.g. https://app.example.com, http://localhost:3000).
	// When empty, no CORS headers are sent (same-origin only).
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`
}

// Origins returns the parsed list of allowed origins.
func (c CORS) Origins() []string {
	return parseCORSOrigins(c.AllowedOrigins)
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.Env == "prod" && c.JWT.Secret == DefaultJWTSecret {
		return errors.New("JWT_SECRET must be set to a non-default value when ENV=prod")
	}
	if c.JWT.ExpireHours <= 0 {
		return errors.New("JWT_EXPIRE_HOURS must be positive")
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		return errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	return nil
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}
