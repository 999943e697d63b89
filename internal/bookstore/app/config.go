package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/aussiebroadwan/bookstore/pkg/jwtx"
)

// Database drivers accepted in DB_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the full service configuration, read from the environment.
type Config struct {
	Port                int           `env:"PORT" envDefault:"8080"`
	Env                 string        `env:"ENV" envDefault:"dev"`          // dev, test, staging, prod
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`   // debug, info, warn, error
	LogFormat           string        `env:"LOG_FORMAT" envDefault:"json"`  // json, text
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`

	Database Database
	JWT      JWT `envPrefix:"JWT_"`

	PepperFile     string `env:"PEPPER_FILE" envDefault:"pepper"`
	TOTPIssuer     string `env:"TOTP_ISSUER" envDefault:"Bookstore"`
	BootstrapToken string `env:"BOOTSTRAP_TOKEN"` // bootstrap endpoint is disabled when empty
}

// Database selects and locates the backing store.
type Database struct {
	Driver string `env:"DB_DRIVER" envDefault:"sqlite"`
	File   string `env:"DATABASE_FILE" envDefault:"bookstore.db"`
	DSN    string `env:"DATABASE_DSN"`
}

// JWT configures token signing.
type JWT struct {
	// Secret is the HS256 key. Outside dev it must be set and at least
	// jwtx.MinSecretLength bytes long.
	Secret    string        `env:"SECRET"`
	Issuer    string        `env:"ISSUER" envDefault:"bookstore"`
	ExpiresIn time.Duration `env:"EXPIRES_IN" envDefault:"24h"`
}

// LoadConfig parses the environment and validates the result.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsDev reports whether the service runs in development mode, which allows
// an ephemeral JWT secret and exposes error detail in 500 responses.
func (c Config) IsDev() bool { return c.Env == "dev" }

// Validate checks cross-field constraints env tags cannot express.
func (c Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.File == "" {
			errs = append(errs, errors.New("DATABASE_FILE is required for the sqlite driver"))
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("DATABASE_DSN is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not one of %s, %s", c.Database.Driver, DriverSQLite, DriverPostgres))
	}
	if c.JWT.Secret == "" && !c.IsDev() {
		errs = append(errs, errors.New("JWT_SECRET is required outside dev"))
	}
	if c.JWT.Secret != "" && len(c.JWT.Secret) < jwtx.MinSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", jwtx.MinSecretLength))
	}
	if c.JWT.ExpiresIn <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRES_IN must be positive"))
	}
	if c.ShutdownGracePeriod <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_GRACE_PERIOD must be positive"))
	}

	return errors.Join(errs...)
}
