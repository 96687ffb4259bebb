package core

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/samber/oops"
)

// Config holds runtime settings for the server process.
type Config struct {
	Port           string   `env:"PORT" envDefault:"3000"`                           // HTTP listen port
	SessionKey     string   `env:"SESSION_KEY" envDefault:"change-this-session-key"` // Cookie signing key
	CookieSecure   bool     `env:"COOKIE_SECURE" envDefault:"false"`                 // Secure flag on the dashboard cookie
	CookieSameSite string   `env:"COOKIE_SAMESITE" envDefault:"Strict"`              // Strict/Lax/None
	LogDir         string   `env:"LOG_DIR" envDefault:"./logs"`                      // Directory for the log file
	LogFormat      string   `env:"LOG_FORMAT" envDefault:"text"`                     // text or json
	DatabaseURL    string   `env:"DATABASE_URL"`                                     // PostgreSQL DSN; empty keeps users in memory
	RedisURL       string   `env:"REDIS_URL"`                                        // Redis URL; empty keeps players in memory
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`                 // allowed origins for the dashboard
	DlcCatalogPath string   `env:"DLC_CATALOG_PATH"`                                 // YAML DLC catalog
	PlayerSeedPath string   `env:"PLAYER_SEED_PATH"`                                 // YAML players created at startup
	SpriteDir      string   `env:"SPRITE_DIR" envDefault:"./sprites"`                // served sprite tree, used for variant lookups
	MetricsEnabled bool     `env:"METRICS_ENABLED" envDefault:"true"`                // expose /metrics
	BcryptCost     int      `env:"BCRYPT_COST" envDefault:"10"`                      // password hashing cost

	// AllowRegistrationThroughLogin creates unknown users on NAS login.
	AllowRegistrationThroughLogin bool `env:"ALLOW_WFC_REGISTRATION_THROUGH_LOGIN" envDefault:"true"`

	// LogSensitiveInfo disables user id redaction in logs.
	LogSensitiveInfo bool `env:"LOG_SENSITIVE_INFO" envDefault:"false"`
}

// Load reads an optional .env file and then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, oops.Code("CONFIG_DOTENV_FAILED").Wrapf(err, "load .env")
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, oops.Code("CONFIG_INVALID").Wrapf(err, "parse env")
	}
	return cfg, nil
}
