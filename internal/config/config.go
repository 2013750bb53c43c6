package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"RCCalc/internal/logger"

	"github.com/ansel1/merry"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr      string        `yaml:"listen_addr"`
	TLSCert         string        `yaml:"tls_cert"`
	TLSKey          string        `yaml:"tls_key"`
	StaticDir       string        `yaml:"static_dir"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// Accounts and saved calculations are enabled only with a database.
	DatabaseURL string `yaml:"database_url"`
	TokenKey    string `yaml:"token_key"`

	RateLimit float64 `yaml:"rate_limit"` // requests per second per client
	RateBurst int     `yaml:"rate_burst"`

	Log logger.Config `yaml:"log"`
}

func Default() Config {
	return Config{
		ListenAddr:      ":8080",
		StaticDir:       "./static",
		ShutdownTimeout: 5 * time.Second,
		RateLimit:       5,
		RateBurst:       10,
		Log:             logger.Config{Level: "info", Format: "json"},
	}
}

// Load reads .env (if present), then the YAML file named by CONFIG_FILE
// (if set), then applies environment overrides on top of the defaults.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, merry.Prepend(err, "load .env")
	}
	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.readFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return merry.Prepend(err, "read config")
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return merry.Prependf(err, "parse %s", path)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	str("LISTEN_ADDR", &c.ListenAddr)
	str("TLS_CERT", &c.TLSCert)
	str("TLS_KEY", &c.TLSKey)
	str("STATIC_DIR", &c.StaticDir)
	str("DATABASE_URL", &c.DatabaseURL)
	str("TOKEN_KEY", &c.TokenKey)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	if v := getenv("RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return merry.Prepend(err, "RATE_LIMIT")
		}
		c.RateLimit = f
	}
	if v := getenv("RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return merry.Prepend(err, "RATE_BURST")
		}
		c.RateBurst = n
	}
	if v := getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return merry.Prepend(err, "SHUTDOWN_TIMEOUT")
		}
		c.ShutdownTimeout = d
	}
	return nil
}

func (c Config) Validate() error {
	if c.DatabaseURL != "" && c.TokenKey == "" {
		return merry.New("TOKEN_KEY must be set when DATABASE_URL is configured")
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return merry.New("TLS_CERT and TLS_KEY must be set together")
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		return merry.New("rate limit and burst must be positive")
	}
	return nil
}

func (c Config) AccountsEnabled() bool {
	return c.DatabaseURL != ""
}
