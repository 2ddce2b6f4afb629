// Package config loads the site configuration: built-in defaults, then an
// optional YAML file, then environment variables (with .env loaded outside
// production).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all brickvault configuration.
type Config struct {
	Env      string         `yaml:"env"`
	Port     string         `yaml:"port"`
	BaseURL  string         `yaml:"base_url"` // public URL of this site, used by the PDF renderer
	API      APIConfig      `yaml:"api"`
	Database DatabaseConfig `yaml:"database"`
	Session  SessionConfig  `yaml:"session"`
	UI       UIConfig       `yaml:"ui"`
	Uploads  UploadConfig   `yaml:"uploads"`
	Pricing  PricingConfig  `yaml:"pricing"`
	Export   ExportConfig   `yaml:"export"`
	Logging  LoggingConfig  `yaml:"logging"`
	CORS     CORSConfig     `yaml:"cors"`
}

// APIConfig points at the remote collection API.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// DatabaseConfig configures the preference/draft store. An empty URL and
// host select the in-memory store.
type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

// SessionConfig configures browser sessions.
type SessionConfig struct {
	Secret     string        `yaml:"secret"`
	TTL        time.Duration `yaml:"ttl"`
	CookieName string        `yaml:"cookie_name"`
	Secure     bool          `yaml:"secure"`
}

// UIConfig holds view behaviour knobs.
type UIConfig struct {
	FeedbackDelay time.Duration `yaml:"feedback_delay"`
	PageSize      int           `yaml:"page_size"`
	LoadMoreSize  int           `yaml:"load_more_size"`
}

// UploadConfig bounds image uploads.
type UploadConfig struct {
	MaxMB        int `yaml:"max_mb"`
	MaxDimension int `yaml:"max_dimension"`
}

// PricingConfig locates the price tool configuration.
type PricingConfig struct {
	ConfigPath string `yaml:"config_path"`
}

// ExportConfig configures the PDF exporter.
type ExportConfig struct {
	ChromePath string        `yaml:"chrome_path"`
	Timeout    time.Duration `yaml:"timeout"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// CORSConfig lists origins allowed to call the JSON endpoints.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Env:     "development",
		Port:    "8080",
		BaseURL: "http://localhost:8080",
		API: APIConfig{
			BaseURL: "http://localhost:8000/api",
			Timeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Port:    "5432",
			SSLMode: "disable",
		},
		Session: SessionConfig{
			TTL:        24 * time.Hour,
			CookieName: "brickvault_session",
		},
		UI: UIConfig{
			FeedbackDelay: 2500 * time.Millisecond,
			PageSize:      24,
			LoadMoreSize:  24,
		},
		Uploads: UploadConfig{
			MaxMB:        5,
			MaxDimension: 1600,
		},
		Pricing: PricingConfig{
			ConfigPath: "config/pricing.json",
		},
		Export: ExportConfig{
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
		},
	}
}

// Load reads path (if it exists) over the defaults and applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads .env from the working directory unless running in
// production. It returns the path it loaded, or "" when nothing was loaded.
func LoadDotEnv() string {
	if os.Getenv("ENV") == "production" {
		return ""
	}
	envPath := ".env"
	if wd, err := os.Getwd(); err == nil {
		envPath = filepath.Join(wd, ".env")
	}
	// Overload so that .env wins over stale shell variables during development.
	if err := godotenv.Overload(envPath); err != nil {
		return ""
	}
	return envPath
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api base url is required (API_BASE_URL)")
	}
	if c.IsProduction() && c.Session.Secret == "" {
		return fmt.Errorf("session secret is required in production (SESSION_SECRET)")
	}
	if c.UI.FeedbackDelay <= 0 {
		return fmt.Errorf("feedback delay must be positive")
	}
	if c.Uploads.MaxMB <= 0 {
		return fmt.Errorf("upload max size must be positive")
	}
	return nil
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// DatabaseDSN returns the connection string, or "" when no database is configured.
func (c *Config) DatabaseDSN() string {
	d := c.Database
	if d.URL != "" {
		return d.URL
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return ""
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// Masked returns a copy safe to print.
func (c *Config) Masked() *Config {
	out := *c
	out.CORS.AllowedOrigins = append([]string(nil), c.CORS.AllowedOrigins...)
	if out.Session.Secret != "" {
		out.Session.Secret = "********"
	}
	if out.Database.Password != "" {
		out.Database.Password = "********"
	}
	if out.Database.URL != "" {
		out.Database.URL = "********"
	}
	return &out
}

func (c *Config) applyEnvOverrides() {
	setString(&c.Env, "ENV")
	setString(&c.Port, "PORT")
	// PORT from some hosts carries a leading colon
	c.Port = strings.TrimPrefix(c.Port, ":")
	setString(&c.BaseURL, "BASE_URL")

	setString(&c.API.BaseURL, "API_BASE_URL")
	setDuration(&c.API.Timeout, "API_TIMEOUT")

	setString(&c.Database.URL, "DATABASE_URL")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSLMODE")

	setString(&c.Session.Secret, "SESSION_SECRET")
	setDuration(&c.Session.TTL, "SESSION_TTL")
	if c.IsProduction() {
		c.Session.Secure = true
	}

	setDuration(&c.UI.FeedbackDelay, "FEEDBACK_DELAY")
	setInt(&c.UI.PageSize, "PAGE_SIZE")
	setInt(&c.Uploads.MaxMB, "UPLOAD_MAX_MB")
	setString(&c.Pricing.ConfigPath, "PRICING_CONFIG")
	setString(&c.Export.ChromePath, "CHROME_PATH")
	setString(&c.Logging.Level, "LOG_LEVEL")

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.CORS.AllowedOrigins = origins
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
