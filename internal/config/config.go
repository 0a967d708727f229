package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"dogmeet/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	ErrSpreadsheetIDRequired = errors.New("spreadsheet id is required (google.spreadsheet_id or SPREADSHEET_ID)")
	ErrMissingCredentials    = errors.New("credentials file is required (google.credentials_file or GOOGLE_APPLICATION_CREDENTIALS)")
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	HTTP       HTTPConfig       `yaml:"http"`
	Google     GoogleConfig     `yaml:"google"`
	Render     RenderConfig     `yaml:"render"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Redis      RedisConfig      `yaml:"redis"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Tracing    TracingConfig    `yaml:"tracing"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type HTTPConfig struct {
	Port         int    `yaml:"port"`
	StaticDir    string `yaml:"static_dir"`
	RedirectPath string `yaml:"redirect_path"`
}

type GoogleConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	SheetName       string `yaml:"sheet_name"`
}

type RenderConfig struct {
	// EscapeHTML is off by default: cell values are written into the table verbatim.
	EscapeHTML bool `yaml:"escape_html"`
}

type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
	// Limit and WindowSeconds apply to the Redis fixed-window limiter.
	Limit         int `yaml:"limit"`
	WindowSeconds int `yaml:"window_seconds"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	OTLPEndpoint string  `yaml:"otlp_endpoint"`
	SampleRatio  float64 `yaml:"sample_ratio"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

// Load reads the YAML config at configPath (a missing file is fine),
// applies environment overrides and defaults, and validates the result.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var config Config

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		// Expand ${VAR} references before parsing.
		expandedData := []byte(os.ExpandEnv(string(data)))
		if err := yaml.Unmarshal(expandedData, &config); err != nil {
			return nil, fmt.Errorf("parse %s: %w", configPath, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Google.SpreadsheetID) == "" {
		return ErrSpreadsheetIDRequired
	}
	if strings.TrimSpace(c.Google.CredentialsFile) == "" {
		return ErrMissingCredentials
	}
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http port %d", c.HTTP.Port)
	}
	if strings.EqualFold(strings.TrimSpace(c.Logging.Output), "file") && c.Logging.FilePath == "" {
		return errors.New("logging.output=file requires logging.file_path")
	}
	if c.RateLimit.Enabled && c.Redis.Address == "" && c.RateLimit.RPS <= 0 {
		return errors.New("rate_limit.enabled requires rate_limit.rps > 0")
	}
	return nil
}

// applyEnv lets the plain environment variables win over the file.
func (c *Config) applyEnv() error {
	if v := os.Getenv("SPREADSHEET_ID"); v != "" {
		c.Google.SpreadsheetID = v
	}
	if v := os.Getenv("SHEET_NAME"); v != "" {
		c.Google.SheetName = v
	}
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" {
		c.Google.CredentialsFile = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.HTTP.Port = port
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "dogmeet"
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = models.DefaultPort
	}
	if c.HTTP.StaticDir == "" {
		c.HTTP.StaticDir = models.DefaultStaticDir
	}
	if c.HTTP.RedirectPath == "" {
		c.HTTP.RedirectPath = models.DefaultRedirectPath
	}
	if c.Google.SheetName == "" {
		c.Google.SheetName = models.DefaultSheetName
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = 5
	}
	if c.RateLimit.Limit <= 0 {
		c.RateLimit.Limit = 10
	}
	if c.RateLimit.WindowSeconds <= 0 {
		c.RateLimit.WindowSeconds = 60
	}
	if c.Tracing.OTLPEndpoint == "" {
		c.Tracing.OTLPEndpoint = "localhost:4317"
	}
	if c.Tracing.SampleRatio <= 0 || c.Tracing.SampleRatio > 1 {
		c.Tracing.SampleRatio = 1
	}
}
