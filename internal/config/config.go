package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server" envconfig:"SERVER"`
	Security   SecurityConfig   `yaml:"security" envconfig:"SECURITY"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Directory  DirectoryConfig  `yaml:"directory" envconfig:"DIRECTORY"`
	MarketData MarketDataConfig `yaml:"market_data" envconfig:"MARKET_DATA"`
	News       NewsConfig       `yaml:"news" envconfig:"NEWS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"45s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration for the HTTP surface.
// This limits inbound requests only; upstream calls are single best-effort
// attempts with no client-side limiting.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"50"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"25"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// DirectoryConfig configures the KRX company directory loader
type DirectoryConfig struct {
	URL      string        `yaml:"url" envconfig:"URL" default:"http://kind.krx.co.kr/corpgeneral/corpList.do?method=download&searchType=13"`
	CacheTTL time.Duration `yaml:"cache_ttl" envconfig:"CACHE_TTL" default:"1h"`
	Timeout  time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"30s"`
}

// MarketDataConfig configures the daily price provider client
type MarketDataConfig struct {
	BaseURL string        `yaml:"base_url" envconfig:"BASE_URL" default:"https://api.finance.naver.com/siseJson.naver"`
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"30s"`
}

// NewsConfig configures the headline feed client
type NewsConfig struct {
	BaseURL  string        `yaml:"base_url" envconfig:"BASE_URL" default:"https://news.google.com/rss/search"`
	Timeout  time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"15s"`
	CacheTTL time.Duration `yaml:"cache_ttl" envconfig:"CACHE_TTL" default:"10m"`
}

// Load loads configuration from environment variables and config file.
// Environment variables (prefix KRX) take precedence over the file.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("KRX", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Server.Port == 0 {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if envConfig.Server.ReadTimeout == 0 {
		envConfig.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if envConfig.Server.WriteTimeout == 0 {
		envConfig.Server.WriteTimeout = fileConfig.Server.WriteTimeout
	}
	if envConfig.Directory.URL == "" {
		envConfig.Directory.URL = fileConfig.Directory.URL
	}
	if envConfig.Directory.CacheTTL == 0 {
		envConfig.Directory.CacheTTL = fileConfig.Directory.CacheTTL
	}
	if envConfig.MarketData.BaseURL == "" {
		envConfig.MarketData.BaseURL = fileConfig.MarketData.BaseURL
	}
	if envConfig.News.BaseURL == "" {
		envConfig.News.BaseURL = fileConfig.News.BaseURL
	}

	return envConfig
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Directory.URL == "" {
		return fmt.Errorf("directory URL must not be empty")
	}

	if c.Directory.CacheTTL <= 0 {
		return fmt.Errorf("directory cache TTL must be positive")
	}

	if c.MarketData.BaseURL == "" {
		return fmt.Errorf("market data base URL must not be empty")
	}

	if c.News.BaseURL == "" {
		return fmt.Errorf("news base URL must not be empty")
	}

	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		c.Logging.Format = "json"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  45 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     50,
				Burst:   25,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "logs/app.log",
		},
		Directory: DirectoryConfig{
			URL:      "http://kind.krx.co.kr/corpgeneral/corpList.do?method=download&searchType=13",
			CacheTTL: time.Hour,
			Timeout:  30 * time.Second,
		},
		MarketData: MarketDataConfig{
			BaseURL: "https://api.finance.naver.com/siseJson.naver",
			Timeout: 30 * time.Second,
		},
		News: NewsConfig{
			BaseURL:  "https://news.google.com/rss/search",
			Timeout:  15 * time.Second,
			CacheTTL: 10 * time.Minute,
		},
	}
}
