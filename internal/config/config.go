package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Symbol    string  `yaml:"symbol"`
	SpotPrice float64 `yaml:"spot_price"` // 0 = use the spot quoted by the data source
	Threshold float64 `yaml:"threshold"`  // vol-point delta in (0, 1]
	Telegram  struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		Mock    bool   `yaml:"mock"`
	} `yaml:"data_source"`
	Schedule struct {
		CycleCron string `yaml:"cycle_cron"`
	} `yaml:"schedule"`
	Storage struct {
		BaselineDir string `yaml:"baseline_dir"`
		ReportsDir  string `yaml:"reports_dir"`
		SQLitePath  string `yaml:"sqlite_path"`
	} `yaml:"storage"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SYMBOL"); v != "" {
		cfg.Symbol = v
	}
	if v := os.Getenv("SPOT_PRICE"); v != "" {
		var spot float64
		if _, err := fmt.Sscanf(v, "%f", &spot); err == nil {
			cfg.SpotPrice = spot
		}
	}
	if v := os.Getenv("THRESHOLD"); v != "" {
		var th float64
		if _, err := fmt.Sscanf(v, "%f", &th); err == nil {
			cfg.Threshold = th
		}
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("NSE_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("CYCLE_CRON"); v != "" {
		cfg.Schedule.CycleCron = v
	}
	if v := os.Getenv("BASELINE_DIR"); v != "" {
		cfg.Storage.BaselineDir = v
	}
	if v := os.Getenv("REPORTS_DIR"); v != "" {
		cfg.Storage.ReportsDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Symbol == "" {
		cfg.Symbol = "NIFTY"
	}
	if cfg.Threshold == 0 {
		cfg.Threshold = 0.05
	}
	if cfg.Schedule.CycleCron == "" {
		// Every trading day at 15:45 IST, after the close.
		cfg.Schedule.CycleCron = "0 45 15 * * 1-5"
	}
	if cfg.Storage.BaselineDir == "" {
		cfg.Storage.BaselineDir = "data"
	}
	if cfg.Storage.ReportsDir == "" {
		cfg.Storage.ReportsDir = "reports"
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = "data/skew_sentinel.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are usable.
func (c *Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if c.Threshold <= 0 || c.Threshold > 1 {
		return fmt.Errorf("threshold must be in (0, 1], got %v", c.Threshold)
	}
	if c.SpotPrice < 0 {
		return fmt.Errorf("spot_price must not be negative, got %v", c.SpotPrice)
	}
	return nil
}
