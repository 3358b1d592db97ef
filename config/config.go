package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the monitor.
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Keywords KeywordsConfig `yaml:"keywords"`
	Storage  StorageConfig  `yaml:"storage"`
	Notify   NotifyConfig   `yaml:"notify"`
	Report   ReportConfig   `yaml:"report"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SourceConfig holds document source configuration.
type SourceConfig struct {
	BaseURL        string  `yaml:"base_url"`
	Endpoint       string  `yaml:"endpoint"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	MaxRetries     int     `yaml:"max_retries"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	PageLimit      int     `yaml:"page_limit"`
}

// KeywordsConfig holds term set and matching configuration.
type KeywordsConfig struct {
	File          string `yaml:"file"`
	CaseSensitive bool   `yaml:"case_sensitive"`
	WholeWord     bool   `yaml:"whole_word"`
	MinLength     int    `yaml:"min_length"`
	MaxResults    int    `yaml:"max_results"`
}

// StorageConfig holds record store configuration.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// NotifyConfig holds email notification configuration.
type NotifyConfig struct {
	Enabled        bool   `yaml:"enabled"`
	SMTPHost       string `yaml:"smtp_host"`
	SMTPPort       int    `yaml:"smtp_port"`
	UsernameEnv    string `yaml:"username_env"`
	PasswordEnv    string `yaml:"password_env"`
	From           string `yaml:"from"`
	RecipientsFile string `yaml:"recipients_file"`
	SubjectPrefix  string `yaml:"subject_prefix"`
	MaxDocuments   int    `yaml:"max_documents"`
}

// ReportConfig holds report generation configuration.
type ReportConfig struct {
	OutputDir             string `yaml:"output_dir"`
	MaxKeywords           int    `yaml:"max_keywords"`
	MaxDocuments          int    `yaml:"max_documents"`
	TrendWindowDays       int    `yaml:"trend_window_days"`
	PredictionHorizonDays int    `yaml:"prediction_horizon_days"`
}

// ScheduleConfig holds periodic execution configuration.
type ScheduleConfig struct {
	FetchIntervalHours int    `yaml:"fetch_interval_hours"`
	DailyReportTime    string `yaml:"daily_report_time"` // "HH:MM"
	WeeklyReportDay    int    `yaml:"weekly_report_day"` // 0 = Sunday
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			BaseURL:        "https://data.europarl.europa.eu/api/v2",
			Endpoint:       "/plenary-documents",
			TimeoutSeconds: 30,
			MaxRetries:     3,
			RateLimitRPS:   2,
			PageLimit:      100,
		},
		Keywords: KeywordsConfig{
			File:          "fintech_keywords.txt",
			CaseSensitive: false,
			WholeWord:     false,
			MinLength:     3,
			MaxResults:    1000,
		},
		Storage: StorageConfig{
			Path: "parlwatch.db",
		},
		Notify: NotifyConfig{
			Enabled:        false,
			SMTPHost:       "smtp.gmail.com",
			SMTPPort:       587,
			UsernameEnv:    "PARLWATCH_SMTP_USER",
			PasswordEnv:    "PARLWATCH_SMTP_PASS",
			From:           "noreply@example.com",
			RecipientsFile: "email_recipients.txt",
			SubjectPrefix:  "[EU Parliament Monitor] ",
			MaxDocuments:   10,
		},
		Report: ReportConfig{
			OutputDir:             "reports",
			MaxKeywords:           20,
			MaxDocuments:          50,
			TrendWindowDays:       30,
			PredictionHorizonDays: 7,
		},
		Schedule: ScheduleConfig{
			FetchIntervalHours: 1,
			DailyReportTime:    "18:00",
			WeeklyReportDay:    0,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks the numeric invariants the engine depends on.
func (c *Config) Validate() error {
	if c.Keywords.MinLength < 1 {
		return fmt.Errorf("keywords.min_length must be >= 1, got %d", c.Keywords.MinLength)
	}
	if c.Report.TrendWindowDays <= 0 {
		return fmt.Errorf("report.trend_window_days must be positive, got %d", c.Report.TrendWindowDays)
	}
	if c.Report.PredictionHorizonDays <= 0 {
		return fmt.Errorf("report.prediction_horizon_days must be positive, got %d", c.Report.PredictionHorizonDays)
	}
	if c.Schedule.FetchIntervalHours <= 0 {
		return fmt.Errorf("schedule.fetch_interval_hours must be positive, got %d", c.Schedule.FetchIntervalHours)
	}
	if c.Schedule.WeeklyReportDay < 0 || c.Schedule.WeeklyReportDay > 6 {
		return fmt.Errorf("schedule.weekly_report_day must be 0-6, got %d", c.Schedule.WeeklyReportDay)
	}
	return nil
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for
// parlwatch.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "parlwatch.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".parlwatch", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
