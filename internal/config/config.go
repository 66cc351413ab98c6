// File: internal/config/config.go
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Triage() TriageConfig
	Report() ReportConfig
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg LoggerConfig `mapstructure:"logger" yaml:"logger"`
	TriageCfg TriageConfig `mapstructure:"triage" yaml:"triage"`
	ReportCfg ReportConfig `mapstructure:"report" yaml:"report"`
}

// --- Interface Method Implementations ---

func (c *Config) Logger() LoggerConfig { return c.LoggerCfg }
func (c *Config) Triage() TriageConfig { return c.TriageCfg }
func (c *Config) Report() ReportConfig { return c.ReportCfg }

// ColorConfig names the terminal colors used per log level by the console
// encoder.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// LoggerConfig controls the zap logger: console encoding plus an optional
// rotated JSON log file.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// TriageConfig hoists the triage engine's tunable constants out of the code
// so boundary behavior is configurable and testable. The zero value of any
// field falls back to the engine default.
type TriageConfig struct {
	SimilarityThreshold       float64 `mapstructure:"similarity_threshold" yaml:"similarity_threshold"`
	MinPagesForTemplate       int     `mapstructure:"min_pages_for_template" yaml:"min_pages_for_template"`
	TemplateEfficientMinPages int     `mapstructure:"template_efficient_min_pages" yaml:"template_efficient_min_pages"`
	EscalateLowAt             int     `mapstructure:"escalate_low_at" yaml:"escalate_low_at"`
	EscalateMediumAt          int     `mapstructure:"escalate_medium_at" yaml:"escalate_medium_at"`
	EffortHighCutoff          float64 `mapstructure:"effort_high_cutoff" yaml:"effort_high_cutoff"`
	EffortMediumCutoff        float64 `mapstructure:"effort_medium_cutoff" yaml:"effort_medium_cutoff"`
	TopGroups                 int     `mapstructure:"top_groups" yaml:"top_groups"`
}

// ReportConfig controls the report output surface of the CLI.
type ReportConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// NewDefaultConfig returns a Config populated with the defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Should not happen with defaults only.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "rival-audit")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Triage --
	v.SetDefault("triage.similarity_threshold", 0.7)
	v.SetDefault("triage.min_pages_for_template", 3)
	v.SetDefault("triage.template_efficient_min_pages", 5)
	v.SetDefault("triage.escalate_low_at", 5)
	v.SetDefault("triage.escalate_medium_at", 10)
	v.SetDefault("triage.effort_high_cutoff", 2.5)
	v.SetDefault("triage.effort_medium_cutoff", 1.5)
	v.SetDefault("triage.top_groups", 10)

	// -- Report --
	v.SetDefault("report.format", "json")
	v.SetDefault("report.output", "")
}

// NewConfigFromViper creates a validated configuration from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if err := c.TriageCfg.Validate(); err != nil {
		return fmt.Errorf("triage configuration invalid: %w", err)
	}
	switch c.ReportCfg.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("report.format must be one of json, text")
	}
	return nil
}

// Validate checks the triage thresholds. Zero values are allowed (they fall
// back to engine defaults); explicitly configured values must be coherent.
func (t *TriageConfig) Validate() error {
	if t.SimilarityThreshold < 0 || t.SimilarityThreshold >= 1 {
		return fmt.Errorf("similarity_threshold must be in [0, 1)")
	}
	if t.EffortMediumCutoff > 0 && t.EffortHighCutoff > 0 && t.EffortMediumCutoff >= t.EffortHighCutoff {
		return fmt.Errorf("effort_medium_cutoff must be below effort_high_cutoff")
	}
	if t.EscalateLowAt > 0 && t.EscalateMediumAt > 0 && t.EscalateLowAt > t.EscalateMediumAt {
		return fmt.Errorf("escalate_low_at must not exceed escalate_medium_at")
	}
	if t.MinPagesForTemplate < 0 || t.TemplateEfficientMinPages < 0 || t.TopGroups < 0 {
		return fmt.Errorf("page counts must not be negative")
	}
	return nil
}
