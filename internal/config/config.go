package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"

	"github.com/garyjia/invoice-wizard/internal/domain/entity"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Backup     BackupConfig     `mapstructure:"backup"`
	Export     ExportConfig     `mapstructure:"export"`
	Invoice    InvoiceConfig    `mapstructure:"invoice"`
	Validation ValidationConfig `mapstructure:"validation"`
	Company    CompanyConfig    `mapstructure:"company"`
	Terms      TermsConfig      `mapstructure:"terms"`
	History    HistoryConfig    `mapstructure:"history"`
	Logger     LoggerConfig     `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// BackupConfig selects where the draft backup lives
type BackupConfig struct {
	Driver  string `mapstructure:"driver"` // sqlite or file
	Dir     string `mapstructure:"dir"`
	Key     string `mapstructure:"key"`
	Version int    `mapstructure:"version"`
}

// ExportConfig holds spreadsheet export configuration
type ExportConfig struct {
	Archive       bool   `mapstructure:"archive"`
	ArchivePrefix string `mapstructure:"archive_prefix"`
	FontPath      string `mapstructure:"font_path"`
}

// InvoiceConfig holds fresh document defaults
type InvoiceConfig struct {
	VATPercentage float64 `mapstructure:"vat_percentage"`
	ValidDays     int     `mapstructure:"valid_days"`
}

// ValidationConfig holds step validation configuration
type ValidationConfig struct {
	StrictClient bool `mapstructure:"strict_client"`
}

// CompanyConfig is the issuing company printed on every document
type CompanyConfig struct {
	Name         string `mapstructure:"name"`
	Tagline      string `mapstructure:"tagline"`
	Phone        string `mapstructure:"phone"`
	Email        string `mapstructure:"email"`
	AddressLine1 string `mapstructure:"address_line1"`
	AddressLine2 string `mapstructure:"address_line2"`
	TRNNumber    string `mapstructure:"trn_number"`
}

// TermsConfig holds the default banking terms
type TermsConfig struct {
	BankName        string `mapstructure:"bank_name"`
	AccountName     string `mapstructure:"account_name"`
	AccountNumber   string `mapstructure:"account_number"`
	IBAN            string `mapstructure:"iban"`
	SwiftCode       string `mapstructure:"swift_code"`
	AdditionalNotes string `mapstructure:"additional_notes"`
}

// HistoryConfig holds navigation history configuration
type HistoryConfig struct {
	Limit int `mapstructure:"limit"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from an optional YAML file and environment
// variables. An empty configPath or a missing file falls back to defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	// Database defaults
	v.SetDefault("database.path", "data/wizard.db")
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	// Backup defaults
	v.SetDefault("backup.driver", "sqlite")
	v.SetDefault("backup.dir", "data/backups")
	v.SetDefault("backup.key", "invoice-storage-backup")
	v.SetDefault("backup.version", 1)

	// Export defaults
	v.SetDefault("export.archive", true)
	v.SetDefault("export.archive_prefix", "exports")
	v.SetDefault("export.font_path", "")

	// Document defaults
	v.SetDefault("invoice.vat_percentage", 0.0)
	v.SetDefault("invoice.valid_days", entity.DefaultValidDays)
	v.SetDefault("validation.strict_client", true)

	terms := entity.DefaultTerms()
	v.SetDefault("terms.bank_name", terms.BankName)
	v.SetDefault("terms.account_name", terms.AccountName)
	v.SetDefault("terms.account_number", terms.AccountNumber)
	v.SetDefault("terms.iban", terms.IBAN)
	v.SetDefault("terms.swift_code", terms.SwiftCode)
	v.SetDefault("terms.additional_notes", terms.AdditionalNotes)

	v.SetDefault("history.limit", 50)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("server.port", "WIZARD_PORT")
	_ = v.BindEnv("database.path", "WIZARD_DB_PATH")
	_ = v.BindEnv("backup.driver", "WIZARD_BACKUP_DRIVER")
	_ = v.BindEnv("logger.level", "WIZARD_LOG_LEVEL")
	_ = v.BindEnv("company.name", "COMPANY_NAME")
	_ = v.BindEnv("company.trn_number", "COMPANY_TRN")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	switch c.Backup.Driver {
	case "sqlite":
	case "file":
		if c.Backup.Dir == "" {
			return fmt.Errorf("backup.dir is required for the file driver")
		}
	default:
		return fmt.Errorf("backup.driver must be sqlite or file, got %q", c.Backup.Driver)
	}
	if c.Backup.Key == "" {
		return fmt.Errorf("backup.key is required")
	}
	if c.Backup.Version <= 0 {
		return fmt.Errorf("backup.version must be positive")
	}

	if c.Export.Archive && c.Export.ArchivePrefix == "" {
		return fmt.Errorf("export.archive_prefix is required when archiving")
	}
	if c.Invoice.VATPercentage < 0 || c.Invoice.VATPercentage > 100 {
		return fmt.Errorf("invoice.vat_percentage must be between 0 and 100")
	}
	if c.Invoice.ValidDays < 0 {
		return fmt.Errorf("invoice.valid_days must not be negative")
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("history.limit must not be negative")
	}

	return nil
}

// Defaults converts the document sections into fresh-snapshot defaults
func (c *Config) Defaults() entity.Defaults {
	defaults := entity.Defaults{
		VATPercentage: c.Invoice.VATPercentage,
		ValidDays:     c.Invoice.ValidDays,
		Terms: entity.TermsConditions{
			BankName:        c.Terms.BankName,
			AccountName:     c.Terms.AccountName,
			AccountNumber:   c.Terms.AccountNumber,
			IBAN:            c.Terms.IBAN,
			SwiftCode:       c.Terms.SwiftCode,
			AdditionalNotes: c.Terms.AdditionalNotes,
		},
	}
	if c.Company.Name != "" {
		defaults.Company = &entity.CompanyInfo{
			Name:         c.Company.Name,
			Tagline:      c.Company.Tagline,
			Phone:        c.Company.Phone,
			Email:        c.Company.Email,
			AddressLine1: c.Company.AddressLine1,
			AddressLine2: c.Company.AddressLine2,
			TRNNumber:    c.Company.TRNNumber,
		}
	}
	return defaults
}
