// Package container provides dependency injection and lifecycle management
// for the invoice wizard following Clean Architecture principles.
package container

import (
	"fmt"
	"time"

	"github.com/garyjia/invoice-wizard/internal/domain/entity"
)

// Backup drivers
const (
	BackupDriverSQLite = "sqlite"
	BackupDriverFile   = "file"
)

// Config holds all configuration for the Container.
// It aggregates configurations for all subsystems.
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Backup configuration
	Backup BackupConfig

	// Export configuration
	Export ExportConfig

	// Document defaults and validation rules
	Document DocumentConfig

	// Server configuration
	Server ServerConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Path to SQLite database file, or ":memory:"
	Path string

	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int

	// ConnMaxLifetime is the maximum connection lifetime
	ConnMaxLifetime time.Duration
}

// BackupConfig holds draft backup settings.
type BackupConfig struct {
	// Driver is BackupDriverSQLite or BackupDriverFile
	Driver string

	// Dir is the backup directory for the file driver
	Dir string

	// Key names the backup record
	Key string

	// Version is written into every record; records of other versions are ignored
	Version int
}

// ExportConfig holds spreadsheet export settings.
type ExportConfig struct {
	// Archive keeps a copy of each export in the blob store
	Archive bool

	// ArchivePrefix is the key prefix of archived exports
	ArchivePrefix string

	// FontPath is an optional font file for the workbook
	FontPath string
}

// DocumentConfig holds the wizard's document settings.
type DocumentConfig struct {
	// Defaults seeds every fresh document
	Defaults entity.Defaults

	// StrictClient selects the strict client information rules
	StrictClient bool

	// HistoryLimit caps the navigation history
	HistoryLimit int
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host to bind to
	Host string

	// Port to listen on
	Port int

	// ReadTimeout for HTTP server
	ReadTimeout time.Duration

	// WriteTimeout for HTTP server
	WriteTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:            "data/wizard.db",
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Backup: BackupConfig{
			Driver:  BackupDriverSQLite,
			Dir:     "data/backups",
			Key:     "invoice-storage-backup",
			Version: 1,
		},
		Export: ExportConfig{
			Archive:       true,
			ArchivePrefix: "exports",
		},
		Document: DocumentConfig{
			Defaults:     entity.DefaultValues(),
			StrictClient: true,
			HistoryLimit: 50,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// Validate checks that all required configuration is present.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	switch c.Backup.Driver {
	case BackupDriverSQLite:
	case BackupDriverFile:
		if c.Backup.Dir == "" {
			return fmt.Errorf("backup dir is required for the file driver")
		}
	default:
		return fmt.Errorf("unknown backup driver %q", c.Backup.Driver)
	}
	if c.Backup.Key == "" {
		return fmt.Errorf("backup key is required")
	}

	if c.Export.Archive && c.Export.ArchivePrefix == "" {
		return fmt.Errorf("export archive prefix is required")
	}

	if c.Server.Port <= 0 {
		return fmt.Errorf("server port must be positive")
	}

	return nil
}
