package config

import (
	"github.com/garyjia/invoice-wizard/internal/container"
)

// ToContainerConfig converts the application Config to a container.Config.
// This provides a bridge between the file-based config loaded by viper
// and the container's configuration structure.
func (c *Config) ToContainerConfig() *container.Config {
	return &container.Config{
		Database: container.DatabaseConfig{
			Path:            c.Database.Path,
			MaxOpenConns:    c.Database.MaxOpenConns,
			MaxIdleConns:    c.Database.MaxIdleConns,
			ConnMaxLifetime: c.Database.ConnMaxLifetime,
		},
		Backup: container.BackupConfig{
			Driver:  c.Backup.Driver,
			Dir:     c.Backup.Dir,
			Key:     c.Backup.Key,
			Version: c.Backup.Version,
		},
		Export: container.ExportConfig{
			Archive:       c.Export.Archive,
			ArchivePrefix: c.Export.ArchivePrefix,
			FontPath:      c.Export.FontPath,
		},
		Document: container.DocumentConfig{
			Defaults:     c.Defaults(),
			StrictClient: c.Validation.StrictClient,
			HistoryLimit: c.History.Limit,
		},
		Server: container.ServerConfig{
			Host:            c.Server.Host,
			Port:            c.Server.Port,
			ReadTimeout:     c.Server.ReadTimeout,
			WriteTimeout:    c.Server.WriteTimeout,
			ShutdownTimeout: c.Server.ShutdownTimeout,
		},
	}
}
