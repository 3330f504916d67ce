package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/invoice-wizard/internal/container"
	"github.com/garyjia/invoice-wizard/internal/domain/entity"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "data/wizard.db", cfg.Database.Path)
	assert.Equal(t, "sqlite", cfg.Backup.Driver)
	assert.Equal(t, "invoice-storage-backup", cfg.Backup.Key)
	assert.Equal(t, 1, cfg.Backup.Version)
	assert.True(t, cfg.Export.Archive)
	assert.Equal(t, entity.DefaultValidDays, cfg.Invoice.ValidDays)
	assert.True(t, cfg.Validation.StrictClient)
	assert.Equal(t, entity.DefaultIBAN, cfg.Terms.IBAN)
	assert.Equal(t, 50, cfg.History.Limit)
}

func TestLoad_MissingFileFallsBack(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
backup:
  driver: file
  dir: /tmp/wizard-backups
invoice:
  vat_percentage: 5
  valid_days: 14
validation:
  strict_client: false
company:
  name: Pixelate Plus
  trn_number: "100123456700003"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "file", cfg.Backup.Driver)
	assert.Equal(t, 5.0, cfg.Invoice.VATPercentage)
	assert.False(t, cfg.Validation.StrictClient)

	defaults := cfg.Defaults()
	assert.Equal(t, 5.0, defaults.VATPercentage)
	assert.Equal(t, 14, defaults.ValidDays)
	require.NotNil(t, defaults.Company)
	assert.Equal(t, "Pixelate Plus", defaults.Company.Name)
	assert.Equal(t, entity.DefaultBankName, defaults.Terms.BankName)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("WIZARD_PORT", "7070")
	t.Setenv("COMPANY_NAME", "From Env")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "From Env", cfg.Company.Name)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, "server: [unclosed")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"no database", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"unknown driver", func(c *Config) { c.Backup.Driver = "redis" }, "backup.driver"},
		{"file driver without dir", func(c *Config) { c.Backup.Driver = "file"; c.Backup.Dir = "" }, "backup.dir"},
		{"no backup key", func(c *Config) { c.Backup.Key = "" }, "backup.key"},
		{"archive without prefix", func(c *Config) { c.Export.ArchivePrefix = "" }, "export.archive_prefix"},
		{"vat out of range", func(c *Config) { c.Invoice.VATPercentage = 120 }, "invoice.vat_percentage"},
		{"negative history", func(c *Config) { c.History.Limit = -1 }, "history.limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestToContainerConfig(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Backup.Driver = container.BackupDriverFile

	cc := cfg.ToContainerConfig()

	require.NoError(t, cc.Validate())
	assert.Equal(t, cfg.Database.Path, cc.Database.Path)
	assert.Equal(t, container.BackupDriverFile, cc.Backup.Driver)
	assert.Equal(t, "exports", cc.Export.ArchivePrefix)
	assert.True(t, cc.Document.StrictClient)
	assert.Equal(t, 50, cc.Document.HistoryLimit)
	assert.Nil(t, cc.Document.Defaults.Company)
	assert.Equal(t, cfg.Server.ShutdownTimeout, cc.Server.ShutdownTimeout)
}
