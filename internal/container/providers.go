package container

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/garyjia/invoice-wizard/internal/application/backup"
	"github.com/garyjia/invoice-wizard/internal/application/dispatcher"
	"github.com/garyjia/invoice-wizard/internal/application/docsync"
	"github.com/garyjia/invoice-wizard/internal/application/port"
	"github.com/garyjia/invoice-wizard/internal/application/sharelink"
	"github.com/garyjia/invoice-wizard/internal/application/store"
	"github.com/garyjia/invoice-wizard/internal/application/validation"
	"github.com/garyjia/invoice-wizard/internal/application/wizard"
	"github.com/garyjia/invoice-wizard/internal/export"
	"github.com/garyjia/invoice-wizard/internal/infrastructure/navigation"
	"github.com/garyjia/invoice-wizard/internal/infrastructure/persistence/repository"
	"github.com/garyjia/invoice-wizard/internal/infrastructure/storage"
	httpserver "github.com/garyjia/invoice-wizard/internal/interfaces/http"
	"github.com/garyjia/invoice-wizard/pkg/database"
)

// DocumentBundle holds the live document and everything that keeps it in
// sync with links, history and the backup.
type DocumentBundle struct {
	Dispatcher dispatcher.Dispatcher
	Store      store.Store
	Codec      *sharelink.Codec
	Resolver   *docsync.Resolver
	Reconciler *docsync.Reconciler
	History    *navigation.History
	Backups    backup.Service
	Source     docsync.Source
}

// ServiceBundle groups the services operating on the document.
type ServiceBundle struct {
	Validator validation.Validator
	Navigator wizard.Navigator
	Exporter  *export.Exporter
}

// ProvideDatabase opens the database and applies the embedded migrations.
func ProvideDatabase(ctx context.Context, cfg *DatabaseConfig, logger *zap.Logger) (*database.DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	if err := database.NewMigrator(db, logger).Run(ctx, database.Migrations()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// ProvideRepositories creates all repositories from a database connection.
func ProvideRepositories(db *database.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &RepositoryBundle{
		Blobs:   repository.NewBlobRepository(db.DB, logger),
		Exports: repository.NewExportRepository(db.DB, logger),
	}, nil
}

// ProvideBlobStore selects the backing store for backups and archived exports.
func ProvideBlobStore(cfg *BackupConfig, repos *RepositoryBundle, logger *zap.Logger) (port.BlobStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("backup config is required")
	}

	switch cfg.Driver {
	case BackupDriverSQLite:
		if repos == nil || repos.Blobs == nil {
			return nil, fmt.Errorf("blob repository is required for the sqlite driver")
		}
		return repos.Blobs, nil
	case BackupDriverFile:
		return storage.NewLocalFileStorage(cfg.Dir, logger), nil
	default:
		return nil, fmt.Errorf("unknown backup driver %q", cfg.Driver)
	}
}

// DocumentDeps holds dependencies for ProvideDocument.
type DocumentDeps struct {
	Config *Config
	Blobs  port.BlobStore
	Clock  port.Clock
	Logger *zap.Logger
}

// ProvideDocument restores the working document (backup first, defaults
// otherwise) and subscribes the mirror that keeps history and backup current.
func ProvideDocument(ctx context.Context, deps *DocumentDeps) (*DocumentBundle, error) {
	if deps == nil || deps.Config == nil {
		return nil, fmt.Errorf("document deps are required")
	}
	if deps.Blobs == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	logger := newPortLogger(deps.Logger)
	cfg := deps.Config

	backups := backup.NewService(deps.Blobs,
		backup.WithKey(cfg.Backup.Key),
		backup.WithVersion(cfg.Backup.Version),
		backup.WithLogger(logger),
	)
	codec := sharelink.NewCodec(logger)
	resolver := docsync.NewResolver(codec, backups, cfg.Document.Defaults, deps.Clock, logger)

	initial, source := resolver.Resolve(ctx, url.Values{})

	opts := []store.Option{store.WithInitial(initial), store.WithLogger(logger)}
	if deps.Clock != nil {
		opts = append(opts, store.WithClock(deps.Clock))
	}
	disp := dispatcher.NewDispatcher(dispatcher.WithLogger(logger))
	s := store.NewStore(cfg.Document.Defaults, disp, opts...)

	history := navigation.NewHistory(codec.Encode(initial), cfg.Document.HistoryLimit)
	s.Subscribe("mirror", docsync.NewMirror(codec, history, backups, logger).Handle)

	deps.Logger.Info("Document restored", zap.String("source", string(source)))

	return &DocumentBundle{
		Dispatcher: disp,
		Store:      s,
		Codec:      codec,
		Resolver:   resolver,
		Reconciler: docsync.NewReconciler(resolver, s),
		History:    history,
		Backups:    backups,
		Source:     source,
	}, nil
}

// ServiceDeps holds dependencies for ProvideServices.
type ServiceDeps struct {
	Config   *Config
	Document *DocumentBundle
	Repos    *RepositoryBundle
	Blobs    port.BlobStore
	Logger   *zap.Logger
}

// ProvideServices creates the validator, navigator and exporter.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil || deps.Config == nil || deps.Document == nil {
		return nil, fmt.Errorf("service deps are required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	validator := validation.New(validation.WithStrictClient(deps.Config.Document.StrictClient))
	navigator := wizard.NewNavigator(deps.Document.Store, validator,
		wizard.WithLogger(newPortLogger(deps.Logger)))

	var opts []export.Option
	if deps.Config.Export.Archive && deps.Blobs != nil {
		opts = append(opts, export.WithArchive(deps.Blobs, deps.Config.Export.ArchivePrefix))
	}
	if deps.Repos != nil && deps.Repos.Exports != nil {
		opts = append(opts, export.WithExportLog(deps.Repos.Exports))
	}
	writer := export.NewWorkbookWriter(deps.Config.Export.FontPath, deps.Logger)

	return &ServiceBundle{
		Validator: validator,
		Navigator: navigator,
		Exporter:  export.NewExporter(writer, deps.Logger, opts...),
	}, nil
}

// ProvideServer creates the HTTP server over the document and its services.
// ready backs the /health endpoint.
func ProvideServer(cfg *ServerConfig, doc *DocumentBundle, services *ServiceBundle, repos *RepositoryBundle, ready func() bool, logger *zap.Logger) (*httpserver.Server, error) {
	if cfg == nil || doc == nil || services == nil {
		return nil, fmt.Errorf("server deps are required")
	}

	var exports port.ExportLog
	if repos != nil {
		exports = repos.Exports
	}

	return httpserver.NewServer(httpserver.ServerConfig{
		Host:            cfg.Host,
		Port:            cfg.Port,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, httpserver.Services{
		Store:      doc.Store,
		Navigator:  services.Navigator,
		Validator:  services.Validator,
		Codec:      doc.Codec,
		Reconciler: doc.Reconciler,
		History:    doc.History,
		Exporter:   services.Exporter,
		Exports:    exports,
		Ready:      ready,
	}, newPortLogger(logger)), nil
}
