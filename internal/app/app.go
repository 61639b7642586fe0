package app

import (
	"fmt"
	"net/http"

	"directory-app-go/internal/config"
	"directory-app-go/internal/db"
	directorydomain "directory-app-go/internal/domain/directory"
	"directory-app-go/internal/metrics"
	directoryrepo "directory-app-go/internal/repository/postgres/directory"
	"directory-app-go/internal/spreadsheet"
	"directory-app-go/internal/storage/images"
	"directory-app-go/internal/transport/httpserver"
	"directory-app-go/internal/transport/httpserver/handler"
	"directory-app-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	log.Info("app: applying migrations")
	if err := db.Migrate(dbConn); err != nil {
		closeDB(dbConn)
		return nil, fmt.Errorf("migrate: %w", err)
	}

	importStatus, ok := directorydomain.ParseStatus(cfg.Directory.ImportStatus)
	if !ok {
		closeDB(dbConn)
		return nil, fmt.Errorf("invalid DIRECTORY_IMPORT_STATUS %q", cfg.Directory.ImportStatus)
	}

	opts := directorydomain.Options{
		ImportStatus: importStatus,
		Logger:       log.With("component", "directory"),
	}
	var reg *metrics.Metrics
	if cfg.MetricsEnabled {
		reg = metrics.New()
		opts.Metrics = reg
	}

	directoryService := directorydomain.NewService(
		directoryrepo.NewPostgres(dbConn),
		images.NewLocalStore(cfg.Directory.ImageDir, cfg.Directory.ImagePublicPath),
		spreadsheet.NewXLSXCodec(),
		opts,
	)

	log.Info("app: initializing router")
	handlers := handler.New(directoryService, cfg.Directory.MaxUploadBytes, log.With("component", "http"))
	router := httpserver.NewRouter(cfg, handlers, reg, log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func closeDB(dbConn *gorm.DB) {
	if sqlDB, err := dbConn.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
