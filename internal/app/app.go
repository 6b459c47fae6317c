// Package app wires the service together: database, migrations, auth, task
// management, and the HTTP server.
package app

import (
	"context"
	"fmt"
	"net/http"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taskvault/taskvault/internal/auth"
	"github.com/taskvault/taskvault/internal/config"
	"github.com/taskvault/taskvault/internal/database"
	"github.com/taskvault/taskvault/internal/logger"
	"github.com/taskvault/taskvault/internal/server"
	"github.com/taskvault/taskvault/internal/server/endpoint"
	"github.com/taskvault/taskvault/internal/tasks"
)

// App is the assembled service.
type App struct {
	cfg *config.Config
	log *logger.Logger
	db  *database.DB
	srv *server.Server
}

// New builds the application from configuration: it opens the database,
// applies migrations, constructs the services, and registers all routes.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	db, err := database.NewWithContext(ctx, sqlite.Open(cfg.Database.DSN), cfg.Database, log.WithComponent("database"))
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	if err := runMigrations(db, log); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("token service: %w", err)
	}
	refresh := auth.NewRefreshService(tokens)

	hasher := auth.NewArgon2Hasher()
	users := auth.NewUserRepository(db, hasher, log)
	authSvc := auth.NewService(users, tokens, log)
	authHandler := auth.NewHandler(authSvc)

	taskRepo := tasks.NewRepository(db, log)
	taskSvc := tasks.NewService(taskRepo, log)
	taskHandler := tasks.NewHandler(taskSvc)

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware()

	engine := srv.GinEngine()
	engine.GET("/health", endpoint.Health(cfg.Name, db.PingContext))

	authHandler.Register(engine)

	guarded := engine.Group("/tasks")
	guarded.Use(auth.RequireAuth(tokens, users))
	guarded.Use(auth.TokenRefresher(refresh, log))
	taskHandler.Register(guarded)

	return &App{cfg: cfg, log: log, db: db, srv: srv}, nil
}

// runMigrations applies the schema migrations in order.
func runMigrations(db *database.DB, log *logger.Logger) error {
	runner := database.NewMigrationRunner(db.GormDB, log)
	runner.AddMigration(database.Migration{
		ID:          "001_initial",
		Description: "create users and tasks tables",
		Up: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&auth.User{}, &tasks.Task{})
		},
	})
	return runner.RunMigrations()
}

// Start binds the listener and begins serving requests.
func (a *App) Start(ctx context.Context) error {
	return a.srv.Start(ctx)
}

// Run starts the server and blocks until the context is canceled, then
// shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}

	a.log.Info("Service ready", map[string]interface{}{
		"name":        a.cfg.Name,
		"version":     a.cfg.Version,
		"environment": a.cfg.Environment,
		"addr":        a.srv.Addr(),
	})

	<-ctx.Done()
	return a.Shutdown(context.Background())
}

// Shutdown stops the server and closes the database.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.srv.Stop(ctx)
	if closeErr := a.db.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// Handler exposes the router, used by tests to drive requests in-process.
func (a *App) Handler() http.Handler {
	return a.srv.GinEngine()
}
