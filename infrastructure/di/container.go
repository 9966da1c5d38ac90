// Package di wires the application together. Everything is
// constructed explicitly at startup and handed to the API layer, so
// there is no hidden shared state.
package di

import (
	"botflow-backend/application/queries"
	"botflow-backend/infrastructure/config"
	"botflow-backend/infrastructure/persistence/jsonstore"
	"botflow-backend/pkg/auth"

	"go.uber.org/zap"
)

// Container holds all shared application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	Store       *jsonstore.Store
	Relations   *queries.Relations
	AuthService *auth.Service
}

// InitializeContainer constructs the dependency graph and loads the
// record store. The store load is the only startup I/O; the server
// must not accept requests until this returns.
func InitializeContainer(cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}

	store := jsonstore.New(cfg.DataDir, logger)
	if err := store.LoadAll(); err != nil {
		return nil, err
	}

	return &Container{
		Config:      cfg,
		Logger:      logger,
		Store:       store,
		Relations:   queries.NewRelations(store),
		AuthService: auth.NewService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL),
	}, nil
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
