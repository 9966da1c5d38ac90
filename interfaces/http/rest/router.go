package rest

import (
	"net/http"

	"botflow-backend/application/queries"
	"botflow-backend/infrastructure/config"
	"botflow-backend/infrastructure/persistence/jsonstore"
	"botflow-backend/interfaces/http/rest/handlers"
	"botflow-backend/interfaces/http/rest/middleware"
	"botflow-backend/pkg/auth"
	apperrors "botflow-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg       *config.Config
	store     *jsonstore.Store
	relations *queries.Relations
	authSvc   *auth.Service
	graphql   http.Handler
	logger    *zap.Logger
}

// NewRouter creates a new router instance. The GraphQL handler is
// mounted as-is; it performs its own auth extraction so that the
// unauthenticated health query stays reachable.
func NewRouter(
	cfg *config.Config,
	store *jsonstore.Store,
	relations *queries.Relations,
	authSvc *auth.Service,
	graphqlHandler http.Handler,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:       cfg,
		store:     store,
		relations: relations,
		authSvc:   authSvc,
		graphql:   graphqlHandler,
		logger:    logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	errHandler := apperrors.NewErrorHandler(rt.logger, rt.cfg.IsDevelopment())
	metaHandler := handlers.NewMetaHandler(rt.store, errHandler, rt.logger)
	nodeHandler := handlers.NewNodeHandler(rt.store, rt.relations, errHandler, rt.logger)

	router.NotFound(metaHandler.NotFound)

	router.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Get("/", metaHandler.Info)
		r.Get("/health", metaHandler.Health)

		if rt.cfg.IsDevelopment() {
			authHandler := handlers.NewAuthHandler(rt.authSvc, rt.logger)
			r.Post("/auth/token", authHandler.IssueToken)
		}

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(rt.authSvc, rt.logger))

			r.Get("/stats", metaHandler.Stats)

			r.Route("/nodes", func(r chi.Router) {
				r.Use(middleware.RequirePermission("nodes", auth.PermissionRead))
				r.Get("/", nodeHandler.ListNodes)
				r.Get("/stats", nodeHandler.GetNodeStats)
				r.Get("/{nodeID}", nodeHandler.GetNode)
				r.Get("/{nodeID}/relations", nodeHandler.GetNodeRelations)
			})
		})
	})

	// GraphQL endpoint; auth is handled per-field inside the resolvers
	router.Handle("/graphql", rt.graphql)

	return router
}
