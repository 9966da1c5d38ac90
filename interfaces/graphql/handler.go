package graphql

import (
	"encoding/json"
	"net/http"

	"botflow-backend/pkg/auth"

	gql "github.com/graphql-go/graphql"
	"go.uber.org/zap"
)

// Handler serves GraphQL over HTTP. It extracts the bearer token
// itself instead of sitting behind the auth middleware so that the
// public health query works without credentials.
type Handler struct {
	schema  gql.Schema
	authSvc *auth.Service
	logger  *zap.Logger
}

// NewHandler creates a new GraphQL HTTP handler
func NewHandler(schema gql.Schema, authSvc *auth.Service, logger *zap.Logger) *Handler {
	return &Handler{
		schema:  schema,
		authSvc: authSvc,
		logger:  logger,
	}
}

type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req graphqlRequest

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if raw := q.Get("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
				h.writeError(w, http.StatusBadRequest, "Invalid variables: "+err.Error())
				return
			}
		}
	case http.MethodPost:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
	default:
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if req.Query == "" {
		h.writeError(w, http.StatusBadRequest, "Must provide query string")
		return
	}

	ctx := auth.WithAuth(r.Context(), h.authSvc.FromHeader(r.Header.Get("Authorization")))

	result := gql.Do(gql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})

	if len(result.Errors) > 0 {
		h.logger.Debug("GraphQL errors",
			zap.String("operation", req.OperationName),
			zap.Any("errors", result.Errors),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.Error("Failed to encode GraphQL result", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"errors": []map[string]string{{"message": message}},
	})
}
