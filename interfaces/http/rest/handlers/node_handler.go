package handlers

import (
	"net/http"

	"botflow-backend/application/queries"
	"botflow-backend/domain/entities"
	"botflow-backend/infrastructure/persistence/jsonstore"
	"botflow-backend/pkg/common"
	apperrors "botflow-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NodeHandler serves the node endpoints.
type NodeHandler struct {
	store     *jsonstore.Store
	relations *queries.Relations
	errors    *apperrors.ErrorHandler
	logger    *zap.Logger
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(store *jsonstore.Store, relations *queries.Relations, errHandler *apperrors.ErrorHandler, logger *zap.Logger) *NodeHandler {
	return &NodeHandler{
		store:     store,
		relations: relations,
		errors:    errHandler,
		logger:    logger,
	}
}

// NodeRelations is the fully joined view of one node.
type NodeRelations struct {
	Node      entities.Node        `json:"node"`
	Trigger   *TriggerWithTemplate `json:"trigger"`
	Responses []entities.Response  `json:"responses"`
	Actions   []ActionWithTemplate `json:"actions"`
	Parents   []entities.Node      `json:"parents"`
}

// TriggerWithTemplate pairs a trigger with its resolved template.
type TriggerWithTemplate struct {
	entities.Trigger
	ResourceTemplate *entities.ResourceTemplate `json:"resourceTemplate"`
}

// ActionWithTemplate pairs an action with its resolved template.
type ActionWithTemplate struct {
	entities.Action
	ResourceTemplate *entities.ResourceTemplate `json:"resourceTemplate"`
}

// ListNodes handles GET /api/nodes
func (h *NodeHandler) ListNodes(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.store.Nodes()
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	filtered := queries.FilterNodes(nodes, nodeFilterFromQuery(r))
	params := common.ParsePageParams(r)
	page := common.PageSlice(filtered, params)

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"nodes":      page,
		"pagination": common.BuildPageInfo(params.Page, params.Limit, len(filtered)),
	})
}

// GetNode handles GET /api/nodes/{nodeID}
func (h *NodeHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	node, err := h.lookupNode(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, node)
}

// GetNodeRelations handles GET /api/nodes/{nodeID}/relations
func (h *NodeHandler) GetNodeRelations(w http.ResponseWriter, r *http.Request) {
	node, err := h.lookupNode(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result := NodeRelations{
		Node:      *node,
		Responses: h.relations.NodeResponses(*node),
		Actions:   []ActionWithTemplate{},
		Parents:   h.relations.NodeParents(*node),
	}
	if trigger := h.relations.NodeTrigger(*node); trigger != nil {
		result.Trigger = &TriggerWithTemplate{
			Trigger:          *trigger,
			ResourceTemplate: h.relations.TriggerResourceTemplate(*trigger),
		}
	}
	for _, action := range h.relations.NodeActions(*node) {
		result.Actions = append(result.Actions, ActionWithTemplate{
			Action:           action,
			ResourceTemplate: h.relations.ActionResourceTemplate(action),
		})
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// GetNodeStats handles GET /api/nodes/stats
func (h *NodeHandler) GetNodeStats(w http.ResponseWriter, r *http.Request) {
	stats, err := queries.CollectNodeStats(h.store)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, stats)
}

func (h *NodeHandler) lookupNode(r *http.Request) (*entities.Node, error) {
	nodeID := chi.URLParam(r, "nodeID")
	if nodeID == "" {
		return nil, apperrors.NewValidationError("Node ID is required")
	}
	node, err := h.store.Node(nodeID)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, apperrors.NewNotFoundError("Node")
	}
	return node, nil
}

// nodeFilterFromQuery reads the node filter from query parameters. A
// parameter that is present-but-false must stay distinct from an
// absent one, so presence is checked before parsing.
func nodeFilterFromQuery(r *http.Request) queries.NodeFilter {
	q := r.URL.Query()
	var f queries.NodeFilter

	if q.Has("name") {
		name := q.Get("name")
		f.Name = &name
	}
	if q.Has("root") {
		root := q.Get("root") == "true"
		f.Root = &root
	}
	if q.Has("global") {
		global := q.Get("global") == "true"
		f.Global = &global
	}
	if q.Has("colour") {
		colour := q.Get("colour")
		f.Colour = &colour
	}
	return f
}
