package queries

import (
	"botflow-backend/domain/entities"
	"botflow-backend/infrastructure/persistence/jsonstore"
)

// Relations joins entities across collections via their foreign keys.
// Every method is null-safe: a missing or dangling reference resolves
// to nil or an empty slice, never an error. Store errors only occur
// before initialization and surface as empty results here; callers
// behind the HTTP boundary never see a half-loaded store.
type Relations struct {
	store *jsonstore.Store
}

// NewRelations creates a relation resolver over the store.
func NewRelations(store *jsonstore.Store) *Relations {
	return &Relations{store: store}
}

// NodeTrigger resolves a node's trigger, or nil.
func (r *Relations) NodeTrigger(n entities.Node) *entities.Trigger {
	if n.TriggerID == nil {
		return nil
	}
	trigger, err := r.store.Trigger(*n.TriggerID)
	if err != nil {
		return nil
	}
	return trigger
}

// NodeResponses resolves a node's responses in store order.
func (r *Relations) NodeResponses(n entities.Node) []entities.Response {
	if len(n.Responses) == 0 {
		return []entities.Response{}
	}
	responses, err := r.store.ResponsesByIDs(n.Responses)
	if err != nil {
		return []entities.Response{}
	}
	return responses
}

// NodeActions resolves a node's actions in store order.
func (r *Relations) NodeActions(n entities.Node) []entities.Action {
	if len(n.Actions) == 0 {
		return []entities.Action{}
	}
	actions, err := r.store.ActionsByIDs(n.Actions)
	if err != nil {
		return []entities.Action{}
	}
	return actions
}

// NodeParents resolves a node's parent nodes. A parent is any node
// whose children list shares a composite id with this node's parents
// list; there is no forward pointer to follow.
func (r *Relations) NodeParents(n entities.Node) []entities.Node {
	if len(n.Parents) == 0 {
		return []entities.Node{}
	}
	parents, err := r.store.FindParentsByCompositeIDs(n.Parents)
	if err != nil || parents == nil {
		return []entities.Node{}
	}
	return parents
}

// TriggerResourceTemplate resolves a trigger's template, or nil.
func (r *Relations) TriggerResourceTemplate(t entities.Trigger) *entities.ResourceTemplate {
	return r.resourceTemplate(t.ResourceTemplateID)
}

// ActionResourceTemplate resolves an action's template, or nil.
func (r *Relations) ActionResourceTemplate(a entities.Action) *entities.ResourceTemplate {
	return r.resourceTemplate(a.ResourceTemplateID)
}

func (r *Relations) resourceTemplate(id *string) *entities.ResourceTemplate {
	if id == nil {
		return nil
	}
	rt, err := r.store.ResourceTemplate(*id)
	if err != nil {
		return nil
	}
	return rt
}
