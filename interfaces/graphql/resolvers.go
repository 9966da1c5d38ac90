package graphql

import (
	"errors"
	"time"

	"botflow-backend/application/queries"
	"botflow-backend/domain/entities"
	"botflow-backend/infrastructure/persistence/jsonstore"
	"botflow-backend/pkg/auth"

	gql "github.com/graphql-go/graphql"
)

// Resolver carries the dependencies shared by every field resolver.
type Resolver struct {
	store     *jsonstore.Store
	relations *queries.Relations
}

// NewResolver creates a resolver over the store.
func NewResolver(store *jsonstore.Store, relations *queries.Relations) *Resolver {
	return &Resolver{store: store, relations: relations}
}

// requireAuth fails unless the request carried a valid token. The
// error message mirrors what the auth context recorded, so a missing
// header reads "No token provided".
func requireAuth(p gql.ResolveParams) (*auth.Claims, error) {
	ac := auth.FromContext(p.Context)
	if !ac.Authenticated {
		msg := ac.Error
		if msg == "" {
			msg = "Authentication required"
		}
		return nil, errors.New(msg)
	}
	return ac.User, nil
}

// requireRead fails unless the caller's role may read the resource.
func requireRead(p gql.ResolveParams, resource string) error {
	claims, err := requireAuth(p)
	if err != nil {
		return err
	}
	if !auth.HasPermission(claims.Role, resource, auth.PermissionRead) {
		return errors.New("Insufficient permissions")
	}
	return nil
}

// Meta fields

func (r *Resolver) health(p gql.ResolveParams) (interface{}, error) {
	return map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	}, nil
}

func (r *Resolver) stats(p gql.ResolveParams) (interface{}, error) {
	if _, err := requireAuth(p); err != nil {
		return nil, err
	}
	return queries.CollectStats(r.store)
}

// Node fields

func (r *Resolver) node(p gql.ResolveParams) (interface{}, error) {
	if err := requireRead(p, entities.CollectionNodes); err != nil {
		return nil, err
	}
	id, _ := p.Args["nodeId"].(string)
	node, err := r.store.Node(id)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, nil
	}
	return *node, nil
}

func (r *Resolver) nodes(p gql.ResolveParams) (interface{}, error) {
	if err := requireRead(p, entities.CollectionNodes); err != nil {
		return nil, err
	}
	nodes, err := r.store.Nodes()
	if err != nil {
		return nil, err
	}

	f := queries.NodeFilter{}
	if filter, ok := p.Args["filter"].(map[string]interface{}); ok {
		if v, ok := filter["name"].(string); ok {
			f.Name = &v
		}
		if v, ok := filter["root"].(bool); ok {
			f.Root = &v
		}
		if v, ok := filter["global"].(bool); ok {
			f.Global = &v
		}
		if v, ok := filter["colour"].(string); ok {
			f.Colour = &v
		}
	}

	first, after := paginationArgs(p.Args)
	return queries.Connect(queries.FilterNodes(nodes, f), first, after), nil
}

func (r *Resolver) nodeID(p gql.ResolveParams) (interface{}, error) {
	if n, ok := nodeFromSource(p.Source); ok {
		return n.ID, nil
	}
	return nil, nil
}

func (r *Resolver) nodeTrigger(p gql.ResolveParams) (interface{}, error) {
	if n, ok := nodeFromSource(p.Source); ok {
		if trigger := r.relations.NodeTrigger(n); trigger != nil {
			return *trigger, nil
		}
	}
	return nil, nil
}

func (r *Resolver) nodeResponses(p gql.ResolveParams) (interface{}, error) {
	if n, ok := nodeFromSource(p.Source); ok {
		return r.relations.NodeResponses(n), nil
	}
	return []entities.Response{}, nil
}

func (r *Resolver) nodeActions(p gql.ResolveParams) (interface{}, error) {
	if n, ok := nodeFromSource(p.Source); ok {
		return r.relations.NodeActions(n), nil
	}
	return []entities.Action{}, nil
}

func (r *Resolver) nodeParents(p gql.ResolveParams) (interface{}, error) {
	if n, ok := nodeFromSource(p.Source); ok {
		return r.relations.NodeParents(n), nil
	}
	return []entities.Node{}, nil
}

// Trigger fields

func (r *Resolver) trigger(p gql.ResolveParams) (interface{}, error) {
	if err := requireRead(p, entities.CollectionTriggers); err != nil {
		return nil, err
	}
	id, _ := p.Args["triggerId"].(string)
	trigger, err := r.store.Trigger(id)
	if err != nil {
		return nil, err
	}
	if trigger == nil {
		return nil, nil
	}
	return *trigger, nil
}

func (r *Resolver) triggers(p gql.ResolveParams) (interface{}, error) {
	if err := requireRead(p, entities.CollectionTriggers); err != nil {
		return nil, err
	}
	triggers, err := r.store.Triggers()
	if err != nil {
		return nil, err
	}

	f := queries.TriggerFilter{}
	if filter, ok := p.Args["filter"].(map[string]interface{}); ok {
		if v, ok := filter["name"].(string); ok {
			f.Name = &v
		}
		if v, ok := filter["resourceTemplateId"].(string); ok {
			f.ResourceTemplateID = &v
		}
	}

	first, after := paginationArgs(p.Args)
	return queries.Connect(queries.FilterTriggers(triggers, f), first, after), nil
}

func (r *Resolver) triggerID(p gql.ResolveParams) (interface{}, error) {
	if t, ok := triggerFromSource(p.Source); ok {
		return t.ID, nil
	}
	return nil, nil
}

func (r *Resolver) triggerResourceTemplate(p gql.ResolveParams) (interface{}, error) {
	if t, ok := triggerFromSource(p.Source); ok {
		if rt := r.relations.TriggerResourceTemplate(t); rt != nil {
			return *rt, nil
		}
	}
	return nil, nil
}

// Action fields

func (r *Resolver) action(p gql.ResolveParams) (interface{}, error) {
	if err := requireRead(p, entities.CollectionActions); err != nil {
		return nil, err
	}
	id, _ := p.Args["actionId"].(string)
	action, err := r.store.Action(id)
	if err != nil {
		return nil, err
	}
	if action == nil {
		return nil, nil
	}
	return *action, nil
}

func (r *Resolver) actions(p gql.ResolveParams) (interface{}, error) {
	if err := requireRead(p, entities.CollectionActions); err != nil {
		return nil, err
	}
	actions, err := r.store.Actions()
	if err != nil {
		return nil, err
	}

	f := queries.ActionFilter{}
	if filter, ok := p.Args["filter"].(map[string]interface{}); ok {
		if v, ok := filter["name"].(string); ok {
			f.Name = &v
		}
		if v, ok := filter["resourceTemplateId"].(string); ok {
			f.ResourceTemplateID = &v
		}
	}

	first, after := paginationArgs(p.Args)
	return queries.Connect(queries.FilterActions(actions, f), first, after), nil
}

func (r *Resolver) actionID(p gql.ResolveParams) (interface{}, error) {
	if a, ok := actionFromSource(p.Source); ok {
		return a.ID, nil
	}
	return nil, nil
}

func (r *Resolver) actionResourceTemplate(p gql.ResolveParams) (interface{}, error) {
	if a, ok := actionFromSource(p.Source); ok {
		if rt := r.relations.ActionResourceTemplate(a); rt != nil {
			return *rt, nil
		}
	}
	return nil, nil
}

// Response fields

func (r *Resolver) response(p gql.ResolveParams) (interface{}, error) {
	if err := requireRead(p, entities.CollectionResponses); err != nil {
		return nil, err
	}
	id, _ := p.Args["responseId"].(string)
	response, err := r.store.Response(id)
	if err != nil {
		return nil, err
	}
	if response == nil {
		return nil, nil
	}
	return *response, nil
}

func (r *Resolver) responses(p gql.ResolveParams) (interface{}, error) {
	if err := requireRead(p, entities.CollectionResponses); err != nil {
		return nil, err
	}
	responses, err := r.store.Responses()
	if err != nil {
		return nil, err
	}

	f := queries.ResponseFilter{}
	if filter, ok := p.Args["filter"].(map[string]interface{}); ok {
		if v, ok := filter["name"].(string); ok {
			f.Name = &v
		}
	}

	first, after := paginationArgs(p.Args)
	return queries.Connect(queries.FilterResponses(responses, f), first, after), nil
}

func (r *Resolver) responseID(p gql.ResolveParams) (interface{}, error) {
	switch v := p.Source.(type) {
	case entities.Response:
		return v.ID, nil
	case *entities.Response:
		if v != nil {
			return v.ID, nil
		}
	}
	return nil, nil
}

// ResourceTemplate fields

func (r *Resolver) resourceTemplate(p gql.ResolveParams) (interface{}, error) {
	if err := requireRead(p, entities.CollectionResourceTemplates); err != nil {
		return nil, err
	}
	id, _ := p.Args["resourceTemplateId"].(string)
	rt, err := r.store.ResourceTemplate(id)
	if err != nil {
		return nil, err
	}
	if rt == nil {
		return nil, nil
	}
	return *rt, nil
}

func (r *Resolver) resourceTemplates(p gql.ResolveParams) (interface{}, error) {
	if err := requireRead(p, entities.CollectionResourceTemplates); err != nil {
		return nil, err
	}
	templates, err := r.store.ResourceTemplates()
	if err != nil {
		return nil, err
	}

	f := queries.ResourceTemplateFilter{}
	if filter, ok := p.Args["filter"].(map[string]interface{}); ok {
		if v, ok := filter["name"].(string); ok {
			f.Name = &v
		}
		if v, ok := filter["integrationId"].(string); ok {
			f.IntegrationID = &v
		}
		if v, ok := filter["key"].(string); ok {
			f.Key = &v
		}
	}

	first, after := paginationArgs(p.Args)
	return queries.Connect(queries.FilterResourceTemplates(templates, f), first, after), nil
}

func (r *Resolver) resourceTemplateID(p gql.ResolveParams) (interface{}, error) {
	switch v := p.Source.(type) {
	case entities.ResourceTemplate:
		return v.ID, nil
	case *entities.ResourceTemplate:
		if v != nil {
			return v.ID, nil
		}
	}
	return nil, nil
}

// Source helpers. List fields hold entity values while single-record
// fields return pointers, so both shapes show up as sources.

func nodeFromSource(src interface{}) (entities.Node, bool) {
	switch v := src.(type) {
	case entities.Node:
		return v, true
	case *entities.Node:
		if v != nil {
			return *v, true
		}
	}
	return entities.Node{}, false
}

func triggerFromSource(src interface{}) (entities.Trigger, bool) {
	switch v := src.(type) {
	case entities.Trigger:
		return v, true
	case *entities.Trigger:
		if v != nil {
			return *v, true
		}
	}
	return entities.Trigger{}, false
}

func actionFromSource(src interface{}) (entities.Action, bool) {
	switch v := src.(type) {
	case entities.Action:
		return v, true
	case *entities.Action:
		if v != nil {
			return *v, true
		}
	}
	return entities.Action{}, false
}

func paginationArgs(args map[string]interface{}) (int, string) {
	first := 10
	if v, ok := args["first"].(int); ok {
		first = v
	}
	after := ""
	if v, ok := args["after"].(string); ok {
		after = v
	}
	return first, after
}
