// Package graphql exposes the record store through a GraphQL schema
// built at startup. Authentication happens per field: health is
// public, everything else checks the caller's role against the
// permission table.
package graphql

import (
	"encoding/json"

	gql "github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
)

// jsonScalar passes opaque JSON payloads (template schemas, response
// variation bodies) through without imposing a shape on them.
var jsonScalar = gql.NewScalar(gql.ScalarConfig{
	Name:        "JSON",
	Description: "Arbitrary JSON payload, passed through untouched.",
	Serialize: func(value interface{}) interface{} {
		if raw, ok := value.(json.RawMessage); ok {
			if len(raw) == 0 {
				return nil
			}
			var out interface{}
			if err := json.Unmarshal(raw, &out); err != nil {
				return nil
			}
			return out
		}
		return value
	},
	ParseValue: func(value interface{}) interface{} {
		return value
	},
	ParseLiteral: func(valueAST ast.Value) interface{} {
		return valueAST.GetValue()
	},
})

var pageInfoType = gql.NewObject(gql.ObjectConfig{
	Name: "PageInfo",
	Fields: gql.Fields{
		"hasNextPage":     &gql.Field{Type: gql.NewNonNull(gql.Boolean)},
		"hasPreviousPage": &gql.Field{Type: gql.NewNonNull(gql.Boolean)},
		"startCursor":     &gql.Field{Type: gql.String},
		"endCursor":       &gql.Field{Type: gql.String},
	},
})

// connectionType builds the {edges, pageInfo, totalCount} pair of
// types for one entity.
func connectionType(name string, itemType *gql.Object) *gql.Object {
	edgeType := gql.NewObject(gql.ObjectConfig{
		Name: name + "Edge",
		Fields: gql.Fields{
			"cursor": &gql.Field{Type: gql.NewNonNull(gql.String)},
			"node":   &gql.Field{Type: itemType},
		},
	})
	return gql.NewObject(gql.ObjectConfig{
		Name: name + "Connection",
		Fields: gql.Fields{
			"edges":      &gql.Field{Type: gql.NewList(edgeType)},
			"pageInfo":   &gql.Field{Type: pageInfoType},
			"totalCount": &gql.Field{Type: gql.Int},
		},
	})
}

var nodeFilterInput = gql.NewInputObject(gql.InputObjectConfig{
	Name: "NodeFilter",
	Fields: gql.InputObjectConfigFieldMap{
		"name":   &gql.InputObjectFieldConfig{Type: gql.String},
		"root":   &gql.InputObjectFieldConfig{Type: gql.Boolean},
		"global": &gql.InputObjectFieldConfig{Type: gql.Boolean},
		"colour": &gql.InputObjectFieldConfig{Type: gql.String},
	},
})

var triggerFilterInput = gql.NewInputObject(gql.InputObjectConfig{
	Name: "TriggerFilter",
	Fields: gql.InputObjectConfigFieldMap{
		"name":               &gql.InputObjectFieldConfig{Type: gql.String},
		"resourceTemplateId": &gql.InputObjectFieldConfig{Type: gql.ID},
	},
})

var actionFilterInput = gql.NewInputObject(gql.InputObjectConfig{
	Name: "ActionFilter",
	Fields: gql.InputObjectConfigFieldMap{
		"name":               &gql.InputObjectFieldConfig{Type: gql.String},
		"resourceTemplateId": &gql.InputObjectFieldConfig{Type: gql.ID},
	},
})

var responseFilterInput = gql.NewInputObject(gql.InputObjectConfig{
	Name: "ResponseFilter",
	Fields: gql.InputObjectConfigFieldMap{
		"name": &gql.InputObjectFieldConfig{Type: gql.String},
	},
})

var resourceTemplateFilterInput = gql.NewInputObject(gql.InputObjectConfig{
	Name: "ResourceTemplateFilter",
	Fields: gql.InputObjectConfigFieldMap{
		"name":          &gql.InputObjectFieldConfig{Type: gql.String},
		"integrationId": &gql.InputObjectFieldConfig{Type: gql.ID},
		"key":           &gql.InputObjectFieldConfig{Type: gql.String},
	},
})

// NewSchema builds the executable schema around a resolver.
func NewSchema(r *Resolver) (gql.Schema, error) {
	responseVariationType := gql.NewObject(gql.ObjectConfig{
		Name: "ResponseVariation",
		Fields: gql.Fields{
			"name":      &gql.Field{Type: gql.String},
			"responses": &gql.Field{Type: jsonScalar},
		},
	})

	responseLocaleGroupType := gql.NewObject(gql.ObjectConfig{
		Name: "ResponseLocaleGroup",
		Fields: gql.Fields{
			"localeGroupId": &gql.Field{Type: gql.ID},
			"variations":    &gql.Field{Type: gql.NewList(responseVariationType)},
		},
	})

	responsePlatformType := gql.NewObject(gql.ObjectConfig{
		Name: "ResponsePlatform",
		Fields: gql.Fields{
			"integrationId": &gql.Field{Type: gql.ID},
			"build":         &gql.Field{Type: gql.Float},
			"localeGroups":  &gql.Field{Type: gql.NewList(responseLocaleGroupType)},
		},
	})

	responseType := gql.NewObject(gql.ObjectConfig{
		Name: "Response",
		Fields: gql.Fields{
			"id":        &gql.Field{Type: gql.NewNonNull(gql.ID), Resolve: r.responseID},
			"name":      &gql.Field{Type: gql.String},
			"platforms": &gql.Field{Type: gql.NewList(responsePlatformType)},
		},
	})

	resourceTemplateType := gql.NewObject(gql.ObjectConfig{
		Name: "ResourceTemplate",
		Fields: gql.Fields{
			"id":             &gql.Field{Type: gql.NewNonNull(gql.ID), Resolve: r.resourceTemplateID},
			"name":           &gql.Field{Type: gql.String},
			"description":    &gql.Field{Type: gql.String},
			"schema":         &gql.Field{Type: jsonScalar},
			"integrationId":  &gql.Field{Type: gql.ID},
			"functionString": &gql.Field{Type: gql.String},
			"key":            &gql.Field{Type: gql.String},
		},
	})

	triggerType := gql.NewObject(gql.ObjectConfig{
		Name: "Trigger",
		Fields: gql.Fields{
			"id":                 &gql.Field{Type: gql.NewNonNull(gql.ID), Resolve: r.triggerID},
			"name":               &gql.Field{Type: gql.String},
			"description":        &gql.Field{Type: gql.String},
			"functionString":     &gql.Field{Type: gql.String},
			"resourceTemplateId": &gql.Field{Type: gql.ID},
			"resourceTemplate":   &gql.Field{Type: resourceTemplateType, Resolve: r.triggerResourceTemplate},
		},
	})

	actionType := gql.NewObject(gql.ObjectConfig{
		Name: "Action",
		Fields: gql.Fields{
			"id":                 &gql.Field{Type: gql.NewNonNull(gql.ID), Resolve: r.actionID},
			"name":               &gql.Field{Type: gql.String},
			"description":        &gql.Field{Type: gql.String},
			"functionString":     &gql.Field{Type: gql.String},
			"resourceTemplateId": &gql.Field{Type: gql.ID},
			"resourceTemplate":   &gql.Field{Type: resourceTemplateType, Resolve: r.actionResourceTemplate},
		},
	})

	nodeType := gql.NewObject(gql.ObjectConfig{
		Name: "NodeObject",
		Fields: gql.Fields{
			"id":          &gql.Field{Type: gql.NewNonNull(gql.ID), Resolve: r.nodeID},
			"name":        &gql.Field{Type: gql.String},
			"description": &gql.Field{Type: gql.String},
			"root":        &gql.Field{Type: gql.Boolean},
			"global":      &gql.Field{Type: gql.Boolean},
			"colour":      &gql.Field{Type: gql.String},
			"priority":    &gql.Field{Type: gql.Float},
			"triggerId":   &gql.Field{Type: gql.ID},
			"trigger":     &gql.Field{Type: triggerType, Resolve: r.nodeTrigger},
			"responses":   &gql.Field{Type: gql.NewList(responseType), Resolve: r.nodeResponses},
			"actions":     &gql.Field{Type: gql.NewList(actionType), Resolve: r.nodeActions},
		},
	})
	// parents is self-referential and added after construction
	nodeType.AddFieldConfig("parents", &gql.Field{
		Type:    gql.NewList(nodeType),
		Resolve: r.nodeParents,
	})

	healthType := gql.NewObject(gql.ObjectConfig{
		Name: "Health",
		Fields: gql.Fields{
			"status":    &gql.Field{Type: gql.NewNonNull(gql.String)},
			"timestamp": &gql.Field{Type: gql.String},
		},
	})

	statsType := gql.NewObject(gql.ObjectConfig{
		Name: "Stats",
		Fields: gql.Fields{
			"nodes":             &gql.Field{Type: gql.Int},
			"triggers":          &gql.Field{Type: gql.Int},
			"actions":           &gql.Field{Type: gql.Int},
			"responses":         &gql.Field{Type: gql.Int},
			"resourceTemplates": &gql.Field{Type: gql.Int},
			"rootNodes":         &gql.Field{Type: gql.Int},
			"globalNodes":       &gql.Field{Type: gql.Int},
		},
	})

	queryType := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"health": &gql.Field{
				Type:    healthType,
				Resolve: r.health,
			},
			"stats": &gql.Field{
				Type:    statsType,
				Resolve: r.stats,
			},
			"node": &gql.Field{
				Type: nodeType,
				Args: gql.FieldConfigArgument{
					"nodeId": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.ID)},
				},
				Resolve: r.node,
			},
			"nodes": &gql.Field{
				Type:    connectionType("Node", nodeType),
				Args:    paginatedArgs(nodeFilterInput),
				Resolve: r.nodes,
			},
			"trigger": &gql.Field{
				Type: triggerType,
				Args: gql.FieldConfigArgument{
					"triggerId": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.ID)},
				},
				Resolve: r.trigger,
			},
			"triggers": &gql.Field{
				Type:    connectionType("Trigger", triggerType),
				Args:    paginatedArgs(triggerFilterInput),
				Resolve: r.triggers,
			},
			"action": &gql.Field{
				Type: actionType,
				Args: gql.FieldConfigArgument{
					"actionId": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.ID)},
				},
				Resolve: r.action,
			},
			"actions": &gql.Field{
				Type:    connectionType("Action", actionType),
				Args:    paginatedArgs(actionFilterInput),
				Resolve: r.actions,
			},
			"response": &gql.Field{
				Type: responseType,
				Args: gql.FieldConfigArgument{
					"responseId": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.ID)},
				},
				Resolve: r.response,
			},
			"responses": &gql.Field{
				Type:    connectionType("Response", responseType),
				Args:    paginatedArgs(responseFilterInput),
				Resolve: r.responses,
			},
			"resourceTemplate": &gql.Field{
				Type: resourceTemplateType,
				Args: gql.FieldConfigArgument{
					"resourceTemplateId": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.ID)},
				},
				Resolve: r.resourceTemplate,
			},
			"resourceTemplates": &gql.Field{
				Type:    connectionType("ResourceTemplate", resourceTemplateType),
				Args:    paginatedArgs(resourceTemplateFilterInput),
				Resolve: r.resourceTemplates,
			},
		},
	})

	return gql.NewSchema(gql.SchemaConfig{Query: queryType})
}

// paginatedArgs builds the argument set shared by all list fields.
func paginatedArgs(filterInput *gql.InputObject) gql.FieldConfigArgument {
	return gql.FieldConfigArgument{
		"first":  &gql.ArgumentConfig{Type: gql.Int, DefaultValue: 10},
		"after":  &gql.ArgumentConfig{Type: gql.String},
		"filter": &gql.ArgumentConfig{Type: filterInput},
	}
}
