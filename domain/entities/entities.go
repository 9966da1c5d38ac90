// Package entities defines the five record types served by the API.
// Records are loaded once from disk and are immutable for the lifetime
// of the process; identity is the `_id` field, unique per collection.
package entities

import "encoding/json"

// Collection names. These double as the resource names consulted by the
// permission table and as the base names of the on-disk JSON files.
const (
	CollectionNodes             = "nodes"
	CollectionTriggers          = "triggers"
	CollectionActions           = "actions"
	CollectionResponses         = "responses"
	CollectionResourceTemplates = "resourceTemplates"
)

// Collections lists every collection name in a stable order.
var Collections = []string{
	CollectionNodes,
	CollectionTriggers,
	CollectionActions,
	CollectionResponses,
	CollectionResourceTemplates,
}

// Record is the common view over all collection members.
type Record interface {
	RecordID() string
}

// Node is a step in a conversation flow. Parents and Children hold
// composite edge identifiers: an id in a node's Parents list appears in
// the Children list of each of its parent nodes. There is no forward
// parent pointer; parent resolution is a reverse scan over Children.
type Node struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	Root        bool     `json:"root"`
	Global      bool     `json:"global"`
	Colour      *string  `json:"colour,omitempty"`
	Priority    *float64 `json:"priority,omitempty"`
	TriggerID   *string  `json:"triggerId,omitempty"`
	Responses   []string `json:"responses,omitempty"`
	Actions     []string `json:"actions,omitempty"`
	Parents     []string `json:"parents,omitempty"`
	Children    []string `json:"children,omitempty"`
}

// Trigger starts a flow when its condition matches.
type Trigger struct {
	ID                 string  `json:"_id"`
	Name               string  `json:"name"`
	Description        *string `json:"description,omitempty"`
	FunctionString     *string `json:"functionString,omitempty"`
	ResourceTemplateID *string `json:"resourceTemplateId,omitempty"`
}

// Action is a side effect executed when a node runs.
type Action struct {
	ID                 string  `json:"_id"`
	Name               string  `json:"name"`
	Description        *string `json:"description,omitempty"`
	FunctionString     *string `json:"functionString,omitempty"`
	ResourceTemplateID *string `json:"resourceTemplateId,omitempty"`
}

// Response is a message sent back to the user, with per-platform and
// per-locale variations. The variation payload is opaque to this
// service and passed through untouched.
type Response struct {
	ID        string             `json:"_id"`
	Name      string             `json:"name"`
	Platforms []ResponsePlatform `json:"platforms,omitempty"`
}

// ResponsePlatform holds the response content for one integration.
type ResponsePlatform struct {
	IntegrationID string                `json:"integrationId,omitempty"`
	Build         *float64              `json:"build,omitempty"`
	LocaleGroups  []ResponseLocaleGroup `json:"localeGroups,omitempty"`
}

// ResponseLocaleGroup groups variations for one locale.
type ResponseLocaleGroup struct {
	LocaleGroupID string              `json:"localeGroupId,omitempty"`
	Variations    []ResponseVariation `json:"variations,omitempty"`
}

// ResponseVariation is one named rendering of a response.
type ResponseVariation struct {
	Name      string          `json:"name,omitempty"`
	Responses json.RawMessage `json:"responses,omitempty"`
}

// ResourceTemplate describes an external resource a trigger or action
// is built from. Schema is an opaque JSON document.
type ResourceTemplate struct {
	ID             string          `json:"_id"`
	Name           string          `json:"name"`
	Description    *string         `json:"description,omitempty"`
	Schema         json.RawMessage `json:"schema,omitempty"`
	IntegrationID  *string         `json:"integrationId,omitempty"`
	FunctionString *string         `json:"functionString,omitempty"`
	Key            *string         `json:"key,omitempty"`
}

func (n Node) RecordID() string             { return n.ID }
func (t Trigger) RecordID() string          { return t.ID }
func (a Action) RecordID() string           { return a.ID }
func (r Response) RecordID() string         { return r.ID }
func (r ResourceTemplate) RecordID() string { return r.ID }
