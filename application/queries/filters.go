// Package queries implements the read side of the API: collection
// filters, offset and cursor pagination, relation joins, and stats
// aggregation over the immutable record store.
package queries

import (
	"strings"

	"botflow-backend/domain/entities"
)

// Filter fields use pointers so that an absent filter and a filter set
// to a zero value stay distinguishable; nil means "not applied".
// Filters combine with logical AND and preserve input order.

// NodeFilter selects nodes by name substring (case-insensitive), exact
// root/global flags, and exact colour.
type NodeFilter struct {
	Name   *string
	Root   *bool
	Global *bool
	Colour *string
}

// FilterNodes applies f to nodes, preserving order.
func FilterNodes(nodes []entities.Node, f NodeFilter) []entities.Node {
	out := []entities.Node{}
	for _, n := range nodes {
		if f.Name != nil && !containsFold(n.Name, *f.Name) {
			continue
		}
		if f.Root != nil && n.Root != *f.Root {
			continue
		}
		if f.Global != nil && n.Global != *f.Global {
			continue
		}
		if f.Colour != nil && (n.Colour == nil || *n.Colour != *f.Colour) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// TriggerFilter selects triggers by name substring and exact resource
// template id.
type TriggerFilter struct {
	Name               *string
	ResourceTemplateID *string
}

// FilterTriggers applies f to triggers, preserving order.
func FilterTriggers(triggers []entities.Trigger, f TriggerFilter) []entities.Trigger {
	out := []entities.Trigger{}
	for _, t := range triggers {
		if f.Name != nil && !containsFold(t.Name, *f.Name) {
			continue
		}
		if f.ResourceTemplateID != nil && (t.ResourceTemplateID == nil || *t.ResourceTemplateID != *f.ResourceTemplateID) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// ActionFilter selects actions by name substring and exact resource
// template id.
type ActionFilter struct {
	Name               *string
	ResourceTemplateID *string
}

// FilterActions applies f to actions, preserving order.
func FilterActions(actions []entities.Action, f ActionFilter) []entities.Action {
	out := []entities.Action{}
	for _, a := range actions {
		if f.Name != nil && !containsFold(a.Name, *f.Name) {
			continue
		}
		if f.ResourceTemplateID != nil && (a.ResourceTemplateID == nil || *a.ResourceTemplateID != *f.ResourceTemplateID) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// ResponseFilter selects responses by name substring.
type ResponseFilter struct {
	Name *string
}

// FilterResponses applies f to responses, preserving order.
func FilterResponses(responses []entities.Response, f ResponseFilter) []entities.Response {
	out := []entities.Response{}
	for _, r := range responses {
		if f.Name != nil && !containsFold(r.Name, *f.Name) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ResourceTemplateFilter selects resource templates by name substring
// and exact integration id / key.
type ResourceTemplateFilter struct {
	Name          *string
	IntegrationID *string
	Key           *string
}

// FilterResourceTemplates applies f to templates, preserving order.
func FilterResourceTemplates(templates []entities.ResourceTemplate, f ResourceTemplateFilter) []entities.ResourceTemplate {
	out := []entities.ResourceTemplate{}
	for _, rt := range templates {
		if f.Name != nil && !containsFold(rt.Name, *f.Name) {
			continue
		}
		if f.IntegrationID != nil && (rt.IntegrationID == nil || *rt.IntegrationID != *f.IntegrationID) {
			continue
		}
		if f.Key != nil && (rt.Key == nil || *rt.Key != *f.Key) {
			continue
		}
		out = append(out, rt)
	}
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
