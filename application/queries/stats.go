package queries

import (
	"botflow-backend/domain/entities"
	"botflow-backend/infrastructure/persistence/jsonstore"
)

// Stats summarizes the loaded collections.
type Stats struct {
	Nodes             int `json:"nodes"`
	Triggers          int `json:"triggers"`
	Actions           int `json:"actions"`
	Responses         int `json:"responses"`
	ResourceTemplates int `json:"resourceTemplates"`
	RootNodes         int `json:"rootNodes"`
	GlobalNodes       int `json:"globalNodes"`
}

// NodeStats summarizes the node collection.
type NodeStats struct {
	Total    int            `json:"total"`
	Root     int            `json:"root"`
	Global   int            `json:"global"`
	ByColour map[string]int `json:"byColour"`
}

// CollectStats aggregates counts across all collections.
func CollectStats(store *jsonstore.Store) (*Stats, error) {
	counts, err := store.Counts()
	if err != nil {
		return nil, err
	}
	nodes, err := store.Nodes()
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Nodes:             counts[entities.CollectionNodes],
		Triggers:          counts[entities.CollectionTriggers],
		Actions:           counts[entities.CollectionActions],
		Responses:         counts[entities.CollectionResponses],
		ResourceTemplates: counts[entities.CollectionResourceTemplates],
	}
	for _, n := range nodes {
		if n.Root {
			stats.RootNodes++
		}
		if n.Global {
			stats.GlobalNodes++
		}
	}
	return stats, nil
}

// CollectNodeStats aggregates the node flag and colour breakdown.
func CollectNodeStats(store *jsonstore.Store) (*NodeStats, error) {
	nodes, err := store.Nodes()
	if err != nil {
		return nil, err
	}

	stats := &NodeStats{
		Total:    len(nodes),
		ByColour: map[string]int{},
	}
	for _, n := range nodes {
		if n.Root {
			stats.Root++
		}
		if n.Global {
			stats.Global++
		}
		if n.Colour != nil && *n.Colour != "" {
			stats.ByColour[*n.Colour]++
		}
	}
	return stats, nil
}
