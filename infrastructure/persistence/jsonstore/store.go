// Package jsonstore implements the in-memory record store backing the
// API. The five collections are read from disk exactly once at startup
// and never mutated afterwards, so every lookup is a pure read over
// immutable slices and safe for concurrent use without locking.
package jsonstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"botflow-backend/domain/entities"

	"go.uber.org/zap"
)

var (
	ErrNotInitialized    = errors.New("store not initialized")
	ErrUnknownCollection = errors.New("unknown collection")
)

// File base names per collection, fixed by the on-disk layout.
var collectionFiles = map[string]string{
	entities.CollectionNodes:             "node.json",
	entities.CollectionTriggers:          "trigger.json",
	entities.CollectionActions:           "action.json",
	entities.CollectionResponses:         "response.json",
	entities.CollectionResourceTemplates: "resourceTemplate.json",
}

// Store holds the loaded collections. Construct with New, then call
// LoadAll before serving requests; find operations fail with
// ErrNotInitialized until the load has completed.
type Store struct {
	dataDir string
	logger  *zap.Logger
	loaded  bool

	nodes             []entities.Node
	triggers          []entities.Trigger
	actions           []entities.Action
	responses         []entities.Response
	resourceTemplates []entities.ResourceTemplate
}

// New creates a store reading from dataDir. Nothing is loaded yet.
func New(dataDir string, logger *zap.Logger) *Store {
	return &Store{
		dataDir: dataDir,
		logger:  logger,
	}
}

// LoadAll reads every collection file from the data directory. A
// missing file yields an empty collection with a logged warning and a
// malformed file yields an empty collection with a logged error; only
// a missing data directory is fatal.
func (s *Store) LoadAll() error {
	if _, err := os.Stat(s.dataDir); err != nil {
		return fmt.Errorf("data directory %q not accessible: %w", s.dataDir, err)
	}

	s.nodes = loadCollection[entities.Node](s, entities.CollectionNodes)
	s.triggers = loadCollection[entities.Trigger](s, entities.CollectionTriggers)
	s.actions = loadCollection[entities.Action](s, entities.CollectionActions)
	s.responses = loadCollection[entities.Response](s, entities.CollectionResponses)
	s.resourceTemplates = loadCollection[entities.ResourceTemplate](s, entities.CollectionResourceTemplates)

	s.loaded = true
	s.logger.Info("Record store loaded",
		zap.String("dataDir", s.dataDir),
		zap.Int("nodes", len(s.nodes)),
		zap.Int("triggers", len(s.triggers)),
		zap.Int("actions", len(s.actions)),
		zap.Int("responses", len(s.responses)),
		zap.Int("resourceTemplates", len(s.resourceTemplates)),
	)
	return nil
}

// loadCollection reads one collection file. The file may hold either a
// JSON array or a single object; a single object is promoted to a
// one-element collection.
func loadCollection[T entities.Record](s *Store, collection string) []T {
	path := filepath.Join(s.dataDir, collectionFiles[collection])

	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Warn("Collection file missing, starting empty",
			zap.String("collection", collection),
			zap.String("path", path),
			zap.Error(err),
		)
		return []T{}
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []T
		if err := json.Unmarshal(data, &records); err != nil {
			s.logger.Error("Collection file malformed, starting empty",
				zap.String("collection", collection),
				zap.String("path", path),
				zap.Error(err),
			)
			return []T{}
		}
		return records
	}

	var record T
	if err := json.Unmarshal(data, &record); err != nil {
		s.logger.Error("Collection file malformed, starting empty",
			zap.String("collection", collection),
			zap.String("path", path),
			zap.Error(err),
		)
		return []T{}
	}
	return []T{record}
}

// FindAll returns every record of a collection in load order.
func (s *Store) FindAll(collection string) ([]entities.Record, error) {
	if !s.loaded {
		return nil, ErrNotInitialized
	}
	switch collection {
	case entities.CollectionNodes:
		return asRecords(s.nodes), nil
	case entities.CollectionTriggers:
		return asRecords(s.triggers), nil
	case entities.CollectionActions:
		return asRecords(s.actions), nil
	case entities.CollectionResponses:
		return asRecords(s.responses), nil
	case entities.CollectionResourceTemplates:
		return asRecords(s.resourceTemplates), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
}

// FindByID returns the first record of a collection with the given id,
// or nil when no record matches.
func (s *Store) FindByID(collection, id string) (entities.Record, error) {
	records, err := s.FindAll(collection)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r.RecordID() == id {
			return r, nil
		}
	}
	return nil, nil
}

// FindByIDs returns the records whose id is in ids. Result order
// follows store order, not the order of ids; unknown ids are skipped.
func (s *Store) FindByIDs(collection string, ids []string) ([]entities.Record, error) {
	records, err := s.FindAll(collection)
	if err != nil {
		return nil, err
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	var out []entities.Record
	for _, r := range records {
		if _, ok := wanted[r.RecordID()]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// FindParentsByCompositeIDs returns every node whose children list
// contains at least one of the given composite ids. This is a reverse
// scan; children hold the only record of the parent edge.
func (s *Store) FindParentsByCompositeIDs(compositeIDs []string) ([]entities.Node, error) {
	if !s.loaded {
		return nil, ErrNotInitialized
	}
	wanted := make(map[string]struct{}, len(compositeIDs))
	for _, id := range compositeIDs {
		wanted[id] = struct{}{}
	}
	var parents []entities.Node
	for _, node := range s.nodes {
		for _, child := range node.Children {
			if _, ok := wanted[child]; ok {
				parents = append(parents, node)
				break
			}
		}
	}
	return parents, nil
}

// Typed accessors. These mirror the generic lookups with concrete
// types for the resolvers and handlers; they share the initialization
// guard.

// Nodes returns all nodes in load order.
func (s *Store) Nodes() ([]entities.Node, error) {
	if !s.loaded {
		return nil, ErrNotInitialized
	}
	return s.nodes, nil
}

// Triggers returns all triggers in load order.
func (s *Store) Triggers() ([]entities.Trigger, error) {
	if !s.loaded {
		return nil, ErrNotInitialized
	}
	return s.triggers, nil
}

// Actions returns all actions in load order.
func (s *Store) Actions() ([]entities.Action, error) {
	if !s.loaded {
		return nil, ErrNotInitialized
	}
	return s.actions, nil
}

// Responses returns all responses in load order.
func (s *Store) Responses() ([]entities.Response, error) {
	if !s.loaded {
		return nil, ErrNotInitialized
	}
	return s.responses, nil
}

// ResourceTemplates returns all resource templates in load order.
func (s *Store) ResourceTemplates() ([]entities.ResourceTemplate, error) {
	if !s.loaded {
		return nil, ErrNotInitialized
	}
	return s.resourceTemplates, nil
}

// Node returns the node with the given id, or nil.
func (s *Store) Node(id string) (*entities.Node, error) {
	if !s.loaded {
		return nil, ErrNotInitialized
	}
	for i := range s.nodes {
		if s.nodes[i].ID == id {
			return &s.nodes[i], nil
		}
	}
	return nil, nil
}

// Trigger returns the trigger with the given id, or nil.
func (s *Store) Trigger(id string) (*entities.Trigger, error) {
	if !s.loaded {
		return nil, ErrNotInitialized
	}
	for i := range s.triggers {
		if s.triggers[i].ID == id {
			return &s.triggers[i], nil
		}
	}
	return nil, nil
}

// Action returns the action with the given id, or nil.
func (s *Store) Action(id string) (*entities.Action, error) {
	if !s.loaded {
		return nil, ErrNotInitialized
	}
	for i := range s.actions {
		if s.actions[i].ID == id {
			return &s.actions[i], nil
		}
	}
	return nil, nil
}

// Response returns the response with the given id, or nil.
func (s *Store) Response(id string) (*entities.Response, error) {
	if !s.loaded {
		return nil, ErrNotInitialized
	}
	for i := range s.responses {
		if s.responses[i].ID == id {
			return &s.responses[i], nil
		}
	}
	return nil, nil
}

// ResourceTemplate returns the resource template with the given id, or nil.
func (s *Store) ResourceTemplate(id string) (*entities.ResourceTemplate, error) {
	if !s.loaded {
		return nil, ErrNotInitialized
	}
	for i := range s.resourceTemplates {
		if s.resourceTemplates[i].ID == id {
			return &s.resourceTemplates[i], nil
		}
	}
	return nil, nil
}

// ResponsesByIDs returns responses matching ids in store order.
func (s *Store) ResponsesByIDs(ids []string) ([]entities.Response, error) {
	if !s.loaded {
		return nil, ErrNotInitialized
	}
	return filterByIDs(s.responses, ids), nil
}

// ActionsByIDs returns actions matching ids in store order.
func (s *Store) ActionsByIDs(ids []string) ([]entities.Action, error) {
	if !s.loaded {
		return nil, ErrNotInitialized
	}
	return filterByIDs(s.actions, ids), nil
}

// Counts returns the number of records per collection.
func (s *Store) Counts() (map[string]int, error) {
	if !s.loaded {
		return nil, ErrNotInitialized
	}
	return map[string]int{
		entities.CollectionNodes:             len(s.nodes),
		entities.CollectionTriggers:          len(s.triggers),
		entities.CollectionActions:           len(s.actions),
		entities.CollectionResponses:         len(s.responses),
		entities.CollectionResourceTemplates: len(s.resourceTemplates),
	}, nil
}

func asRecords[T entities.Record](items []T) []entities.Record {
	out := make([]entities.Record, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

func filterByIDs[T entities.Record](items []T, ids []string) []T {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	out := []T{}
	for _, item := range items {
		if _, ok := wanted[item.RecordID()]; ok {
			out = append(out, item)
		}
	}
	return out
}
