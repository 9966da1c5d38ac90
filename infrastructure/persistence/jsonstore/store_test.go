package jsonstore

import (
	"os"
	"path/filepath"
	"testing"

	"botflow-backend/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newLoadedStore(t *testing.T, files map[string]string) *Store {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		writeFile(t, dir, name, content)
	}
	store := New(dir, zap.NewNop())
	require.NoError(t, store.LoadAll())
	return store
}

func TestLoadAll_MissingDataDirectory(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "does-not-exist"), zap.NewNop())
	err := store.LoadAll()
	require.Error(t, err)
}

func TestLoadAll_MissingFilesYieldEmptyCollections(t *testing.T) {
	store := newLoadedStore(t, nil)

	for _, collection := range entities.Collections {
		records, err := store.FindAll(collection)
		require.NoError(t, err)
		assert.Empty(t, records, collection)
	}
}

func TestLoadAll_MalformedFileYieldsEmptyCollection(t *testing.T) {
	store := newLoadedStore(t, map[string]string{
		"node.json":    `{"_id": "broken"`,
		"trigger.json": `[{"_id": "t1", "name": "Start"}]`,
	})

	nodes, err := store.FindAll(entities.CollectionNodes)
	require.NoError(t, err)
	assert.Empty(t, nodes)

	triggers, err := store.FindAll(entities.CollectionTriggers)
	require.NoError(t, err)
	assert.Len(t, triggers, 1)
}

func TestLoadAll_SingleObjectPromotedToCollection(t *testing.T) {
	store := newLoadedStore(t, map[string]string{
		"node.json": `{"_id": "only", "name": "Only Node", "root": true}`,
	})

	nodes, err := store.Nodes()
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "only", nodes[0].ID)
	assert.True(t, nodes[0].Root)
}

func TestFindBeforeLoadFails(t *testing.T) {
	store := New(t.TempDir(), zap.NewNop())

	_, err := store.FindAll(entities.CollectionNodes)
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = store.FindByID(entities.CollectionNodes, "x")
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = store.FindParentsByCompositeIDs([]string{"x"})
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = store.Nodes()
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestFindAll_UnknownCollection(t *testing.T) {
	store := newLoadedStore(t, nil)

	_, err := store.FindAll("widgets")
	assert.ErrorIs(t, err, ErrUnknownCollection)
}

func TestFindAll_PreservesLoadOrder(t *testing.T) {
	store := newLoadedStore(t, map[string]string{
		"node.json": `[{"_id": "b", "name": "Second"}, {"_id": "a", "name": "First"}]`,
	})

	nodes, err := store.Nodes()
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "b", nodes[0].ID)
	assert.Equal(t, "a", nodes[1].ID)
}

func TestFindByID(t *testing.T) {
	store := newLoadedStore(t, map[string]string{
		"trigger.json": `[{"_id": "t1", "name": "Start"}, {"_id": "t2", "name": "Keyword"}]`,
	})

	record, err := store.FindByID(entities.CollectionTriggers, "t2")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "t2", record.RecordID())

	record, err = store.FindByID(entities.CollectionTriggers, "missing")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestFindByIDs_SkipsUnknownAndKeepsStoreOrder(t *testing.T) {
	store := newLoadedStore(t, map[string]string{
		"response.json": `[{"_id": "x", "name": "X"}, {"_id": "z", "name": "Z"}]`,
	})

	// 'y' does not exist; order follows the store, not the input
	records, err := store.FindByIDs(entities.CollectionResponses, []string{"z", "y", "x"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "x", records[0].RecordID())
	assert.Equal(t, "z", records[1].RecordID())
}

func TestFindParentsByCompositeIDs(t *testing.T) {
	store := newLoadedStore(t, map[string]string{
		"node.json": `[
			{"_id": "root", "name": "Root", "children": ["edge-1", "edge-2"]},
			{"_id": "mid", "name": "Mid", "parents": ["edge-1"], "children": ["edge-3"]},
			{"_id": "leaf", "name": "Leaf", "parents": ["edge-3"]}
		]`,
	})

	parents, err := store.FindParentsByCompositeIDs([]string{"edge-3"})
	require.NoError(t, err)
	require.Len(t, parents, 1)
	assert.Equal(t, "mid", parents[0].ID)

	parents, err = store.FindParentsByCompositeIDs([]string{"edge-1", "edge-2"})
	require.NoError(t, err)
	require.Len(t, parents, 1)
	assert.Equal(t, "root", parents[0].ID)

	parents, err = store.FindParentsByCompositeIDs([]string{"edge-unknown"})
	require.NoError(t, err)
	assert.Empty(t, parents)
}

func TestTypedLookups(t *testing.T) {
	store := newLoadedStore(t, map[string]string{
		"node.json":             `[{"_id": "n1", "name": "Node", "triggerId": "t1", "responses": ["r1"], "actions": ["a1"]}]`,
		"trigger.json":          `[{"_id": "t1", "name": "Trigger", "resourceTemplateId": "rt1"}]`,
		"action.json":           `[{"_id": "a1", "name": "Action"}]`,
		"response.json":         `[{"_id": "r1", "name": "Response"}]`,
		"resourceTemplate.json": `[{"_id": "rt1", "name": "Template", "key": "event"}]`,
	})

	node, err := store.Node("n1")
	require.NoError(t, err)
	require.NotNil(t, node)
	assert.Equal(t, "Node", node.Name)

	trigger, err := store.Trigger("t1")
	require.NoError(t, err)
	require.NotNil(t, trigger)
	require.NotNil(t, trigger.ResourceTemplateID)
	assert.Equal(t, "rt1", *trigger.ResourceTemplateID)

	missing, err := store.ResourceTemplate("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	counts, err := store.Counts()
	require.NoError(t, err)
	assert.Equal(t, 1, counts["nodes"])
	assert.Equal(t, 1, counts["resourceTemplates"])
}
