package graphql

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"botflow-backend/application/queries"
	"botflow-backend/infrastructure/persistence/jsonstore"
	"botflow-backend/pkg/auth"

	gql "github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSchema(t *testing.T) gql.Schema {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"node.json": `[
			{"_id": "node-welcome", "name": "Welcome", "root": true, "colour": "green", "priority": 1,
			 "triggerId": "trigger-start", "responses": ["resp-greeting"],
			 "actions": ["action-log"], "children": ["edge-a", "edge-b"]},
			{"_id": "node-menu", "name": "Main Menu", "colour": "blue", "parents": ["edge-a"]},
			{"_id": "node-help", "name": "Help", "global": true, "parents": ["edge-b"]}
		]`,
		"trigger.json": `[
			{"_id": "trigger-start", "name": "Conversation Start", "resourceTemplateId": "rt-event"},
			{"_id": "trigger-keyword", "name": "Menu Keyword", "resourceTemplateId": "rt-keyword"}
		]`,
		"action.json": `[
			{"_id": "action-log", "name": "Log Visit"}
		]`,
		"response.json": `[
			{"_id": "resp-greeting", "name": "Greeting", "platforms": [
				{"integrationId": "int-web", "build": 1, "localeGroups": [
					{"localeGroupId": "lg-default", "variations": [
						{"name": "A", "responses": [{"text": "Hello!"}]}
					]}
				]}
			]}
		]`,
		"resourceTemplate.json": `[
			{"_id": "rt-event", "name": "Event Trigger", "key": "event", "schema": {"type": "object"}},
			{"_id": "rt-keyword", "name": "Keyword Trigger", "key": "keyword"}
		]`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	store := jsonstore.New(dir, zap.NewNop())
	require.NoError(t, store.LoadAll())

	schema, err := NewSchema(NewResolver(store, queries.NewRelations(store)))
	require.NoError(t, err)
	return schema
}

func authedContext(role auth.Role) context.Context {
	return auth.WithAuth(context.Background(), auth.AuthContext{
		User:          &auth.Claims{UserID: "user-1", Email: "user@example.com", Role: role},
		Authenticated: true,
	})
}

func execute(t *testing.T, schema gql.Schema, ctx context.Context, query string) *gql.Result {
	t.Helper()
	return gql.Do(gql.Params{
		Schema:        schema,
		RequestString: query,
		Context:       ctx,
	})
}

func dataOf(t *testing.T, result *gql.Result) map[string]interface{} {
	t.Helper()
	require.Empty(t, result.Errors, "unexpected errors: %v", result.Errors)
	data, ok := result.Data.(map[string]interface{})
	require.True(t, ok)
	return data
}

func TestHealthQuery_NoAuthRequired(t *testing.T) {
	schema := newTestSchema(t)

	result := execute(t, schema, context.Background(), `{ health { status timestamp } }`)
	data := dataOf(t, result)

	health := data["health"].(map[string]interface{})
	assert.Equal(t, "ok", health["status"])
	assert.NotEmpty(t, health["timestamp"])
}

func TestQueriesRequireAuthentication(t *testing.T) {
	schema := newTestSchema(t)

	protected := []string{
		`{ stats { nodes } }`,
		`{ nodes { totalCount } }`,
		`{ node(nodeId: "node-welcome") { id } }`,
		`{ triggers { totalCount } }`,
		`{ resourceTemplates { totalCount } }`,
	}
	for _, q := range protected {
		result := execute(t, schema, context.Background(), q)
		require.NotEmpty(t, result.Errors, q)
		assert.Equal(t, "No token provided", result.Errors[0].Message, q)
	}
}

func TestStatsQuery(t *testing.T) {
	schema := newTestSchema(t)

	result := execute(t, schema, authedContext(auth.RoleGuest), `{ stats { nodes triggers rootNodes globalNodes } }`)
	data := dataOf(t, result)

	stats := data["stats"].(map[string]interface{})
	assert.Equal(t, 3, stats["nodes"])
	assert.Equal(t, 2, stats["triggers"])
	assert.Equal(t, 1, stats["rootNodes"])
	assert.Equal(t, 1, stats["globalNodes"])
}

func TestNodeQuery_JoinsRelations(t *testing.T) {
	schema := newTestSchema(t)

	result := execute(t, schema, authedContext(auth.RoleUser), `{
		node(nodeId: "node-welcome") {
			id
			name
			root
			colour
			trigger { id name resourceTemplate { name key schema } }
			responses { id name platforms { integrationId localeGroups { variations { responses } } } }
			actions { id name resourceTemplate { name } }
			parents { id }
		}
	}`)
	data := dataOf(t, result)

	node := data["node"].(map[string]interface{})
	assert.Equal(t, "node-welcome", node["id"])
	assert.Equal(t, "Welcome", node["name"])
	assert.Equal(t, true, node["root"])
	assert.Equal(t, "green", node["colour"])

	trigger := node["trigger"].(map[string]interface{})
	assert.Equal(t, "trigger-start", trigger["id"])
	rt := trigger["resourceTemplate"].(map[string]interface{})
	assert.Equal(t, "Event Trigger", rt["name"])
	assert.Equal(t, "event", rt["key"])
	schemaPayload := rt["schema"].(map[string]interface{})
	assert.Equal(t, "object", schemaPayload["type"])

	responses := node["responses"].([]interface{})
	require.Len(t, responses, 1)
	response := responses[0].(map[string]interface{})
	assert.Equal(t, "resp-greeting", response["id"])

	actions := node["actions"].([]interface{})
	require.Len(t, actions, 1)
	action := actions[0].(map[string]interface{})
	assert.Equal(t, "Log Visit", action["name"])
	assert.Nil(t, action["resourceTemplate"])

	parents := node["parents"].([]interface{})
	assert.Empty(t, parents)
}

func TestNodeQuery_ParentsViaCompositeIDs(t *testing.T) {
	schema := newTestSchema(t)

	result := execute(t, schema, authedContext(auth.RoleGuest), `{
		node(nodeId: "node-menu") { parents { id name } }
	}`)
	data := dataOf(t, result)

	node := data["node"].(map[string]interface{})
	parents := node["parents"].([]interface{})
	require.Len(t, parents, 1)
	parent := parents[0].(map[string]interface{})
	assert.Equal(t, "node-welcome", parent["id"])
}

func TestNodeQuery_MissingIsNullNotError(t *testing.T) {
	schema := newTestSchema(t)

	result := execute(t, schema, authedContext(auth.RoleGuest), `{ node(nodeId: "nope") { id } }`)
	data := dataOf(t, result)
	assert.Nil(t, data["node"])
}

func TestNodesConnection(t *testing.T) {
	schema := newTestSchema(t)
	ctx := authedContext(auth.RoleGuest)

	t.Run("full list", func(t *testing.T) {
		result := execute(t, schema, ctx, `{
			nodes { totalCount edges { cursor node { id } } pageInfo { hasNextPage hasPreviousPage startCursor endCursor } }
		}`)
		data := dataOf(t, result)

		nodes := data["nodes"].(map[string]interface{})
		assert.Equal(t, 3, nodes["totalCount"])
		edges := nodes["edges"].([]interface{})
		require.Len(t, edges, 3)
		first := edges[0].(map[string]interface{})
		assert.Equal(t, "0", first["cursor"])
		assert.Equal(t, "node-welcome", first["node"].(map[string]interface{})["id"])

		pageInfo := nodes["pageInfo"].(map[string]interface{})
		assert.Equal(t, false, pageInfo["hasNextPage"])
		assert.Equal(t, false, pageInfo["hasPreviousPage"])
		assert.Equal(t, "0", pageInfo["startCursor"])
		assert.Equal(t, "2", pageInfo["endCursor"])
	})

	t.Run("window after cursor", func(t *testing.T) {
		result := execute(t, schema, ctx, `{
			nodes(first: 1, after: "1") { edges { cursor node { id } } pageInfo { hasNextPage hasPreviousPage } }
		}`)
		data := dataOf(t, result)

		nodes := data["nodes"].(map[string]interface{})
		edges := nodes["edges"].([]interface{})
		require.Len(t, edges, 1)
		edge := edges[0].(map[string]interface{})
		assert.Equal(t, "1", edge["cursor"])
		assert.Equal(t, "node-menu", edge["node"].(map[string]interface{})["id"])

		pageInfo := nodes["pageInfo"].(map[string]interface{})
		assert.Equal(t, true, pageInfo["hasNextPage"])
		assert.Equal(t, true, pageInfo["hasPreviousPage"])
	})

	t.Run("boolean filter false is not absence", func(t *testing.T) {
		result := execute(t, schema, ctx, `{
			nodes(filter: {root: false}) { totalCount edges { node { id } } }
		}`)
		data := dataOf(t, result)

		nodes := data["nodes"].(map[string]interface{})
		assert.Equal(t, 2, nodes["totalCount"])
	})

	t.Run("name and colour filter combine", func(t *testing.T) {
		result := execute(t, schema, ctx, `{
			nodes(filter: {name: "menu", colour: "blue"}) { edges { node { id } } }
		}`)
		data := dataOf(t, result)

		nodes := data["nodes"].(map[string]interface{})
		edges := nodes["edges"].([]interface{})
		require.Len(t, edges, 1)
		assert.Equal(t, "node-menu", edges[0].(map[string]interface{})["node"].(map[string]interface{})["id"])
	})

	t.Run("filter applies before pagination", func(t *testing.T) {
		result := execute(t, schema, ctx, `{
			nodes(first: 1, filter: {root: false}) { totalCount pageInfo { hasNextPage } }
		}`)
		data := dataOf(t, result)

		nodes := data["nodes"].(map[string]interface{})
		assert.Equal(t, 2, nodes["totalCount"])
		pageInfo := nodes["pageInfo"].(map[string]interface{})
		assert.Equal(t, true, pageInfo["hasNextPage"])
	})
}

func TestTriggersConnection_FilterByTemplate(t *testing.T) {
	schema := newTestSchema(t)

	result := execute(t, schema, authedContext(auth.RoleGuest), `{
		triggers(filter: {resourceTemplateId: "rt-keyword"}) {
			totalCount
			edges { node { id resourceTemplate { name } } }
		}
	}`)
	data := dataOf(t, result)

	triggers := data["triggers"].(map[string]interface{})
	assert.Equal(t, 1, triggers["totalCount"])
	edges := triggers["edges"].([]interface{})
	require.Len(t, edges, 1)
	node := edges[0].(map[string]interface{})["node"].(map[string]interface{})
	assert.Equal(t, "trigger-keyword", node["id"])
	assert.Equal(t, "Keyword Trigger", node["resourceTemplate"].(map[string]interface{})["name"])
}

func TestResourceTemplatesReadableByEveryRole(t *testing.T) {
	schema := newTestSchema(t)

	for _, role := range []auth.Role{auth.RoleGuest, auth.RoleUser, auth.RoleAdmin} {
		result := execute(t, schema, authedContext(role), `{ resourceTemplates { totalCount } }`)
		data := dataOf(t, result)
		templates := data["resourceTemplates"].(map[string]interface{})
		assert.Equal(t, 2, templates["totalCount"], role)
	}
}
