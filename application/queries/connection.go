package queries

import "strconv"

// Cursor pagination over an already-filtered sequence. A cursor is the
// decimal text of an absolute zero-based index into that sequence, so
// a page starting "after" cursor c begins at index c. Filtering always
// happens before the window is applied, never after.

// Edge wraps one item with its absolute-index cursor.
type Edge[T any] struct {
	Cursor string `json:"cursor"`
	Node   T      `json:"node"`
}

// ConnectionPageInfo describes the window position.
type ConnectionPageInfo struct {
	HasNextPage     bool    `json:"hasNextPage"`
	HasPreviousPage bool    `json:"hasPreviousPage"`
	StartCursor     *string `json:"startCursor"`
	EndCursor       *string `json:"endCursor"`
}

// Connection is the {edges, pageInfo, totalCount} envelope used by all
// paginated GraphQL list fields.
type Connection[T any] struct {
	Edges      []Edge[T]          `json:"edges"`
	PageInfo   ConnectionPageInfo `json:"pageInfo"`
	TotalCount int                `json:"totalCount"`
}

// ParseCursor decodes an "after" cursor to a start index. Empty,
// non-numeric, or negative cursors decode to 0; the boundary is
// tolerant and never errors.
func ParseCursor(after string) int {
	if after == "" {
		return 0
	}
	idx, err := strconv.Atoi(after)
	if err != nil || idx < 0 {
		return 0
	}
	return idx
}

// Connect slices a filtered sequence into a connection. first is the
// requested page size (negative counts as 0) and after the cursor of
// the element preceding the page.
func Connect[T any](items []T, first int, after string) Connection[T] {
	if first < 0 {
		first = 0
	}
	startIndex := ParseCursor(after)
	endIndex := startIndex + first

	conn := Connection[T]{
		Edges:      []Edge[T]{},
		TotalCount: len(items),
		PageInfo: ConnectionPageInfo{
			HasNextPage:     endIndex < len(items),
			HasPreviousPage: startIndex > 0,
		},
	}

	if startIndex >= len(items) {
		return conn
	}

	window := items[startIndex:min(endIndex, len(items))]
	for i, item := range window {
		conn.Edges = append(conn.Edges, Edge[T]{
			Cursor: strconv.Itoa(startIndex + i),
			Node:   item,
		})
	}

	if len(conn.Edges) > 0 {
		start := conn.Edges[0].Cursor
		end := conn.Edges[len(conn.Edges)-1].Cursor
		conn.PageInfo.StartCursor = &start
		conn.PageInfo.EndCursor = &end
	}

	return conn
}
