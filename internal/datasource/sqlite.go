package datasource

import (
	"database/sql"
	"fmt"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/treeline/pkg/model"
)

// SQLiteReader provides read access to an outline stored as an adjacency
// list:
//
//	CREATE TABLE nodes (
//	    id         TEXT PRIMARY KEY,
//	    parent_id  TEXT REFERENCES nodes(id),
//	    name       TEXT NOT NULL,
//	    kind       TEXT,
//	    position   INTEGER NOT NULL DEFAULT 0,
//	    created_at TIMESTAMP
//	);
//
// position fixes sibling document order; NULL parent_id marks a top-level
// node.
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens a SQLite outline database for reading.
func NewSQLiteReader(path string) (*SQLiteReader, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	return &SQLiteReader{db: db, path: path}, nil
}

// Close closes the database connection.
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

type sqliteRow struct {
	node     *model.Node
	parentID sql.NullString
	position int64
}

// LoadTree reads all nodes and assembles the tree. Multiple top-level nodes
// are merged under a synthetic root named after the database file. Rows whose
// parent_id does not exist are treated as top-level rather than dropped.
func (r *SQLiteReader) LoadTree() (*model.Node, error) {
	rows, err := r.db.Query(`
		SELECT id, parent_id, name, kind, position, created_at
		FROM nodes
	`)
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*sqliteRow)
	var order []*sqliteRow
	for rows.Next() {
		var (
			row       sqliteRow
			kind      sql.NullString
			createdAt sql.NullTime
		)
		row.node = &model.Node{}
		if err := rows.Scan(&row.node.ID, &row.parentID, &row.node.Name, &kind, &row.position, &createdAt); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		if kind.Valid {
			row.node.Kind = kind.String
		}
		if createdAt.Valid {
			row.node.CreatedAt = createdAt.Time
		}
		if byID[row.node.ID] != nil {
			return nil, fmt.Errorf("datasource: duplicate node id %q in %s", row.node.ID, r.path)
		}
		byID[row.node.ID] = &row
		order = append(order, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating nodes: %w", err)
	}

	childrenOf := make(map[string][]*sqliteRow)
	var tops []*sqliteRow
	for _, row := range order {
		if row.parentID.Valid {
			if _, exists := byID[row.parentID.String]; exists {
				childrenOf[row.parentID.String] = append(childrenOf[row.parentID.String], row)
				continue
			}
		}
		tops = append(tops, row)
	}

	attach := func(rows []*sqliteRow) []*model.Node {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].position < rows[j].position })
		out := make([]*model.Node, len(rows))
		for i, row := range rows {
			out[i] = row.node
		}
		return out
	}
	for id, kids := range childrenOf {
		byID[id].node.Children = attach(kids)
	}

	topNodes := attach(tops)
	if len(topNodes) == 1 {
		return topNodes[0], nil
	}
	name := docName(r.path)
	return &model.Node{ID: name, Name: name, Kind: "document", Children: topNodes}, nil
}

// CountNodes returns the number of rows in the nodes table.
func (r *SQLiteReader) CountNodes() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM nodes").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
