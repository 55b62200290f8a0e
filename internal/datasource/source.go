// Package datasource discovers and loads outline documents for treeline.
// A document is a tree of nodes stored as YAML, JSON, or a SQLite adjacency
// list; discovery picks the freshest valid source when the caller names a
// directory rather than a file.
package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SourceType identifies the storage format of a data source.
type SourceType string

const (
	// SourceTypeSQLite is a SQLite adjacency-list database (tree.db).
	SourceTypeSQLite SourceType = "sqlite"
	// SourceTypeYAML is a nested YAML document (tree.yaml).
	SourceTypeYAML SourceType = "yaml"
	// SourceTypeJSON is a nested JSON document (tree.json).
	SourceTypeJSON SourceType = "json"
)

// Priority values for source types (higher = more authoritative when mod
// times are equal).
const (
	PrioritySQLite = 100
	PriorityYAML   = 80
	PriorityJSON   = 50
)

// DataSource describes one discovered outline document.
type DataSource struct {
	Type     SourceType `json:"type"`
	Path     string     `json:"path"`
	Priority int        `json:"priority"`
	ModTime  time.Time  `json:"mod_time"`
	Size     int64      `json:"size"`
}

// String returns a human-readable description of the source.
func (s DataSource) String() string {
	return fmt.Sprintf("%s (%s, priority=%d, mod=%s)",
		s.Path, s.Type, s.Priority, s.ModTime.Format(time.RFC3339))
}

// TypeForPath maps a file extension to a source type. Unknown extensions
// return an error rather than guessing a parser.
func TypeForPath(path string) (SourceType, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return SourceTypeSQLite, nil
	case ".yaml", ".yml":
		return SourceTypeYAML, nil
	case ".json":
		return SourceTypeJSON, nil
	}
	return "", fmt.Errorf("datasource: unrecognized extension on %s (want .yaml, .json, or .db)", path)
}

// wellKnownNames are the file names discovery looks for, in no particular
// order; selection is by mod time then priority.
var wellKnownNames = []string{"tree.db", "tree.sqlite", "tree.yaml", "tree.yml", "tree.json"}

// DiscoverSources finds outline documents in dir, freshest first.
func DiscoverSources(dir string) ([]DataSource, error) {
	var sources []DataSource
	for _, name := range wellKnownNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		typ, err := TypeForPath(path)
		if err != nil {
			continue
		}
		sources = append(sources, DataSource{
			Type:     typ,
			Path:     path,
			Priority: priorityFor(typ),
			ModTime:  info.ModTime(),
			Size:     info.Size(),
		})
	}

	sort.Slice(sources, func(i, j int) bool {
		if sources[i].ModTime.Equal(sources[j].ModTime) {
			return sources[i].Priority > sources[j].Priority
		}
		return sources[i].ModTime.After(sources[j].ModTime)
	})
	return sources, nil
}

// PickSource returns the freshest source in dir.
func PickSource(dir string) (DataSource, error) {
	sources, err := DiscoverSources(dir)
	if err != nil {
		return DataSource{}, err
	}
	if len(sources) == 0 {
		return DataSource{}, fmt.Errorf("datasource: no outline document found in %s (looked for %s)",
			dir, strings.Join(wellKnownNames, ", "))
	}
	return sources[0], nil
}

func priorityFor(t SourceType) int {
	switch t {
	case SourceTypeSQLite:
		return PrioritySQLite
	case SourceTypeYAML:
		return PriorityYAML
	default:
		return PriorityJSON
	}
}

// docName derives a synthetic root name from a document path.
func docName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
