package datasource

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/treeline/pkg/model"
)

// Load reads the outline document at path, dispatching on extension, and
// validates node ids. This is the single entry point the app uses for an
// explicit file argument.
func Load(path string) (*model.Node, error) {
	typ, err := TypeForPath(path)
	if err != nil {
		return nil, err
	}

	var root *model.Node
	switch typ {
	case SourceTypeYAML:
		root, err = LoadYAML(path)
	case SourceTypeJSON:
		root, err = LoadJSON(path)
	case SourceTypeSQLite:
		var r *SQLiteReader
		r, err = NewSQLiteReader(path)
		if err == nil {
			defer r.Close()
			root, err = r.LoadTree()
		}
	}
	if err != nil {
		return nil, err
	}

	if err := ValidateIDs(root); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

// LoadDir discovers the freshest source in dir and loads it.
func LoadDir(dir string) (*model.Node, DataSource, error) {
	source, err := PickSource(dir)
	if err != nil {
		return nil, DataSource{}, err
	}
	root, err := Load(source.Path)
	if err != nil {
		return nil, source, err
	}
	return root, source, nil
}

// LoadAll loads several documents concurrently and merges them under a
// synthetic "workspace" root, preserving the order of paths. One failing
// document fails the whole load; partial workspaces would silently hide data.
func LoadAll(ctx context.Context, paths []string) (*model.Node, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("datasource: no documents to load")
	}
	if len(paths) == 1 {
		return Load(paths[0])
	}

	roots := make([]*model.Node, len(paths))
	g, _ := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			root, err := Load(path)
			if err != nil {
				return err
			}
			roots[i] = root
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &model.Node{ID: "workspace", Name: "workspace", Kind: "workspace", Children: roots}
	if err := ValidateIDs(merged); err != nil {
		return nil, err
	}
	return merged, nil
}
