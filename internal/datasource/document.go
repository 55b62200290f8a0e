package datasource

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/treeline/pkg/model"
)

// A YAML/JSON document is either a single root node object or a list of
// top-level nodes. A list gets a synthetic root named after the file so the
// rest of the pipeline always sees one tree.

// LoadYAML reads a nested YAML outline document.
func LoadYAML(path string) (*model.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var root model.Node
	if err := yaml.Unmarshal(data, &root); err == nil && root.ID != "" {
		return &root, nil
	}

	var tops []*model.Node
	if err := yaml.Unmarshal(data, &tops); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return syntheticRoot(path, tops), nil
}

// LoadJSON reads a nested JSON outline document.
func LoadJSON(path string) (*model.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var root model.Node
	if err := json.Unmarshal(data, &root); err == nil && root.ID != "" {
		return &root, nil
	}

	var tops []*model.Node
	if err := json.Unmarshal(data, &tops); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return syntheticRoot(path, tops), nil
}

func syntheticRoot(path string, tops []*model.Node) *model.Node {
	name := docName(path)
	return &model.Node{ID: name, Name: name, Kind: "document", Children: tops}
}

// ValidateIDs rejects trees with empty or duplicate node ids. Traversal
// output is ambiguous under id collisions, so they are refused at the load
// boundary instead of surfacing as confusing view behavior later.
func ValidateIDs(root *model.Node) error {
	seen := make(map[string]bool)
	var walk func(n *model.Node) error
	walk = func(n *model.Node) error {
		if n.ID == "" {
			return fmt.Errorf("datasource: node %q has no id", n.Name)
		}
		if seen[n.ID] {
			return fmt.Errorf("datasource: duplicate node id %q", n.ID)
		}
		seen[n.ID] = true
		for _, c := range n.Children {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(root)
}
