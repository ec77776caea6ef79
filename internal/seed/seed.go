// Package seed loads the startup note dataset and filter option lists.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/starford/noteshub/internal/models"
)

//go:embed notes.yaml
var builtin []byte

// Dataset is the parsed seed document.
type Dataset struct {
	Notes         []models.Note        `yaml:"notes"`
	FilterOptions models.FilterOptions `yaml:"filterOptions"`
}

// Default returns the built-in dummy dataset.
func Default() (*Dataset, error) {
	return Parse(builtin)
}

// LoadFile parses a seed document from disk. An empty path selects the
// built-in dataset.
func LoadFile(path string) (*Dataset, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML seed document and normalises empty threads so that
// comments and replies always serialise as lists.
func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("seed: parse: %w", err)
	}
	seen := make(map[int64]struct{}, len(ds.Notes))
	for i := range ds.Notes {
		n := &ds.Notes[i]
		if _, dup := seen[n.ID]; dup {
			return nil, fmt.Errorf("seed: duplicate note id %d", n.ID)
		}
		seen[n.ID] = struct{}{}
		if n.Comments == nil {
			n.Comments = []models.Comment{}
		}
		for j := range n.Comments {
			if n.Comments[j].Replies == nil {
				n.Comments[j].Replies = []models.Reply{}
			}
		}
	}
	return &ds, nil
}
