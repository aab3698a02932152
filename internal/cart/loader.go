package cart

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed demo.yaml
var demoYAML []byte

// Demo returns the embedded demo cartridge, so the runtime works out of
// the box with no cartridge files on disk.
func Demo() (*Cartridge, error) {
	return Parse(demoYAML, ".yaml")
}

// Parse decodes cartridge bytes by format extension. JSON is the wire
// format; YAML is accepted for hand-authored cartridges.
func Parse(data []byte, ext string) (*Cartridge, error) {
	var c Cartridge
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("cart: parsing JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("cart: parsing YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("cart: unsupported format %q", ext)
	}
	return &c, nil
}

// Loader discovers and loads cartridges from a directory.
type Loader struct {
	Root string
}

// NewLoader creates a loader rooted at the given directory.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadFile loads a single cartridge file.
func (l *Loader) LoadFile(path string) (*Cartridge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cart: reading %s: %w", path, err)
	}
	c, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("cart: %s: %w", path, err)
	}
	if c.ID == "" {
		// Fall back to the file name so unnamed cartridges stay addressable.
		c.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return c, nil
}

// LoadAll recursively scans the root directory and loads every cartridge
// file. Unparseable files are skipped. Results are sorted by id for
// deterministic ordering.
func (l *Loader) LoadAll() ([]*Cartridge, error) {
	var carts []*Cartridge

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			return nil
		}
		c, err := l.LoadFile(path)
		if err != nil {
			return nil //nolint:nilerr // Skip invalid files; validate surfaces them
		}
		carts = append(carts, c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cart: walking %s: %w", l.Root, err)
	}

	sort.Slice(carts, func(i, j int) bool {
		return carts[i].ID < carts[j].ID
	})
	return carts, nil
}

// LoadByID loads a specific cartridge by id, searching the root directory.
func (l *Loader) LoadByID(id string) (*Cartridge, error) {
	carts, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	for _, c := range carts {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("cart: cartridge not found: %s", id)
}
