package pipeline

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Catalog holds named product descriptions for email drafting.
type Catalog struct {
	Default  string            `yaml:"default"`
	Products map[string]string `yaml:"products"`
}

// LoadCatalog reads a product catalog from a YAML file. An empty path yields
// an empty catalog, which resolves everything to the built-in default.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return &Catalog{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: read catalog %s", path)
	}

	var wrapper struct {
		Catalog Catalog `yaml:"catalog"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "pipeline: parse catalog")
	}
	return &wrapper.Catalog, nil
}

// Resolve maps a free-form description or product name to the description the
// Drafter should use. A name matching a catalog entry wins; otherwise the
// input passes through untouched, and empty input falls back to the catalog
// default (which may itself be empty).
func (c *Catalog) Resolve(input string) string {
	if c == nil {
		return input
	}
	if desc, ok := c.Products[input]; ok && desc != "" {
		return desc
	}
	if input == "" {
		return c.Default
	}
	return input
}
