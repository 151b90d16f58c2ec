package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/labops/labaudit/pkg/domain/types"
)

// Catalog is the lab and category catalog loaded from a TOML file. The serve
// command uses it to validate incoming assignments and the audit commands use
// it to reject unknown lab or category inputs before any network call.
type Catalog struct {
	Labs       []Lab           `toml:"lab"`
	Categories []AuditCategory `toml:"category"`
}

// Lab represents one laboratory entry in the catalog
type Lab struct {
	ID       string `toml:"id"`
	Name     string `toml:"name"`
	Building string `toml:"building"`
}

// Validate checks if the Lab entry is valid
func (l *Lab) Validate() error {
	if l.ID == "" {
		return goerr.New("lab ID is required")
	}
	if l.Name == "" {
		return goerr.New("lab name is required", goerr.V("id", l.ID))
	}
	return nil
}

// AuditCategory represents one inventory category entry in the catalog
type AuditCategory struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

// Validate checks if the AuditCategory entry is valid
func (c *AuditCategory) Validate() error {
	if c.ID == "" {
		return goerr.New("category ID is required")
	}
	if c.Name == "" {
		return goerr.New("category name is required", goerr.V("id", c.ID))
	}
	return nil
}

// Validate checks if the Catalog is valid
func (c *Catalog) Validate() error {
	labIDs := make(map[string]bool)
	for _, lab := range c.Labs {
		if err := lab.Validate(); err != nil {
			return goerr.Wrap(err, "invalid lab")
		}
		if labIDs[lab.ID] {
			return goerr.New("duplicate lab ID", goerr.V("id", lab.ID))
		}
		labIDs[lab.ID] = true
	}

	categoryIDs := make(map[string]bool)
	for _, cat := range c.Categories {
		if err := cat.Validate(); err != nil {
			return goerr.Wrap(err, "invalid category")
		}
		if categoryIDs[cat.ID] {
			return goerr.New("duplicate category ID", goerr.V("id", cat.ID))
		}
		categoryIDs[cat.ID] = true
	}

	return nil
}

// HasLab reports whether the catalog contains the given lab.
func (c *Catalog) HasLab(id types.LabID) bool {
	for _, lab := range c.Labs {
		if lab.ID == id.String() {
			return true
		}
	}
	return false
}

// HasCategory reports whether the catalog contains the given category.
func (c *Catalog) HasCategory(id string) bool {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return true
		}
	}
	return false
}

// LoadCatalog loads the lab and category catalog from a TOML file
func LoadCatalog(path string) (*Catalog, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read catalog file", goerr.V("path", path))
	}

	var catalog Catalog
	if err := toml.Unmarshal(data, &catalog); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML catalog", goerr.V("path", path))
	}

	if err := catalog.Validate(); err != nil {
		return nil, goerr.Wrap(err, "catalog validation failed", goerr.V("path", path))
	}

	return &catalog, nil
}
