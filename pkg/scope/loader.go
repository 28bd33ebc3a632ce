package scope

import (
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// maxCatalogFileSize bounds the scope catalog file.
const maxCatalogFileSize = 1 << 20

// catalogFile is the on-disk YAML shape of the scope catalog.
type catalogFile struct {
	Scopes []*Scope `yaml:"scopes"`
}

// LoadCatalog reads a scope catalog from a YAML file. Every declared scope
// must pass validation, including the domain-prefix rule on identifiers;
// a single invalid scope fails the whole load.
func LoadCatalog(path string) (*Catalog, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("scope catalog %q: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("scope catalog %q: not a regular file", path)
	}
	if info.Size() > maxCatalogFileSize {
		return nil, fmt.Errorf("scope catalog %q: file size %d exceeds maximum %d",
			path, info.Size(), maxCatalogFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scope catalog %q: %w", path, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("scope catalog %q: invalid UTF-8 encoding", path)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("scope catalog %q: %w", path, err)
	}
	if len(file.Scopes) == 0 {
		return nil, fmt.Errorf("scope catalog %q: no scopes declared", path)
	}

	catalog := NewCatalog()
	seen := make(map[string]struct{}, len(file.Scopes))
	for _, s := range file.Scopes {
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("scope catalog %q: duplicate scope id %q", path, s.ID)
		}
		seen[s.ID] = struct{}{}
		if err := catalog.Add(s); err != nil {
			return nil, fmt.Errorf("scope catalog %q: %w", path, err)
		}
	}

	return catalog, nil
}
