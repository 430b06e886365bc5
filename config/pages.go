package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Page is one entry of the page registry
type Page struct {
	// File is the host page file name under PagesDir, defaults to "<name>.html"
	File string `yaml:"file"`
	// Collection overrides the data-collection the page itself declares
	Collection string `yaml:"collection"`
}

// PageRegistry maps a route name ("index", "shoes", ...) to its page settings
type PageRegistry map[string]Page

type pagesFile struct {
	Pages PageRegistry `yaml:"pages"`
}

// LoadPages reads the YAML page registry. A missing file yields an empty registry.
func LoadPages(path string) (PageRegistry, error) {
	if path == "" {
		return PageRegistry{}, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return PageRegistry{}, nil
		}
		return nil, fmt.Errorf("read pages file: %w", err)
	}
	var pf pagesFile
	if err := yaml.Unmarshal(b, &pf); err != nil {
		return nil, fmt.Errorf("parse pages file %s: %w", path, err)
	}
	if pf.Pages == nil {
		pf.Pages = PageRegistry{}
	}
	return pf.Pages, nil
}

// Lookup returns the settings for a page name, falling back to "<name>.html".
func (r PageRegistry) Lookup(name string) Page {
	p := r[name]
	if p.File == "" {
		p.File = name + ".html"
	}
	p.Collection = strings.ToLower(strings.TrimSpace(p.Collection))
	return p
}
