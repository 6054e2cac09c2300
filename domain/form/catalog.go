package form

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/nambiararyan24/portfolio/domain/core"
)

// Names of the built-in forms
const (
	Contact    = "contact"
	Onboarding = "onboarding"
	Feedback   = "feedback"
)

//go:embed schemas/*.yaml
var builtinSchemas embed.FS

type schemaDocument struct {
	Name  string     `yaml:"name"`
	Title string     `yaml:"title"`
	Steps []StepSpec `yaml:"steps"`
}

// ParseSchema decodes one YAML schema document.
func ParseSchema(data []byte) (*Schema, error) {
	var doc schemaDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode form schema: %w", err)
	}
	return NewSchema(doc.Name, doc.Title, doc.Steps...)
}

// Catalog holds the schemas of every form the site serves.
type Catalog struct {
	schemas map[string]*Schema
}

// LoadCatalog reads every *.yaml schema from fsys.
func LoadCatalog(fsys fs.FS) (*Catalog, error) {
	matches, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, err
	}
	c := &Catalog{schemas: make(map[string]*Schema, len(matches))}
	for _, name := range matches {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		schema, err := ParseSchema(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if want := strings.TrimSuffix(path.Base(name), ".yaml"); schema.Name != want {
			return nil, fmt.Errorf("%s: schema name %q does not match file name", name, schema.Name)
		}
		c.schemas[schema.Name] = schema
	}
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// DefaultCatalog returns the embedded contact, onboarding and feedback schemas.
func DefaultCatalog() (*Catalog, error) {
	defaultOnce.Do(func() {
		sub, err := fs.Sub(builtinSchemas, "schemas")
		if err != nil {
			defaultErr = err
			return
		}
		defaultCatalog, defaultErr = LoadCatalog(sub)
	})
	return defaultCatalog, defaultErr
}

// MustDefaultCatalog panics if the embedded schemas are broken.
func MustDefaultCatalog() *Catalog {
	c, err := DefaultCatalog()
	if err != nil {
		panic(err)
	}
	return c
}

// Get returns the schema for a form name.
func (c *Catalog) Get(name string) (*Schema, error) {
	s, ok := c.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrFormNotFound, name)
	}
	return s, nil
}

// Names lists the forms in the catalog.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.schemas))
	for name := range c.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MustGet is Get for names known at compile time.
func (c *Catalog) MustGet(name string) *Schema {
	s, err := c.Get(name)
	if err != nil {
		panic(err)
	}
	return s
}
