package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/beanstalk/internal/domain"
)

var (
	// ErrPointsOverride is returned when a file tries to change point values.
	ErrPointsOverride = errors.New("catalog: points are fixed and cannot be overridden")
	// ErrDuplicateOverride is returned when a category id appears twice in a file.
	ErrDuplicateOverride = errors.New("catalog: category listed more than once")
)

// Loader handles loading and parsing of a categories.yaml file
type Loader struct {
	filePath string
}

// NewLoader creates a new catalog loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads and parses the catalog file
func (l *Loader) Load() (File, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return File{}, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes catalog YAML. Unknown fields are rejected so that a typo
// does not silently fall back to the built-in table.
func Parse(data []byte) (File, error) {
	var f File
	if len(bytes.TrimSpace(data)) == 0 {
		return f, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("failed to parse catalog yaml: %w", err)
	}
	return f, nil
}

// Apply merges the overrides onto base and returns a new table.
// base is not modified.
func (f File) Apply(base []domain.Category) ([]domain.Category, error) {
	out := make([]domain.Category, len(base))
	idx := make(map[domain.CategoryID]int, len(base))
	for i, c := range base {
		c.Keywords = append([]string(nil), c.Keywords...)
		out[i] = c
		idx[c.ID] = i
	}

	seen := make(map[domain.CategoryID]struct{}, len(f.Categories))
	for _, o := range f.Categories {
		i, ok := idx[o.ID]
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, o.ID)
		}
		if _, dup := seen[o.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateOverride, o.ID)
		}
		seen[o.ID] = struct{}{}

		if o.Points != nil && *o.Points != out[i].Points {
			return nil, fmt.Errorf("%w: %q", ErrPointsOverride, o.ID)
		}
		if o.Label != nil && *o.Label != "" {
			out[i].Label = *o.Label
		}
		if o.Keywords != nil {
			out[i].Keywords = append([]string(nil), (*o.Keywords)...)
		}
	}
	return out, nil
}

// Classifier builds the classifier for path. An empty path yields the
// built-in table.
func Classifier(path string) (*domain.Classifier, error) {
	if path == "" {
		return domain.NewClassifier(domain.DefaultCategories())
	}

	f, err := NewLoader(path).Load()
	if err != nil {
		return nil, err
	}
	table, err := f.Apply(domain.DefaultCategories())
	if err != nil {
		return nil, err
	}
	return domain.NewClassifier(table)
}
