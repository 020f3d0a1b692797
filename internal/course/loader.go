package course

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when no document exists for a course id.
var ErrNotFound = errors.New("course not found")

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Loader reads course documents from a directory of YAML files, one file
// per course id.
type Loader struct {
	dir string
}

// NewLoader creates a Loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Load reads, validates, and decodes the course with the given id.
func (l *Loader) Load(id string) (*Course, error) {
	path := filepath.Join(l.dir, id+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("read course %s: %w", id, err)
	}

	if err := validateDocument(data); err != nil {
		return nil, fmt.Errorf("course %s: %w", id, err)
	}

	var c Course
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode course %s: %w", id, err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("course %s: %w", id, err)
	}
	return &c, nil
}

// List scans the course directory and returns a summary per document.
// Documents that fail to load are skipped rather than failing the listing.
func (l *Loader) List() ([]Summary, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read course directory: %w", err)
	}

	var out []Summary
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}
		id := strings.TrimSuffix(name, ".yaml")
		c, err := l.Load(id)
		if err != nil {
			continue
		}
		out = append(out, Summary{ID: id, Title: c.Title, Description: c.Description})
	}
	return out, nil
}

// validateDocument checks the raw YAML document against the course schema.
// The document is round-tripped through JSON because the schema library
// validates parsed JSON values.
func validateDocument(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse document: %w", err)
	}
	jsonBytes, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("convert document: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(jsonBytes)))
	if err != nil {
		return fmt.Errorf("convert document: %w", err)
	}

	sch, err := documentSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("invalid course document: %w", err)
	}
	return nil
}

// documentSchema compiles the embedded course schema once.
func documentSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		def, err := jsonschema.UnmarshalJSON(strings.NewReader(courseSchema))
		if err != nil {
			schemaErr = fmt.Errorf("parse course schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://course.json", def); err != nil {
			schemaErr = fmt.Errorf("add course schema: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile("schema://course.json")
	})
	return compiledSchema, schemaErr
}
