// Package seed decodes the startup record collection.
package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/evanschultz/shuttle/internal/domain"
	"gopkg.in/yaml.v3"
)

// ErrDuplicateID reports two seed entries sharing one id.
var ErrDuplicateID = errors.New("duplicate project id")

//go:embed seed.yaml
var defaultSeed []byte

// IDGenerator returns a fresh id for entries that omit one.
type IDGenerator func() string

// entry is one YAML project entry.
type entry struct {
	ID          string `yaml:"id,omitempty"`
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	Info        string `yaml:"info,omitempty"`
	List        string `yaml:"list"`
}

// document is the top-level seed layout.
type document struct {
	Projects []entry `yaml:"projects"`
}

// Default decodes the embedded seed.
func Default() ([]*domain.Project, error) {
	return Decode(bytes.NewReader(defaultSeed), nil)
}

// LoadFile decodes a seed file from disk.
func LoadFile(path string, idGen IDGenerator) ([]*domain.Project, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("seed path is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed %q: %w", path, err)
	}
	defer f.Close()

	projects, err := Decode(f, idGen)
	if err != nil {
		return nil, fmt.Errorf("decode seed %q: %w", path, err)
	}
	return projects, nil
}

// Decode parses a seed document and validates every entry.
func Decode(r io.Reader, idGen IDGenerator) ([]*domain.Project, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return []*domain.Project{}, nil
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	out := make([]*domain.Project, 0, len(doc.Projects))
	seen := map[string]struct{}{}
	for i, e := range doc.Projects {
		if strings.TrimSpace(e.ID) == "" && idGen != nil {
			e.ID = idGen()
		}
		p, err := domain.NewProject(domain.ProjectInput{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			Info:        e.Info,
			List:        e.List,
		})
		if err != nil {
			return nil, fmt.Errorf("project %d: %w", i, err)
		}
		if _, ok := seen[p.ID]; ok {
			return nil, fmt.Errorf("project %d: %w: %s", i, ErrDuplicateID, p.ID)
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

// Encode writes projects back out in seed layout.
func Encode(w io.Writer, projects []*domain.Project) error {
	doc := document{Projects: make([]entry, 0, len(projects))}
	for _, p := range projects {
		doc.Projects = append(doc.Projects, entry{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Info:        p.Info,
			List:        p.List.String(),
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode seed: %w", err)
	}
	return enc.Close()
}
