package seed

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evanschultz/shuttle/internal/domain"
)

func TestDefaultSeed(t *testing.T) {
	projects, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if len(projects) != 3 {
		t.Fatalf("expected 3 projects, got %d", len(projects))
	}
	want := []struct {
		id    string
		title string
		list  domain.ListName
	}{
		{"p1", "Finish the Course", domain.ListActive},
		{"p2", "Buy Groceries", domain.ListActive},
		{"p3", "Book Hotel", domain.ListFinished},
	}
	for i, w := range want {
		p := projects[i]
		if p.ID != w.id || p.Title != w.title || p.List != w.list {
			t.Fatalf("unexpected project %d: %+v", i, p)
		}
		if p.Info == "" || p.Description == "" {
			t.Fatalf("expected description and info for %s", p.ID)
		}
	}
}

func TestDecodeAssignsMissingIDs(t *testing.T) {
	src := `
projects:
  - title: "  Write docs "
    list: Active
  - id: fixed
    title: Ship
    list: finished
`
	calls := 0
	projects, err := Decode(strings.NewReader(src), func() string {
		calls++
		return "generated"
	})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one generated id, got %d", calls)
	}
	if projects[0].ID != "generated" || projects[0].Title != "Write docs" || projects[0].List != domain.ListActive {
		t.Fatalf("unexpected first project %+v", projects[0])
	}
	if projects[1].ID != "fixed" {
		t.Fatalf("unexpected second id %q", projects[1].ID)
	}
}

func TestDecodeRejectsInvalidEntries(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want error
	}{
		{"duplicate id", "projects:\n  - {id: a, title: A, list: active}\n  - {id: a, title: B, list: finished}\n", ErrDuplicateID},
		{"missing id", "projects:\n  - {title: A, list: active}\n", domain.ErrInvalidID},
		{"bad list", "projects:\n  - {id: a, title: A, list: archived}\n", domain.ErrInvalidListName},
		{"missing title", "projects:\n  - {id: a, list: active}\n", domain.ErrInvalidTitle},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.src), nil)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader("projects:\n  - {id: a, title: A, list: active, owner: me}\n"), nil)
	if err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestDecodeEmptyDocument(t *testing.T) {
	projects, err := Decode(strings.NewReader(""), nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(projects) != 0 {
		t.Fatalf("expected no projects, got %d", len(projects))
	}
}

func TestLoadFileAndEncode(t *testing.T) {
	projects, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, projects); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	loaded, err := LoadFile(path, nil)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(loaded) != len(projects) || loaded[2].ID != "p3" || loaded[2].List != domain.ListFinished {
		t.Fatalf("unexpected loaded projects %+v", loaded)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), nil); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
