package frameattrs

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/stackflame/pkg/errors"
)

func TestRead(t *testing.T) {
	in := strings.Join([]string{
		"main\ttitle=entry point\tclass=hot",
		"",
		"worker\thref=https://example.com/w\ttarget=_blank\tstyle=\"opacity:0.5\"",
		"main\tdata-x=1",
	}, "\n")

	m, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if m.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", m.Len())
	}

	main, ok := m.Lookup("main")
	if !ok {
		t.Fatal("main missing")
	}
	if main.Title != "entry point" {
		t.Errorf("Title = %q", main.Title)
	}
	if len(main.Link) != 0 {
		t.Errorf("Link = %v, want none", main.Link)
	}
	wantGroup := []Attr{{"class", "hot"}, {"data-x", "1"}}
	if len(main.Group) != len(wantGroup) {
		t.Fatalf("Group = %v, want %v", main.Group, wantGroup)
	}
	for i := range wantGroup {
		if main.Group[i] != wantGroup[i] {
			t.Errorf("Group[%d] = %v, want %v", i, main.Group[i], wantGroup[i])
		}
	}

	worker, _ := m.Lookup("worker")
	if len(worker.Link) != 2 || worker.Link[0].Value != "https://example.com/w" || worker.Link[1].Name != "target" {
		t.Errorf("Link = %v", worker.Link)
	}
	if len(worker.Group) != 1 || worker.Group[0].Value != "opacity:0.5" {
		t.Errorf("Group = %v", worker.Group)
	}
}

func TestReadInvalid(t *testing.T) {
	_, err := Read(strings.NewReader("main\tnovalue\n"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}

func TestNilMap(t *testing.T) {
	var m *Map
	if _, ok := m.Lookup("main"); ok {
		t.Error("nil map should have no entries")
	}
	if m.Len() != 0 {
		t.Error("nil map Len should be 0")
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "attrs.txt"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}
