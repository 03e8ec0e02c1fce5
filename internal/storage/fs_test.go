package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/flowscript/internal/apperr"
)

func tempRoot(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir, DefaultFilter())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempRoot(t)
	content := []byte("module.exports = function () {\n};\n")
	if err := s.Write("tab/script.js", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("tab/script.js")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
	if !s.Exists("tab/script.js") {
		t.Error("Exists = false after Write")
	}
	if s.Exists("tab") {
		t.Error("Exists should be false for directories")
	}
}

func TestMove(t *testing.T) {
	s := tempRoot(t)
	_ = s.Write("old/a.js", []byte("data"))
	if err := s.Move("old/a.js", "new/deeper/a.js"); err != nil {
		t.Fatalf("Move: %v", err)
	}
	got, err := s.Read("new/deeper/a.js")
	if err != nil {
		t.Fatalf("Read after move: %v", err)
	}
	if string(got) != "data" {
		t.Errorf("content = %q", got)
	}
	if s.Exists("old/a.js") {
		t.Error("old path should not exist")
	}
}

func TestListFiltersAndOrders(t *testing.T) {
	s := tempRoot(t)
	_ = s.Write("b/two.js", []byte("2"))
	_ = s.Write("a/one.ts", []byte("1"))
	_ = s.Write("a/one.test.js", []byte("test"))
	_ = s.Write("a/helper.spec.ts", []byte("spec"))
	_ = s.Write("readme.md", []byte("docs"))

	items, err := s.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2 (%v)", len(items), items)
	}
	if items[0].Path != "a/one.ts" || items[1].Path != "b/two.js" {
		t.Errorf("paths = %q, %q", items[0].Path, items[1].Path)
	}
}

func TestPrune(t *testing.T) {
	s := tempRoot(t)
	_ = s.Write("x/y/z.js", []byte("z"))
	_ = s.Write("x/keep.js", []byte("k"))
	if err := s.Move("x/y/z.js", "other/z.js"); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if err := s.Prune("x/y"); err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Root(), "x", "y")); !errors.Is(err, os.ErrNotExist) {
		t.Error("empty dir x/y should be removed")
	}
	if _, err := os.Stat(filepath.Join(s.Root(), "x")); err != nil {
		t.Error("non-empty dir x should survive")
	}
	if err := s.Prune(""); err != nil {
		t.Fatalf("Prune root: %v", err)
	}
	if _, err := os.Stat(s.Root()); err != nil {
		t.Error("root must never be pruned")
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempRoot(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.js",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Write(p, []byte("x")); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
	}
}

func TestAtomicWriteLeavesNoTempFiles(t *testing.T) {
	s := tempRoot(t)
	_ = s.Write("atomic.js", []byte("original"))
	if err := s.Write("atomic.js", []byte("updated")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("atomic.js")
	if string(got) != "updated" {
		t.Errorf("expected updated content, got %q", got)
	}
	matches, _ := filepath.Glob(filepath.Join(s.root, ".flowscript-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFS_MissingRoot(t *testing.T) {
	_, err := NewFS(filepath.Join(t.TempDir(), "missing"), DefaultFilter())
	if !errors.Is(err, apperr.ErrMissingRoot) {
		t.Errorf("err = %v, want ErrMissingRoot", err)
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "flowscript-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name(), DefaultFilter())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}

func TestFilterEligible(t *testing.T) {
	f := DefaultFilter()
	cases := map[string]bool{
		"a.js":        true,
		"dir/b.TS":    true,
		"c.test.js":   false,
		"d.spec.ts":   false,
		"e.json":      false,
		"testing.js":  true,
		"noextension": false,
	}
	for name, want := range cases {
		if got := f.Eligible(name); got != want {
			t.Errorf("Eligible(%q) = %v, want %v", name, got, want)
		}
	}
}
