package index

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/flowscript/internal/metadata"
	"github.com/starford/flowscript/internal/storage"
	"github.com/starford/flowscript/internal/testutil"
	"github.com/starford/flowscript/internal/wrapper"
)

func TestBuild_MapsIDsToPaths(t *testing.T) {
	root, store := testutil.TestRoot(t)
	testutil.WriteFile(t, root, "tab-a/one.js", wrapper.Wrap("n1", "One", "return msg;", "ta"))
	testutil.WriteFile(t, root, "tab-b/two.ts", wrapper.Wrap("n2", "Two", "return msg;", "tb"))
	testutil.WriteFile(t, root, "legacy.js", "/* @node-red-meta {\"id\": \"n3\"} */\nreturn msg;\n")
	testutil.WriteFile(t, root, "plain.js", "console.log('no metadata');\n")
	testutil.WriteFile(t, root, "tab-a/one.test.js", wrapper.Wrap("n9", "Test", "", "ta"))
	testutil.WriteFile(t, root, "notes.md", wrapper.Wrap("n8", "Doc", "", "ta"))

	ix, err := NewBuilder(store, testutil.DiscardLogger()).Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := map[string]string{
		"n1": "tab-a/one.js",
		"n2": "tab-b/two.ts",
		"n3": "legacy.js",
	}
	if diff := cmp.Diff(want, ix.Paths()); diff != "" {
		t.Errorf("Paths mismatch (-want +got):\n%s", diff)
	}
	e, ok := ix.Lookup("n3")
	if !ok || e.Meta.Format != metadata.FormatLegacy {
		t.Errorf("n3 entry = %+v", e)
	}
	if id, _ := ix.Owner("tab-a/one.js"); id != "n1" {
		t.Errorf("Owner = %q", id)
	}
}

func TestBuild_SkipsMalformed(t *testing.T) {
	root, store := testutil.TestRoot(t)
	testutil.WriteFile(t, root, "bad.js", "/* @node-red-meta {id: [broken} */")
	testutil.WriteFile(t, root, "good.js", wrapper.Wrap("n1", "", "", "t1"))

	ix, err := NewBuilder(store, testutil.DiscardLogger()).Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if ix.Len() != 1 {
		t.Errorf("Len = %d, want 1", ix.Len())
	}
	if ix.Skipped() != 1 {
		t.Errorf("Skipped = %d, want 1", ix.Skipped())
	}
}

func TestBuild_TopLevelScriptIsIndexed(t *testing.T) {
	root, store := testutil.TestRoot(t)
	testutil.WriteFile(t, root, "global/top.js", wrapper.Wrap("g1", "Top", "return msg;", ""))

	ix, err := NewBuilder(store, testutil.DiscardLogger()).Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	e, ok := ix.Lookup("g1")
	if !ok || e.Path != "global/top.js" || e.Meta.Z != "" {
		t.Errorf("Lookup(g1) = %+v, %v", e, ok)
	}
	if id, _ := ix.Owner("global/top.js"); id != "g1" {
		t.Errorf("Owner = %q", id)
	}
}

func TestBuild_DuplicateIDLastWriterWins(t *testing.T) {
	root, store := testutil.TestRoot(t)
	testutil.WriteFile(t, root, "a/first.js", wrapper.Wrap("dup", "", "1", "t1"))
	testutil.WriteFile(t, root, "b/second.js", wrapper.Wrap("dup", "", "2", "t1"))

	ix, err := NewBuilder(store, testutil.DiscardLogger()).Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	e, _ := ix.Lookup("dup")
	if e.Path != "b/second.js" {
		t.Errorf("path = %q, want the later file", e.Path)
	}
	if _, ok := ix.Owner("a/first.js"); ok {
		t.Error("shadowed file should not own the id")
	}
	if got := ix.IDs(); len(got) != 1 {
		t.Errorf("IDs = %v", got)
	}
}

func TestBuild_MissingRootIsEmpty(t *testing.T) {
	ix, err := Build(context.Background(), filepath.Join(t.TempDir(), "absent"), storage.DefaultFilter(), testutil.DiscardLogger())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if ix.Len() != 0 {
		t.Errorf("Len = %d, want 0", ix.Len())
	}
}

func TestFiles_ReportsDecodeErrors(t *testing.T) {
	root, store := testutil.TestRoot(t)
	testutil.WriteFile(t, root, "x.js", "/**\n * @node-red-id only-id\n */")

	files, err := NewBuilder(store, testutil.DiscardLogger()).Files(context.Background())
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(files) != 1 || files[0].Err == nil || files[0].Meta != nil {
		t.Errorf("files = %+v", files)
	}
}

func TestFiles_Cancelled(t *testing.T) {
	root, store := testutil.TestRoot(t)
	testutil.WriteFile(t, root, "x.js", "return msg;")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewBuilder(store, testutil.DiscardLogger()).Files(ctx); err == nil {
		t.Error("expected error for cancelled context")
	}
}
