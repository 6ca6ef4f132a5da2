package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestScanSkipsHiddenAndExcluded(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.js", "var a")
	writeFile(t, root, "lib/b.js", "var b")
	writeFile(t, root, "lib/b.min.js", "var b")
	writeFile(t, root, ".git/config", "[core]")
	writeFile(t, root, "vendor/dep/c.js", "var c")

	d := &Dir{Root: root, Exclude: []string{"*.min.js", "vendor/**"}}
	if err := d.Scan(); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	got := d.Files()
	want := []string{"a.js", "lib/b.js"}
	if len(got) != len(want) {
		t.Fatalf("Files = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Files = %v, want %v", got, want)
		}
	}
}

func TestScanSizeLimit(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.js", "x")
	writeFile(t, root, "big.js", string(make([]byte, 100)))

	d := &Dir{Root: root, MaxSize: 10}
	if err := d.Scan(); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if got := d.Files(); len(got) != 1 || got[0] != "small.js" {
		t.Fatalf("Files = %v", got)
	}
}

func TestReadRoundTrip(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "lib/x.js", "content here")

	d := &Dir{Root: root}
	if err := d.Scan(); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	data, err := d.Read("lib/x.js")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "content here" {
		t.Fatalf("Read = %q", data)
	}
}

func TestFilter(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.js", "a")
	writeFile(t, root, "b.js", "b")

	d := &Dir{Root: root}
	if err := d.Scan(); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	d.Filter(map[string]bool{"b.js": true})
	if got := d.Files(); len(got) != 1 || got[0] != "b.js" {
		t.Fatalf("Files after filter = %v", got)
	}

	// nil set keeps everything.
	d.Filter(nil)
	if got := d.Files(); len(got) != 1 {
		t.Fatalf("nil filter must not change the list: %v", got)
	}
}

func TestVerifyReportsUnreadable(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "ok.js", "fine")
	writeFile(t, root, "gone.js", "doomed")

	d := &Dir{Root: root}
	if err := d.Scan(); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if err := os.Remove(filepath.Join(root, "gone.js")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	problems, err := d.Verify(context.Background())
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(problems) != 1 || problems[0].File != "gone.js" {
		t.Fatalf("problems = %v", problems)
	}
}

func TestTrackedFilesNonRepo(t *testing.T) {
	set, err := TrackedFiles(t.TempDir(), false)
	if err != nil {
		t.Fatalf("TrackedFiles: %v", err)
	}
	if set != nil {
		t.Fatalf("non-repo should yield nil set, got %v", set)
	}
}
