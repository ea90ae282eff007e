package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spaghettifunk/kalsengi/engine/renderer/metadata"
)

func TestWatcherIndexesAssets(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "shaders")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	files := []struct {
		path string
		want metadata.ResourceType
	}{
		{filepath.Join(sub, "lit.vert"), metadata.ResourceTypeShader},
		{filepath.Join(dir, "materials.toml"), metadata.ResourceTypeMaterial},
		{filepath.Join(dir, "checker.png"), metadata.ResourceTypeImage},
		{filepath.Join(dir, "notes.txt"), metadata.ResourceTypeNone},
	}
	for _, f := range files {
		if err := os.WriteFile(f.path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	w, err := NewWatcher(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	for _, f := range files {
		info, ok := w.Asset(f.path)
		if f.want == metadata.ResourceTypeNone {
			if ok {
				t.Errorf("%s should not be indexed", f.path)
			}
			continue
		}
		if !ok || info.Type != f.want {
			t.Errorf("%s: got %+v, %v", f.path, info, ok)
		}
	}
	if got := len(w.Assets()); got != 3 {
		t.Fatalf("indexed %d assets, want 3", got)
	}
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flat.frag")
	if err := os.WriteFile(path, []byte("void main() {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan string, 16)
	w, err := NewWatcher(dir, func(p string) {
		select {
		case changed <- p:
		default:
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("void main() { }"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case got := <-changed:
		if got != filepath.Clean(path) {
			t.Fatalf("changed %s, want %s", got, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcherCloseTwice(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); !errors.Is(err, errWatcherClosed) {
		t.Fatalf("expected closed error, got %v", err)
	}
}
