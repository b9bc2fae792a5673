package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		kind ChangeKind
		ok   bool
	}{
		{"prefabs/camera.yaml", ChangeCamera, true},
		{"prefabs/Camera.YML", ChangeCamera, true},
		{"prefabs/kart.yaml", ChangeKart, true},
		{"prefabs/scripts/driver.tengo", ChangeScript, true},
		{"prefabs/other.yaml", 0, false},
		{"prefabs/camera.yaml.swp", 0, false},
	}
	for _, c := range cases {
		kind, ok := Classify(c.path)
		if kind != c.kind || ok != c.ok {
			t.Fatalf("Classify(%q) = %v, %v; want %v, %v", c.path, kind, ok, c.kind, c.ok)
		}
	}
}

func TestWatcherReportsCameraEdit(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	path := filepath.Join(dir, "camera.yaml")
	if err := os.WriteFile(path, []byte("name: edited\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case c := <-w.Events:
		if c.Kind != ChangeCamera || filepath.Base(c.Path) != "camera.yaml" {
			t.Fatalf("unexpected change %+v", c)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for change event")
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if got := w.Drain(); len(got) != 0 {
		t.Fatalf("expected no changes after close, got %v", got)
	}
}
