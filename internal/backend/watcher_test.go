package backend

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsFileChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panelkit.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	w := NewWatcher(path, 10*time.Millisecond)
	defer func() {
		w.Stop()
		w.Wait()
	}()

	// mtime granularity on some filesystems is a full second; changing the
	// size makes the fingerprint change regardless.
	if err := os.WriteFile(path, []byte(`{"popup_panels": []}`), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	select {
	case evt := <-w.Events():
		if evt.Err != nil {
			t.Fatalf("event error: %v", evt.Err)
		}
		if evt.Kind != KindSettings {
			t.Fatalf("event kind %v", evt.Kind)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no change event within deadline")
	}
}

func TestWatcherQuietWhenUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panelkit.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	w := NewWatcher(path, 10*time.Millisecond)
	defer func() {
		w.Stop()
		w.Wait()
	}()

	select {
	case evt := <-w.Events():
		t.Fatalf("unexpected event: %+v", evt)
	case <-time.After(100 * time.Millisecond):
	}
}
