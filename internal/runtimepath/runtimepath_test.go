package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestSocketPath_UnderXDGRuntimeDir(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	got, err := SocketPath()
	if err != nil {
		t.Fatalf("SocketPath() error: %v", err)
	}
	if want := filepath.Join(td, "paned.sock"); got != want {
		t.Fatalf("SocketPath() = %q, want %q", got, want)
	}
}

func TestSocketPath_FallsBackWithoutXDGRuntimeDir(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")

	got, err := SocketPath()
	if err != nil {
		t.Fatalf("SocketPath() error: %v", err)
	}

	uid := os.Getuid()
	wantRun := fmt.Sprintf("/run/user/%d/paned.sock", uid)
	wantTmp := fmt.Sprintf("/tmp/paned-%d/paned.sock", uid)
	if got != wantRun && got != wantTmp {
		t.Fatalf("SocketPath() = %q, want %q or %q", got, wantRun, wantTmp)
	}
}
