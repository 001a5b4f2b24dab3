package output

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Semirss/betebrana/internal/config"
)

func TestFilesystemHandlerCopies(t *testing.T) {
	srcDir := t.TempDir()
	archive := filepath.Join(t.TempDir(), "archive")

	src := filepath.Join(srcDir, "መጽሐፍ_converted.txt")
	if err := os.WriteFile(src, []byte("ገጽ አንድ\n\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	h := NewFilesystemHandler(archive)
	if !h.Available() {
		t.Fatal("handler with directory must be available")
	}
	if err := h.Deliver(context.Background(), src); err != nil {
		t.Fatalf("Deliver: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(archive, "መጽሐፍ_converted.txt"))
	if err != nil {
		t.Fatalf("archived copy missing: %v", err)
	}
	if string(data) != "ገጽ አንድ\n\n" {
		t.Fatalf("archived content = %q", data)
	}
}

func TestManagerWithNoTargetsIsNoop(t *testing.T) {
	m := NewManager(config.OutputConfig{})
	if len(m.Targets()) != 0 {
		t.Fatalf("targets = %v", m.Targets())
	}
	if err := m.Deliver(context.Background(), "/nonexistent.txt"); err != nil {
		t.Fatalf("empty manager must not error: %v", err)
	}
}

func TestManagerBuildsConfiguredHandlers(t *testing.T) {
	m := NewManager(config.OutputConfig{
		ArchiveDirectory: t.TempDir(),
		SMB: config.SMBConfig{
			Enabled: true,
			Server:  "nas.local",
			Share:   "books",
		},
	})

	targets := m.Targets()
	if len(targets) != 2 {
		t.Fatalf("targets = %v", targets)
	}
}

func TestSMBHandlerAvailability(t *testing.T) {
	h := NewSMBHandler(config.SMBConfig{Server: "nas.local"})
	if h.Available() {
		t.Fatal("handler without share must be unavailable")
	}
	h = NewSMBHandler(config.SMBConfig{Server: "nas.local", Share: "books"})
	if !h.Available() {
		t.Fatal("handler with server and share must be available")
	}
}
