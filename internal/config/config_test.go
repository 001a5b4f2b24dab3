package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Processing.Language != "amh" {
		t.Fatalf("expected language amh, got %s", cfg.Processing.Language)
	}
	if cfg.Processing.DPI != 300 {
		t.Fatalf("expected dpi 300, got %d", cfg.Processing.DPI)
	}
	if cfg.Processing.PageSegMode != 6 {
		t.Fatalf("expected page_seg_mode 6, got %d", cfg.Processing.PageSegMode)
	}
	if !cfg.Processing.PreserveInterwordSpaces {
		t.Fatal("expected preserve_interword_spaces on")
	}
	if cfg.Status.Enabled {
		t.Fatal("status server must be off by default")
	}
}

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "betebrana.toml")

	content := `
[engines]
poppler_path = "/opt/poppler/bin"
tesseract_path = "/usr/local/bin/tesseract"

[processing]
language = "amh+eng"
dpi = 400
raster_format = "tiff"

[status]
enabled = true
listen = "0.0.0.0:9000"

[logging]
level = "debug"
format = "json"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Engines.PopplerPath != "/opt/poppler/bin" {
		t.Fatalf("poppler_path = %s", cfg.Engines.PopplerPath)
	}
	if cfg.Processing.Language != "amh+eng" {
		t.Fatalf("language = %s", cfg.Processing.Language)
	}
	if cfg.Processing.DPI != 400 {
		t.Fatalf("dpi = %d", cfg.Processing.DPI)
	}
	if cfg.Processing.RasterFormat != "tiff" {
		t.Fatalf("raster_format = %s", cfg.Processing.RasterFormat)
	}
	// Unset keys keep their defaults.
	if cfg.Processing.PageSegMode != 6 {
		t.Fatalf("page_seg_mode default lost: %d", cfg.Processing.PageSegMode)
	}
	if !cfg.Status.Enabled || cfg.Status.Listen != "0.0.0.0:9000" {
		t.Fatalf("status config = %+v", cfg.Status)
	}
}

func TestLoadSMBPasswordFromFile(t *testing.T) {
	tmpDir := t.TempDir()

	secretPath := filepath.Join(tmpDir, "smb_pass")
	if err := os.WriteFile(secretPath, []byte("s3cret\n"), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}

	configPath := filepath.Join(tmpDir, "betebrana.toml")
	content := `
[output.smb]
enabled = true
server = "nas.local"
share = "books"
username = "ocr"
password_file = "` + secretPath + `"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Output.SMB.Password != "s3cret" {
		t.Fatalf("password = %q", cfg.Output.SMB.Password)
	}
}

func TestProfileStoreBuiltins(t *testing.T) {
	store, err := NewProfileStore("")
	if err != nil {
		t.Fatalf("NewProfileStore: %v", err)
	}

	book, ok := store.Get("book")
	if !ok {
		t.Fatal("book profile missing")
	}
	if book.Processing.DPI != 300 {
		t.Fatalf("book dpi = %d", book.Processing.DPI)
	}

	draft, ok := store.Get("draft")
	if !ok {
		t.Fatal("draft profile missing")
	}
	if draft.Processing.DPI != 150 {
		t.Fatalf("draft dpi = %d", draft.Processing.DPI)
	}
}

func TestProfileStoreLoadsDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[profile]
name = "archive"
description = "High resolution archival pass"

[processing]
dpi = 600
language = "amh"
`
	if err := os.WriteFile(filepath.Join(tmpDir, "archive.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}

	store, err := NewProfileStore(tmpDir)
	if err != nil {
		t.Fatalf("NewProfileStore: %v", err)
	}

	p, ok := store.Get("archive")
	if !ok {
		t.Fatal("archive profile missing")
	}
	if p.Processing.DPI != 600 {
		t.Fatalf("archive dpi = %d", p.Processing.DPI)
	}
}

func TestProfileApplyOverlaysNonZero(t *testing.T) {
	cfg := DefaultConfig().Processing

	p := &Profile{Processing: ProfileProcessing{DPI: 150}}
	p.Apply(&cfg)

	if cfg.DPI != 150 {
		t.Fatalf("dpi not applied: %d", cfg.DPI)
	}
	if cfg.Language != "amh" {
		t.Fatalf("language clobbered: %s", cfg.Language)
	}
	if cfg.PageSegMode != 6 {
		t.Fatalf("psm clobbered: %d", cfg.PageSegMode)
	}
}
