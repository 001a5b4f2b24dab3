package output

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FilesystemHandler copies converted files into a flat archive
// directory.
type FilesystemHandler struct {
	directory string
}

// NewFilesystemHandler creates a handler archiving into directory.
func NewFilesystemHandler(directory string) *FilesystemHandler {
	return &FilesystemHandler{directory: directory}
}

func (h *FilesystemHandler) Name() string { return "filesystem" }

func (h *FilesystemHandler) Available() bool { return h.directory != "" }

// Deliver copies the text file into the archive directory.
func (h *FilesystemHandler) Deliver(_ context.Context, textPath string) error {
	if err := os.MkdirAll(h.directory, 0o755); err != nil {
		return fmt.Errorf("create archive directory: %w", err)
	}

	src, err := os.Open(textPath)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	dstPath := filepath.Join(h.directory, filepath.Base(textPath))
	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("create archive copy: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("copy to archive: %w", err)
	}
	return dst.Close()
}
