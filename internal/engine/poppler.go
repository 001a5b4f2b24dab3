package engine

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	// pdftoppm can emit PNG or TIFF depending on configuration.
	_ "image/png"

	_ "golang.org/x/image/tiff"
)

const estimateDPI = 50

// PopplerRasterizer drives the poppler pdftoppm and pdfinfo executables.
type PopplerRasterizer struct {
	// binDir is the directory holding the poppler binaries. Empty means
	// resolve via $PATH.
	binDir string

	// format is the pdftoppm output format, "png" or "tiff".
	format string
}

// NewPopplerRasterizer creates a rasterizer. binDir may be empty to use
// $PATH; format defaults to "png".
func NewPopplerRasterizer(binDir, format string) *PopplerRasterizer {
	if format == "" {
		format = "png"
	}
	return &PopplerRasterizer{binDir: binDir, format: format}
}

func (r *PopplerRasterizer) binary(name string) string {
	if r.binDir == "" {
		return name
	}
	return filepath.Join(r.binDir, name)
}

// Check verifies pdftoppm and pdfinfo are invocable.
func (r *PopplerRasterizer) Check() error {
	for _, name := range []string{"pdftoppm", "pdfinfo"} {
		if _, err := exec.LookPath(r.binary(name)); err != nil {
			return fmt.Errorf("%w: %s (install poppler-utils)", ErrEngineNotFound, r.binary(name))
		}
	}
	return nil
}

// Inspect runs pdfinfo and parses the page count.
func (r *PopplerRasterizer) Inspect(ctx context.Context, path string) (DocumentInfo, error) {
	cmd := exec.CommandContext(ctx, r.binary("pdfinfo"), path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if isEncryptedMessage(stderr.String()) {
			return DocumentInfo{Encrypted: true}, fmt.Errorf("pdfinfo %s: %w", path, ErrEncrypted)
		}
		return DocumentInfo{}, fmt.Errorf("pdfinfo %s: %w: %s", path, err, strings.TrimSpace(stderr.String()))
	}

	info, err := parsePDFInfo(stdout.String())
	if err != nil {
		return DocumentInfo{}, fmt.Errorf("pdfinfo %s: %w", path, err)
	}
	return info, nil
}

// parsePDFInfo extracts the fields we care about from pdfinfo's
// "Key: value" output.
func parsePDFInfo(out string) (DocumentInfo, error) {
	var info DocumentInfo
	pages := -1

	for _, line := range strings.Split(out, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch strings.TrimSpace(key) {
		case "Pages":
			n, err := strconv.Atoi(value)
			if err != nil {
				return DocumentInfo{}, fmt.Errorf("bad page count %q", value)
			}
			pages = n
		case "Encrypted":
			info.Encrypted = strings.HasPrefix(value, "yes")
		}
	}

	if pages < 0 {
		return DocumentInfo{}, fmt.Errorf("no page count in pdfinfo output")
	}
	info.Pages = pages
	return info, nil
}

// Rasterize renders a single page to an image via pdftoppm writing to
// stdout. pdftoppm exiting cleanly with no output is how poppler signals
// an unrenderable page; that surfaces as an empty slice, not an error.
func (r *PopplerRasterizer) Rasterize(ctx context.Context, path string, page, dpi int) ([]image.Image, error) {
	args := []string{
		"-" + r.format,
		"-r", strconv.Itoa(dpi),
		"-f", strconv.Itoa(page),
		"-l", strconv.Itoa(page),
		path,
	}

	cmd := exec.CommandContext(ctx, r.binary("pdftoppm"), args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if isEncryptedMessage(stderr.String()) {
			return nil, fmt.Errorf("pdftoppm page %d: %w", page, ErrEncrypted)
		}
		return nil, fmt.Errorf("pdftoppm page %d: %w: %s", page, err, strings.TrimSpace(stderr.String()))
	}

	if stdout.Len() == 0 {
		return nil, nil
	}

	img, _, err := image.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("decode page %d raster: %w", page, err)
	}
	return []image.Image{img}, nil
}

// EstimatePageCount rasterizes the whole document at low resolution into
// a temporary directory and counts the produced files. Slow and lossy,
// used only when pdfinfo fails.
func (r *PopplerRasterizer) EstimatePageCount(ctx context.Context, path string) (int, error) {
	dir, err := os.MkdirTemp("", "betebrana-count-*")
	if err != nil {
		return 0, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	args := []string{
		"-" + r.format,
		"-r", strconv.Itoa(estimateDPI),
		path,
		filepath.Join(dir, "page"),
	}

	cmd := exec.CommandContext(ctx, r.binary("pdftoppm"), args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("pdftoppm full pass: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("count rendered pages: %w", err)
	}
	if len(entries) == 0 {
		return 0, fmt.Errorf("full rasterization produced no pages")
	}

	slog.Debug("estimated page count via rasterization", "path", path, "pages", len(entries))
	return len(entries), nil
}

// isEncryptedMessage matches poppler's stderr on password-protected input.
func isEncryptedMessage(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "encrypted") || strings.Contains(s, "incorrect password")
}
