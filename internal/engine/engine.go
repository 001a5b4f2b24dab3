// Package engine wraps the external rasterization (poppler) and
// recognition (tesseract) executables behind small interfaces so the
// pipeline can be tested without either installed.
package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"slices"
)

var (
	// ErrEngineNotFound indicates a required external executable is missing.
	ErrEngineNotFound = errors.New("engine executable not found")

	// ErrEncrypted indicates the source document is password protected.
	ErrEncrypted = errors.New("document is encrypted")
)

// DocumentInfo describes a PDF as reported by the rasterizer's inspector.
type DocumentInfo struct {
	Pages     int
	Encrypted bool
}

// Rasterizer converts single PDF pages into images.
type Rasterizer interface {
	// Inspect returns document metadata, primarily the page count.
	Inspect(ctx context.Context, path string) (DocumentInfo, error)

	// Rasterize renders one 1-based page at the given DPI. An empty
	// slice with a nil error means the page could not be rendered.
	Rasterize(ctx context.Context, path string, page, dpi int) ([]image.Image, error)

	// EstimatePageCount is the degraded fallback when Inspect fails: a
	// full low-resolution rasterization pass, counting rendered pages.
	EstimatePageCount(ctx context.Context, path string) (int, error)
}

// RecognizeConfig tunes the recognition engine for a layout class.
type RecognizeConfig struct {
	// PageSegMode is tesseract's --psm value. 6 treats the page as a
	// single uniform block of text, which suits book scans.
	PageSegMode int

	// EngineMode is tesseract's --oem value. 1 selects the LSTM engine.
	EngineMode int

	// PreserveInterwordSpaces keeps the engine from collapsing spacing,
	// which matters for Ethiopic script.
	PreserveInterwordSpaces bool
}

// BookConfig is the recognition configuration used for scanned books.
func BookConfig() RecognizeConfig {
	return RecognizeConfig{
		PageSegMode:             6,
		EngineMode:              1,
		PreserveInterwordSpaces: true,
	}
}

// Recognizer turns a preprocessed page image into text.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image, lang string, cfg RecognizeConfig) (string, error)
	ListLanguages(ctx context.Context) ([]string, error)
}

// Preflight verifies both engines are invocable and the requested
// language pack is installed. It is the only check allowed to abort the
// whole run, and it runs before any document is touched.
func Preflight(ctx context.Context, rast *PopplerRasterizer, rec *TesseractRecognizer, lang string) error {
	if err := rast.Check(); err != nil {
		return fmt.Errorf("rasterizer preflight: %w", err)
	}

	langs, err := rec.ListLanguages(ctx)
	if err != nil {
		return fmt.Errorf("recognizer preflight: %w", err)
	}
	if !slices.Contains(langs, lang) {
		return fmt.Errorf("tesseract language %q is not installed (available: %v)", lang, langs)
	}
	return nil
}
