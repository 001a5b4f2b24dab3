package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/Semirss/betebrana/internal/engine"
	"github.com/Semirss/betebrana/internal/progress"
)

// State names the stages a document moves through. Terminal states are
// Succeeded and Failed.
type State string

const (
	StateValidating      State = "validating"
	StateCountingPages   State = "counting_pages"
	StateProcessingPages State = "processing_pages"
	StateClosing         State = "closing"
	StateSucceeded       State = "succeeded"
	StateFailed          State = "failed"
)

// Result reports a successfully converted document.
type Result struct {
	OutputPath string
	Pages      int
	Elapsed    time.Duration
}

// DocumentPipeline converts one PDF into one text file. Pages are
// processed strictly sequentially in increasing order; a bad page is
// recorded as a marker and never aborts the document.
type DocumentPipeline struct {
	raster  engine.Rasterizer
	pages   *PageProcessor
	dpi     int
	pdfconf *model.Configuration
}

// NewDocumentPipeline wires the document pipeline.
func NewDocumentPipeline(raster engine.Rasterizer, pages *PageProcessor, dpi int) *DocumentPipeline {
	return &DocumentPipeline{
		raster:  raster,
		pages:   pages,
		dpi:     dpi,
		pdfconf: model.NewDefaultConfiguration(),
	}
}

// Convert runs the full pipeline for one document and returns the
// output path. All failures come back as errors, never panics; the
// caller decides whether to keep going with other documents.
func (d *DocumentPipeline) Convert(ctx context.Context, pdfPath, outputDir string, obs progress.Observer) (*Result, error) {
	if obs == nil {
		obs = progress.Nop{}
	}
	start := time.Now()
	log := slog.With("document", pdfPath)

	log.Debug("state change", "state", StateValidating)
	if err := d.validate(pdfPath); err != nil {
		return nil, err
	}

	log.Debug("state change", "state", StateCountingPages)
	total, err := d.countPages(ctx, pdfPath, log)
	if err != nil {
		return nil, describeFailure(err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	outPath := UniqueOutputPath(outputDir, pdfPath)

	sink, err := NewSink(outPath)
	if err != nil {
		return nil, err
	}

	log.Info("starting conversion", "pages", total, "dpi", d.dpi, "output", outPath)
	obs.Notify(progress.Update{Status: progress.StatusDocumentStarted, Document: pdfPath, Total: total})

	log.Debug("state change", "state", StateProcessingPages)
	for page := 1; page <= total; page++ {
		pageStart := time.Now()

		segment := d.pages.Process(ctx, pdfPath, page, d.dpi)
		if err := sink.WritePage(segment); err != nil {
			sink.Close()
			return nil, describeFailure(fmt.Errorf("page %d: %w", page, err))
		}

		log.Debug("page done", "page", page, "total", total, "elapsed", time.Since(pageStart))
		obs.Notify(progress.Update{Status: progress.StatusPageDone, Document: pdfPath, Page: page, Total: total})
	}

	log.Debug("state change", "state", StateClosing)
	if err := sink.Close(); err != nil {
		return nil, describeFailure(fmt.Errorf("close output: %w", err))
	}

	res := &Result{OutputPath: outPath, Pages: total, Elapsed: time.Since(start)}
	log.Info("conversion finished", "pages", res.Pages, "elapsed", res.Elapsed, "output", res.OutputPath)
	log.Debug("state change", "state", StateSucceeded)
	return res, nil
}

// validate checks the path refers to a readable PDF and probes it with
// pdfcpu before any poppler call. Only a clean encryption verdict is
// fatal here; other pdfcpu complaints are logged and left to poppler,
// which copes with more malformed files.
func (d *DocumentPipeline) validate(pdfPath string) error {
	info, err := os.Stat(pdfPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", pdfPath)
		}
		return fmt.Errorf("stat input: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s", pdfPath)
	}
	if !strings.EqualFold(filepath.Ext(pdfPath), ".pdf") {
		return fmt.Errorf("not a PDF file: %s", pdfPath)
	}

	if err := api.ValidateFile(pdfPath, d.pdfconf); err != nil {
		if isEncryptionError(err) {
			return describeFailure(fmt.Errorf("%s: %w", pdfPath, engine.ErrEncrypted))
		}
		slog.Warn("pdfcpu validation failed, attempting conversion anyway", "document", pdfPath, "error", err)
	}
	return nil
}

// countPages resolves the total page count: pdfinfo first, then the
// degraded low-resolution rasterization pass. Both failing is a hard
// document failure.
func (d *DocumentPipeline) countPages(ctx context.Context, pdfPath string, log *slog.Logger) (int, error) {
	info, err := d.raster.Inspect(ctx, pdfPath)
	if err == nil {
		log.Debug("page count from inspector", "pages", info.Pages)
		return info.Pages, nil
	}
	if errors.Is(err, engine.ErrEncrypted) {
		return 0, err
	}

	log.Warn("page inspection failed, estimating by rasterization", "error", err)
	pages, estErr := d.raster.EstimatePageCount(ctx, pdfPath)
	if estErr != nil {
		return 0, fmt.Errorf("could not determine page count: %w (estimation also failed: %v)", err, estErr)
	}
	log.Info("estimated page count via low-resolution rasterization", "pages", pages)
	return pages, nil
}

// describeFailure attaches the password-protection hint to encryption
// failures and passes everything else through.
func describeFailure(err error) error {
	if errors.Is(err, engine.ErrEncrypted) || isEncryptionError(err) {
		return fmt.Errorf("%w (the PDF may be password-protected; decrypt it first)", err)
	}
	return err
}

func isEncryptionError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "encrypt") || strings.Contains(msg, "password")
}
