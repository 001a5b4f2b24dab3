package batch

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Semirss/betebrana/internal/engine"
	"github.com/Semirss/betebrana/internal/pipeline"
	"github.com/Semirss/betebrana/internal/progress"
)

// stubRasterizer renders a fixed gray page, and refuses documents whose
// name contains "bad".
type stubRasterizer struct{}

func (stubRasterizer) Inspect(_ context.Context, path string) (engine.DocumentInfo, error) {
	if strings.Contains(path, "bad") {
		return engine.DocumentInfo{}, errors.New("pdfinfo: exit status 1")
	}
	return engine.DocumentInfo{Pages: 2}, nil
}

func (stubRasterizer) Rasterize(_ context.Context, _ string, _, _ int) ([]image.Image, error) {
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 100
	}
	return []image.Image{img}, nil
}

func (stubRasterizer) EstimatePageCount(_ context.Context, path string) (int, error) {
	if strings.Contains(path, "bad") {
		return 0, errors.New("pdftoppm: exit status 1")
	}
	return 2, nil
}

type stubRecognizer struct{}

func (stubRecognizer) Recognize(_ context.Context, _ image.Image, _ string, _ engine.RecognizeConfig) (string, error) {
	return "ምዕራፍ", nil
}

func (stubRecognizer) ListLanguages(_ context.Context) ([]string, error) {
	return []string{"amh"}, nil
}

func writePDF(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("%PDF-1.4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newDriver() *Driver {
	pages := pipeline.NewPageProcessor(stubRasterizer{}, stubRecognizer{}, "amh", engine.BookConfig(), 0.99)
	p := pipeline.NewDocumentPipeline(stubRasterizer{}, pages, 300)
	return NewDriver(p, nil, progress.Nop{}, nil)
}

func TestExecuteCountsAndMirrorsTree(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	writePDF(t, filepath.Join(inDir, "one.pdf"))
	writePDF(t, filepath.Join(inDir, "shelf", "two.PDF"))
	writePDF(t, filepath.Join(inDir, "shelf", "deep", "three.pdf"))
	os.WriteFile(filepath.Join(inDir, "notes.txt"), []byte("skip me"), 0o644)

	res, err := newDriver().Execute(context.Background(), inDir, outDir)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Found != 3 || res.Converted != 3 || res.Failed != 0 {
		t.Fatalf("result = %+v", res)
	}

	for _, want := range []string{
		filepath.Join(outDir, "one_converted.txt"),
		filepath.Join(outDir, "shelf", "two_converted.txt"),
		filepath.Join(outDir, "shelf", "deep", "three_converted.txt"),
	} {
		if _, err := os.Stat(want); err != nil {
			t.Fatalf("expected output %s: %v", want, err)
		}
	}
}

func TestExecuteDocumentFailureDoesNotAbortBatch(t *testing.T) {
	inDir := t.TempDir()

	writePDF(t, filepath.Join(inDir, "a_good.pdf"))
	writePDF(t, filepath.Join(inDir, "b_bad.pdf"))
	writePDF(t, filepath.Join(inDir, "c_good.pdf"))

	res, err := newDriver().Execute(context.Background(), inDir, "")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Found != 3 || res.Converted != 2 || res.Failed != 1 {
		t.Fatalf("result = %+v", res)
	}

	// Outputs land beside the sources when no output root is given.
	if _, err := os.Stat(filepath.Join(inDir, "a_good_converted.txt")); err != nil {
		t.Fatalf("missing in-place output: %v", err)
	}
	if _, err := os.Stat(filepath.Join(inDir, "b_bad_converted.txt")); !os.IsNotExist(err) {
		t.Fatal("failed document must not produce an output file")
	}
}

func TestExecuteRejectsNonDirectory(t *testing.T) {
	if _, err := newDriver().Execute(context.Background(), "/nonexistent/input", ""); err == nil {
		t.Fatal("expected error for missing input directory")
	}
}

func TestRunSnapshotTracksProgress(t *testing.T) {
	run := NewRun()
	if run.ID() == "" {
		t.Fatal("run must have an ID")
	}

	run.documentFound("/books/x.pdf")
	run.Notify(progress.Update{Status: progress.StatusDocumentStarted, Total: 10})
	run.Notify(progress.Update{Status: progress.StatusPageDone, Page: 4, Total: 10})

	snap := run.Snapshot()
	if snap.Found != 1 || snap.CurrentPage != 4 || snap.TotalPages != 10 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Status != RunRunning {
		t.Fatalf("status = %s", snap.Status)
	}

	run.documentConverted()
	run.finish()

	snap = run.Snapshot()
	if snap.Converted != 1 || snap.Status != RunFinished {
		t.Fatalf("final snapshot = %+v", snap)
	}
	if snap.CurrentDocument != "" {
		t.Fatal("finished run must clear the current document")
	}
}
