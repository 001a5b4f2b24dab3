// Package batch walks a directory tree and feeds every PDF through the
// document pipeline, one document at a time.
package batch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Semirss/betebrana/internal/output"
	"github.com/Semirss/betebrana/internal/pipeline"
	"github.com/Semirss/betebrana/internal/progress"
)

// Result aggregates the outcome of a batch run. Counts only grow; a
// failed document is never retried.
type Result struct {
	Found     int
	Converted int
	Failed    int
}

// Driver converts every PDF under an input root. Documents and pages
// run strictly sequentially; the external engines are not trusted to be
// invoked concurrently.
type Driver struct {
	pipeline *pipeline.DocumentPipeline
	outputs  *output.Manager
	obs      progress.Observer
	run      *Run
}

// NewDriver wires a batch driver. outputs and obs may be nil.
func NewDriver(p *pipeline.DocumentPipeline, outputs *output.Manager, obs progress.Observer, run *Run) *Driver {
	if obs == nil {
		obs = progress.Nop{}
	}
	if run == nil {
		run = NewRun()
	}
	return &Driver{pipeline: p, outputs: outputs, obs: obs, run: run}
}

// Run returns the live run state.
func (d *Driver) Run() *Run { return d.run }

// Execute walks inputDir recursively and converts every *.pdf found.
// outputDir empty places each text file beside its source; otherwise
// the source tree is mirrored under outputDir. Per-document failures
// are reported and counted, never fatal to the batch.
func (d *Driver) Execute(ctx context.Context, inputDir, outputDir string) (*Result, error) {
	info, err := os.Stat(inputDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("input path is not a directory: %s", inputDir)
	}

	defer d.run.finish()
	res := &Result{}
	obs := progress.Multi{d.obs, d.run}

	walkErr := filepath.WalkDir(inputDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("skipping unreadable entry", "path", path, "error", err)
			return nil
		}
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(path), ".pdf") {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		res.Found++
		d.run.documentFound(path)
		slog.Info("processing document", "n", res.Found, "path", path)

		docOut := d.resolveOutputDir(inputDir, outputDir, path)
		docRes, err := d.pipeline.Convert(ctx, path, docOut, obs)
		if err != nil {
			res.Failed++
			d.run.documentFailed()
			slog.Error("document failed", "path", path, "error", err)
			obs.Notify(progress.Update{
				Status:   progress.StatusDocumentFailed,
				Document: path,
				Message:  fmt.Sprintf("%s: %v", path, err),
			})
			return nil
		}

		res.Converted++
		d.run.documentConverted()
		obs.Notify(progress.Update{
			Status:   progress.StatusDocumentDone,
			Document: path,
			Message:  fmt.Sprintf("%s (%d pages in %s)", docRes.OutputPath, docRes.Pages, docRes.Elapsed.Round(time.Second)),
		})

		if d.outputs != nil {
			if err := d.outputs.Deliver(ctx, docRes.OutputPath); err != nil {
				slog.Warn("delivery failed", "path", docRes.OutputPath, "error", err)
			}
		}
		return nil
	})
	if walkErr != nil {
		return res, walkErr
	}

	obs.Notify(progress.Update{
		Status:  progress.StatusBatchDone,
		Message: fmt.Sprintf("found %d, converted %d, failed %d", res.Found, res.Converted, res.Failed),
	})
	return res, nil
}

// resolveOutputDir maps a source document to its output directory,
// preserving the relative layout under outputDir when one is given.
func (d *Driver) resolveOutputDir(inputDir, outputDir, docPath string) string {
	if outputDir == "" {
		return filepath.Dir(docPath)
	}
	rel, err := filepath.Rel(inputDir, filepath.Dir(docPath))
	if err != nil || rel == "." {
		return outputDir
	}
	return filepath.Join(outputDir, rel)
}
