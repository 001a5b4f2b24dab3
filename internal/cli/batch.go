package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Semirss/betebrana/internal/batch"
	"github.com/Semirss/betebrana/internal/engine"
	"github.com/Semirss/betebrana/internal/output"
	"github.com/Semirss/betebrana/internal/progress"
	"github.com/Semirss/betebrana/internal/status"
)

var batchCmd = &cobra.Command{
	Use:   "batch <input-dir>",
	Short: "Convert every PDF under a directory tree",
	Long: "Recursively converts all PDF files under the input directory. " +
		"With --output-dir the source layout is mirrored there; otherwise " +
		"each text file is written beside its source. Individual document " +
		"failures are reported and counted, never fatal to the batch.",
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringP("output-dir", "o", "", "output root directory (default: beside each source)")
	batchCmd.Flags().Bool("quiet", false, "suppress the progress display")
	batchCmd.Flags().String("listen", "", "serve batch status on this address (enables the status server)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	rast, rec := buildEngines()

	// The only failure allowed to abort the whole run.
	if err := engine.Preflight(cmd.Context(), rast, rec, cfg.Processing.Language); err != nil {
		return err
	}

	run := batch.NewRun()

	observers := progress.Multi{}
	if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
		observers = append(observers, progress.NewConsole(os.Stdout))
	}

	if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
		cfg.Status.Enabled = true
		cfg.Status.Listen = listen
	}

	var srv *status.Server
	if cfg.Status.Enabled {
		srv = status.NewServer(cfg.Status, run)
		observers = append(observers, srv.Hub())
		go func() {
			if err := srv.Start(); err != nil {
				slog.Error("status server failed", "error", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	outputs := output.NewManager(cfg.Output)
	driver := batch.NewDriver(newDocumentPipeline(rast, rec), outputs, observers, run)

	outputDir, _ := cmd.Flags().GetString("output-dir")
	res, err := driver.Execute(cmd.Context(), args[0], outputDir)
	if err != nil {
		return err
	}

	fmt.Printf("\nConversion complete.\n")
	fmt.Printf("Total PDF files found: %d\n", res.Found)
	fmt.Printf("Successfully converted: %d\n", res.Converted)
	if res.Failed > 0 {
		fmt.Printf("Failed to convert: %d files\n", res.Failed)
	}

	// Document-level failures are reported above, never an exit error.
	return nil
}
