package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Semirss/betebrana/internal/engine"
	"github.com/Semirss/betebrana/internal/pipeline"
	"github.com/Semirss/betebrana/internal/progress"
)

const timeRound = time.Second

var convertCmd = &cobra.Command{
	Use:   "convert <file.pdf>",
	Short: "Convert a single scanned PDF to text",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().StringP("output-dir", "o", "", "output directory (default: beside the source)")
	convertCmd.Flags().Int("dpi", 0, "rasterization DPI (overrides config/profile)")
	convertCmd.Flags().Bool("quiet", false, "suppress the progress display")
}

func runConvert(cmd *cobra.Command, args []string) error {
	if dpi, _ := cmd.Flags().GetInt("dpi"); dpi > 0 {
		cfg.Processing.DPI = dpi
	}

	rast, rec := buildEngines()
	if err := engine.Preflight(cmd.Context(), rast, rec, cfg.Processing.Language); err != nil {
		return err
	}

	pdfPath := args[0]
	outputDir, _ := cmd.Flags().GetString("output-dir")
	if outputDir == "" {
		outputDir = filepath.Dir(pdfPath)
	}

	var obs progress.Observer = progress.Nop{}
	if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
		obs = progress.NewConsole(os.Stdout)
	}

	res, err := newDocumentPipeline(rast, rec).Convert(cmd.Context(), pdfPath, outputDir, obs)
	if err != nil {
		return err
	}

	fmt.Printf("created %s (%d pages in %s)\n", res.OutputPath, res.Pages, res.Elapsed.Round(timeRound))
	return nil
}

// newDocumentPipeline assembles the per-document pipeline from the
// loaded configuration.
func newDocumentPipeline(rast *engine.PopplerRasterizer, rec *engine.TesseractRecognizer) *pipeline.DocumentPipeline {
	rcfg := engine.RecognizeConfig{
		PageSegMode:             cfg.Processing.PageSegMode,
		EngineMode:              cfg.Processing.EngineMode,
		PreserveInterwordSpaces: cfg.Processing.PreserveInterwordSpaces,
	}
	pages := pipeline.NewPageProcessor(rast, rec, cfg.Processing.Language, rcfg, cfg.Processing.BlankThreshold)
	return pipeline.NewDocumentPipeline(rast, pages, cfg.Processing.DPI)
}
