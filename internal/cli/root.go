// Package cli implements the betebrana command tree.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Semirss/betebrana/internal/config"
	"github.com/Semirss/betebrana/internal/engine"
)

var version = "dev"

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "betebrana",
	Short: "Betebrana - Amharic book OCR converter",
	Long: "Betebrana converts scanned Amharic PDF books to plain text using " +
		"poppler for rasterization and tesseract for recognition.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg = config.DefaultConfig()
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		if profile, _ := cmd.Flags().GetString("profile"); profile != "" {
			cfg.Processing.Profile = profile
		}
		if err := applyProfile(cfg); err != nil {
			return err
		}

		setupLogging(cfg.Logging)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().String("profile", "", "conversion profile (overrides config)")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(languagesCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("betebrana", version)
	},
}

// applyProfile resolves the configured profile name against the profile
// store and overlays it onto the processing settings.
func applyProfile(cfg *config.Config) error {
	name := cfg.Processing.Profile
	if name == "" {
		return nil
	}

	store, err := profileStore()
	if err != nil {
		return err
	}

	p, ok := store.Get(name)
	if !ok {
		return fmt.Errorf("unknown profile %q", name)
	}
	p.Apply(&cfg.Processing)
	return nil
}

// profileStore loads profiles from a "profiles" directory beside the
// config file, falling back to the built-ins.
func profileStore() (*config.ProfileStore, error) {
	dir := ""
	if cfgFile != "" {
		dir = filepath.Join(filepath.Dir(cfgFile), "profiles")
	}

	store, err := config.NewProfileStore(dir)
	if err != nil {
		slog.Warn("failed to load profiles from directory, using built-ins", "dir", dir, "error", err)
		return config.NewProfileStore("")
	}
	return store, nil
}

// buildEngines constructs the external engine wrappers from config.
func buildEngines() (*engine.PopplerRasterizer, *engine.TesseractRecognizer) {
	rast := engine.NewPopplerRasterizer(cfg.Engines.PopplerPath, cfg.Processing.RasterFormat)
	rec := engine.NewTesseractRecognizer(cfg.Engines.TesseractPath)
	return rast, rec
}

func setupLogging(lc config.LoggingConfig) {
	var level slog.Level
	switch lc.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if lc.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
