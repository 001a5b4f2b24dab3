// Package config holds the explicit run configuration. Engine paths
// and tuning are validated once at startup and passed into the pipeline
// by value; nothing reads ambient global state after that.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config is the complete tool configuration.
type Config struct {
	Engines    EnginesConfig    `toml:"engines"`
	Processing ProcessingConfig `toml:"processing"`
	Output     OutputConfig     `toml:"output"`
	Status     StatusConfig     `toml:"status"`
	Logging    LoggingConfig    `toml:"logging"`
}

// EnginesConfig locates the external executables.
type EnginesConfig struct {
	// PopplerPath is the directory holding pdftoppm and pdfinfo.
	// Empty resolves them via $PATH.
	PopplerPath string `toml:"poppler_path"`

	// TesseractPath is the tesseract binary. Empty resolves via $PATH.
	TesseractPath string `toml:"tesseract_path"`
}

// ProcessingConfig tunes the OCR pipeline.
type ProcessingConfig struct {
	Language                string  `toml:"language"`
	DPI                     int     `toml:"dpi"`
	RasterFormat            string  `toml:"raster_format"`
	PageSegMode             int     `toml:"page_seg_mode"`
	EngineMode              int     `toml:"engine_mode"`
	PreserveInterwordSpaces bool    `toml:"preserve_interword_spaces"`
	BlankThreshold          float64 `toml:"blank_threshold"`
	Profile                 string  `toml:"profile"`
}

// OutputConfig controls what happens to finished text files beyond the
// mirrored output tree.
type OutputConfig struct {
	// ArchiveDirectory receives a copy of every converted file when set.
	ArchiveDirectory string    `toml:"archive_directory"`
	SMB              SMBConfig `toml:"smb"`
}

// SMBConfig describes an optional SMB/CIFS delivery target.
type SMBConfig struct {
	Enabled      bool   `toml:"enabled"`
	Server       string `toml:"server"`
	Share        string `toml:"share"`
	Username     string `toml:"username"`
	PasswordFile string `toml:"password_file"`
	Password     string `toml:"-"`
	Directory    string `toml:"directory"`
}

// StatusConfig controls the optional progress HTTP endpoint.
type StatusConfig struct {
	Enabled bool     `toml:"enabled"`
	Listen  string   `toml:"listen"`
	APIKeys []string `toml:"api_keys"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Load reads and parses a TOML configuration file on top of defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.loadSecrets(); err != nil {
		return nil, fmt.Errorf("load secrets: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns the configuration with sensible defaults for
// Amharic book scans.
func DefaultConfig() *Config {
	return &Config{
		Processing: ProcessingConfig{
			Language:                "amh",
			DPI:                     300,
			RasterFormat:            "png",
			PageSegMode:             6,
			EngineMode:              1,
			PreserveInterwordSpaces: true,
			BlankThreshold:          0.99,
			Profile:                 "book",
		},
		Status: StatusConfig{
			Listen: "127.0.0.1:8419",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// loadSecrets reads secret values from files.
func (c *Config) loadSecrets() error {
	if c.Output.SMB.PasswordFile != "" && c.Output.SMB.Password == "" {
		password, err := readSecretFile(c.Output.SMB.PasswordFile)
		if err != nil && c.Output.SMB.Enabled {
			return fmt.Errorf("smb password: %w", err)
		}
		c.Output.SMB.Password = password
	}
	return nil
}

func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
