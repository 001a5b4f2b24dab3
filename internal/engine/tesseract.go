package engine

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"strconv"
	"strings"
)

// TesseractRecognizer invokes the tesseract executable, feeding the page
// image on stdin and reading the transcription from stdout.
type TesseractRecognizer struct {
	// path is the tesseract binary. Empty means resolve via $PATH.
	path string
}

// NewTesseractRecognizer creates a recognizer. path may be empty.
func NewTesseractRecognizer(path string) *TesseractRecognizer {
	if path == "" {
		path = "tesseract"
	}
	return &TesseractRecognizer{path: path}
}

func (t *TesseractRecognizer) lookPath() (string, error) {
	p, err := exec.LookPath(t.path)
	if err != nil {
		return "", fmt.Errorf("%w: %s (install tesseract-ocr)", ErrEngineNotFound, t.path)
	}
	return p, nil
}

// Recognize runs OCR over one preprocessed page image.
func (t *TesseractRecognizer) Recognize(ctx context.Context, img image.Image, lang string, cfg RecognizeConfig) (string, error) {
	bin, err := t.lookPath()
	if err != nil {
		return "", err
	}

	var input bytes.Buffer
	if err := png.Encode(&input, img); err != nil {
		return "", fmt.Errorf("encode page image: %w", err)
	}

	args := []string{"stdin", "stdout", "-l", lang}
	if cfg.PageSegMode > 0 {
		args = append(args, "--psm", strconv.Itoa(cfg.PageSegMode))
	}
	args = append(args, "--oem", strconv.Itoa(cfg.EngineMode))
	if cfg.PreserveInterwordSpaces {
		args = append(args, "-c", "preserve_interword_spaces=1")
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = &input
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// ListLanguages returns the installed tesseract language packs.
func (t *TesseractRecognizer) ListLanguages(ctx context.Context) ([]string, error) {
	bin, err := t.lookPath()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, bin, "--list-langs")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("tesseract --list-langs: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	// Some tesseract builds print the banner and list on stderr.
	out := stdout.String()
	if strings.TrimSpace(out) == "" {
		out = stderr.String()
	}
	return parseLanguageList(out), nil
}

// parseLanguageList strips the "List of available languages" banner and
// returns one language code per line.
func parseLanguageList(out string) []string {
	var langs []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of") {
			continue
		}
		langs = append(langs, line)
	}
	return langs
}
