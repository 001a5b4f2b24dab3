package pipeline

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PageSeparator delimits page segments in the output artifact. It is the
// only structure the output carries.
const PageSeparator = "\n\n"

const outputSuffix = "_converted"

// UniqueOutputPath computes a collision-free output path for a source
// document: <base>_converted.txt, then <base>_converted_2.txt and so on,
// first free name wins.
func UniqueOutputPath(dir, sourcePath string) string {
	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))

	for counter := 1; ; counter++ {
		name := base + outputSuffix + ".txt"
		if counter > 1 {
			name = fmt.Sprintf("%s%s_%d.txt", base, outputSuffix, counter)
		}

		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
	}
}

// Sink is the append-only per-document output file. It is opened once
// for the whole document so partial progress survives a later failure,
// and written by exactly one goroutine.
type Sink struct {
	path string
	file *os.File
	w    *bufio.Writer
}

// NewSink creates the output file.
func NewSink(path string) (*Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	return &Sink{path: path, file: f, w: bufio.NewWriter(f)}, nil
}

// Path returns the output file location.
func (s *Sink) Path() string { return s.path }

// WritePage appends one page segment followed by the page separator.
func (s *Sink) WritePage(segment string) error {
	if _, err := s.w.WriteString(segment); err != nil {
		return fmt.Errorf("write page: %w", err)
	}
	if _, err := s.w.WriteString(PageSeparator); err != nil {
		return fmt.Errorf("write separator: %w", err)
	}
	// Flush per page so a crash mid-document loses at most one page.
	return s.w.Flush()
}

// Close flushes and closes the file.
func (s *Sink) Close() error {
	if err := s.w.Flush(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
