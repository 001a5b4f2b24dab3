// Package output delivers finished text files to optional destinations
// beyond the mirrored output tree: an archive directory, an SMB share.
package output

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Semirss/betebrana/internal/config"
)

// Handler is the interface for all delivery targets.
type Handler interface {
	Name() string
	Deliver(ctx context.Context, textPath string) error
	Available() bool
}

// Manager fans a converted file out to every configured handler.
type Manager struct {
	handlers []Handler
}

// NewManager builds a manager from the output configuration. With
// nothing configured the manager is a no-op.
func NewManager(cfg config.OutputConfig) *Manager {
	m := &Manager{}

	if cfg.ArchiveDirectory != "" {
		m.handlers = append(m.handlers, NewFilesystemHandler(cfg.ArchiveDirectory))
	}
	if cfg.SMB.Enabled {
		m.handlers = append(m.handlers, NewSMBHandler(cfg.SMB))
	}

	if len(m.handlers) > 0 {
		slog.Info("output handlers initialized", "count", len(m.handlers))
	}
	return m
}

// Deliver sends one finished text file to every available handler.
// Handler errors are collected, not short-circuited: one broken target
// must not block the others.
func (m *Manager) Deliver(ctx context.Context, textPath string) error {
	var firstErr error
	for _, h := range m.handlers {
		if !h.Available() {
			slog.Warn("output handler unavailable", "target", h.Name())
			continue
		}
		if err := h.Deliver(ctx, textPath); err != nil {
			slog.Error("delivery failed", "target", h.Name(), "path", textPath, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("output %s: %w", h.Name(), err)
			}
			continue
		}
		slog.Info("delivered", "target", h.Name(), "path", textPath)
	}
	return firstErr
}

// Targets returns the names of configured handlers.
func (m *Manager) Targets() []string {
	names := make([]string, 0, len(m.handlers))
	for _, h := range m.handlers {
		names = append(names, h.Name())
	}
	return names
}
