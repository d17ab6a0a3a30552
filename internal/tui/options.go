package tui

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/evanschultz/lists/internal/app"
)

type UIConfig struct {
	ListPanelPercent int
	DoneGlyph        string
	PendingGlyph     string
}

type Option func(*Model)

func DefaultUIConfig() UIConfig {
	return UIConfig{
		ListPanelPercent: 30,
		DoneGlyph:        "✅",
		PendingGlyph:     "⏳",
	}
}

// WithUIConfig applies layout and glyph settings; zero fields keep defaults.
func WithUIConfig(cfg UIConfig) Option {
	return func(m *Model) {
		if cfg.ListPanelPercent >= 10 && cfg.ListPanelPercent <= 90 {
			m.ui.ListPanelPercent = cfg.ListPanelPercent
		}
		if cfg.DoneGlyph != "" {
			m.ui.DoneGlyph = cfg.DoneGlyph
		}
		if cfg.PendingGlyph != "" {
			m.ui.PendingGlyph = cfg.PendingGlyph
		}
	}
}

func WithLogger(logger app.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithContext sets the context passed to every state operation.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.copyText = write
		}
	}
}

func defaultClipboard(text string) error {
	return clipboard.WriteAll(text)
}
