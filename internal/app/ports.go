package app

import (
	"context"

	"github.com/evanschultz/lists/internal/domain"
)

// Store loads and saves the full list collection.
//
// Load must create empty backing storage when none exists yet and report
// unreadable content by wrapping ErrStorageCorrupt. Save overwrites everything.
type Store interface {
	Load(context.Context) ([]domain.List, error)
	Save(context.Context, []domain.List) error
}

// Logger receives structured runtime events.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

// NopLogger discards every event.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(string, ...any) {}

// Info implements Logger.
func (NopLogger) Info(string, ...any) {}

// Warn implements Logger.
func (NopLogger) Warn(string, ...any) {}

// Error implements Logger.
func (NopLogger) Error(string, ...any) {}
