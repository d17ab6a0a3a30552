package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanschultz/lists/internal/platform"
	toml "github.com/pelletier/go-toml/v2"
)

// Backend selects the storage adapter.
type Backend string

// BackendJSON and BackendSQLite name the supported storage adapters.
const (
	BackendJSON   Backend = "json"
	BackendSQLite Backend = "sqlite"
)

type Config struct {
	Storage StorageConfig `toml:"storage"`
	Logging LoggingConfig `toml:"logging"`
	UI      UIConfig      `toml:"ui"`
}

type StorageConfig struct {
	Backend Backend `toml:"backend"`
	Path    string  `toml:"path"` // empty resolves per backend under the data dir
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type UIConfig struct {
	ListPanelPercent int    `toml:"list_panel_percent"`
	DoneGlyph        string `toml:"done_glyph"`
	PendingGlyph     string `toml:"pending_glyph"`
}

func Default(storagePath string) Config {
	return Config{
		Storage: StorageConfig{
			Backend: BackendJSON,
			Path:    storagePath,
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     ".lists/log",
			},
		},
		UI: UIConfig{
			ListPanelPercent: 30,
			DoneGlyph:        "✅",
			PendingGlyph:     "⏳",
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("invalid storage.backend: %q", c.Storage.Backend)
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	if c.UI.ListPanelPercent < 10 || c.UI.ListPanelPercent > 90 {
		return fmt.Errorf("ui.list_panel_percent must be between 10 and 90, got %d", c.UI.ListPanelPercent)
	}
	if strings.TrimSpace(c.UI.DoneGlyph) == "" {
		return errors.New("ui.done_glyph is required")
	}
	if strings.TrimSpace(c.UI.PendingGlyph) == "" {
		return errors.New("ui.pending_glyph is required")
	}

	return nil
}

// StoragePath returns the configured storage path, or the backend's default
// file under the resolved data dir.
func (c Config) StoragePath(paths platform.Paths) string {
	if p := strings.TrimSpace(c.Storage.Path); p != "" {
		return p
	}
	if c.Storage.Backend == BackendSQLite {
		return paths.SQLitePath
	}
	return paths.JSONPath
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
