package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// StoreDriver names the task repository implementation.
type StoreDriver string

const (
	StoreDriverMemory StoreDriver = "memory"
	StoreDriverSQLite StoreDriver = "sqlite"
)

type Config struct {
	Store   StoreConfig   `toml:"store"`
	Board   BoardConfig   `toml:"board"`
	Logging LoggingConfig `toml:"logging"`
	Server  ServerConfig  `toml:"server"`
}

type StoreConfig struct {
	Driver StoreDriver `toml:"driver"`
}

type BoardConfig struct {
	HiddenColumns []string `toml:"hidden_columns"`
	TitleLimit    int      `toml:"title_limit"`
	TagsLimit     int      `toml:"tags_limit"`
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type ServerConfig struct {
	HTTPBind    string `toml:"http_bind"`
	APIEndpoint string `toml:"api_endpoint"`
	MCPEndpoint string `toml:"mcp_endpoint"`
}

var knownColumns = []string{"todo", "in-progress", "done"}

var knownLevels = []string{"debug", "info", "warn", "error", "fatal"}

func Default() Config {
	return Config{
		Store: StoreConfig{
			Driver: StoreDriverMemory,
		},
		Board: BoardConfig{
			HiddenColumns: []string{},
			TitleLimit:    40,
			TagsLimit:     3,
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     ".tagboard/log",
			},
		},
		Server: ServerConfig{
			HTTPBind:    "127.0.0.1:8080",
			APIEndpoint: "/api/v1",
			MCPEndpoint: "/mcp",
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
	switch c.Store.Driver {
	case StoreDriverMemory, StoreDriverSQLite:
	default:
		return fmt.Errorf("invalid store.driver: %q", c.Store.Driver)
	}

	seen := map[string]struct{}{}
	for idx, raw := range c.Board.HiddenColumns {
		column := strings.TrimSpace(strings.ToLower(raw))
		if !slices.Contains(knownColumns, column) {
			return fmt.Errorf("board.hidden_columns[%d] references unknown column %q", idx, raw)
		}
		if _, ok := seen[column]; ok {
			return fmt.Errorf("board.hidden_columns[%d] is duplicated: %s", idx, column)
		}
		seen[column] = struct{}{}
	}
	if c.Board.TitleLimit < 1 {
		return errors.New("board.title_limit must be >= 1")
	}
	if c.Board.TagsLimit < 0 {
		return errors.New("board.tags_limit must be >= 0")
	}

	if !slices.Contains(knownLevels, strings.TrimSpace(strings.ToLower(c.Logging.Level))) {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	if c.Logging.DevFile.Enabled && strings.TrimSpace(c.Logging.DevFile.Dir) == "" {
		return errors.New("logging.dev_file.dir is required when dev_file is enabled")
	}

	if strings.TrimSpace(c.Server.HTTPBind) == "" {
		return errors.New("server.http_bind is required")
	}
	for name, endpoint := range map[string]string{
		"server.api_endpoint": c.Server.APIEndpoint,
		"server.mcp_endpoint": c.Server.MCPEndpoint,
	} {
		if !strings.HasPrefix(strings.TrimSpace(endpoint), "/") {
			return fmt.Errorf("%s must start with /: %q", name, endpoint)
		}
	}

	return nil
}

// HiddenColumnIDs returns the normalized hidden column ids.
func (c Config) HiddenColumnIDs() []string {
	out := make([]string, 0, len(c.Board.HiddenColumns))
	for _, raw := range c.Board.HiddenColumns {
		out = append(out, strings.TrimSpace(strings.ToLower(raw)))
	}
	return out
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
