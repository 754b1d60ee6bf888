// Package config loads the front-end settings from a TOML file.
package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultPath is tried when no --config flag is given.
const DefaultPath = "minisqlc.toml"

// Config holds the CLI and REPL settings. The core phases take no ambient
// configuration; only the expression nesting cap is threaded into the parser.
type Config struct {
	// Mode is the default token listing mode: "detailed" or "general".
	Mode string `toml:"mode"`
	// MaxExprDepth caps nested parenthesized expressions.
	MaxExprDepth int `toml:"max_expr_depth"`
	// Color toggles styled terminal output.
	Color bool `toml:"color"`
	// HistoryFile is where the REPL persists input history.
	HistoryFile string `toml:"history_file"`
}

func Default() Config {
	return Config{
		Mode:         "detailed",
		MaxExprDepth: 200,
		Color:        true,
		HistoryFile:  ".minisqlc_history",
	}
}

// Load reads the TOML file at path. A missing file at the default path is
// not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return cfg, err
	}
	return cfg, nil
}

// Save writes the configuration to path.
func Save(path string, cfg Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
