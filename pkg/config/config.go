// Package config loads browser settings from a TOML file. Every field has
// a default, so a missing or partial file is fine.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/Hopiu/bowser/pkg/text"
)

type Config struct {
	Viewport Viewport `toml:"viewport"`
	Fonts    Fonts    `toml:"fonts"`
	Fetch    Fetch    `toml:"fetch"`
	Log      Log      `toml:"log"`
}

type Viewport struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Fonts overrides font discovery with explicit TTF paths. Empty fields
// fall back to system font lookup.
type Fonts struct {
	Regular    string `toml:"regular"`
	Bold       string `toml:"bold"`
	Italic     string `toml:"italic"`
	BoldItalic string `toml:"bold_italic"`
}

type Fetch struct {
	Workers int `toml:"workers"`
}

type Log struct {
	Level string `toml:"level"`
}

func Default() Config {
	return Config{
		Viewport: Viewport{Width: 800, Height: 600},
		Fetch:    Fetch{Workers: 4},
		Log:      Log{Level: "warn"},
	}
}

// Load reads a TOML file over the defaults. A missing file returns the
// defaults without error; a malformed one fails.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if cfg.Viewport.Width < 1 || cfg.Viewport.Height < 1 {
		return cfg, fmt.Errorf("config %s: viewport must be positive", path)
	}
	if cfg.Fetch.Workers < 1 {
		cfg.Fetch.Workers = 1
	}
	return cfg, nil
}

// LogLevel parses the configured level, defaulting to warn on nonsense.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}

// FontPaths resolves the configured font files, falling back to system
// font discovery for anything unset.
func (c Config) FontPaths() (text.FontPaths, error) {
	if c.Fonts.Regular == "" {
		return text.SystemFonts()
	}
	fp := text.FontPaths{
		Regular:    c.Fonts.Regular,
		Bold:       c.Fonts.Bold,
		Italic:     c.Fonts.Italic,
		BoldItalic: c.Fonts.BoldItalic,
	}
	if fp.Bold == "" {
		fp.Bold = fp.Regular
	}
	if fp.Italic == "" {
		fp.Italic = fp.Regular
	}
	if fp.BoldItalic == "" {
		fp.BoldItalic = fp.Bold
	}
	return fp, nil
}
