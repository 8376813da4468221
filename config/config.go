// Package config holds the settings of a benchmark session and loads them
// from TOML files.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spaix/rtbench/chart"
	"github.com/spaix/rtbench/harness"
)

// Config is a complete benchmark session.
type Config struct {
	Dir        string   `toml:"dir"`
	Programs   []string `toml:"programs"`
	BuildDir   string   `toml:"build_dir"`
	Inserts    []string `toml:"inserts"`
	Splits     []string `toml:"splits"`
	ErrorStyle string   `toml:"error_style"`
	Params     Params   `toml:"params"`
}

// Params mirrors harness.Params with TOML keys.
type Params struct {
	PageSize int     `toml:"page_size"`
	Inline   bool    `toml:"inline"`
	Queries  int     `toml:"queries"`
	Seed     uint32  `toml:"seed"`
	Size     int     `toml:"size"`
	Span     float64 `toml:"span"`
	Steps    int     `toml:"steps"`
}

// Default returns the settings used when nothing else is given.
func Default() Config {
	return Config{
		Dir:        ".",
		Programs:   []string{harness.DefaultProgram},
		Inserts:    []string{"linear"},
		Splits:     []string{"linear", "quadratic"},
		ErrorStyle: chart.Bars.String(),
		Params: Params{
			PageSize: 512,
			Queries:  32,
			Seed:     5489,
			Size:     1000000,
			Span:     10000000,
			Steps:    10,
		},
	}
}

// Load reads path over the defaults. Keys absent from the file keep their
// default values; unknown keys are an error.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("config path is empty")
	}
	if filepath.Ext(path) != ".toml" {
		return nil, fmt.Errorf("config must be a .toml file: %s", path)
	}

	cfg := Default()

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in config %s: %v", path, undecoded)
	}

	cfg.normalize()

	return &cfg, nil
}

func (c *Config) normalize() {
	c.Programs = trimAll(c.Programs)
	c.Inserts = trimAll(c.Inserts)
	c.Splits = trimAll(c.Splits)
	c.ErrorStyle = strings.ToLower(strings.TrimSpace(c.ErrorStyle))
}

// Trim and drop empty entries.
func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}

	return out
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	c.normalize()

	if c.Dir == "" {
		return errors.New("output dir is empty")
	}
	if len(c.Programs) == 0 {
		return errors.New("at least one program is required")
	}
	if len(c.Inserts) == 0 {
		return errors.New("at least one insert algorithm is required")
	}
	if len(c.Splits) == 0 {
		return errors.New("at least one split algorithm is required")
	}
	if _, err := chart.ParseErrorStyle(c.ErrorStyle); err != nil {
		return err
	}

	checks := []struct {
		name  string
		value int
	}{
		{"page_size", c.Params.PageSize},
		{"queries", c.Params.Queries},
		{"size", c.Params.Size},
		{"steps", c.Params.Steps},
	}
	for _, check := range checks {
		if check.value <= 0 {
			return fmt.Errorf("%s must be positive: %d", check.name, check.value)
		}
	}

	if c.Params.Span <= 0 {
		return fmt.Errorf("span must be positive: %g", c.Params.Span)
	}
	if c.Params.Size < c.Params.Steps {
		return fmt.Errorf("size %d is smaller than steps %d",
			c.Params.Size, c.Params.Steps)
	}

	return nil
}

// Style returns the parsed error style.
func (c *Config) Style() chart.ErrorStyle {
	s, err := chart.ParseErrorStyle(c.ErrorStyle)
	if err != nil {
		return chart.None
	}

	return s
}

// Variants returns the insert × split matrix.
func (c *Config) Variants() []harness.Variant {
	return harness.Matrix(c.Inserts, c.Splits)
}

// HarnessParams converts the TOML parameters to harness options.
func (c *Config) HarnessParams() harness.Params {
	placement := harness.PlacementSeparate
	if c.Params.Inline {
		placement = harness.PlacementInline
	}

	return harness.Params{
		PageSize:  c.Params.PageSize,
		Placement: placement,
		Queries:   c.Params.Queries,
		Seed:      c.Params.Seed,
		Size:      c.Params.Size,
		Span:      c.Params.Span,
		Steps:     c.Params.Steps,
	}
}
