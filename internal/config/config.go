package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aurceive/weaponmeta/internal/domain"
	"github.com/aurceive/weaponmeta/internal/logging"
	"github.com/aurceive/weaponmeta/internal/metrics"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked for when locating the app root.
const FileName = "weapon_meta.yaml"

const (
	FormatMeta     = "meta"
	FormatXLSX     = "xlsx"
	FormatSQLite   = "sqlite"
	FormatSnapshot = "snapshot"
)

var allowedFormats = []string{FormatMeta, FormatXLSX, FormatSQLite, FormatSnapshot}

type Config struct {
	// Inputs are weapons.meta files, relative to the app root unless absolute.
	Inputs []string `yaml:"inputs"`
	// Primary and Compare select weapons by name. Primary defaults to the
	// first weapon by name.
	Primary     string            `yaml:"primary"`
	Compare     string            `yaml:"compare"`
	Environment EnvironmentConfig `yaml:"environment"`
	Chart       ChartConfig       `yaml:"chart"`
	Edits       []Edit            `yaml:"edits"`
	// EditsTable optionally points to an XLSX report from a previous run.
	// Its Weapons sheet is applied as edits after Edits.
	EditsTable string         `yaml:"edits_table"`
	Output     OutputConfig   `yaml:"output"`
	Log        logging.Config `yaml:"log"`
	Serve      ServeConfig    `yaml:"serve"`
}

type EnvironmentConfig struct {
	TargetHealth *float64 `yaml:"target_health"`
	TargetArmor  *float64 `yaml:"target_armor"`
}

type ChartConfig struct {
	Step float64 `yaml:"step"`
}

type Edit struct {
	Weapon string `yaml:"weapon"`
	Field  string `yaml:"field"`
	Value  string `yaml:"value"`
}

type OutputConfig struct {
	Dir     string   `yaml:"dir"`
	Formats []string `yaml:"formats"`
	// Snapshot is the session file restored on start when present.
	Snapshot string `yaml:"snapshot"`
}

type ServeConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads the config file, fills defaults and validates it.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(b)
}

// Parse decodes config YAML. Unknown keys are rejected.
func Parse(b []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config yaml: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Environment.TargetHealth == nil {
		v := domain.DefaultTargetHealth
		c.Environment.TargetHealth = &v
	}
	if c.Environment.TargetArmor == nil {
		v := domain.DefaultTargetArmor
		c.Environment.TargetArmor = &v
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		c.Output.Dir = filepath.Join("output", "weapon_meta")
	}
	if len(c.Output.Formats) == 0 {
		c.Output.Formats = []string{FormatMeta, FormatXLSX, FormatSnapshot}
	}
	if strings.TrimSpace(c.Output.Snapshot) == "" {
		c.Output.Snapshot = filepath.Join("work", "session.wmsnap")
	}
	if strings.TrimSpace(c.Serve.Addr) == "" {
		c.Serve.Addr = "127.0.0.1:8080"
	}
}

func (c Config) Validate() error {
	if c.Chart.Step < 0 || math.IsNaN(c.Chart.Step) || math.IsInf(c.Chart.Step, 0) {
		return fmt.Errorf("chart.step must be a finite number >= 0, got %v", c.Chart.Step)
	}
	if c.Chart.Step > 0 && c.Chart.Step < metrics.MinChartStep {
		return fmt.Errorf("chart.step must be 0 (default) or >= %v, got %v", metrics.MinChartStep, c.Chart.Step)
	}
	for i, e := range c.Edits {
		if strings.TrimSpace(e.Weapon) == "" {
			return fmt.Errorf("edits[%d]: missing weapon", i)
		}
		if _, ok := domain.FieldByKey(e.Field); !ok {
			return fmt.Errorf("edits[%d]: %w %q", i, domain.ErrUnknownField, e.Field)
		}
	}
	for _, f := range c.Output.Formats {
		if !slices.Contains(allowedFormats, f) {
			return fmt.Errorf("output.formats: unsupported %q (expected one of %s)", f, strings.Join(allowedFormats, ", "))
		}
	}
	return nil
}

// Wants reports whether format is enabled in output.formats.
func (c Config) Wants(format string) bool {
	return slices.Contains(c.Output.Formats, format)
}

// ResolvePath makes p absolute against appRoot.
func ResolvePath(appRoot, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(appRoot, p)
}
