// Package config loads crabstar CLI settings.
//
// Settings come from an optional .crabstar.yaml, .crabstar.yml or
// .crabstar.toml file, then CRABSTAR_* environment variables, then command
// line flags, each layer overriding the previous one.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CRABSTAR_"

// Output formats.
const (
	FormatTree  = "tree"
	FormatSexpr = "sexpr"
	FormatJSON  = "json"
	FormatCBOR  = "cbor"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Telemetry modes.
const (
	TelemetryOff    = "off"
	TelemetryBasic  = "basic"
	TelemetryTiming = "timing"
)

// Debug levels.
const (
	DebugOff      = "off"
	DebugPaths    = "paths"
	DebugDetailed = "detailed"
)

// Filenames lists the discovered config files in lookup order.
var Filenames = []string{".crabstar.yaml", ".crabstar.yml", ".crabstar.toml"}

// Config holds CLI settings.
type Config struct {
	Format     string `toml:"format" yaml:"format"`
	Color      string `toml:"color" yaml:"color"`
	NestedElif bool   `toml:"nested_elif" yaml:"nested_elif"`
	Telemetry  string `toml:"telemetry" yaml:"telemetry"`
	Debug      string `toml:"debug" yaml:"debug"`

	// Path is the file the settings were read from, empty for defaults.
	Path string `toml:"-" yaml:"-"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Format:    FormatTree,
		Color:     ColorAuto,
		Telemetry: TelemetryOff,
		Debug:     DebugOff,
	}
}

// Load reads settings from path. The format is chosen by extension; keys not
// present in the file keep their defaults and unknown keys are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = decodeYAML(data, &cfg)
	case ".toml":
		err = decodeTOML(data, &cfg)
	default:
		return Config{}, fmt.Errorf("unsupported config format %q (want .yaml, .yml or .toml)", ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func decodeTOML(data []byte, cfg *Config) error {
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// Discover returns the first config file found in dir.
func Discover(dir string) (string, bool) {
	for _, name := range Filenames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Resolve loads explicit when set, otherwise the file discovered in dir, and
// falls back to defaults when there is none. Environment overrides are applied
// on top.
func Resolve(dir, explicit string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	path := explicit
	if path == "" {
		path, _ = Discover(dir)
	}
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(lookup); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from CRABSTAR_* variables. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		return nil
	}
	if v, ok := lookup(EnvPrefix + "FORMAT"); ok && v != "" {
		c.Format = v
	}
	if v, ok := lookup(EnvPrefix + "COLOR"); ok && v != "" {
		c.Color = v
	}
	if v, ok := lookup(EnvPrefix + "NESTED_ELIF"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sNESTED_ELIF: %w", EnvPrefix, err)
		}
		c.NestedElif = b
	}
	if v, ok := lookup(EnvPrefix + "TELEMETRY"); ok && v != "" {
		c.Telemetry = v
	}
	if v, ok := lookup(EnvPrefix + "DEBUG"); ok && v != "" {
		c.Debug = debugLevel(v)
	}
	return c.Validate()
}

// debugLevel accepts level names as well as booleans, so CRABSTAR_DEBUG=1
// means paths.
func debugLevel(v string) string {
	switch v {
	case DebugOff, DebugPaths, DebugDetailed:
		return v
	}
	if b, err := strconv.ParseBool(v); err == nil {
		if b {
			return DebugPaths
		}
		return DebugOff
	}
	return v
}

// Validate checks that every setting names a known mode.
func (c Config) Validate() error {
	checks := []struct {
		key   string
		value string
		allow []string
	}{
		{"format", c.Format, []string{FormatTree, FormatSexpr, FormatJSON, FormatCBOR}},
		{"color", c.Color, []string{ColorAuto, ColorAlways, ColorNever}},
		{"telemetry", c.Telemetry, []string{TelemetryOff, TelemetryBasic, TelemetryTiming}},
		{"debug", c.Debug, []string{DebugOff, DebugPaths, DebugDetailed}},
	}
	for _, check := range checks {
		if !contains(check.allow, check.value) {
			return fmt.Errorf("%s: invalid value %q (want one of %s)",
				check.key, check.value, strings.Join(check.allow, ", "))
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
