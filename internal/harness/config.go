package harness

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var configSchema string

// DefaultCategories are the suite categories run when none are configured.
var DefaultCategories = []string{"chemkit", "io", "md", "plugins", "apps", "conversion", "graphics", "gui", "widgets"}

// Config controls discovery and execution of test executables.
type Config struct {
	// Root is the directory holding the category directories.
	Root string `yaml:"root" json:"root"`

	// Categories are visited in order. Missing ones are skipped.
	Categories []string `yaml:"categories" json:"categories"`

	// SilentFlag is passed as the only argument. Empty passes no arguments.
	SilentFlag string `yaml:"silent_flag" json:"silent_flag"`

	// LibraryPathVar names the native library search path variable set for
	// each child. LibraryPath is its value, relative to Root unless absolute;
	// an empty name or value leaves the inherited value.
	LibraryPathVar string `yaml:"library_path_var" json:"library_path_var"`
	LibraryPath    string `yaml:"library_path" json:"library_path"`

	// PluginPathVar names the toolkit plugin search path variable set for
	// each child. PluginPath is its value, relative to Root unless absolute;
	// an empty name or value leaves the inherited value.
	PluginPathVar string `yaml:"plugin_path_var" json:"plugin_path_var"`
	PluginPath    string `yaml:"plugin_path" json:"plugin_path"`

	// Timeout bounds a single test. Zero waits indefinitely.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// DefaultConfig returns the settings used when no config file is given.
func DefaultConfig() Config {
	return Config{
		Root:           ".",
		Categories:     append([]string(nil), DefaultCategories...),
		SilentFlag:     "-silent",
		LibraryPathVar: "LD_LIBRARY_PATH",
		LibraryPath:    "../../lib",
		PluginPathVar:  "CHEMKIT_PLUGIN_PATH",
		PluginPath:     "../../lib/chemkit/plugins",
	}
}

// SearchPath resolves a library or plugin path against Root. Empty stays
// empty; absolute paths are returned unchanged.
func (c Config) SearchPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	joined := filepath.Join(c.Root, path)
	if abs, err := filepath.Abs(joined); err == nil {
		return abs
	}
	return joined
}

// LoadConfig reads a YAML config file over DefaultConfig.
// Unknown fields are rejected. A relative root is resolved against the
// directory containing the file; library and plugin paths stay relative to
// the root.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read harness config: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	cfg.Root = resolve(base, cfg.Root)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the config against the embedded CUE schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(configSchema)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	value := ctx.Encode(c)
	if err := value.Err(); err != nil {
		return fmt.Errorf("encode harness config: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid harness config: %w", err)
	}
	return nil
}

// resolve makes a relative path absolute against base. Empty stays empty.
func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
