package natsuzora

import (
	"os"

	"gopkg.in/yaml.v2"
)

// LoaderConfig is the partial loader's only configurable surface:
// where partials live, and what suffix distinguishes them on disk.
// Programmatic construction (NewLoaderConfig) is the primary path;
// LoadLoaderConfigYAML is additive, for applications that prefer to
// check an include.yaml into source control next to their partials.
type LoaderConfig struct {
	IncludeRoot string `yaml:"include_root"`
	Extension   string `yaml:"extension"`
}

// NewLoaderConfig builds a LoaderConfig with the default extension.
func NewLoaderConfig(includeRoot string) LoaderConfig {
	return LoaderConfig{IncludeRoot: includeRoot, Extension: defaultExt}
}

// LoadLoaderConfigYAML reads a LoaderConfig from a YAML file at path.
// A missing extension falls back to the default ".ntzr".
func LoadLoaderConfigYAML(path string) (LoaderConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LoaderConfig{}, wrapErr(KindIO, Location{}, err, "reading loader config %q", path)
	}
	var cfg LoaderConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return LoaderConfig{}, wrapErr(KindIO, Location{}, err, "parsing loader config %q", path)
	}
	if cfg.Extension == "" {
		cfg.Extension = defaultExt
	}
	return cfg, nil
}

// NewLoader builds the *Loader this configuration describes.
func (c LoaderConfig) NewLoader(opts ...LoaderOption) (*Loader, error) {
	allOpts := append([]LoaderOption{WithExtension(c.Extension)}, opts...)
	return NewLoader(c.IncludeRoot, allOpts...)
}
