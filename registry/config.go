package registry

import (
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/c360/vismodel/errors"
	"github.com/c360/vismodel/vis"
)

// Config describes a file-backed registry. Zero values fall back to
// defaults applied by FromConfig.
type Config struct {
	// Resources is the directory holding the release tables.
	Resources string `yaml:"resources"`

	// Versions limits which releases Preload builds. Empty means every
	// known release.
	Versions []string `yaml:"versions,omitempty"`

	// MaxTraversalOccurrence is the default per-chain revisit limit for
	// Traverse. Zero keeps the taxonomy default.
	MaxTraversalOccurrence int `yaml:"maxTraversalOccurrence,omitempty"`

	Cache CacheConfig `yaml:"cache,omitempty"`
}

// CacheConfig sizes the parsed-identifier cache. The model artifact caches
// are unbounded; there is one artifact per release.
type CacheConfig struct {
	// LocalIdCapacity bounds the parsed-identifier cache. Zero disables
	// identifier caching.
	LocalIdCapacity int `yaml:"localIdCapacity,omitempty"`

	// LocalIdTTL expires cached identifiers. Zero means no expiry.
	LocalIdTTL Duration `yaml:"localIdTTL,omitempty"`
}

// Duration is a time.Duration that unmarshals from YAML strings like "5m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return errors.ConfigurationFault("invalid duration %q: %v", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Validate checks the configuration for structural problems.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Resources, validation.Required),
		validation.Field(&c.Versions, validation.Each(validation.By(validVersion))),
		validation.Field(&c.MaxTraversalOccurrence, validation.Min(0)),
	)
	if err != nil {
		return errors.ConfigurationFault("registry config: %v", err)
	}
	if c.Cache.LocalIdCapacity < 0 {
		return errors.ConfigurationFault("registry config: localIdCapacity must not be negative")
	}
	if c.Cache.LocalIdTTL < 0 {
		return errors.ConfigurationFault("registry config: localIdTTL must not be negative")
	}
	return nil
}

func validVersion(value any) error {
	s, _ := value.(string)
	_, err := vis.Parse(s)
	return err
}

// ParseConfig decodes and validates a YAML configuration document.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.ConfigurationFault("registry config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.ConfigurationFault("registry config %s: %v", path, err)
	}
	return ParseConfig(data)
}

// preloadVersions resolves the configured version set, defaulting to every
// known release.
func (c Config) preloadVersions() ([]vis.Version, error) {
	if len(c.Versions) == 0 {
		return vis.All(), nil
	}
	versions := make([]vis.Version, 0, len(c.Versions))
	for _, s := range c.Versions {
		version, err := vis.Parse(s)
		if err != nil {
			return nil, err
		}
		versions = append(versions, version)
	}
	return versions, nil
}
