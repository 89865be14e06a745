package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Load reads the YAML files in order over Default(). Later files override earlier ones
// key by key; lists are replaced whole. Missing files are skipped.
func Load(paths ...string) (Config, error) {
	cfg := Default()
	for _, p := range paths {
		if err := mergeYAML(p, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// mergeYAML decodes path onto cfg. A missing file leaves cfg untouched.
func mergeYAML(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return errors.Wrapf(err, "parse config %s", path)
	}
	return nil
}
