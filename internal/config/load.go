package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/dshills/figurine/internal/config/loader"
)

// Load reads the configuration at path using the OS file system.
func Load(path string) (Config, error) {
	return LoadWith(loader.DefaultFS(), path)
}

// LoadWith reads the configuration at path from fsys. A missing file or
// an empty path yields the defaults. Environment variables are applied
// on top of the file and the result is validated.
func LoadWith(fsys loader.FileSystem, path string) (Config, error) {
	cfg := Default()

	if path != "" {
		l, err := loader.ForPath(fsys, path)
		if err != nil {
			return cfg, err
		}
		if _, err := l.LoadInto(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("reading environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
