package config

import (
	"os"
	"path"

	"gopkg.in/yaml.v2"
)

// LoadConfig reads the deployment YAML, expanding ${VAR} references from the
// environment before unmarshalling.
func LoadConfig(serviceHome, filePath string) (*Config, error) {
	file, err := os.ReadFile(path.Join(serviceHome, filePath))
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(file))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// OverrideRuntime replaces the runtime configuration, bypassing the once
// guard. Used by tests.
func OverrideRuntime(conf Config) {
	runtimeConfig = &ProfileRuntime{
		Config: conf,
	}
}
