package config

import "sync"

// ProfileRuntime holds the runtime configuration for the profile server.
type ProfileRuntime struct {
	ServiceHome string `yaml:"service_home"`
	Config      Config `yaml:"config"`
}

var (
	runtimeConfig *ProfileRuntime
	once          sync.Once
)

// InitializeRuntime initializes the runtime configuration.
func InitializeRuntime(serviceHome string, config *Config) error {

	once.Do(func() {
		runtimeConfig = &ProfileRuntime{
			ServiceHome: serviceHome,
			Config:      *config,
		}
	})

	return nil
}

// GetRuntime returns the runtime configuration.
func GetRuntime() *ProfileRuntime {

	if runtimeConfig == nil {
		panic("ProfileRuntime is not initialized")
	}
	return runtimeConfig
}
