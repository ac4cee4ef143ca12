package config

import (
	"fmt"
	"sync"
)

var (
	globalMu     sync.RWMutex
	globalConfig *Config
)

// Initialize loads configuration from path with environment overrides and
// installs it as the process-wide configuration. Calling it again replaces
// the previous configuration only if loading succeeds.
func Initialize(path string) error {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}
	SetConfig(cfg)
	return nil
}

// GetConfig returns the process-wide configuration, or nil if Initialize
// has not succeeded.
func GetConfig() *Config {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalConfig
}

// SetConfig installs cfg as the process-wide configuration.
func SetConfig(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = cfg
}

// MustGetConfig is like GetConfig but panics if no configuration is installed.
func MustGetConfig() *Config {
	cfg := GetConfig()
	if cfg == nil {
		panic("configuration not initialized: call Initialize first")
	}
	return cfg
}
