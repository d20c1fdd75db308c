package config

import "time"

// NewForTest returns a config with test defaults, skipping the config file
// and environment variable layers.
func NewForTest() *Config {
	cfg := &Config{
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 2 * time.Second,
		DatabaseMaxRetries:        3,
		Hostname:                  "test",
	}
	loadTestConfig(cfg)
	return cfg
}

func loadTestConfig(cfg *Config) {
	cfg.DatabaseFilePath = ":memory:"
	cfg.JWTSecret = "openshelf-test-secret"
	cfg.ServerHost = "127.0.0.1"
	cfg.ServerPort = 0
}
