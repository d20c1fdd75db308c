package config

func loadProductionConfig(cfg *Config) {
	cfg.DatabaseFilePath = "/data/openshelf.sqlite"
	cfg.ServerHost = "0.0.0.0"
}
