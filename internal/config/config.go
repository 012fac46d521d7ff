package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Source struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"source"`
	Cache struct {
		// Dir roots the persistent archive cache. Empty means the
		// host settings path.
		Dir            string `yaml:"dir"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"cache"`
	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
}

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Cache.TimeoutSeconds <= 0 {
		c.Cache.TimeoutSeconds = 30
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8085
	}
}
