package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// demoConfig is the small YAML file the demo host loads its application
// id and guild id from, mirroring the teacher's internal/config.Config
// load-from-file pattern scaled down to what this demo actually needs.
type demoConfig struct {
	AppID   string `yaml:"app_id"`
	GuildID string `yaml:"guild_id"`
	Token   string `yaml:"token"`
}

func loadDemoConfig(path string) (*demoConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg demoConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}
