package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config for the optional YAML file. Durations are kept as
// strings so they go through the same parsing as environment values.
type fileConfig struct {
	Source struct {
		Driver       string `yaml:"driver"`
		Host         string `yaml:"host"`
		Port         int    `yaml:"port"`
		User         string `yaml:"user"`
		Password     string `yaml:"password"`
		Database     string `yaml:"database"`
		SSLMode      string `yaml:"sslmode"`
		SQLitePath   string `yaml:"sqlite_path"`
		QueryTimeout string `yaml:"query_timeout"`
	} `yaml:"source"`
	Graph struct {
		URI       string `yaml:"uri"`
		Username  string `yaml:"username"`
		Password  string `yaml:"password"`
		Database  string `yaml:"database"`
		BatchSize int    `yaml:"batch_size"`
	} `yaml:"graph"`
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"`
	DryRun         bool   `yaml:"dry_run"`
	PushgatewayURL string `yaml:"pushgateway_url"`
}

func readFile(path string) (fileConfig, error) {
	var f fileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return f, nil
}
