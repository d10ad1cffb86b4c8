package config

import (
	"os"
	"path/filepath"
	"stock-insight/utils"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Listen string `yaml:"listen"`
		LogDir string `yaml:"log_dir"`
	} `yaml:"server"`
	Database struct {
		Backend      string `yaml:"backend"` // "sqlite", "mysql", "postgres"
		DSN          string `yaml:"dsn"`
		MaxOpenConns int    `yaml:"max_open_conns"`
		MaxIdleConns int    `yaml:"max_idle_conns"`
	} `yaml:"database"`
	WarehouseSchema string `yaml:"warehouse_schema"` // ex: warehouse.yaml
}

func LoadConfig(file string) (*Config, error) {
	var cfg Config
	root := utils.GetProjectRoot()
	cfgPath := filepath.Join(root, file)
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.WarehouseSchema == "" {
		cfg.WarehouseSchema = "warehouse.yaml"
	}
	return &cfg, nil
}
