// internal/config/config.go
package config

import (
	"gopkg.in/yaml.v3"
	"os"
)

type Config struct {
	HistoryCapacity   int     `yaml:"history_capacity"`
	HitThresholdPx    float64 `yaml:"hit_threshold_px"`
	MinAnnotationSize float64 `yaml:"min_annotation_size"`
	DefaultTextBox    struct {
		Width  float64 `yaml:"width"`
		Height float64 `yaml:"height"`
	} `yaml:"default_text_box"`
	Render struct {
		DPI float64 `yaml:"dpi"`
	} `yaml:"render"`
	OutputDir string `yaml:"output_dir"`
}

func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.HistoryCapacity <= 0 {
		cfg.HistoryCapacity = 50
	}
	if cfg.HitThresholdPx <= 0 {
		cfg.HitThresholdPx = 10
	}
	if cfg.MinAnnotationSize <= 0 {
		cfg.MinAnnotationSize = 4
	}
	if cfg.DefaultTextBox.Width <= 0 {
		cfg.DefaultTextBox.Width = 100
	}
	if cfg.DefaultTextBox.Height <= 0 {
		cfg.DefaultTextBox.Height = 30
	}
	if cfg.Render.DPI <= 0 {
		cfg.Render.DPI = 144
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "pagemark-output"
	}
}
