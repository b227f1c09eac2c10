package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log struct {
		Telegram struct {
			Token  string `yaml:"token"`
			ChatID string `yaml:"chat_id"`
		} `yaml:"telegram"`
	} `yaml:"log"`

	Sentry struct {
		DSN              string  `yaml:"dsn"`
		Environment      string  `yaml:"environment"`
		TracesSampleRate float64 `yaml:"traces_sample_rate"`
	} `yaml:"sentry"`

	Twitch struct {
		ClientID     string `yaml:"client_id" validate:"required"`
		ClientSecret string `yaml:"client_secret" validate:"required"`
		Channel      string `yaml:"channel" validate:"required"`
		APIBase      string `yaml:"api_base"`
		AuthURL      string `yaml:"auth_url"`
	} `yaml:"twitch"`

	Download struct {
		OutputDir string `yaml:"output_dir"`
		VodLimit  int    `yaml:"vod_limit" validate:"gte=0"`
		StartTime string `yaml:"start_time"`
		EndTime   string `yaml:"end_time"`
		AudioOnly bool   `yaml:"audio_only"`
		Workers   int    `yaml:"workers" validate:"gte=0"`
	} `yaml:"download"`
}

func Load() (*Config, error) {
	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var result Config
	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if result.Sentry.TracesSampleRate == 0 {
		result.Sentry.TracesSampleRate = 1.0
	}
	if result.Sentry.Environment == "" {
		result.Sentry.Environment = "production"
	}
	if result.Download.OutputDir == "" {
		result.Download.OutputDir = "data"
	}
	if result.Download.VodLimit == 0 {
		result.Download.VodLimit = 20
	}
	if result.Download.Workers == 0 {
		result.Download.Workers = 2
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}
