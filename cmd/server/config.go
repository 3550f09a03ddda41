package main

import (
	"fmt"
	"os"
	"time"

	"github.com/MegaGrindStone/doc-chat-ui/internal/services"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type config struct {
	Port    string        `yaml:"port"`
	Backend backendConfig `yaml:"backend"`
	Upload  uploadConfig  `yaml:"upload"`
}

type backendConfig struct {
	BaseURL        string   `yaml:"baseURL"`
	RequestTimeout duration `yaml:"requestTimeout"`
	HealthTimeout  duration `yaml:"healthTimeout"`
	ProbeInterval  duration `yaml:"probeInterval"`
}

type uploadConfig struct {
	MaxSize int64 `yaml:"maxSize"`
}

// duration lets the yaml file carry Go duration strings like "30s".
type duration time.Duration

func (d *duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = duration(parsed)
	return nil
}

func defaultConfig() config {
	return config{
		Port: "8080",
		Backend: backendConfig{
			BaseURL:        "http://localhost:5000",
			RequestTimeout: duration(services.DefaultRequestTimeout),
			HealthTimeout:  duration(services.DefaultHealthTimeout),
			ProbeInterval:  duration(services.DefaultProbeInterval),
		},
		Upload: uploadConfig{
			MaxSize: services.MaxUploadSize,
		},
	}
}

// loadConfig layers an optional yaml file and environment variables over the defaults. A .env
// file, when present, is loaded first so it can feed the environment overrides.
func loadConfig() (config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	path := os.Getenv("DOCCHAT_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return config{}, fmt.Errorf("error decoding config file: %w", err)
		}
	case !os.IsNotExist(err):
		return config{}, fmt.Errorf("error opening config file: %w", err)
	}

	if port := os.Getenv("DOCCHAT_PORT"); port != "" {
		cfg.Port = port
	}
	if baseURL := os.Getenv("DOCCHAT_BACKEND_URL"); baseURL != "" {
		cfg.Backend.BaseURL = baseURL
	}

	return cfg, nil
}
