package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Analyzer  AnalyzerConfig  `yaml:"analyzer"`
	Upload    UploadConfig    `yaml:"upload"`
	Sessions  SessionsConfig  `yaml:"sessions"`
	Share     ShareConfig     `yaml:"share"`
	Artifacts ArtifactsConfig `yaml:"artifacts"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AnalyzerConfig locates the external analysis service.
type AnalyzerConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIToken       string `yaml:"api_token"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type UploadConfig struct {
	MaxSizeBytes int64 `yaml:"max_size_bytes"`
}

type SessionsConfig struct {
	MaxSessions int `yaml:"max_sessions"`
	TTLMinutes  int `yaml:"ttl_minutes"`
}

// ShareConfig controls signed share links for completed analyses.
type ShareConfig struct {
	Secret      string `yaml:"secret"`
	ExpireHours int    `yaml:"expire_hours"`
}

// ArtifactsConfig is optional object storage for exported reports. An empty
// endpoint disables it; share links then point at the API instead.
type ArtifactsConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Enabled reports whether artifact storage is configured.
func (c *ArtifactsConfig) Enabled() bool {
	return c.Endpoint != ""
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

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Analyzer.BaseURL == "" {
		cfg.Analyzer.BaseURL = "http://localhost:8000"
	}
	if cfg.Analyzer.TimeoutSeconds == 0 {
		cfg.Analyzer.TimeoutSeconds = 120
	}
	if cfg.Upload.MaxSizeBytes == 0 {
		cfg.Upload.MaxSizeBytes = 10 * 1024 * 1024
	}
	if cfg.Sessions.MaxSessions == 0 {
		cfg.Sessions.MaxSessions = 100
	}
	if cfg.Sessions.TTLMinutes == 0 {
		cfg.Sessions.TTLMinutes = 60
	}
	if cfg.Share.ExpireHours == 0 {
		cfg.Share.ExpireHours = 72
	}

	// Secrets may come from the environment (a .env file is loaded at
	// startup) so they stay out of the config file.
	if v := os.Getenv("ANALYZER_API_TOKEN"); v != "" {
		cfg.Analyzer.APIToken = v
	}
	if v := os.Getenv("SHARE_SECRET"); v != "" {
		cfg.Share.Secret = v
	}

	return &cfg, nil
}
