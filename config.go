// Copyright 2025 David Stotijn
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultBaseURL = "https://documentation-resources.opendatasoft.com"

// Duration wraps time.Duration to support YAML values like "30s" or "1m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config holds the Opendatasoft API client settings. All fields are
// optional; zero values fall back to defaults via ApplyDefaults.
type Config struct {
	// Base URL of the Opendatasoft domain, without the API path.
	BaseURL string `yaml:"base_url"`
	// Optional API key for authenticated requests.
	APIKey string `yaml:"api_key"`
	// HTTP request timeout.
	Timeout Duration `yaml:"timeout"`
	// Maximum outgoing requests per second.
	RateLimit float64 `yaml:"rate_limit"`
	// Burst size for the rate limiter.
	Burst int `yaml:"burst"`
}

// LoadConfig reads the YAML config file at path (skipped when path is
// empty), applies environment variable overrides (ODS_BASE_URL, ODS_API_KEY)
// and fills in defaults.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if v := os.Getenv("ODS_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("ODS_API_KEY"); v != "" {
		cfg.APIKey = v
	}

	cfg.ApplyDefaults()

	return cfg, nil
}

// ApplyDefaults fills zero-valued fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = Duration(30 * time.Second)
	}
	if c.RateLimit <= 0 {
		c.RateLimit = 10
	}
	if c.Burst <= 0 {
		c.Burst = 5
	}
}
