// Package config holds the relay configuration: upstream master endpoint,
// listen address, output settings and interception filter lists.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultMasterURI is the standard local ROS master endpoint.
const DefaultMasterURI = "http://localhost:11311"

// DefaultProxyPort is the relay's default listen port.
const DefaultProxyPort = 33133

// Config represents the application configuration.
type Config struct {
	// MasterURI is the upstream ROS master endpoint to forward to.
	MasterURI string       `yaml:"master_uri,omitempty"`
	Proxy     ProxyConfig  `yaml:"proxy,omitempty"`
	Output    OutputConfig `yaml:"output,omitempty"`
	Filters   FilterConfig `yaml:"filters,omitempty"`
}

// ProxyConfig configures the relay's listen endpoint.
type ProxyConfig struct {
	Host string `yaml:"host,omitempty"`
	Port int    `yaml:"port,omitempty"`
}

// OutputConfig configures documentation output.
type OutputConfig struct {
	Directory string `yaml:"directory,omitempty"`
	Format    string `yaml:"format,omitempty"`
}

// FilterConfig lists registry names whose facts are not documented. These
// suppress infrastructure-internal noise; a nil list keeps the default.
type FilterConfig struct {
	Parameters       []string `yaml:"parameters,omitempty"`
	PublishedTopics  []string `yaml:"published_topics,omitempty"`
	SubscribedTopics []string `yaml:"subscribed_topics,omitempty"`
	Services         []string `yaml:"services,omitempty"`
}

// Default returns the built-in configuration: local master, port 33133,
// Markdown into the current directory, and the standard noise filters.
func Default() *Config {
	return &Config{
		MasterURI: DefaultMasterURI,
		Proxy: ProxyConfig{
			Host: "localhost",
			Port: DefaultProxyPort,
		},
		Output: OutputConfig{
			Directory: ".",
			Format:    "markdown",
		},
		Filters: FilterConfig{
			Parameters:       []string{"/tcp_keepalive", "/use_sim_time"},
			PublishedTopics:  []string{"/rosout"},
			SubscribedTopics: []string{},
			Services:         []string{},
		},
	}
}

// Load reads a YAML configuration file and merges it over the defaults.
// Environment variables referenced in the file are expanded; a .env file in
// the working directory is honored first.
func Load(configPath string) (*Config, error) {
	loadEnvFile()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// FromEnv returns the default configuration with ROS_MASTER_URI applied,
// for runs without a config file.
func FromEnv() *Config {
	loadEnvFile()

	cfg := Default()
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if uri := os.Getenv("ROS_MASTER_URI"); uri != "" && cfg.MasterURI == DefaultMasterURI {
		cfg.MasterURI = uri
	}
	if cfg.MasterURI == "" {
		cfg.MasterURI = DefaultMasterURI
	}
	if cfg.Proxy.Host == "" {
		cfg.Proxy.Host = "localhost"
	}
	if cfg.Proxy.Port == 0 {
		cfg.Proxy.Port = DefaultProxyPort
	}
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = "."
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "markdown"
	}

	def := Default().Filters
	if cfg.Filters.Parameters == nil {
		cfg.Filters.Parameters = def.Parameters
	}
	if cfg.Filters.PublishedTopics == nil {
		cfg.Filters.PublishedTopics = def.PublishedTopics
	}
	if cfg.Filters.SubscribedTopics == nil {
		cfg.Filters.SubscribedTopics = def.SubscribedTopics
	}
	if cfg.Filters.Services == nil {
		cfg.Filters.Services = def.Services
	}
}

// loadEnvFile loads environment variables from a .env file when present.
// Existing environment variables are never overridden.
func loadEnvFile() {
	for _, path := range []string{".env", ".env.local"} {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
		}
	}
}
