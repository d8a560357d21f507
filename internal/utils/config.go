package utils

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort = 6380
)

// Config struct holds application configuration
type Config struct {
	Port     int    `yaml:"port"`
	LogFile  string `yaml:"log_file"`
	Debug    bool   `yaml:"debug"`
	MaxLists int    `yaml:"max_lists"`
}

var (
	configInstance *Config   // Singleton configInstance
	configOnce     sync.Once // Ensures thread-safe initialization
	configErr      error
)

// DefaultConfigPath returns ~/.dynlist/dynlist.yaml
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".dynlist", "dynlist.yaml"), nil
}

// LoadConfig initializes the singleton configInstance
func LoadConfig(filename string) (*Config, error) {
	configOnce.Do(func() {
		configInstance, configErr = loadConfigFromFile(filename)
	})
	return configInstance, configErr
}

// loadConfigFromFile reads and parses the config file
func loadConfigFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return getDefaultConfig(), nil
		}
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML document and fills in defaults
func ParseConfig(data []byte) (*Config, error) {
	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	if config.MaxLists < 0 {
		return nil, errors.New("max_lists cannot be negative")
	}

	applyDefaults(config)
	return config, nil
}

// GetConfig returns the singleton config configInstance
func GetConfig() (*Config, error) {
	if configInstance == nil {
		return nil, errors.New("Config not initialized. Call LoadConfig() first")
	}
	return configInstance, nil
}

// getDefaultConfig returns default config values
func getDefaultConfig() *Config {
	return &Config{
		Port: DefaultPort,
	}
}

// applyDefaults ensures missing values get defaults
func applyDefaults(config *Config) {
	if config.Port == 0 {
		config.Port = DefaultPort
	}
}
