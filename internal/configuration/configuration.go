// Package configuration loads the pvassist config file, writing a default
// one on first run.
package configuration

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/pvassist/pvassist/internal/file"
)

// DefaultPath is where the config file lives unless overridden.
const DefaultPath = "~/.config/pvassist/config.json"

var defaultConfig = Config{
	DatabasePath:   "~/.config/pvassist/sessions.db",
	RequestTimeout: 60,

	Client: &ClientConfig{
		ServerURL: "http://localhost:8080",
	},

	Server: &ServerConfig{
		Port:     8080,
		Provider: "openai",
		Model:    "gpt-4o-mini",
		APIKey:   "API_KEY",
		APIHost:  "https://api.openai.com/v1",
	},

	Export: &ExportConfig{
		Directory: "~/.config/pvassist/export",
	},
}

// Config holds configuration for the pvassist tool.
type Config struct {
	// The sqlite file holding chat and checklist sessions.
	DatabasePath string `json:"database_path"`
	// Timeout in seconds for network calls.
	RequestTimeout int `json:"request_timeout"`

	Client *ClientConfig `json:"client"`
	Server *ServerConfig `json:"server"`
	Export *ExportConfig `json:"export"`
}

// ClientConfig holds configuration for talking to the assistant server.
type ClientConfig struct {
	// Base URL of the assistant server.
	ServerURL string `json:"server_url"`
	// Token sent in the X-CSRFTOKEN header, if the server requires one.
	CSRFToken string `json:"csrf_token"`
}

// ServerConfig holds configuration for the assistant server.
type ServerConfig struct {
	Port int `json:"port"`
	// The LLM provider backing the chat endpoint.
	Provider string `json:"provider"`
	Model    string `json:"model"`
	APIKey   string `json:"api_key"`
	APIHost  string `json:"api_host"`
	// Cap on completion length. Zero means no cap for openai; anthropic
	// requires one and falls back to 1024.
	MaxTokens int `json:"max_tokens"`
}

// ExportConfig holds configuration for checklist exports.
type ExportConfig struct {
	// The directory where exported checklists are written.
	Directory string `json:"directory"`
}

// Parse a configuration file.
func Parse(path string) (*Config, error) {
	path, err := file.ExpandPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "expanding path")
	}

	if err := initializeIfNotPresent(path); err != nil {
		return nil, errors.Wrap(err, "initializing configuration")
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}

	config := &Config{}
	if err = json.Unmarshal(bytes, config); err != nil {
		return nil, errors.Wrap(err, "unmarshaling into config")
	}

	expandedDatabasePath, err := file.ExpandPath(config.DatabasePath)
	if err != nil {
		return nil, errors.Wrap(err, "expanding database path")
	}
	config.DatabasePath = expandedDatabasePath

	if config.Export != nil {
		expandedExportDirectory, err := file.ExpandPath(config.Export.Directory)
		if err != nil {
			return nil, errors.Wrap(err, "expanding export directory path")
		}
		config.Export.Directory = expandedExportDirectory
	}
	return config, nil
}

// save a configuration file.
func (c *Config) save(path string) error {
	bytes, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	err = os.WriteFile(path, bytes, 0644)
	if err != nil {
		return errors.Wrap(err, "writing file")
	}

	return nil
}

// initializeIfNotPresent initializes a config if it does not exist.
func initializeIfNotPresent(path string) error {
	exists, err := file.Exists(path)
	if err != nil {
		return errors.Wrap(err, "checking for config file")
	}
	if exists {
		return nil
	}

	// Create the directories.
	dir, _ := filepath.Split(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "creating folders")
	}

	if err := defaultConfig.save(path); err != nil {
		return errors.Wrap(err, "saving default config")
	}
	return nil
}
