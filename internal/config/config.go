package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type Profile struct {
	APIKey           string  `json:"api_key"`
	BaseURL          string  `json:"base_url,omitempty"`
	DaemonURL        string  `json:"daemon_url,omitempty"`
	Model            string  `json:"model"`
	Temperature      float32 `json:"temperature"`
	MaxTokens        int     `json:"max_tokens"`
	TopP             float32 `json:"top_p"`
	FrequencyPenalty float32 `json:"frequency_penalty"`
}

type Config struct {
	Profiles       map[string]Profile `json:"profiles"`
	ActiveProfile  string             `json:"active_profile"`
	currentProfile *Profile
}

const (
	DefaultModel     = "gpt-4o-mini"
	DefaultBaseURL   = "http://localhost:8000/v1"
	DefaultDaemonURL = "http://localhost:8010"
)

func LoadConfig() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	// Ensure config directory exists
	if err := ensureConfigDir(configPath); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	// Load existing config or create default
	config, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Validate and set current profile
	if err := config.setCurrentProfile(); err != nil {
		return nil, fmt.Errorf("failed to set current profile: %w", err)
	}

	return config, nil
}

func (c *Config) IsValid() bool {
	return c.currentProfile != nil && c.currentProfile.Model != ""
}

func (c *Config) GetAPIKey() string {
	if c.currentProfile == nil {
		return ""
	}
	return c.currentProfile.APIKey
}

func (c *Config) GetModel() string {
	if c.currentProfile == nil {
		return DefaultModel
	}
	return c.currentProfile.Model
}

func (c *Config) GetBaseURL() string {
	if c.currentProfile == nil {
		return DefaultBaseURL
	}
	return c.currentProfile.BaseURL
}

func (c *Config) GetDaemonURL() string {
	if c.currentProfile == nil || c.currentProfile.DaemonURL == "" {
		return DefaultDaemonURL
	}
	return c.currentProfile.DaemonURL
}

func (c *Config) GetTemperature() float32 {
	if c.currentProfile == nil {
		return 0.7
	}
	return c.currentProfile.Temperature
}

func (c *Config) GetMaxTokens() int {
	if c.currentProfile == nil {
		return 512
	}
	return c.currentProfile.MaxTokens
}

func (c *Config) GetTopP() float32 {
	if c.currentProfile == nil {
		return 1.0
	}
	return c.currentProfile.TopP
}

func (c *Config) GetFrequencyPenalty() float32 {
	if c.currentProfile == nil {
		return 0
	}
	return c.currentProfile.FrequencyPenalty
}

func getConfigPath() (string, error) {
	var configDir string

	// Use LOCALCHAT_HOME if set, otherwise use user's home directory
	if chatHome := os.Getenv("LOCALCHAT_HOME"); chatHome != "" {
		configDir = chatHome
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = homeDir
	}

	return filepath.Join(configDir, ".localchat", "config.json"), nil
}

func ensureConfigDir(configPath string) error {
	configDir := filepath.Dir(configPath)
	return os.MkdirAll(configDir, 0755)
}

func loadConfigFile(configPath string) (*Config, error) {
	// If config file doesn't exist, create default
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	// Read existing config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

func DefaultProfile() Profile {
	return Profile{
		APIKey:           "",
		BaseURL:          DefaultBaseURL,
		DaemonURL:        DefaultDaemonURL,
		Model:            DefaultModel,
		Temperature:      0.7,
		MaxTokens:        512,
		TopP:             1.0,
		FrequencyPenalty: 0,
	}
}

func createDefaultConfig(configPath string) (*Config, error) {
	config := &Config{
		Profiles: map[string]Profile{
			"default": DefaultProfile(),
		},
		ActiveProfile: "default",
	}

	// Save default config to file
	if err := saveConfig(config, configPath); err != nil {
		return nil, err
	}

	return config, nil
}

func saveConfig(config *Config, configPath string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	return saveConfig(c, configPath)
}

func (c *Config) setCurrentProfile() error {
	if c.Profiles == nil {
		return fmt.Errorf("no profiles defined")
	}

	profile, exists := c.Profiles[c.ActiveProfile]
	if !exists {
		// If active profile doesn't exist, try to use the first available profile
		for name, p := range c.Profiles {
			c.ActiveProfile = name
			profile = p
			exists = true
			break
		}
	}

	if !exists {
		return fmt.Errorf("no valid profiles found")
	}

	c.currentProfile = &profile
	return nil
}
