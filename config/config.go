// config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mbeutel/llamachat/types"
)

const (
	defaultConfigDir  = ".config/llamachat"
	defaultConfigFile = "config.yaml"

	// DefaultModel is the model served by the LlamaShared gateway.
	DefaultModel = "meta-llama/Meta-Llama-3-70B-Instruct"
)

// Config holds the complete configuration for the chatbot
type Config struct {
	LLM struct {
		Endpoint       string  `yaml:"endpoint"`
		APIKey         string  `yaml:"api_key"`
		Model          string  `yaml:"model"`
		MaxTokens      int     `yaml:"max_tokens"`
		Temperature    float64 `yaml:"temperature"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
		SSLVerify      bool    `yaml:"ssl_verify"`
		SystemPrompt   string  `yaml:"system_prompt"`
	} `yaml:"llm"`

	Agent struct {
		RoundTripToolResult bool `yaml:"round_trip_tool_result"`
		NativeTools         bool `yaml:"native_tools"`
		KeywordRouting      bool `yaml:"keyword_routing"`
	} `yaml:"agent"`

	Jira struct {
		ServerURL  string `yaml:"server_url"`
		Username   string `yaml:"username"`
		APIToken   string `yaml:"api_token"`
		Project    string `yaml:"project"`
		MaxResults int    `yaml:"max_results"`
	} `yaml:"jira"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Conversation struct {
		TranscriptPath string `yaml:"transcript_path"`
	} `yaml:"conversation"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`

	Server struct {
		Enable bool   `yaml:"enable"`
		Host   string `yaml:"host"`
		Port   int    `yaml:"port"`
	} `yaml:"server"`

	MCP struct {
		Enable bool `yaml:"enable"`
	} `yaml:"mcp"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	cfg := &Config{}

	// LLM defaults; endpoint and key must come from the config file or
	// the environment.
	cfg.LLM.Model = DefaultModel
	cfg.LLM.MaxTokens = 2048
	cfg.LLM.Temperature = 0.7
	cfg.LLM.TimeoutSeconds = 60
	cfg.LLM.SSLVerify = true

	cfg.Jira.MaxResults = 50

	cfg.Database.Path = "knowledge.db"

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"

	cfg.Server.Enable = false
	cfg.Server.Host = "localhost"
	cfg.Server.Port = 8080

	return cfg
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, defaultConfigDir)
	return filepath.Join(configDir, defaultConfigFile), nil
}

// LoadOrCreate loads the config file if it exists, or creates a default one
// if it doesn't. Environment variables override file values either way.
func LoadOrCreate() (*Config, bool, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, false, err
	}

	configDir := filepath.Dir(configPath)
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return nil, false, fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cfg.Save(configPath); err != nil {
			return nil, false, fmt.Errorf("failed to save default config: %w", err)
		}
		cfg.applyEnv()
		if err := cfg.validate(); err != nil {
			return nil, true, err
		}
		return cfg, true, nil
	}

	cfg, err := Load(configPath)
	return cfg, false, err
}

// Load reads the configuration file, applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with default config so omitted fields keep their defaults.
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to disk
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnv overrides file values with environment variables. The legacy
// variable names are kept so older deployments keep working.
func (c *Config) applyEnv() {
	if v := envFirst("LLAMASHARED_API_URL", "LLAMA_BASE_URL"); v != "" {
		c.LLM.Endpoint = v
	}
	if v := envFirst("LLAMASHARED_API_KEY", "LLAMA_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("MODEL_NAME"); v != "" {
		c.LLM.Model = v
	}
	if v := envFirst("SSL_VERIFY", "VERIFY_SSL"); v != "" {
		c.LLM.SSLVerify = strings.ToLower(v) == "true"
	}
	if strings.ToLower(os.Getenv("DEBUG")) == "true" {
		c.Logging.Level = "debug"
	}

	if v := os.Getenv("JIRA_SERVER_URL"); v != "" {
		c.Jira.ServerURL = v
	}
	if v := os.Getenv("JIRA_USERNAME"); v != "" {
		c.Jira.Username = v
	}
	if v := os.Getenv("JIRA_API_TOKEN"); v != "" {
		c.Jira.APIToken = v
	}
	if v := os.Getenv("JIRA_PROJECT"); v != "" {
		c.Jira.Project = v
	}
}

// Debug reports whether debug logging is enabled
func (c *Config) Debug() bool {
	return strings.ToLower(c.Logging.Level) == "debug"
}

// validate checks that required fields are present and valid
func (c *Config) validate() error {
	var missing []string
	if c.LLM.Endpoint == "" {
		missing = append(missing, "LLAMASHARED_API_URL")
	}
	if c.LLM.APIKey == "" {
		missing = append(missing, "LLAMASHARED_API_KEY")
	}
	if len(missing) > 0 {
		return &types.ConfigError{
			Field:   "llm",
			Message: "missing required configuration: " + strings.Join(missing, ", "),
		}
	}

	if c.LLM.Model == "" {
		return &types.ConfigError{Field: "llm.model", Message: "model is required"}
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return &types.ConfigError{Field: "llm.timeout_seconds", Message: "timeout must be positive"}
	}
	if c.Database.Path == "" {
		return &types.ConfigError{Field: "database.path", Message: "database path is required"}
	}

	return nil
}

func envFirst(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
