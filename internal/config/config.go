package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Articles  []string  `yaml:"articles"`
	Selectors Selectors `yaml:"selectors"`
	Analyzer  Analyzer  `yaml:"analyzer"`
	Fetch     Fetch     `yaml:"fetch"`
	Output    Output    `yaml:"output"`
	Server    Server    `yaml:"server"`
}

// Selectors locates the three article fields in the source site's markup.
// They are data, not code, so a site relayout is a config change.
type Selectors struct {
	Title     string `yaml:"title"`
	Date      string `yaml:"date"`
	Body      string `yaml:"body"`
	Paragraph string `yaml:"paragraph"`
}

type Analyzer struct {
	BaseURL        string  `yaml:"base_url"`
	Model          string  `yaml:"model"`
	APIKeyEnv      string  `yaml:"api_key_env"`
	Temperature    float64 `yaml:"temperature"`
	MaxTokens      int     `yaml:"max_tokens"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

type Fetch struct {
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	UserAgent      string `yaml:"user_agent"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Server struct {
	Port int `yaml:"port"`
}

// Key reads the analyzer credential from the configured environment
// variable. An empty value is a configuration error: callers are expected
// to check this before any URL is processed.
func (a Analyzer) Key() (string, error) {
	key := os.Getenv(a.APIKeyEnv)
	if key == "" {
		return "", fmt.Errorf("analyzer API key not set: export %s", a.APIKeyEnv)
	}
	return key, nil
}

// Timeout returns the analyzer request timeout as a duration.
func (a Analyzer) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// Timeout returns the page fetch timeout as a duration.
func (f Fetch) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// ConfigDir returns the XDG config directory for bottomfeeder.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "bottomfeeder")
}

// DataDir returns the XDG data directory for bottomfeeder.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "bottomfeeder")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/bottomfeeder/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'bottomfeeder init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Selectors: Selectors{
			Title:     "h1",
			Date:      "span.d-ib.mr-05",
			Body:      "div.kInstance-Body.instance-box-mb",
			Paragraph: "p",
		},
		Analyzer: Analyzer{
			BaseURL:        "https://api.deepseek.com/v1/chat/completions",
			Model:          "deepseek-chat",
			APIKeyEnv:      "DEEPSEEK_API_KEY",
			Temperature:    0.3,
			MaxTokens:      300,
			TimeoutSeconds: 120,
		},
		Fetch: Fetch{
			TimeoutSeconds: 15,
			UserAgent:      "bottomfeeder/1.0 (article scraper)",
		},
		Server: Server{Port: 8000},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
