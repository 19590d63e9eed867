package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/rbac/config"
	ConfigFileName    = "rbac.yml"
)

// ValidLogLevels is the list of accepted log_level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Config holds all server configuration settings.
type Config struct {
	// SuperRoleName is the distinguished role name that bypasses role gates.
	// Compared case-insensitively.
	SuperRoleName string `yaml:"super_role_name" json:"super_role_name"`

	// SeedOnStartup runs catalog and workflow seeding when the server starts.
	SeedOnStartup bool `yaml:"seed_on_startup" json:"seed_on_startup"`

	// SeedDefinitionsPath points at a YAML file replacing the compiled-in
	// seed baseline. Empty means use the baseline.
	SeedDefinitionsPath string `yaml:"seed_definitions_path" json:"seed_definitions_path"`

	// APIListLimitMax is the maximum number of results for listing requests.
	APIListLimitMax int `yaml:"api_list_limit_max" json:"api_list_limit_max"`

	// TrustedProxies is a list of CIDR ranges for trusted proxies.
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`

	// TokenSigningKey verifies actor JWTs on the admin API.
	TokenSigningKey string `yaml:"token_signing_key" json:"token_signing_key"`

	// LogLevel is the logging verbosity.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *Config {
	return &Config{
		SuperRoleName:       "admin",
		SeedOnStartup:       true,
		SeedDefinitionsPath: "",
		APIListLimitMax:     1000,
		TrustedProxies:      []string{},
		TokenSigningKey:     "",
		LogLevel:            "info",
		sources:             make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	config := newDefault()

	// Initialize all sources as "default"
	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	// Determine config file path
	configPath := os.Getenv("RBAC_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	// Try to load from config file
	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&file)
	}

	// Override with environment variables
	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"super_role_name", "seed_on_startup", "seed_definitions_path",
		"api_list_limit_max", "trusted_proxies", "token_signing_key",
		"log_level",
	}
}

// fileConfig is the yaml-file layer. Booleans are pointers so an explicit
// `false` in the file is distinguishable from the attribute being absent.
type fileConfig struct {
	SuperRoleName       string   `yaml:"super_role_name"`
	SeedOnStartup       *bool    `yaml:"seed_on_startup"`
	SeedDefinitionsPath string   `yaml:"seed_definitions_path"`
	APIListLimitMax     int      `yaml:"api_list_limit_max"`
	TrustedProxies      []string `yaml:"trusted_proxies"`
	TokenSigningKey     string   `yaml:"token_signing_key"`
	LogLevel            string   `yaml:"log_level"`
}

func (c *Config) applyFileConfig(file *fileConfig) {
	if file.SuperRoleName != "" {
		c.SuperRoleName = file.SuperRoleName
		c.sources["super_role_name"] = "file"
	}
	if file.SeedOnStartup != nil {
		c.SeedOnStartup = *file.SeedOnStartup
		c.sources["seed_on_startup"] = "file"
	}
	if file.SeedDefinitionsPath != "" {
		c.SeedDefinitionsPath = file.SeedDefinitionsPath
		c.sources["seed_definitions_path"] = "file"
	}
	if file.APIListLimitMax != 0 {
		c.APIListLimitMax = file.APIListLimitMax
		c.sources["api_list_limit_max"] = "file"
	}
	if len(file.TrustedProxies) > 0 {
		c.TrustedProxies = file.TrustedProxies
		c.sources["trusted_proxies"] = "file"
	}
	if file.TokenSigningKey != "" {
		c.TokenSigningKey = file.TokenSigningKey
		c.sources["token_signing_key"] = "file"
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
		c.sources["log_level"] = "file"
	}
}

func (c *Config) applyEnvConfig() {
	if val := os.Getenv("RBAC_SUPER_ROLE_NAME"); val != "" {
		c.SuperRoleName = val
		c.sources["super_role_name"] = "environment"
	}
	if val := os.Getenv("RBAC_SEED_ON_STARTUP"); val != "" {
		c.SeedOnStartup = val == "true" || val == "1"
		c.sources["seed_on_startup"] = "environment"
	}
	if val := os.Getenv("RBAC_SEED_DEFINITIONS_PATH"); val != "" {
		c.SeedDefinitionsPath = val
		c.sources["seed_definitions_path"] = "environment"
	}
	if val := os.Getenv("RBAC_API_LIST_LIMIT_MAX"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.APIListLimitMax = i
			c.sources["api_list_limit_max"] = "environment"
		}
	}
	if val := os.Getenv("RBAC_TRUSTED_PROXIES"); val != "" {
		c.TrustedProxies = splitAndTrim(val)
		c.sources["trusted_proxies"] = "environment"
	}
	if val := os.Getenv("RBAC_TOKEN_SIGNING_KEY"); val != "" {
		c.TokenSigningKey = val
		c.sources["token_signing_key"] = "environment"
	}
	if val := os.Getenv("RBAC_LOG_LEVEL"); val != "" {
		c.LogLevel = val
		c.sources["log_level"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// IsTrustedProxy checks if an IP is from a trusted proxy
func (c *Config) IsTrustedProxy(ip string) bool {
	if len(c.TrustedProxies) == 0 {
		return false
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}

	for _, cidr := range c.TrustedProxies {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			// Try as plain IP
			if net.ParseIP(cidr) != nil && cidr == ip {
				return true
			}
			continue
		}
		if network.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// Validate validates the configuration
func (c *Config) Validate() error {
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			if net.ParseIP(cidr) == nil {
				return fmt.Errorf("invalid trusted_proxies value: %s", cidr)
			}
		}
	}

	if c.SuperRoleName == "" {
		return fmt.Errorf("super_role_name must not be empty")
	}

	valid := false
	for _, level := range ValidLogLevels {
		if c.LogLevel == level {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}

	if c.APIListLimitMax < 1 {
		return fmt.Errorf("api_list_limit_max must be positive")
	}

	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "super_role_name", Value: c.SuperRoleName, Source: c.Source("super_role_name")},
		{Name: "seed_on_startup", Value: strconv.FormatBool(c.SeedOnStartup), Source: c.Source("seed_on_startup")},
		{Name: "seed_definitions_path", Value: c.SeedDefinitionsPath, Source: c.Source("seed_definitions_path")},
		{Name: "api_list_limit_max", Value: strconv.Itoa(c.APIListLimitMax), Source: c.Source("api_list_limit_max")},
		{Name: "trusted_proxies", Value: strings.Join(c.TrustedProxies, ","), Source: c.Source("trusted_proxies")},
		{Name: "token_signing_key", Value: maskSecret(c.TokenSigningKey), Source: c.Source("token_signing_key")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-30s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-30s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-30s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// maskSecret keeps secrets out of config listings.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
