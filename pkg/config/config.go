/*
Package config manages TOML config for the typeahead engine and server.
*/
package config

import (
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/veldt/typeahead/internal/utils"
)

// Duration wraps time.Duration so TOML fields can hold values like "1h".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config holds the entire config structure
type Config struct {
	Server ServerConfig `toml:"server"`
	Engine EngineConfig `toml:"engine"`
	Index  IndexConfig  `toml:"index"`
}

// ServerConfig has request validation options.
type ServerConfig struct {
	MaxLimit  int `toml:"max_limit"`
	MinPrefix int `toml:"min_prefix"`
	MaxPrefix int `toml:"max_prefix"`
}

// EngineConfig holds suggestion engine options.
type EngineConfig struct {
	TrieLimit     int  `toml:"trie_limit"`
	FallbackLimit int  `toml:"fallback_limit"`
	MaxCandidates int  `toml:"max_candidates"`
	EnableFilter  bool `toml:"enable_filter"`
}

// IndexConfig holds trie index options.
type IndexConfig struct {
	RebuildCooldown Duration `toml:"rebuild_cooldown"`
	PrefixCacheSize int      `toml:"prefix_cache_size"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxLimit:  64,
			MinPrefix: 1,
			MaxPrefix: 60,
		},
		Engine: EngineConfig{
			TrieLimit:     5,
			FallbackLimit: 5,
			MaxCandidates: 100,
			EnableFilter:  true,
		},
		Index: IndexConfig{
			RebuildCooldown: Duration(time.Hour),
			PrefixCacheSize: 1000,
		},
	}
}

// GetConfigDir returns the directory holding config.toml.
func GetConfigDir() string {
	return utils.ConfigDir("typeahead")
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.toml")
}

// LoadConfig loads from a TOML file. Values missing from the file keep
// their defaults. When the typed decode fails, whatever sections still
// parse as plain TOML are salvaged on top of the defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse rebuilds a config from the generically parsed file,
// keeping defaults for anything missing or wrongly typed.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		return nil, err
	}

	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	if engineSection, ok := utils.ExtractSection(tempConfig, "engine"); ok {
		extractEngineConfig(engineSection, &config.Engine)
	}
	if indexSection, ok := utils.ExtractSection(tempConfig, "index"); ok {
		extractIndexConfig(indexSection, &config.Index)
	}
	log.Warnf("Recovered partial configuration from %s", configPath)
	return config, nil
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt(data, "min_prefix"); ok {
		server.MinPrefix = val
	}
	if val, ok := utils.ExtractInt(data, "max_prefix"); ok {
		server.MaxPrefix = val
	}
}

func extractEngineConfig(data map[string]any, engine *EngineConfig) {
	if val, ok := utils.ExtractInt(data, "trie_limit"); ok {
		engine.TrieLimit = val
	}
	if val, ok := utils.ExtractInt(data, "fallback_limit"); ok {
		engine.FallbackLimit = val
	}
	if val, ok := utils.ExtractInt(data, "max_candidates"); ok {
		engine.MaxCandidates = val
	}
	if val, ok := utils.ExtractBool(data, "enable_filter"); ok {
		engine.EnableFilter = val
	}
}

func extractIndexConfig(data map[string]any, index *IndexConfig) {
	if val, ok := utils.ExtractString(data, "rebuild_cooldown"); ok {
		if parsed, err := time.ParseDuration(val); err == nil {
			index.RebuildCooldown = Duration(parsed)
		}
	}
	if val, ok := utils.ExtractInt(data, "prefix_cache_size"); ok {
		index.PrefixCacheSize = val
	}
}

// LoadWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/typeahead/config.toml
// 3. Builtin defaults
func LoadWithPriority(customConfigPath string) (*Config, string) {
	if customConfigPath != "" {
		if utils.FileExists(customConfigPath) {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s. Trying default path...", customConfigPath)
		}
	}

	defaultPath := GetDefaultConfigPath()
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), ""
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// GetActiveConfigPath returns the absolute path of the loaded config file.
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return GetDefaultConfigPath()
	}
	if abs, err := filepath.Abs(configPath); err == nil {
		return abs
	}
	return configPath
}

// WriteDefault force creates a new config.toml at the default location.
func WriteDefault() (string, error) {
	defaultPath := GetDefaultConfigPath()
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return "", err
	}
	if err := SaveConfig(DefaultConfig(), defaultPath); err != nil {
		return "", err
	}
	return defaultPath, nil
}
