// Copyright (C) 2025 Dyne.org foundation
// designed, written and maintained by Denis Roio <jaromil@dyne.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package config loads the agent configuration from a JSON file and the
// environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"fileagent/internal/fileops"
	"fileagent/internal/paths"
	"fileagent/internal/tools"
)

const (
	defaultModel              = "gpt-4o-mini"
	defaultAPIURL             = "https://api.openai.com/v1"
	dashScopeAPIURL           = "https://dashscope-intl.aliyuncs.com/compatible-mode/v1"
	defaultCommandHistoryFile = ".fileagent_history"
	defaultThemeFile          = "theme.json"
)

// ErrMissingAPIKey is returned by RequireAPIKey when no key was configured.
var ErrMissingAPIKey = errors.New("API key is required (set api_key in config.json or OPENAI_API_KEY/DASHSCOPE_API_KEY)")

// Config represents the application configuration
type Config struct {
	APIKey             string            `json:"api_key"`
	APIURL             string            `json:"api_url,omitempty"`
	Model              string            `json:"model"`
	Temperature        *float32          `json:"temperature,omitempty"`
	MaxTokens          *int              `json:"max_tokens,omitempty"`
	Aliases            map[string]string `json:"aliases,omitempty"`
	FileTypes          map[string]string `json:"file_types,omitempty"`
	Tools              ToolSettings      `json:"tools,omitempty"`
	ToolLimits         ToolLimits        `json:"tool_limits,omitempty"`
	ToolOutputFilters  ToolOutputFilters `json:"tool_output_filters,omitempty"`
	CommandHistoryFile string            `json:"command_history_file,omitempty"`
	ThemeFile          string            `json:"theme_file,omitempty"`
}

// ToolSettings lists operations disabled by configuration.
type ToolSettings struct {
	Deny []string `json:"deny,omitempty"`
}

// ToolLimits configures resource limits for file operations.
type ToolLimits struct {
	MaxFileSizeBytes int64 `json:"max_file_size_bytes,omitempty"`
}

// ToolOutputFilters configures output sanitization for operation results.
type ToolOutputFilters struct {
	MaxChars     int  `json:"max_chars,omitempty"`
	StripANSI    bool `json:"strip_ansi,omitempty"`
	StripControl bool `json:"strip_control,omitempty"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	defaultToolOutputFilters := ToolOutputFilters{
		MaxChars:     tools.DefaultOutputFilterConfig().MaxChars,
		StripANSI:    tools.DefaultOutputFilterConfig().StripANSI,
		StripControl: tools.DefaultOutputFilterConfig().StripControl,
	}
	return &Config{
		Model:  defaultModel,
		APIURL: defaultAPIURL,
		ToolLimits: ToolLimits{
			MaxFileSizeBytes: fileops.DefaultLimits().MaxFileSizeBytes,
		},
		ToolOutputFilters:  defaultToolOutputFilters,
		CommandHistoryFile: defaultCommandHistoryFile,
		ThemeFile:          defaultThemeFile,
	}
}

// LoadConfig loads configuration from a JSON file and applies env overrides.
// A missing file is not an error. The API key is checked separately by
// RequireAPIKey, since not every mode talks to the model.
func LoadConfig(filepath string) (*Config, error) {
	config := DefaultConfig()

	// If config file exists, load it
	if _, err := os.Stat(filepath); err == nil {
		data, err := os.ReadFile(filepath)
		if err != nil {
			return nil, err
		}
		normalized, err := normalizeConfigJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath, err)
		}
		if err := json.Unmarshal(normalized, config); err != nil {
			return nil, fmt.Errorf("%s: %w", filepath, err)
		}
	}

	// Env overrides (apply regardless of whether config file exists)
	// Check OPENAI_API_KEY first, then DASHSCOPE_API_KEY
	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		config.APIKey = val
	} else if val := os.Getenv("DASHSCOPE_API_KEY"); val != "" {
		config.APIKey = val
		if config.APIURL == defaultAPIURL {
			config.APIURL = dashScopeAPIURL
		}
	}

	if val := os.Getenv("OPENAI_API_URL"); val != "" {
		config.APIURL = val
	}

	if val := os.Getenv("FILEAGENT_MODEL"); val != "" {
		config.Model = val
	}

	// Set defaults for any missing values
	if config.Model == "" {
		config.Model = defaultModel
	}

	if config.APIURL == "" {
		config.APIURL = defaultAPIURL
	}

	return config, nil
}

// RequireAPIKey reports ErrMissingAPIKey when the model cannot be reached.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// AliasTable returns the built-in aliases extended by the configured ones.
// Entries with an empty target are ignored.
func (c *Config) AliasTable() paths.AliasTable {
	table := paths.DefaultAliases()
	for name, target := range c.Aliases {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || strings.TrimSpace(target) == "" {
			continue
		}
		table[name] = target
	}
	return table
}

// FileTypeTable returns the built-in file types extended by the configured ones.
func (c *Config) FileTypeTable() tools.FileTypeTable {
	table := tools.DefaultFileTypes()
	for tag, pattern := range c.FileTypes {
		tag = tools.NormalizeFileType(tag)
		if tag == "" || strings.TrimSpace(pattern) == "" {
			continue
		}
		table[tag] = pattern
	}
	return table
}

// FileLimits returns limits for the file operations.
func (c *Config) FileLimits() fileops.Limits {
	return fileops.Limits{
		MaxFileSizeBytes: c.ToolLimits.MaxFileSizeBytes,
	}
}

// ToolOutputFiltersConfig returns output filter configuration for tools.
func (c *Config) ToolOutputFiltersConfig() tools.OutputFilterConfig {
	return tools.OutputFilterConfig{
		MaxChars:     c.ToolOutputFilters.MaxChars,
		StripANSI:    c.ToolOutputFilters.StripANSI,
		StripControl: c.ToolOutputFilters.StripControl,
	}
}

// RegistryOptions gathers everything the dispatcher takes from configuration.
func (c *Config) RegistryOptions() tools.Options {
	return tools.Options{
		FileTypes:     c.FileTypeTable(),
		Deny:          append([]string(nil), c.Tools.Deny...),
		OutputFilters: c.ToolOutputFiltersConfig(),
	}
}

// ValidationWarning represents a non-fatal configuration issue
type ValidationWarning struct {
	Field   string
	Message string
}

// Validate checks the configuration for common issues and returns warnings
func (c *Config) Validate(registry *tools.Registry) []ValidationWarning {
	var warnings []ValidationWarning

	// Validate temperature range (OpenAI expects 0-2)
	if c.Temperature != nil {
		temp := *c.Temperature
		if temp < 0 || temp > 2 {
			warnings = append(warnings, ValidationWarning{
				Field:   "temperature",
				Message: fmt.Sprintf("temperature %.2f is outside recommended range [0, 2]", temp),
			})
		}
	}

	// Validate max_tokens (OpenAI models have different limits)
	if c.MaxTokens != nil {
		tokens := *c.MaxTokens
		if tokens <= 0 {
			warnings = append(warnings, ValidationWarning{
				Field:   "max_tokens",
				Message: fmt.Sprintf("max_tokens %d must be positive", tokens),
			})
		}
		if tokens > 128000 {
			warnings = append(warnings, ValidationWarning{
				Field:   "max_tokens",
				Message: fmt.Sprintf("max_tokens %d exceeds typical model limits", tokens),
			})
		}
	}

	if c.ToolLimits.MaxFileSizeBytes < 0 {
		warnings = append(warnings, ValidationWarning{
			Field:   "tool_limits.max_file_size_bytes",
			Message: fmt.Sprintf("max_file_size_bytes %d is negative, using default", c.ToolLimits.MaxFileSizeBytes),
		})
	}

	for _, name := range sortedKeys(c.Aliases) {
		if strings.TrimSpace(c.Aliases[name]) == "" {
			warnings = append(warnings, ValidationWarning{
				Field:   "aliases." + name,
				Message: fmt.Sprintf("alias %q has an empty target", name),
			})
		}
	}

	for _, tag := range sortedKeys(c.FileTypes) {
		if strings.TrimSpace(c.FileTypes[tag]) == "" {
			warnings = append(warnings, ValidationWarning{
				Field:   "file_types." + tag,
				Message: fmt.Sprintf("file type %q has an empty pattern", tag),
			})
		}
	}

	// Validate deny list against registered operations
	if registry != nil {
		registered := make(map[string]bool)
		for _, name := range registry.GetToolNames() {
			registered[name] = true
		}

		for _, name := range c.Tools.Deny {
			if !registered[strings.TrimSpace(name)] {
				warnings = append(warnings, ValidationWarning{
					Field:   "tools.deny",
					Message: fmt.Sprintf("operation %q in deny list is not registered", name),
				})
			}
		}
	}

	return warnings
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
