// Package config provides configuration file support for sar.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "config.yaml"

// appDir is the directory under the user config root holding the file.
const appDir = "sar"

// Config represents the sar configuration file. Values here sit at the
// bottom of the resolution precedence: flag > environment > file >
// builtin default.
type Config struct {
	Pager   *string `yaml:"pager"`
	Fzf     *string `yaml:"fzf"`
	Unified *int    `yaml:"unified"`
}

// knownKeys lists the accepted top-level config keys.
var knownKeys = []string{"pager", "fzf", "unified"}

// LoadResult contains the loaded config and any warnings encountered.
type LoadResult struct {
	Config   *Config
	Warnings []string
}

// Load reads the config file from the user config directory
// ($XDG_CONFIG_HOME/sar/config.yaml on Linux). A missing file or an
// undeterminable config directory yields an empty config, not an error.
func Load() (*LoadResult, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return &LoadResult{Config: &Config{}}, nil
	}
	return LoadFromPath(filepath.Join(dir, appDir, ConfigFileName))
}

// LoadFromPath reads a config file and returns warnings for unknown keys.
// Returns an empty config (not error) if the file doesn't exist.
// Returns an error if the file exists but is invalid YAML.
func LoadFromPath(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &LoadResult{Config: &Config{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	warnings := checkUnknownKeys(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigFileName, err)
	}

	if cfg.Unified != nil && *cfg.Unified < 0 {
		warnings = append(warnings, fmt.Sprintf("unified must be >= 0, ignoring %d", *cfg.Unified))
		cfg.Unified = nil
	}

	return &LoadResult{Config: &cfg, Warnings: warnings}, nil
}

// checkUnknownKeys parses the raw document and reports keys outside the
// accepted set, with a did-you-mean suggestion where one is close.
func checkUnknownKeys(data []byte) []string {
	var warnings []string

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		// If we can't parse, let the main parser handle the error
		return nil
	}

	for key := range raw {
		if !slices.Contains(knownKeys, key) {
			warning := fmt.Sprintf("unknown key %q in %s", key, ConfigFileName)
			if suggestion := findSimilar(key, knownKeys); suggestion != "" {
				warning += fmt.Sprintf(" (did you mean %q?)", suggestion)
			}
			warnings = append(warnings, warning)
		}
	}

	return warnings
}

// findSimilar returns the closest known key within a small edit
// distance, or "" if nothing is close enough to suggest.
func findSimilar(input string, candidates []string) string {
	const maxDistance = 3
	bestMatch := ""
	bestDistance := maxDistance + 1

	for _, candidate := range candidates {
		dist := levenshtein(input, candidate)
		if dist < bestDistance {
			bestDistance = dist
			bestMatch = candidate
		}
	}

	if bestDistance <= maxDistance {
		return bestMatch
	}
	return ""
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	matrix := make([][]int, len(ra)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(rb)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(ra)][len(rb)]
}
