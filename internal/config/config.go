package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/petrarca/repo-scanner/internal/types"
	"github.com/petrarca/repo-scanner/internal/validation"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the per-repository configuration file the scanner
// looks for in the scan root.
const ConfigFileName = ".repo-scanner.yml"

// ScanConfig represents the .repo-scanner.yml configuration file
type ScanConfig struct {
	Include          []string `yaml:"include,omitempty" json:"include,omitempty"`
	Exclude          []string `yaml:"exclude,omitempty" json:"exclude,omitempty"`
	MaxDepth         int      `yaml:"max_depth,omitempty" json:"max_depth,omitempty"`
	FollowSymlinks   bool     `yaml:"follow_symlinks,omitempty" json:"follow_symlinks,omitempty"`
	Concurrency      int      `yaml:"concurrency,omitempty" json:"concurrency,omitempty"`
	MaxFileSize      int64    `yaml:"max_file_size,omitempty" json:"max_file_size,omitempty"`
	CollectLineStats *bool    `yaml:"collect_line_stats,omitempty" json:"collect_line_stats,omitempty"`
}

// LoadConfig attempts to load .repo-scanner.yml from the scan root.
// Returns an empty config if the file doesn't exist (not an error).
// A file that exists but fails schema validation is an error.
func LoadConfig(scanPath string) (*ScanConfig, error) {
	configPath := filepath.Join(scanPath, ConfigFileName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &ScanConfig{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ConfigFileName, err)
	}

	if err := validation.ValidateYAML(validation.ScanConfigSchema, data); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigFileName, err)
	}

	var config ScanConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ConfigFileName, err)
	}

	return &config, nil
}

// MergeExcludes merges config excludes with CLI excludes
func (c *ScanConfig) MergeExcludes(cliExcludes []string) []string {
	if c == nil {
		return cliExcludes
	}

	excludeMap := make(map[string]bool)
	for _, exclude := range c.Exclude {
		excludeMap[exclude] = true
	}
	for _, exclude := range cliExcludes {
		excludeMap[exclude] = true
	}

	result := make([]string, 0, len(excludeMap))
	for _, exclude := range c.Exclude {
		if excludeMap[exclude] {
			result = append(result, exclude)
			excludeMap[exclude] = false
		}
	}
	for _, exclude := range cliExcludes {
		if excludeMap[exclude] {
			result = append(result, exclude)
			excludeMap[exclude] = false
		}
	}

	return result
}

// BuildOptions combines settings and project config into traversal
// options. CLI / environment settings take precedence over the config
// file; unset fields fall back to engine defaults via Normalize.
func BuildOptions(settings *Settings, projectConfig *ScanConfig) types.TraversalOptions {
	opts := types.TraversalOptions{}

	if projectConfig != nil {
		opts.Include = append(opts.Include, projectConfig.Include...)
		opts.MaxDepth = projectConfig.MaxDepth
		opts.FollowSymlinks = projectConfig.FollowSymlinks
		opts.Concurrency = projectConfig.Concurrency
		opts.MaxFileSize = projectConfig.MaxFileSize
		if projectConfig.CollectLineStats != nil {
			opts.CollectLineStats = *projectConfig.CollectLineStats
		} else {
			opts.CollectLineStats = true
		}
	} else {
		opts.CollectLineStats = true
	}

	var cliExcludes []string
	if settings != nil {
		cliExcludes = settings.ExcludePatterns
	}
	opts.Exclude = projectConfig.MergeExcludes(cliExcludes)

	if settings != nil {
		if len(settings.IncludePatterns) > 0 {
			opts.Include = settings.IncludePatterns
		}
		if settings.MaxDepth > 0 {
			opts.MaxDepth = settings.MaxDepth
		}
		if settings.Concurrency > 0 {
			opts.Concurrency = settings.Concurrency
		}
		if settings.MaxFileSize > 0 {
			opts.MaxFileSize = settings.MaxFileSize
		}
		if settings.FollowSymlinks {
			opts.FollowSymlinks = true
		}
		if settings.NoLineStats {
			opts.CollectLineStats = false
		}
	}

	return opts.Normalize()
}
