// SPDX-License-Identifier: MPL-2.0

package config

import "context"

type (
	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific config file when set.
		ConfigFilePath string
		// ProjectDir is searched for pgbuild.cue when ConfigFilePath is empty.
		ProjectDir string
	}

	// Provider loads configuration from explicit options.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (Loaded, error)
	}

	// Loaded pairs a config with the file it came from.
	Loaded struct {
		*Config
		// Source is the config file path, or "" when only defaults apply.
		Source string
	}

	fileProvider struct{}
)

// NewProvider creates a provider reading pgbuild.cue files.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads configuration from the requested source and reports which file
// was read.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (Loaded, error) {
	cfg, source, err := loadWithOptions(ctx, opts)
	if err != nil {
		return Loaded{}, err
	}
	return Loaded{Config: cfg, Source: source}, nil
}
