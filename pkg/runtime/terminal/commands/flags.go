package commands

import (
	"context"
	"fmt"

	"github.com/de-tools/indicator-atlas/pkg/services/config"
	"github.com/de-tools/indicator-atlas/pkg/services/pipeline"
	"github.com/spf13/cobra"
)

// RunnerFactory builds a pipeline runner for a resolved configuration.
type RunnerFactory func(cfg *config.Config) (*pipeline.Runner, error)

// GlobalFlags are the persistent flags shared by every command.
type GlobalFlags struct {
	ConfigPath    string
	ProfilesPath  string
	Profile       string
	PromptVersion string
	OutputPath    string
	Models        []string
}

func (f *GlobalFlags) Register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&f.ConfigPath, "config", "", "Path to a YAML config file")
	flags.StringVar(&f.ProfilesPath, "profiles", "", "Path to the profiles file (default ~/.atlasprofiles)")
	flags.StringVar(&f.Profile, "profile", "", "Profile to apply on top of the config")
	flags.StringVar(&f.PromptVersion, "prompt-version", "", "Prompt template version")
	flags.StringVar(&f.OutputPath, "output", "", "Path of the generated HTML report")
	flags.StringArrayVar(&f.Models, "model", nil, "Candidate model, in fallback order (repeatable)")
}

func (f *GlobalFlags) Profiles() string {
	if f.ProfilesPath != "" {
		return f.ProfilesPath
	}
	return config.DefaultProfilesPath()
}

// Load resolves the configuration: config file and environment, then the
// selected profile, then explicit flags.
func (f *GlobalFlags) Load(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		return nil, err
	}

	if f.Profile != "" {
		registry, err := config.NewRegistry(f.Profiles())
		if err != nil {
			return nil, err
		}
		profile, err := registry.GetProfile(ctx, f.Profile)
		if err != nil {
			return nil, err
		}
		cfg.ApplyProfile(profile)
	}

	if f.PromptVersion != "" {
		cfg.Prompt.Version = f.PromptVersion
	}
	if f.OutputPath != "" {
		cfg.Output.Path = f.OutputPath
	}
	if len(f.Models) > 0 {
		cfg.Generation.Models = append([]string(nil), f.Models...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadRunner(ctx context.Context, flags *GlobalFlags, factory RunnerFactory) (*config.Config, *pipeline.Runner, error) {
	cfg, err := flags.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	runner, err := factory(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create pipeline: %w", err)
	}
	return cfg, runner, nil
}
