package commands

import (
	"fmt"
	"strings"

	"github.com/de-tools/indicator-atlas/pkg/services/config"
	"github.com/spf13/cobra"
)

type ProfilesCmd struct {
	flags *GlobalFlags
}

func NewProfilesCmd(flags *GlobalFlags) *cobra.Command {
	pc := &ProfilesCmd{flags: flags}
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the profiles defined in the profiles file",
		Args:  cobra.NoArgs,
		RunE:  pc.run,
	}
}

func (pc *ProfilesCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	registry, err := config.NewRegistry(pc.flags.Profiles())
	if err != nil {
		return err
	}

	names, err := registry.GetProfiles(ctx)
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	for _, name := range names {
		profile, err := registry.GetProfile(ctx, name)
		if err != nil {
			return err
		}
		period := "-"
		if profile.StartPeriod != 0 || profile.EndPeriod != 0 {
			period = fmt.Sprintf("%d:%d", profile.StartPeriod, profile.EndPeriod)
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n",
			profile, strings.Join(profile.Entities, ";"), period); err != nil {
			return err
		}
	}
	return nil
}
