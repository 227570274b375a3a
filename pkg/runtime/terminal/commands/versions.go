package commands

import (
	"fmt"

	"github.com/de-tools/indicator-atlas/pkg/services/prompt"
	"github.com/spf13/cobra"
)

func NewVersionsCmd(registry prompt.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "List the available prompt versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, v := range registry.Versions() {
				line := v
				if v == prompt.DefaultVersion {
					line += " (default)"
				}
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
