package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

type RunCmd struct {
	flags     *GlobalFlags
	newRunner RunnerFactory
}

func NewRunCmd(flags *GlobalFlags, newRunner RunnerFactory) *cobra.Command {
	rc := &RunCmd{flags: flags, newRunner: newRunner}
	return &cobra.Command{
		Use:   "run",
		Short: "Fetch, aggregate and generate the HTML report",
		Args:  cobra.NoArgs,
		RunE:  rc.run,
	}
}

func (rc *RunCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	_, runner, err := loadRunner(ctx, rc.flags, rc.newRunner)
	if err != nil {
		return err
	}

	result, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Report saved to %s (model %s)\n",
		result.OutputPath, result.Generation.ModelUsed)
	return err
}
