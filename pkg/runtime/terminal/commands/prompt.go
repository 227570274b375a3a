package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

type PromptCmd struct {
	flags     *GlobalFlags
	newRunner RunnerFactory
}

func NewPromptCmd(flags *GlobalFlags, newRunner RunnerFactory) *cobra.Command {
	pc := &PromptCmd{flags: flags, newRunner: newRunner}
	return &cobra.Command{
		Use:   "prompt [version]",
		Short: "Print the prompt a run would submit, without generating",
		Args:  cobra.MaximumNArgs(1),
		RunE:  pc.run,
	}
}

func (pc *PromptCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, runner, err := loadRunner(ctx, pc.flags, pc.newRunner)
	if err != nil {
		return err
	}

	version := cfg.Prompt.Version
	if len(args) == 1 {
		version = args[0]
	}

	text, _, err := runner.Prompt(ctx, version)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}
