package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/indicator-atlas/pkg/runtime/export"
	"github.com/de-tools/indicator-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/indicator-atlas/pkg/services/pipeline"
	"github.com/de-tools/indicator-atlas/pkg/services/prompt"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	flags     *commands.GlobalFlags
	newRunner commands.RunnerFactory
	reporter  *export.Reporter
	rootCmd   *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	// NewRunner defaults to pipeline.NewFromConfig.
	NewRunner commands.RunnerFactory
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.NewRunner == nil {
		opts.NewRunner = pipeline.NewFromConfig
	}

	cli := &CLI{
		flags:     &commands.GlobalFlags{},
		newRunner: opts.NewRunner,
		reporter:  export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "atlas",
		Short:         "Indicator aggregation and AI report tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cli.flags.Register(cmd)

	cmd.AddCommand(commands.NewRunCmd(cli.flags, cli.newRunner))
	cmd.AddCommand(commands.NewSummaryCmd(cli.flags, cli.newRunner, cli.reporter))
	cmd.AddCommand(commands.NewPromptCmd(cli.flags, cli.newRunner))
	cmd.AddCommand(commands.NewProfilesCmd(cli.flags))
	cmd.AddCommand(commands.NewVersionsCmd(prompt.NewDefaultRegistry()))

	return cmd
}
