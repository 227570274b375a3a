package commands

import (
	"encoding/json"

	"github.com/de-tools/indicator-atlas/pkg/adapters"
	"github.com/de-tools/indicator-atlas/pkg/runtime/export"
	"github.com/spf13/cobra"
)

type SummaryCmd struct {
	flags     *GlobalFlags
	newRunner RunnerFactory
	reporter  *export.Reporter
	asJSON    bool
}

func NewSummaryCmd(flags *GlobalFlags, newRunner RunnerFactory, reporter *export.Reporter) *cobra.Command {
	sc := &SummaryCmd{flags: flags, newRunner: newRunner, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the aggregate summary without generating a narrative",
		Args:  cobra.NoArgs,
		RunE:  sc.run,
	}
	cmd.Flags().BoolVar(&sc.asJSON, "json", false, "Print the summary as JSON")
	return cmd
}

func (sc *SummaryCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	_, runner, err := loadRunner(ctx, sc.flags, sc.newRunner)
	if err != nil {
		return err
	}

	report, err := runner.Aggregate(ctx)
	if err != nil {
		return err
	}

	if sc.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(adapters.MapAggregateReportDomainToApi(report))
	}
	return sc.reporter.Handle(report)
}
