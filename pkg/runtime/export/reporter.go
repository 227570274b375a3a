package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/indicator-atlas/pkg/models/domain"
)

type TableConfig struct {
	EntityWidth int
	PeriodWidth int
	ValueWidth  int
	GrowthWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		EntityWidth: 8,
		PeriodWidth: 6,
		ValueWidth:  24,
		GrowthWidth: 10,
	}
}

// Reporter prints an aggregate report as a fixed-width console table.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(report *domain.AggregateReport) error {
	funcMap := template.FuncMap{
		"formatRow": func(entity, start, end, startValue, latestValue, growth string) string {
			return fmt.Sprintf("| %-*s | %-*s | %-*s | %*s | %*s | %*s |",
				c.config.EntityWidth, entity,
				c.config.PeriodWidth, start,
				c.config.PeriodWidth, end,
				c.config.ValueWidth, startValue,
				c.config.ValueWidth, latestValue,
				c.config.GrowthWidth, growth)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.EntityWidth+2),
				strings.Repeat("-", c.config.PeriodWidth+2),
				strings.Repeat("-", c.config.PeriodWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2),
				strings.Repeat("-", c.config.GrowthWidth+2))
		},
		"num":    func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"pct":    formatPct,
		"period": func(v int) string { return fmt.Sprintf("%d", v) },
	}

	tmpl := `
Indicator {{.GlobalSummary.IndicatorID}} ({{.GlobalSummary.PeriodRange}})
Records: {{.GlobalSummary.RecordCount}}  Entities: {{.GlobalSummary.EntityCount}}
Highest latest value: {{.GlobalSummary.HighestEntity}} {{num .GlobalSummary.HighestValue}}
Lowest latest value: {{.GlobalSummary.LowestEntity}} {{num .GlobalSummary.LowestValue}}
Average growth: {{pct .GlobalSummary.AverageGrowthPct}} ({{.GlobalSummary.AverageGrowthDirection}})

{{separator}}
{{formatRow "Entity" "Start" "End" "Start value" "Latest value" "Growth %"}}
{{separator}}
{{range .EntitySummaries}}{{formatRow .EntityCode (period .StartPeriod) (period .EndPeriod) (num .StartValue) (num .LatestValue) (pct .GrowthPct)}}
{{end}}{{separator}}
`

	t, err := template.New("summary").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}

func formatPct(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *p)
}
