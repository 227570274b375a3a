package export

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/de-tools/indicator-atlas/pkg/models/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DefaultTitle    = "World Bank GDP AI Report"
	timestampLayout = "2006-01-02 15:04:05"
)

const documentTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body { font-family: Arial, sans-serif; max-width: 900px; margin: 40px auto; padding: 0 16px; color: #222; }
    h1 { margin-bottom: 8px; }
    h2 { margin-top: 28px; color: #444; }
    .meta { color: #666; font-size: 14px; margin-bottom: 24px; }
    .card { background: #f7f7f8; border: 1px solid #e9e9ea; border-radius: 8px; padding: 12px 14px; }
    li { margin: 6px 0; }
    table { border-collapse: collapse; width: 100%; font-size: 14px; }
    th, td { border-bottom: 1px solid #e9e9ea; padding: 6px 8px; text-align: left; }
    td.num { text-align: right; font-variant-numeric: tabular-nums; }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <div class="meta">{{.Meta}}</div>
  <div class="card">
{{.Fragment}}
  </div>
  <h2>Source data</h2>
  <table>
    <thead>
      <tr><th>Entity</th><th>Start</th><th>End</th><th>Start value</th><th>Latest value</th><th>Growth %</th></tr>
    </thead>
    <tbody>
{{- range .Rows}}
      <tr><td>{{.Entity}}</td><td>{{.StartPeriod}}</td><td>{{.EndPeriod}}</td><td class="num">{{.StartValue}}</td><td class="num">{{.LatestValue}}</td><td class="num">{{.Growth}}</td></tr>
{{- end}}
    </tbody>
  </table>
</body>
</html>
`

type RendererOptions struct {
	Title         string
	PromptVersion string
	// Now is used for the generation timestamp; defaults to time.Now.
	Now func() time.Time
}

type HTMLRenderer struct {
	opts    RendererOptions
	tmpl    *template.Template
	printer *message.Printer
}

type documentView struct {
	Title    string
	Meta     string
	Fragment template.HTML
	Rows     []rowView
}

type rowView struct {
	Entity      string
	StartPeriod string
	EndPeriod   string
	StartValue  string
	LatestValue string
	Growth      string
}

func NewHTMLRenderer(opts RendererOptions) (*HTMLRenderer, error) {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	tmpl, err := template.New("document").Parse(documentTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	return &HTMLRenderer{
		opts:    opts,
		tmpl:    tmpl,
		printer: message.NewPrinter(language.English),
	}, nil
}

// Render builds the complete standalone document for a narrative.
func (r *HTMLRenderer) Render(
	narrative string,
	report *domain.AggregateReport,
	modelUsed string,
) (*domain.Document, error) {
	if report == nil {
		return nil, errors.New("report cannot be nil")
	}

	generatedAt := r.opts.Now()
	view := documentView{
		Title: r.opts.Title,
		Meta: fmt.Sprintf("Prompt: %s | Model: %s | Records: %d | Generated: %s",
			r.opts.PromptVersion,
			modelUsed,
			report.GlobalSummary.RecordCount,
			generatedAt.Format(timestampLayout),
		),
		Fragment: template.HTML(NarrativeToHTML(narrative)),
		Rows:     make([]rowView, 0, len(report.EntitySummaries)),
	}

	for _, s := range report.EntitySummaries {
		growth := "n/a"
		if s.GrowthPct != nil {
			growth = r.printer.Sprintf("%.2f", *s.GrowthPct)
		}
		view.Rows = append(view.Rows, rowView{
			Entity:      s.EntityCode,
			StartPeriod: strconv.Itoa(s.StartPeriod),
			EndPeriod:   strconv.Itoa(s.EndPeriod),
			StartValue:  r.printer.Sprintf("%.2f", s.StartValue),
			LatestValue: r.printer.Sprintf("%.2f", s.LatestValue),
			Growth:      growth,
		})
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to render document: %w", err)
	}

	return &domain.Document{
		HTML:          buf.String(),
		PromptVersion: r.opts.PromptVersion,
		ModelUsed:     modelUsed,
		RecordCount:   report.GlobalSummary.RecordCount,
		GeneratedAt:   generatedAt,
	}, nil
}

// WriteDocument writes a rendered document to path, creating parent
// directories. The file is closed on every path and a failed flush or close
// is reported.
func WriteDocument(path string, doc *domain.Document) (err error) {
	if doc == nil {
		return errors.New("document cannot be nil")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString(doc.HTML); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}
