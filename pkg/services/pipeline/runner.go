package pipeline

import (
	"context"
	"fmt"
	"net/url"

	"github.com/de-tools/indicator-atlas/pkg/adapters"
	"github.com/de-tools/indicator-atlas/pkg/models/domain"
	"github.com/de-tools/indicator-atlas/pkg/runtime/export"
	"github.com/de-tools/indicator-atlas/pkg/services/aggregate"
	"github.com/de-tools/indicator-atlas/pkg/services/config"
	"github.com/de-tools/indicator-atlas/pkg/services/generation"
	"github.com/de-tools/indicator-atlas/pkg/services/prompt"
	"github.com/de-tools/indicator-atlas/pkg/store/client"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Aggregator interface {
	Aggregate(observations []domain.Observation) (*domain.AggregateReport, error)
}

type Renderer interface {
	Render(narrative string, report *domain.AggregateReport, modelUsed string) (*domain.Document, error)
}

type Dependencies struct {
	Fetcher    client.IndicatorClient
	Aggregator Aggregator
	Prompts    prompt.Registry
	Generator  generation.Client
	Renderer   Renderer
}

type Settings struct {
	SourceURL     string
	Query         url.Values
	IndicatorID   string
	Models        []string
	PromptVersion string
	OutputPath    string
}

// Result describes a completed run.
type Result struct {
	RunID      string
	OutputPath string
	Document   *domain.Document
	Report     *domain.AggregateReport
	Generation *domain.GenerationResult
}

// Runner executes fetch, clean, aggregate, prompt, generate and render in
// order. Each call is an independent run; nothing is shared between runs.
type Runner struct {
	deps     Dependencies
	settings Settings
}

func NewRunner(settings Settings, deps Dependencies) *Runner {
	return &Runner{deps: deps, settings: settings}
}

// NewFromConfig wires the production dependencies.
func NewFromConfig(cfg *config.Config) (*Runner, error) {
	agg, err := aggregate.NewAggregator(aggregate.Options{
		IndicatorID:          cfg.Source.Indicator,
		PeriodRange:          cfg.Source.PeriodRange(),
		DuplicatePolicy:      aggregate.DuplicatePolicy(cfg.Aggregate.DuplicatePolicy),
		EmptyGrowthDirection: domain.GrowthDirection(cfg.Aggregate.EmptyGrowthDirection),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create aggregator: %w", err)
	}

	renderer, err := export.NewHTMLRenderer(export.RendererOptions{
		Title:         cfg.Output.Title,
		PromptVersion: cfg.Prompt.Version,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	return NewRunner(
		SettingsFromConfig(cfg),
		Dependencies{
			Fetcher:    client.NewIndicatorClient(cfg.Source.Timeout),
			Aggregator: agg,
			Prompts:    prompt.NewDefaultRegistry(),
			Generator:  generation.NewChatClient(cfg.Generation.Host, cfg.Generation.Timeout),
			Renderer:   renderer,
		},
	), nil
}

func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		SourceURL:     client.IndicatorURL(cfg.Source.BaseURL, cfg.Source.Entities, cfg.Source.Indicator),
		Query:         client.IndicatorQuery(cfg.Source.PerPage, cfg.Source.StartPeriod, cfg.Source.EndPeriod),
		IndicatorID:   cfg.Source.Indicator,
		Models:        append([]string(nil), cfg.Generation.Models...),
		PromptVersion: cfg.Prompt.Version,
		OutputPath:    cfg.Output.Path,
	}
}

func (r *Runner) withRun(ctx context.Context) (context.Context, string) {
	runID := uuid.NewString()
	logger := zerolog.Ctx(ctx).With().
		Str("run_id", runID).
		Str("indicator", r.settings.IndicatorID).
		Logger()
	return logger.WithContext(ctx), runID
}

// Aggregate fetches, cleans and aggregates the configured series.
func (r *Runner) Aggregate(ctx context.Context) (*domain.AggregateReport, error) {
	logger := zerolog.Ctx(ctx)

	logger.Info().Str("url", r.settings.SourceURL).Msg("fetching records")
	rows, err := r.deps.Fetcher.FetchAll(ctx, r.settings.SourceURL, r.settings.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch records: %w", err)
	}

	observations := adapters.CleanIndicatorRecords(rows)
	logger.Info().
		Int("raw", len(rows)).
		Int("kept", len(observations)).
		Msg("cleaned records")

	report, err := r.deps.Aggregator.Aggregate(observations)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate records: %w", err)
	}
	logger.Info().
		Int("records", report.GlobalSummary.RecordCount).
		Int("entities", report.GlobalSummary.EntityCount).
		Msg("aggregated records")

	return report, nil
}

// Prompt returns the prompt a run would submit for the given version, without
// contacting the generation service. An unknown version fails before any fetch.
func (r *Runner) Prompt(ctx context.Context, version string) (string, *domain.AggregateReport, error) {
	if err := r.checkVersion(version); err != nil {
		return "", nil, err
	}

	report, err := r.Aggregate(ctx)
	if err != nil {
		return "", nil, err
	}

	text, err := r.deps.Prompts.Build(report, version)
	if err != nil {
		return "", nil, fmt.Errorf("failed to build prompt: %w", err)
	}
	return text, report, nil
}

// Generate runs the whole pipeline and returns the rendered document without
// writing it.
func (r *Runner) Generate(ctx context.Context) (*Result, error) {
	ctx, runID := r.withRun(ctx)
	logger := zerolog.Ctx(ctx)

	text, report, err := r.Prompt(ctx, r.settings.PromptVersion)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Str("version", r.settings.PromptVersion).
		Int("chars", len(text)).
		Msg("prompt built")

	generated, err := r.deps.Generator.Generate(ctx, text, r.settings.Models)
	if err != nil {
		return nil, fmt.Errorf("failed to generate narrative: %w", err)
	}

	doc, err := r.deps.Renderer.Render(generated.NarrativeText, report, generated.ModelUsed)
	if err != nil {
		return nil, fmt.Errorf("failed to render document: %w", err)
	}

	return &Result{
		RunID:      runID,
		Document:   doc,
		Report:     report,
		Generation: generated,
	}, nil
}

// Run executes the pipeline and writes the document to the configured path.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	result, err := r.Generate(ctx)
	if err != nil {
		return nil, err
	}

	if err := export.WriteDocument(r.settings.OutputPath, result.Document); err != nil {
		return nil, err
	}
	result.OutputPath = r.settings.OutputPath

	zerolog.Ctx(ctx).Info().
		Str("run_id", result.RunID).
		Str("path", r.settings.OutputPath).
		Str("model", result.Generation.ModelUsed).
		Msg("report saved")

	return result, nil
}

func (r *Runner) Versions() []string {
	return r.deps.Prompts.Versions()
}

func (r *Runner) checkVersion(version string) error {
	for _, v := range r.deps.Prompts.Versions() {
		if v == version {
			return nil
		}
	}
	return &prompt.UnknownVersionError{Version: version, Available: r.deps.Prompts.Versions()}
}
