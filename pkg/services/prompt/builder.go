package prompt

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/de-tools/indicator-atlas/pkg/adapters"
	"github.com/de-tools/indicator-atlas/pkg/models/domain"
)

const DefaultVersion = "v3"

const dataMarker = "DATA:"

// v1 was too broad and the output lacked structure.
const instructionsV1 = `You are a data reporter. Summarize the indicator dataset below.`

// v2 fixed the sections and item counts.
const instructionsV2 = `You are a data reporter.
Write:
1) 3-5 bullet insights on trends/patterns.
2) 2 bullet recommendations.
Keep it concise and practical.`

// v3 restricts the model to the supplied numbers.
const instructionsV3 = `You are an economic data reporter writing in English.
Use ONLY the numbers provided in the DATA. Do not invent facts.
If something is missing, say it is unavailable.

Output format (Markdown):
## Executive Summary
2-3 sentences.

## Key Insights
- Provide 3 to 5 bullet points based on the DATA.

## Recommendations
- Provide exactly 2 actionable bullet points.`

// Registry maps version tags to instruction blocks.
type Registry interface {
	Register(version, instructions string) error
	Build(report *domain.AggregateReport, version string) (string, error)
	Versions() []string
}

type registry struct {
	mu        sync.RWMutex
	templates map[string]string
}

func NewRegistry() Registry {
	return &registry{templates: make(map[string]string)}
}

// NewDefaultRegistry returns a registry holding v1, v2 and v3.
func NewDefaultRegistry() Registry {
	r := NewRegistry()
	for version, instructions := range map[string]string{
		"v1": instructionsV1,
		"v2": instructionsV2,
		"v3": instructionsV3,
	} {
		if err := r.Register(version, instructions); err != nil {
			panic(err)
		}
	}
	return r
}

func (r *registry) Register(version, instructions string) error {
	if strings.TrimSpace(version) == "" {
		return fmt.Errorf("prompt version cannot be empty")
	}
	if strings.TrimSpace(instructions) == "" {
		return fmt.Errorf("instructions for prompt version %q cannot be empty", version)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.templates[version]; exists {
		return fmt.Errorf("prompt version %q is already registered", version)
	}
	r.templates[version] = strings.TrimSpace(instructions)
	return nil
}

func (r *registry) Build(report *domain.AggregateReport, version string) (string, error) {
	r.mu.RLock()
	instructions, ok := r.templates[version]
	r.mu.RUnlock()

	if !ok {
		return "", &UnknownVersionError{Version: version, Available: r.Versions()}
	}
	if report == nil {
		return "", fmt.Errorf("report cannot be nil")
	}

	data, err := Serialize(report)
	if err != nil {
		return "", err
	}

	return instructions + "\n\n" + dataMarker + "\n" + data, nil
}

func (r *registry) Versions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions := make([]string, 0, len(r.templates))
	for v := range r.templates {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions
}

// Serialize renders the report as indented JSON. Field order follows the
// api structs, so the output is stable for identical reports.
func Serialize(report *domain.AggregateReport) (string, error) {
	data, err := json.MarshalIndent(adapters.MapAggregateReportDomainToApi(report), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize report: %w", err)
	}
	return string(data), nil
}
