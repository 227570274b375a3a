package aggregate

import (
	"fmt"
	"sort"

	"github.com/de-tools/indicator-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

type DuplicatePolicy string

const (
	// DuplicateKeep keeps every observation; duplicates keep their input order.
	DuplicateKeep DuplicatePolicy = "keep"
	// DuplicateLatest keeps the last observation seen for an entity/period pair.
	DuplicateLatest DuplicatePolicy = "latest"
	// DuplicateAverage replaces duplicates by their mean.
	DuplicateAverage DuplicatePolicy = "average"
)

// DefaultEmptyGrowthDirection is reported when no entity has a computable
// growth rate. It is a convention, not a measurement; override it through
// Options.EmptyGrowthDirection.
const DefaultEmptyGrowthDirection = domain.GrowthUpward

// Precision of the presentation rounding. Rounding is half-to-even and is
// applied to outputs only, never to intermediate values.
const Precision = 2

type Options struct {
	IndicatorID          string
	PeriodRange          string
	DuplicatePolicy      DuplicatePolicy
	EmptyGrowthDirection domain.GrowthDirection
}

type Aggregator struct {
	opts Options
}

func NewAggregator(opts Options) (*Aggregator, error) {
	switch opts.DuplicatePolicy {
	case "":
		opts.DuplicatePolicy = DuplicateKeep
	case DuplicateKeep, DuplicateLatest, DuplicateAverage:
	default:
		return nil, fmt.Errorf("unknown duplicate policy %q", opts.DuplicatePolicy)
	}

	switch opts.EmptyGrowthDirection {
	case "":
		opts.EmptyGrowthDirection = DefaultEmptyGrowthDirection
	case domain.GrowthUpward, domain.GrowthDownward:
	default:
		return nil, fmt.Errorf("unknown growth direction %q", opts.EmptyGrowthDirection)
	}

	return &Aggregator{opts: opts}, nil
}

type group struct {
	code         string
	observations []domain.Observation
}

type anchors struct {
	summary domain.EntitySummary
	latest  float64
	growth  *float64
}

func (a *Aggregator) Aggregate(observations []domain.Observation) (*domain.AggregateReport, error) {
	groups := groupByEntity(observations)
	if len(groups) == 0 {
		return nil, &EmptyDatasetError{IndicatorID: a.opts.IndicatorID, PeriodRange: a.opts.PeriodRange}
	}

	entities := make([]anchors, 0, len(groups))
	for _, g := range groups {
		entities = append(entities, summarize(g.code, applyPolicy(g.observations, a.opts.DuplicatePolicy)))
	}

	global := domain.GlobalSummary{
		RecordCount: len(observations),
		EntityCount: len(entities),
		IndicatorID: a.opts.IndicatorID,
		PeriodRange: a.opts.PeriodRange,
	}

	highest, lowest := entities[0], entities[0]
	var growthSum float64
	var growthCount int
	for _, e := range entities {
		if e.latest > highest.latest {
			highest = e
		}
		if e.latest < lowest.latest {
			lowest = e
		}
		if e.growth != nil {
			growthSum += *e.growth
			growthCount++
		}
	}

	global.HighestEntity = highest.summary.EntityCode
	global.HighestValue = Round(highest.latest)
	global.LowestEntity = lowest.summary.EntityCode
	global.LowestValue = Round(lowest.latest)

	global.AverageGrowthDirection = a.opts.EmptyGrowthDirection
	if growthCount > 0 {
		avg := growthSum / float64(growthCount)
		rounded := Round(avg)
		global.AverageGrowthPct = &rounded
		global.AverageGrowthDirection = domain.GrowthUpward
		if avg < 0 {
			global.AverageGrowthDirection = domain.GrowthDownward
		}
	}

	summaries := make([]domain.EntitySummary, 0, len(entities))
	for _, e := range entities {
		summaries = append(summaries, e.summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].EntityCode < summaries[j].EntityCode
	})

	return &domain.AggregateReport{
		GlobalSummary:   global,
		EntitySummaries: summaries,
	}, nil
}

// Round rounds half-to-even to Precision decimal places.
func Round(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).RoundBank(Precision).Float64()
	return f
}

func groupByEntity(observations []domain.Observation) []*group {
	var groups []*group
	index := make(map[string]*group)
	for _, obs := range observations {
		g, ok := index[obs.EntityCode]
		if !ok {
			g = &group{code: obs.EntityCode}
			index[obs.EntityCode] = g
			groups = append(groups, g)
		}
		g.observations = append(g.observations, obs)
	}
	return groups
}

func summarize(code string, observations []domain.Observation) anchors {
	sorted := make([]domain.Observation, len(observations))
	copy(sorted, observations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Period < sorted[j].Period
	})

	start, end := sorted[0], sorted[len(sorted)-1]
	summary := domain.EntitySummary{
		EntityCode:  code,
		StartPeriod: start.Period,
		EndPeriod:   end.Period,
		StartValue:  Round(start.Value),
		LatestValue: Round(end.Value),
	}

	var growth *float64
	if start.Value != 0 {
		g := (end.Value - start.Value) / start.Value * 100
		growth = &g
		rounded := Round(g)
		summary.GrowthPct = &rounded
	}

	return anchors{summary: summary, latest: end.Value, growth: growth}
}

func applyPolicy(observations []domain.Observation, policy DuplicatePolicy) []domain.Observation {
	if policy == DuplicateKeep {
		return observations
	}

	type bucket struct {
		sum  float64
		n    int
		last float64
	}
	var periods []int
	buckets := make(map[int]*bucket)
	for _, obs := range observations {
		b, ok := buckets[obs.Period]
		if !ok {
			b = &bucket{}
			buckets[obs.Period] = b
			periods = append(periods, obs.Period)
		}
		b.sum += obs.Value
		b.n++
		b.last = obs.Value
	}

	out := make([]domain.Observation, 0, len(periods))
	for _, p := range periods {
		b := buckets[p]
		v := b.last
		if policy == DuplicateAverage {
			v = b.sum / float64(b.n)
		}
		out = append(out, domain.Observation{EntityCode: observations[0].EntityCode, Period: p, Value: v})
	}
	return out
}
