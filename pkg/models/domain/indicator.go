package domain

// Observation is one cleaned data point for an entity.
type Observation struct {
	EntityCode string
	Period     int
	Value      float64
}

type GrowthDirection string

const (
	GrowthUpward   GrowthDirection = "upward"
	GrowthDownward GrowthDirection = "downward"
)

type EntitySummary struct {
	EntityCode  string
	StartPeriod int
	EndPeriod   int
	StartValue  float64
	LatestValue float64
	GrowthPct   *float64 // nil when StartValue is zero
}

type GlobalSummary struct {
	RecordCount            int
	EntityCount            int
	IndicatorID            string
	PeriodRange            string
	HighestEntity          string
	HighestValue           float64
	LowestEntity           string
	LowestValue            float64
	AverageGrowthPct       *float64
	AverageGrowthDirection GrowthDirection
}

// AggregateReport is what the prompt and the rendered document are built from.
// EntitySummaries is sorted by EntityCode.
type AggregateReport struct {
	GlobalSummary   GlobalSummary
	EntitySummaries []EntitySummary
}
