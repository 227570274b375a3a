package api

type EntitySummary struct {
	EntityCode  string   `json:"entity_code"`
	StartPeriod int      `json:"start_period"`
	EndPeriod   int      `json:"end_period"`
	StartValue  float64  `json:"start_value"`
	LatestValue float64  `json:"latest_value"`
	GrowthPct   *float64 `json:"growth_pct"`
}

type GlobalSummary struct {
	RecordCount            int      `json:"record_count"`
	EntityCount            int      `json:"entity_count"`
	IndicatorID            string   `json:"indicator_id"`
	PeriodRange            string   `json:"period_range"`
	HighestEntity          string   `json:"highest_entity"`
	HighestValue           float64  `json:"highest_value"`
	LowestEntity           string   `json:"lowest_entity"`
	LowestValue            float64  `json:"lowest_value"`
	AverageGrowthPct       *float64 `json:"average_growth_pct"`
	AverageGrowthDirection string   `json:"average_growth_direction"`
}

type AggregateReport struct {
	GlobalSummary   GlobalSummary   `json:"global_summary"`
	EntitySummaries []EntitySummary `json:"entity_summaries"`
}

type Error struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}
