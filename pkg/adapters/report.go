package adapters

import (
	"github.com/de-tools/indicator-atlas/pkg/models/api"
	"github.com/de-tools/indicator-atlas/pkg/models/domain"
)

func MapAggregateReportDomainToApi(report *domain.AggregateReport) api.AggregateReport {
	out := api.AggregateReport{
		GlobalSummary:   MapGlobalSummaryDomainToApi(report.GlobalSummary),
		EntitySummaries: make([]api.EntitySummary, 0, len(report.EntitySummaries)),
	}
	for _, s := range report.EntitySummaries {
		out.EntitySummaries = append(out.EntitySummaries, MapEntitySummaryDomainToApi(s))
	}
	return out
}

func MapGlobalSummaryDomainToApi(g domain.GlobalSummary) api.GlobalSummary {
	return api.GlobalSummary{
		RecordCount:            g.RecordCount,
		EntityCount:            g.EntityCount,
		IndicatorID:            g.IndicatorID,
		PeriodRange:            g.PeriodRange,
		HighestEntity:          g.HighestEntity,
		HighestValue:           g.HighestValue,
		LowestEntity:           g.LowestEntity,
		LowestValue:            g.LowestValue,
		AverageGrowthPct:       clonePct(g.AverageGrowthPct),
		AverageGrowthDirection: string(g.AverageGrowthDirection),
	}
}

func MapEntitySummaryDomainToApi(s domain.EntitySummary) api.EntitySummary {
	return api.EntitySummary{
		EntityCode:  s.EntityCode,
		StartPeriod: s.StartPeriod,
		EndPeriod:   s.EndPeriod,
		StartValue:  s.StartValue,
		LatestValue: s.LatestValue,
		GrowthPct:   clonePct(s.GrowthPct),
	}
}

func clonePct(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
