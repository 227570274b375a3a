package aggregate

import (
	"errors"
	"testing"

	"github.com/de-tools/indicator-atlas/pkg/models/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pct(v float64) *float64 { return &v }

func newTestAggregator(t *testing.T, opts Options) *Aggregator {
	t.Helper()
	if opts.IndicatorID == "" {
		opts.IndicatorID = "NY.GDP.MKTP.CD"
	}
	if opts.PeriodRange == "" {
		opts.PeriodRange = "2005:2024"
	}
	a, err := NewAggregator(opts)
	require.NoError(t, err)
	return a
}

func TestAggregate_TwoEntities(t *testing.T) {
	// Given
	a := newTestAggregator(t, Options{})
	observations := []domain.Observation{
		{EntityCode: "USA", Period: 2005, Value: 100.0},
		{EntityCode: "USA", Period: 2024, Value: 150.0},
		{EntityCode: "CHN", Period: 2005, Value: 50.0},
		{EntityCode: "CHN", Period: 2024, Value: 200.0},
	}

	// When
	report, err := a.Aggregate(observations)

	// Then
	require.NoError(t, err)
	expected := &domain.AggregateReport{
		GlobalSummary: domain.GlobalSummary{
			RecordCount:            4,
			EntityCount:            2,
			IndicatorID:            "NY.GDP.MKTP.CD",
			PeriodRange:            "2005:2024",
			HighestEntity:          "CHN",
			HighestValue:           200.0,
			LowestEntity:           "USA",
			LowestValue:            150.0,
			AverageGrowthPct:       pct(175.0),
			AverageGrowthDirection: domain.GrowthUpward,
		},
		EntitySummaries: []domain.EntitySummary{
			{EntityCode: "CHN", StartPeriod: 2005, EndPeriod: 2024, StartValue: 50, LatestValue: 200, GrowthPct: pct(300.0)},
			{EntityCode: "USA", StartPeriod: 2005, EndPeriod: 2024, StartValue: 100, LatestValue: 150, GrowthPct: pct(50.0)},
		},
	}
	if diff := cmp.Diff(expected, report); diff != "" {
		t.Errorf("unexpected report (-want +got):\n%s", diff)
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	a := newTestAggregator(t, Options{})

	report, err := a.Aggregate(nil)

	assert.Nil(t, report)
	var emptyErr *EmptyDatasetError
	require.True(t, errors.As(err, &emptyErr))
	assert.Equal(t, "NY.GDP.MKTP.CD", emptyErr.IndicatorID)
	assert.Contains(t, err.Error(), "reachable")
}

func TestAggregate_ZeroStartValue_HasNoGrowth(t *testing.T) {
	a := newTestAggregator(t, Options{})

	report, err := a.Aggregate([]domain.Observation{
		{EntityCode: "ZZZ", Period: 2010, Value: 0},
		{EntityCode: "ZZZ", Period: 2020, Value: 10},
	})

	require.NoError(t, err)
	require.Len(t, report.EntitySummaries, 1)
	assert.Nil(t, report.EntitySummaries[0].GrowthPct)
	assert.Nil(t, report.GlobalSummary.AverageGrowthPct)
	assert.Equal(t, DefaultEmptyGrowthDirection, report.GlobalSummary.AverageGrowthDirection)
}

func TestAggregate_EmptyGrowthDirectionIsConfigurable(t *testing.T) {
	a := newTestAggregator(t, Options{EmptyGrowthDirection: domain.GrowthDownward})

	report, err := a.Aggregate([]domain.Observation{{EntityCode: "ZZZ", Period: 2010, Value: 0}})

	require.NoError(t, err)
	assert.Equal(t, domain.GrowthDownward, report.GlobalSummary.AverageGrowthDirection)
}

func TestAggregate_SortsByEntityCode(t *testing.T) {
	a := newTestAggregator(t, Options{})

	report, err := a.Aggregate([]domain.Observation{
		{EntityCode: "JPN", Period: 2020, Value: 5},
		{EntityCode: "DEU", Period: 2020, Value: 4},
		{EntityCode: "USA", Period: 2020, Value: 9},
		{EntityCode: "CHN", Period: 2020, Value: 7},
		{EntityCode: "IND", Period: 2020, Value: 3},
	})

	require.NoError(t, err)
	var codes []string
	for _, s := range report.EntitySummaries {
		codes = append(codes, s.EntityCode)
	}
	assert.Equal(t, []string{"CHN", "DEU", "IND", "JPN", "USA"}, codes)
	assert.Equal(t, "USA", report.GlobalSummary.HighestEntity)
	assert.Equal(t, "IND", report.GlobalSummary.LowestEntity)
}

func TestAggregate_UnsortedPeriodsAndSingleObservation(t *testing.T) {
	a := newTestAggregator(t, Options{})

	report, err := a.Aggregate([]domain.Observation{
		{EntityCode: "USA", Period: 2024, Value: 80},
		{EntityCode: "USA", Period: 2005, Value: 100},
		{EntityCode: "USA", Period: 2010, Value: 120},
		{EntityCode: "DEU", Period: 2015, Value: 42},
	})

	require.NoError(t, err)
	deu, usa := report.EntitySummaries[0], report.EntitySummaries[1]

	assert.Equal(t, 2015, deu.StartPeriod)
	assert.Equal(t, 2015, deu.EndPeriod)
	require.NotNil(t, deu.GrowthPct)
	assert.Equal(t, 0.0, *deu.GrowthPct)

	assert.Equal(t, 2005, usa.StartPeriod)
	assert.Equal(t, 2024, usa.EndPeriod)
	require.NotNil(t, usa.GrowthPct)
	assert.Equal(t, -20.0, *usa.GrowthPct)

	require.NotNil(t, report.GlobalSummary.AverageGrowthPct)
	assert.Equal(t, -10.0, *report.GlobalSummary.AverageGrowthPct)
	assert.Equal(t, domain.GrowthDownward, report.GlobalSummary.AverageGrowthDirection)
}

func TestAggregate_TiesGoToFirstEncountered(t *testing.T) {
	a := newTestAggregator(t, Options{})

	report, err := a.Aggregate([]domain.Observation{
		{EntityCode: "JPN", Period: 2020, Value: 10},
		{EntityCode: "CHN", Period: 2020, Value: 10},
	})

	require.NoError(t, err)
	assert.Equal(t, "JPN", report.GlobalSummary.HighestEntity)
	assert.Equal(t, "JPN", report.GlobalSummary.LowestEntity)
}

func TestAggregate_RoundsForPresentationOnly(t *testing.T) {
	a := newTestAggregator(t, Options{})

	report, err := a.Aggregate([]domain.Observation{
		{EntityCode: "USA", Period: 2000, Value: 3},
		{EntityCode: "USA", Period: 2001, Value: 4.123456},
	})

	require.NoError(t, err)
	s := report.EntitySummaries[0]
	assert.Equal(t, 4.12, s.LatestValue)
	require.NotNil(t, s.GrowthPct)
	// (4.123456 - 3) / 3 * 100 = 37.4485...
	assert.Equal(t, 37.45, *s.GrowthPct)
}

func TestRound_HalfToEven(t *testing.T) {
	assert.Equal(t, 0.12, Round(0.125))
	assert.Equal(t, 0.14, Round(0.135))
	assert.Equal(t, -1.5, Round(-1.5))
	assert.Equal(t, 21354105000000.0, Round(21354105000000))
}

func TestAggregate_DuplicatePolicies(t *testing.T) {
	observations := []domain.Observation{
		{EntityCode: "USA", Period: 2005, Value: 100},
		{EntityCode: "USA", Period: 2024, Value: 150},
		{EntityCode: "USA", Period: 2024, Value: 250},
	}

	tests := []struct {
		policy       DuplicatePolicy
		latestValue  float64
		expectGrowth float64
	}{
		{policy: DuplicateKeep, latestValue: 250, expectGrowth: 150},
		{policy: DuplicateLatest, latestValue: 250, expectGrowth: 150},
		{policy: DuplicateAverage, latestValue: 200, expectGrowth: 100},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			a := newTestAggregator(t, Options{DuplicatePolicy: tt.policy})

			report, err := a.Aggregate(observations)

			require.NoError(t, err)
			assert.Equal(t, 3, report.GlobalSummary.RecordCount)
			assert.Equal(t, tt.latestValue, report.EntitySummaries[0].LatestValue)
			assert.Equal(t, tt.expectGrowth, *report.EntitySummaries[0].GrowthPct)
		})
	}
}

func TestNewAggregator_RejectsUnknownOptions(t *testing.T) {
	_, err := NewAggregator(Options{DuplicatePolicy: "merge"})
	assert.Error(t, err)

	_, err = NewAggregator(Options{EmptyGrowthDirection: "sideways"})
	assert.Error(t, err)
}
