package adapters

import (
	"math"
	"strconv"
	"strings"

	"github.com/de-tools/indicator-atlas/pkg/models/api"
	"github.com/de-tools/indicator-atlas/pkg/models/domain"
)

// CleanIndicatorRecords keeps the records that carry an entity, a period and a
// numeric value, in input order. Incomplete or malformed records are skipped.
func CleanIndicatorRecords(records []api.IndicatorRecord) []domain.Observation {
	observations := make([]domain.Observation, 0, len(records))
	for _, record := range records {
		obs, ok := MapIndicatorRecordToObservation(record)
		if !ok {
			continue
		}
		observations = append(observations, obs)
	}
	return observations
}

func MapIndicatorRecordToObservation(record api.IndicatorRecord) (domain.Observation, bool) {
	if record.Value.IsNull() || record.Date.IsNull() {
		return domain.Observation{}, false
	}
	if strings.TrimSpace(record.Country.Value) == "" {
		return domain.Observation{}, false
	}

	code := strings.TrimSpace(record.CountryISO3Code)
	if code == "" {
		code = strings.TrimSpace(record.Country.ID)
	}
	if code == "" {
		return domain.Observation{}, false
	}

	dateText, _ := record.Date.Text()
	period, err := strconv.Atoi(strings.TrimSpace(dateText))
	if err != nil {
		return domain.Observation{}, false
	}

	valueText, _ := record.Value.Text()
	value, err := strconv.ParseFloat(strings.TrimSpace(valueText), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return domain.Observation{}, false
	}

	return domain.Observation{
		EntityCode: code,
		Period:     period,
		Value:      value,
	}, true
}
