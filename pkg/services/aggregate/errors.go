package aggregate

import "fmt"

// EmptyDatasetError means the source answered but nothing usable survived
// cleaning. It is distinct from transport failures on purpose.
type EmptyDatasetError struct {
	IndicatorID string
	PeriodRange string
}

func (e *EmptyDatasetError) Error() string {
	return fmt.Sprintf(
		"no usable observations for indicator %q over %q: the data source was reachable but no data matched the filters",
		e.IndicatorID, e.PeriodRange,
	)
}
