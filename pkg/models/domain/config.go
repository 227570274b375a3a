package domain

import "fmt"

// Profile is a named query preset read from the profiles file.
type Profile struct {
	Name        string
	Entities    []string
	IndicatorID string
	StartPeriod int
	EndPeriod   int
	PerPage     int
}

func (p Profile) String() string {
	return fmt.Sprintf("%s:%s", p.Name, p.IndicatorID)
}
