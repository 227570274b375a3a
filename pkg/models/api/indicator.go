package api

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Ref is the {id, value} pair the data source uses for countries and indicators.
type Ref struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// Scalar keeps a JSON scalar undecoded so a single malformed field drops one
// record instead of failing the whole page.
type Scalar []byte

func (s *Scalar) UnmarshalJSON(data []byte) error {
	*s = append((*s)[:0], data...)
	return nil
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return s, nil
}

// IsNull reports whether the field was absent or JSON null.
func (s Scalar) IsNull() bool {
	return len(s) == 0 || bytes.Equal(bytes.TrimSpace(s), []byte("null"))
}

// Text returns the scalar as a plain string, unquoting JSON strings.
func (s Scalar) Text() (string, bool) {
	if s.IsNull() {
		return "", false
	}
	raw := bytes.TrimSpace(s)
	if raw[0] == '"' {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return "", false
		}
		return str, true
	}
	return string(raw), true
}

// IndicatorRecord is one row of the data array in an indicator response.
type IndicatorRecord struct {
	Indicator       Ref    `json:"indicator"`
	Country         Ref    `json:"country"`
	CountryISO3Code string `json:"countryiso3code"`
	Date            Scalar `json:"date"`
	Value           Scalar `json:"value"`
	Unit            string `json:"unit"`
	ObsStatus       string `json:"obs_status"`
	Decimal         int    `json:"decimal"`
}

// PageMeta is the first element of the [meta, data] envelope.
type PageMeta struct {
	Page    FlexInt `json:"page"`
	Pages   FlexInt `json:"pages"`
	PerPage FlexInt `json:"per_page"`
	Total   FlexInt `json:"total"`
}

// FlexInt accepts both 3 and "3"; the source is not consistent about it.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	raw := bytes.Trim(bytes.TrimSpace(data), `"`)
	if len(raw) == 0 || string(raw) == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return err
	}
	*f = FlexInt(n)
	return nil
}
