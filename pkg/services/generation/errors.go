package generation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/de-tools/indicator-atlas/pkg/models/domain"
)

var ErrEmptyResponse = errors.New("empty model response")

// AllModelsFailedError is returned once every candidate was tried without a
// usable response. It unwraps to the last attempt's error.
type AllModelsFailedError struct {
	Attempts []domain.Attempt
}

func (e *AllModelsFailedError) Error() string {
	if len(e.Attempts) == 0 {
		return "no candidate models configured"
	}
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Model, a.Err))
	}
	return fmt.Sprintf(
		"all candidate models failed (%s); check `ollama list` and run a model first",
		strings.Join(parts, "; "),
	)
}

func (e *AllModelsFailedError) Unwrap() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1].Err
}

type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("generation service returned status %d: %s", e.StatusCode, e.Body)
}
