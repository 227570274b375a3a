package pipeline

import (
	"errors"

	"github.com/de-tools/indicator-atlas/pkg/services/aggregate"
	"github.com/de-tools/indicator-atlas/pkg/services/generation"
	"github.com/de-tools/indicator-atlas/pkg/services/prompt"
	"github.com/de-tools/indicator-atlas/pkg/store/client"
)

type Stage string

const (
	StageFetch     Stage = "fetch"
	StageAggregate Stage = "aggregate"
	StagePrompt    Stage = "prompt"
	StageGenerate  Stage = "generate"
	StageUnknown   Stage = ""
)

// StageOf maps an error from the fatal taxonomy to the stage that raised it.
// Errors outside the taxonomy return StageUnknown.
func StageOf(err error) Stage {
	var (
		transportErr *client.TransportError
		formatErr    *client.FormatError
		emptyErr     *aggregate.EmptyDatasetError
		versionErr   *prompt.UnknownVersionError
		modelsErr    *generation.AllModelsFailedError
	)

	switch {
	case errors.As(err, &transportErr), errors.As(err, &formatErr):
		return StageFetch
	case errors.As(err, &emptyErr):
		return StageAggregate
	case errors.As(err, &versionErr):
		return StagePrompt
	case errors.As(err, &modelsErr):
		return StageGenerate
	default:
		return StageUnknown
	}
}

// IsFatal reports whether err belongs to the pipeline's expected failure set.
func IsFatal(err error) bool {
	return err != nil && StageOf(err) != StageUnknown
}
