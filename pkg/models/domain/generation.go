package domain

import "time"

// Attempt records the outcome of one candidate model call. Err is nil on success.
type Attempt struct {
	Model    string
	Err      error
	Duration time.Duration
}

func (a Attempt) Succeeded() bool {
	return a.Err == nil
}

type GenerationResult struct {
	NarrativeText string
	ModelUsed     string
	Attempts      []Attempt
}

// Document is a rendered report ready to be written or served.
type Document struct {
	HTML          string
	PromptVersion string
	ModelUsed     string
	RecordCount   int
	GeneratedAt   time.Time
}
