package client

import "fmt"

const bodySnippetLimit = 300

// TransportError is returned when the data source is unreachable or answers
// with a non-success status.
type TransportError struct {
	URL        string
	StatusCode int
	Body       string
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("data source returned status %d for %s: %s", e.StatusCode, e.URL, e.Body)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// FormatError is returned when the response is not a [meta, data] envelope.
type FormatError struct {
	URL    string
	Page   int
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("unexpected response format from %s (page %d): %s", e.URL, e.Page, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func snippet(body []byte) string {
	runes := []rune(string(body))
	if len(runes) > bodySnippetLimit {
		runes = runes[:bodySnippetLimit]
	}
	return string(runes)
}
