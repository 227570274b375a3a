package generation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/de-tools/indicator-atlas/pkg/models/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

var errConnRefused = errors.New("connection refused")

// newChatServer answers per model; models missing from replies get a 404.
func newChatServer(t *testing.T, replies map[string]string, seen *[]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req api.ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)

		if seen != nil {
			*seen = append(*seen, req.Model)
		}
		reply, ok := replies[req.Model]
		if !ok {
			http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerate_FallsBackAfterTransportError(t *testing.T) {
	// Given
	var seen []string
	srv := newChatServer(t, map[string]string{
		"smollm2:1.7b": `{"model":"smollm2:1.7b","message":{"role":"assistant","content":"ok"},"done":true}`,
	}, &seen)

	base := srv.Client().Transport
	httpClient := &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		var req api.ChatRequest
		body, _ := r.GetBody()
		_ = json.NewDecoder(body).Decode(&req)
		if req.Model == "gemma3:latest" {
			return nil, errConnRefused
		}
		return base.RoundTrip(r)
	})}
	c := NewChatClientWithHTTP(srv.URL, httpClient)

	// When
	result, err := c.Generate(context.Background(), "prompt", []string{"gemma3:latest", "smollm2:1.7b"})

	// Then
	require.NoError(t, err)
	assert.Equal(t, "ok", result.NarrativeText)
	assert.Equal(t, "smollm2:1.7b", result.ModelUsed)
	require.Len(t, result.Attempts, 2)
	assert.False(t, result.Attempts[0].Succeeded())
	assert.ErrorIs(t, result.Attempts[0].Err, errConnRefused)
	assert.True(t, result.Attempts[1].Succeeded())
	assert.Equal(t, []string{"smollm2:1.7b"}, seen)
}

func TestGenerate_FirstCandidateWins(t *testing.T) {
	var seen []string
	srv := newChatServer(t, map[string]string{
		"a": `{"message":{"content":"  first  "}}`,
		"b": `{"message":{"content":"second"}}`,
	}, &seen)

	result, err := NewChatClientWithHTTP(srv.URL, srv.Client()).Generate(context.Background(), "p", []string{"a", "b"})

	require.NoError(t, err)
	assert.Equal(t, "first", result.NarrativeText)
	assert.Equal(t, "a", result.ModelUsed)
	assert.Equal(t, []string{"a"}, seen)
}

func TestGenerate_AllEmpty(t *testing.T) {
	srv := newChatServer(t, map[string]string{
		"a": `{"message":{"content":""}}`,
		"b": `{"message":{"content":"   \n"}}`,
		"c": `{"done":true}`,
	}, nil)

	result, err := NewChatClientWithHTTP(srv.URL, srv.Client()).Generate(context.Background(), "p", []string{"a", "b", "c"})

	assert.Nil(t, result)
	var failed *AllModelsFailedError
	require.True(t, errors.As(err, &failed))
	require.Len(t, failed.Attempts, 3)
	for _, a := range failed.Attempts {
		assert.ErrorIs(t, a.Err, ErrEmptyResponse)
	}
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGenerate_StatusAndDecodeFailures(t *testing.T) {
	srv := newChatServer(t, map[string]string{
		"broken": `not json`,
	}, nil)

	_, err := NewChatClientWithHTTP(srv.URL, srv.Client()).Generate(context.Background(), "p", []string{"missing", "broken"})

	var failed *AllModelsFailedError
	require.True(t, errors.As(err, &failed))
	require.Len(t, failed.Attempts, 2)

	var statusErr *StatusError
	require.True(t, errors.As(failed.Attempts[0].Err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Contains(t, failed.Attempts[1].Err.Error(), "decode")
	assert.Contains(t, err.Error(), "missing")
	assert.Contains(t, err.Error(), "broken")
}

func TestGenerate_NoCandidates(t *testing.T) {
	_, err := NewChatClient("http://127.0.0.1:1", 0).Generate(context.Background(), "p", nil)

	var failed *AllModelsFailedError
	require.True(t, errors.As(err, &failed))
	assert.Empty(t, failed.Attempts)
	assert.Nil(t, failed.Unwrap())
	assert.Equal(t, "no candidate models configured", err.Error())
}
