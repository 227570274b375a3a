package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/indicator-atlas/pkg/models/api"
	"github.com/rs/zerolog"
)

const defaultTimeout = 30 * time.Second

type IndicatorClient interface {
	FetchAll(ctx context.Context, url string, query url.Values) ([]api.IndicatorRecord, error)
}

type indicatorClient struct {
	httpClient *http.Client
}

// NewIndicatorClient returns a client for paginated [meta, data] endpoints.
// A zero timeout falls back to 30 seconds.
func NewIndicatorClient(timeout time.Duration) IndicatorClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &indicatorClient{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewIndicatorClientWithHTTP is used by tests to point at an httptest server.
func NewIndicatorClientWithHTTP(httpClient *http.Client) IndicatorClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &indicatorClient{httpClient: httpClient}
}

// IndicatorURL builds {base}/country/{A;B;C}/indicator/{id}.
func IndicatorURL(base string, entities []string, indicator string) string {
	return fmt.Sprintf("%s/country/%s/indicator/%s",
		strings.TrimRight(base, "/"),
		strings.Join(entities, ";"),
		url.PathEscape(indicator),
	)
}

// IndicatorQuery builds the base query; the page parameter is added per request.
func IndicatorQuery(perPage, startPeriod, endPeriod int) url.Values {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("date", fmt.Sprintf("%d:%d", startPeriod, endPeriod))
	return q
}

func (c *indicatorClient) FetchAll(
	ctx context.Context,
	endpoint string,
	query url.Values,
) ([]api.IndicatorRecord, error) {
	logger := zerolog.Ctx(ctx)
	var rows []api.IndicatorRecord

	for page := 1; ; page++ {
		meta, data, err := c.fetchPage(ctx, endpoint, query, page)
		if err != nil {
			return nil, err
		}

		pages := int(meta.Pages)
		if pages < 1 {
			pages = 1
		}
		logger.Info().
			Int("page", page).
			Int("pages", pages).
			Int("rows", len(data)).
			Msg("fetched page")

		if len(data) == 0 {
			break
		}
		rows = append(rows, data...)

		if page >= pages {
			break
		}
	}

	return rows, nil
}

func (c *indicatorClient) fetchPage(
	ctx context.Context,
	endpoint string,
	query url.Values,
	page int,
) (*api.PageMeta, []api.IndicatorRecord, error) {
	q := url.Values{}
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	q.Set("page", strconv.Itoa(page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, &TransportError{
			URL:     endpoint,
			Message: "data source request failed, check network/DNS connectivity and retry",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &TransportError{
			URL:     endpoint,
			Message: "failed to read data source response",
			Err:     err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		zerolog.Ctx(ctx).Error().
			Int("status", resp.StatusCode).
			Int("page", page).
			Str("body", snippet(body)).
			Msg("data source request failed")
		return nil, nil, &TransportError{
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Body:       snippet(body),
		}
	}

	var envelope []json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, nil, &FormatError{URL: endpoint, Page: page, Reason: "body is not a JSON array", Err: err}
	}
	if len(envelope) != 2 {
		return nil, nil, &FormatError{
			URL:    endpoint,
			Page:   page,
			Reason: fmt.Sprintf("expected [meta, data], got %d elements", len(envelope)),
		}
	}

	var meta api.PageMeta
	if err := json.Unmarshal(envelope[0], &meta); err != nil {
		return nil, nil, &FormatError{URL: endpoint, Page: page, Reason: "invalid meta object", Err: err}
	}

	var data []api.IndicatorRecord
	if err := json.Unmarshal(envelope[1], &data); err != nil {
		return nil, nil, &FormatError{URL: endpoint, Page: page, Reason: "invalid data array", Err: err}
	}

	return &meta, data, nil
}
