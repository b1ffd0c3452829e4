package sliceby

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// StatusError reports a non-2xx response from the panel API. The body is
// carried verbatim; no recovery is attempted here.
type StatusError struct {
	Status int
	Body   []byte
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(string(e.Body))
	if body == "" {
		return fmt.Sprintf("sliceby: unexpected status %d", e.Status)
	}
	return fmt.Sprintf("sliceby: unexpected status %d: %s", e.Status, body)
}

// Client issues sliceby requests against one panel API base URL.
// It adds no retries, timeouts, or response validation; cancellation is
// governed entirely by the caller's context.
type Client struct {
	apiURL string
	http   *http.Client
}

// NewClient constructs a client bound to one API base URL.
func NewClient(apiURL string) *Client {
	return &Client{
		apiURL: strings.TrimRight(strings.TrimSpace(apiURL), "/"),
		http:   http.DefaultClient,
	}
}

// NewClientWithHTTP constructs a client using a caller-supplied HTTP client.
func NewClientWithHTTP(apiURL string, httpClient *http.Client) *Client {
	c := NewClient(apiURL)
	if httpClient != nil {
		c.http = httpClient
	}
	return c
}

// GetInfo fetches slice metadata for one sliceby id.
func (c *Client) GetInfo(ctx context.Context, slicebyID string) (SliceInfo, error) {
	var info SliceInfo
	raw, err := c.get(ctx, fmt.Sprintf("%s/sliceby/%s/info", c.apiURL, slicebyID))
	if err != nil {
		return SliceInfo{}, err
	}
	if err := json.Unmarshal(raw, &info); err != nil {
		return SliceInfo{}, fmt.Errorf("sliceby: decode info: %w", err)
	}
	return info, nil
}

// GetRows fetches one page of rows for a slice key. The payload is returned
// verbatim; start/end validation and key membership are the backend's job.
func (c *Client) GetRows(ctx context.Context, slicebyID string, sliceKey SliceKey, start, end int) (json.RawMessage, error) {
	return c.post(ctx, fmt.Sprintf("%s/sliceby/%s/rows", c.apiURL, slicebyID), rowsRequest{
		SliceKey: sliceKey,
		Start:    start,
		End:      end,
	})
}

// GetAggregations fetches one result per (name, aggregation id) pair.
// Requests are issued sequentially, one round trip per aggregation; the
// first failure aborts the remaining requests and propagates. Names are
// visited in sorted order so the request sequence is deterministic.
func (c *Client) GetAggregations(ctx context.Context, slicebyID string, aggregations map[string]string) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(aggregations))
	names := make([]string, 0, len(aggregations))
	for name := range aggregations {
		names = append(names, name)
	}
	sort.Strings(names)

	url := fmt.Sprintf("%s/sliceby/%s/aggregate/", c.apiURL, slicebyID)
	for _, name := range names {
		result, err := c.post(ctx, url, aggregateRequest{
			AggregationID: aggregations[name],
			AcceptsDP:     true,
		})
		if err != nil {
			return nil, fmt.Errorf("sliceby: aggregation %q: %w", name, err)
		}
		out[name] = result
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, url string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, url string, body any) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Msg("sliceby_request")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Status: resp.StatusCode, Body: raw}
	}
	return raw, nil
}
