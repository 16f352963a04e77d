package wbclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedTransport serves one canned response per call, in order.
type scriptedTransport struct {
	responses []scriptedResponse
	requests  []*http.Request
}

type scriptedResponse struct {
	status int
	body   string
	err    error
}

func (s *scriptedTransport) Do(req *http.Request) (*http.Response, error) {
	s.requests = append(s.requests, req)
	idx := len(s.requests) - 1
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	r := s.responses[idx]
	if r.err != nil {
		return nil, r.err
	}
	return &http.Response{
		StatusCode: r.status,
		Body:       io.NopCloser(bytes.NewBufferString(r.body)),
	}, nil
}

func newTestClient(t *testing.T, transport *scriptedTransport) *Client {
	t.Helper()
	c, err := NewWithHTTPClient(Config{
		Token:             "test-token",
		RetryAttempts:     2,
		RequestsPerMinute: 6000,
		BurstLimit:        10,
	}, transport)
	require.NoError(t, err)
	return c
}

func TestNew_RequiresToken(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestGetJSON_DecodesAndAuthenticates(t *testing.T) {
	transport := &scriptedTransport{responses: []scriptedResponse{
		{status: http.StatusOK, body: `{"value": 42}`},
	}}
	c := newTestClient(t, transport)

	var out struct {
		Value int `json:"value"`
	}
	err := c.getJSON(context.Background(), "test", "https://example.test/v1", &out)

	require.NoError(t, err)
	assert.Equal(t, 42, out.Value)
	require.Len(t, transport.requests, 1)
	assert.Equal(t, "test-token", transport.requests[0].Header.Get("Authorization"))
}

func TestGetJSON_AuthFailureDoesNotRetry(t *testing.T) {
	transport := &scriptedTransport{responses: []scriptedResponse{
		{status: http.StatusUnauthorized, body: `{"title":"unauthorized"}`},
	}}
	c := newTestClient(t, transport)

	err := c.getJSON(context.Background(), "test", "https://example.test/v1", &struct{}{})

	require.Error(t, err)
	assert.Len(t, transport.requests, 1)
	assert.Equal(t, ErrAuthFailed, ClassifyError(err))
}

func TestGetJSON_RetriesRateLimit(t *testing.T) {
	transport := &scriptedTransport{responses: []scriptedResponse{
		{status: http.StatusTooManyRequests, body: ""},
		{status: http.StatusOK, body: `{}`},
	}}
	c := newTestClient(t, transport)

	err := c.getJSON(context.Background(), "test", "https://example.test/v1", &struct{}{})

	require.NoError(t, err)
	assert.Len(t, transport.requests, 2)
}

func TestGetJSON_RetriesNetworkError(t *testing.T) {
	transport := &scriptedTransport{responses: []scriptedResponse{
		{err: errors.New("connection refused")},
		{status: http.StatusOK, body: `{}`},
	}}
	c := newTestClient(t, transport)

	err := c.getJSON(context.Background(), "test", "https://example.test/v1", &struct{}{})

	require.NoError(t, err)
	assert.Len(t, transport.requests, 2)
}

func TestGetJSON_ExhaustsRetries(t *testing.T) {
	transport := &scriptedTransport{responses: []scriptedResponse{
		{status: http.StatusInternalServerError, body: "upstream broken"},
	}}
	c := newTestClient(t, transport)

	err := c.getJSON(context.Background(), "test", "https://example.test/v1", &struct{}{})

	require.Error(t, err)
	assert.Len(t, transport.requests, 2)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestGetJSON_MalformedBodyFailsFast(t *testing.T) {
	transport := &scriptedTransport{responses: []scriptedResponse{
		{status: http.StatusOK, body: `{"value": `},
	}}
	c := newTestClient(t, transport)

	err := c.getJSON(context.Background(), "test", "https://example.test/v1", &struct{}{})

	require.Error(t, err)
	assert.Len(t, transport.requests, 1)
}

func TestGetJSON_CancelledContextAborts(t *testing.T) {
	transport := &scriptedTransport{responses: []scriptedResponse{
		{status: http.StatusInternalServerError, body: ""},
	}}
	c := newTestClient(t, transport)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.getJSON(ctx, "test", "https://example.test/v1", &struct{}{})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, transport.requests)
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ErrUnknown},
		{"forbidden", errors.New("wbclient: test status 403: denied"), ErrAuthFailed},
		{"deadline", context.DeadlineExceeded, ErrTimeout},
		{"refused", errors.New("dial tcp: connection refused"), ErrNetwork},
		{"quota", errors.New("wbclient: test status 429: rate limited"), ErrRateLimit},
		{"other", errors.New("something odd"), ErrUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}
