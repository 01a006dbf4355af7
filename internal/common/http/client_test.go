package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetText_SetsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	c := NewClient(time.Second, WithUserAgent("Mozilla/5.0 (compatible; SamImmigrationBot/1.0)"))
	body, err := c.GetText(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "ok", body)
	assert.Equal(t, "Mozilla/5.0 (compatible; SamImmigrationBot/1.0)", gotUA)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestGetText_CustomTransport(t *testing.T) {
	var gotUA, gotURL string
	transport := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		gotUA = r.Header.Get("User-Agent")
		gotURL = r.URL.String()
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("H-1B specialty occupation")),
			Header:     make(http.Header),
			Request:    r,
		}, nil
	})

	c := NewClient(time.Second, WithTransport(transport), WithUserAgent("sponsor-insights-test"))
	body, err := c.GetText(context.Background(), "https://www.uscis.gov/h-1b")

	require.NoError(t, err)
	assert.Equal(t, "H-1B specialty occupation", body)
	assert.Equal(t, "sponsor-insights-test", gotUA)
	assert.Equal(t, "https://www.uscis.gov/h-1b", gotURL)
}

func TestGetText_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClient(time.Second).GetText(context.Background(), server.URL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestRateLimit_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	c := NewClient(time.Second, WithRateLimit(0.001, 1))

	_, err := c.GetText(context.Background(), server.URL)
	require.NoError(t, err)

	// the single token is spent; the next wait cannot finish before the deadline
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.GetText(ctx, server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter")
}
