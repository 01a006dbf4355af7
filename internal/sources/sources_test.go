package sources

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonhttp "sponsor-insights/internal/common/http"
	"sponsor-insights/internal/common/logger"
	"sponsor-insights/internal/models"
)

// ==========================
// Test Helpers
// ==========================

const reportsPage = `<html><body>
<li>Amazon.com Services LLC – 12,345 petitions</li>
<li>Infosys Limited - 8,001 petitions</li>
<li>Tata Consultancy – 7,100 petitions</li>
</body></html>`

func newTestServer(t *testing.T, hits *int32, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestProvider(t *testing.T, url string, opts ...Option) *Provider {
	opts = append([]Option{WithEndpoints(url, url)}, opts...)
	return NewProvider(commonhttp.NewClient(2*time.Second), logger.NewTestLogger(t), opts...)
}

// ==========================
// Provider
// ==========================

func TestTopPetitioners_ScrapesCounts(t *testing.T) {
	var hits int32
	server := newTestServer(t, &hits, http.StatusOK, reportsPage)
	p := newTestProvider(t, server.URL)

	got := p.TopPetitioners(context.Background())

	require.Len(t, got, 1)
	assert.Equal(t, "MyVisaJobs Reports", got[0].Title)
	assert.Equal(t, server.URL, got[0].URL)
	assert.Contains(t, got[0].Snippet, "Amazon.com Services LLC – 12345 petitions")
	assert.Contains(t, got[0].Snippet, "; ")
	assert.Contains(t, got[0].Snippet, "8001 petitions")
}

func TestTopPetitioners_FallbackOnFailure(t *testing.T) {
	var hits int32
	server := newTestServer(t, &hits, http.StatusServiceUnavailable, "")
	p := newTestProvider(t, server.URL)

	got := p.TopPetitioners(context.Background())

	require.Len(t, got, 1)
	assert.Equal(t, DefaultReportsURL, got[0].URL)
	assert.Equal(t, "See latest H-1B Visa Report", got[0].Snippet)
}

func TestTopPetitioners_FallbackWhenNothingParsed(t *testing.T) {
	var hits int32
	server := newTestServer(t, &hits, http.StatusOK, "<html>maintenance</html>")
	p := newTestProvider(t, server.URL)

	got := p.TopPetitioners(context.Background())

	assert.Equal(t, "See latest H-1B Visa Report", got[0].Snippet)
}

func TestMajorsStudies(t *testing.T) {
	var hits int32
	server := newTestServer(t, &hits, http.StatusOK, "<html>arxiv</html>")

	got := newTestProvider(t, server.URL).MajorsStudies(context.Background())
	assert.Equal(t, "Academic studies on H-1B/LCA trends", got[0].Snippet)

	down := newTestServer(t, &hits, http.StatusNotFound, "")
	got = newTestProvider(t, down.URL).MajorsStudies(context.Background())
	assert.Equal(t, "Search for H-1B approval rate by major", got[0].Snippet)
}

func TestProvider_UsesCache(t *testing.T) {
	var hits int32
	server := newTestServer(t, &hits, http.StatusOK, reportsPage)
	p := newTestProvider(t, server.URL, WithCache(NewMemoryCache(8, time.Minute)))

	first := p.TopPetitioners(context.Background())
	second := p.TopPetitioners(context.Background())

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestLinkBuilders(t *testing.T) {
	school := SchoolLinks("  University of   Michigan ")
	require.Len(t, school, 2)
	assert.Equal(t, "https://www.myvisajobs.com/University/University+of+Michigan/", school[0].URL)
	assert.Equal(t, "Google: MyVisaJobs University of   Michigan", school[1].Title)
	assert.Equal(t, "https://www.google.com/search?q=site:myvisajobs.com+University+of+Michigan+LCA", school[1].URL)

	company := CompanyLinks("Goldman Sachs")
	require.Len(t, company, 3)
	assert.Equal(t, "https://h1bgrader.com/employer/Goldman+Sachs", company[1].URL)

	assert.Equal(t, "https://www.myvisajobs.com/Employer/your+company/", CompanyLinks("")[0].URL)
	assert.Equal(t, "https://www.myvisajobs.com/University/your+university/", SchoolLinks(" ")[0].URL)
}

// ==========================
// Caches
// ==========================

func TestRedisCache_RoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewRedisCache(client, time.Hour)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "top_petitioners")
	require.NoError(t, err)
	assert.False(t, ok)

	want := []models.Source{{Title: "arXiv", URL: "https://arxiv.org/", Snippet: "s"}}
	require.NoError(t, c.Set(ctx, "top_petitioners", want))

	assert.True(t, mr.Exists("faq:sources:top_petitioners"))
	assert.Equal(t, time.Hour, mr.TTL("faq:sources:top_petitioners"))

	got, ok, err := c.Get(ctx, "top_petitioners")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestRedisCache_Errors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCache(client, time.Minute)
	ctx := context.Background()

	mock.ExpectGet("faq:sources:majors_study").SetErr(errors.New("connection refused"))
	_, ok, err := c.Get(ctx, "majors_study")
	assert.False(t, ok)
	assert.ErrorContains(t, err, "connection refused")

	mock.ExpectGet("faq:sources:majors_study").SetVal("{not json")
	_, _, err = c.Get(ctx, "majors_study")
	assert.ErrorContains(t, err, "decode cached sources")

	data, _ := json.Marshal([]models.Source{{Title: "x", URL: "y"}})
	mock.ExpectSet("faq:sources:majors_study", data, time.Minute).SetVal("OK")
	assert.NoError(t, c.Set(ctx, "majors_study", []models.Source{{Title: "x", URL: "y"}}))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProvider_CacheReadErrorFallsThroughToFetch(t *testing.T) {
	var hits int32
	server := newTestServer(t, &hits, http.StatusOK, reportsPage)

	client, mock := redismock.NewClientMock()
	// The write after the fetch is unexpected for the mock and fails; the
	// provider only logs it.
	mock.ExpectGet("faq:sources:top_petitioners").SetErr(errors.New("down"))

	p := newTestProvider(t, server.URL, WithCache(NewRedisCache(client, time.Minute)))
	got := p.TopPetitioners(context.Background())

	assert.Contains(t, got[0].Snippet, "petitions")
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryCache_Expires(t *testing.T) {
	c := NewMemoryCache(2, 20*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []models.Source{{Title: "t"}}))
	_, ok, _ := c.Get(ctx, "k")
	assert.True(t, ok)

	assert.Eventually(t, func() bool {
		_, ok, _ := c.Get(ctx, "k")
		return !ok
	}, time.Second, 10*time.Millisecond)
}
