// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/litmap/internal/dblp"
	"github.com/pdiddy/litmap/internal/httputil"
	"github.com/pdiddy/litmap/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = 1 * time.Millisecond
}

// --- test harness ---

func newTestCrawler(t *testing.T, pageSize int, handler http.HandlerFunc) (*Crawler, *bytes.Buffer) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	old := dblp.PublSearchBase
	dblp.PublSearchBase = ts.URL
	t.Cleanup(func() { dblp.PublSearchBase = old })

	client := dblp.NewClient(types.CrawlConfig{PageSize: pageSize, MaxAttempts: 1})
	client.HTTP = ts.Client()

	var log bytes.Buffer
	return New(client, &log), &log
}

func hitJSON(key, year string) string {
	return fmt.Sprintf(`{"info":{"key":%q,"title":"Paper %s","year":%q,"authors":{"author":{"text":"A. Author"}}}}`,
		key, key, year)
}

func pageJSON(total int, hits ...string) string {
	return fmt.Sprintf(`{"result":{"hits":{"@total":"%d","hit":[%s]}}}`, total, strings.Join(hits, ","))
}

func offsetOf(r *http.Request) int {
	off, _ := strconv.Atoi(r.URL.Query().Get("f"))
	return off
}

func recordIDs(records []types.Record) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}

// --- tests ---

func TestCrawlSingleRequestWhenFirstPageCoversTarget(t *testing.T) {
	var requests int32
	crawler, _ := newTestCrawler(t, 3, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Write([]byte(pageJSON(10, hitJSON("a", "2020"), hitJSON("b", "2020"), hitJSON("c", "2020"))))
	})

	records, err := crawler.Crawl(context.Background(),
		types.CrawlQuery{QueryString: "q", MaxResults: 3}, nil)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
	assert.Len(t, records, 3)
}

func TestCrawlBoundedByTotalAndMaxResults(t *testing.T) {
	pages := map[int]string{
		0: pageJSON(5, hitJSON("k0", "2020"), hitJSON("k1", "2020")),
		2: pageJSON(5, hitJSON("k2", "2020"), hitJSON("k3", "2020")),
		4: pageJSON(5, hitJSON("k4", "2020")),
	}
	crawler, _ := newTestCrawler(t, 2, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pages[offsetOf(r)]))
	})

	// Declared total (5) is smaller than MaxResults.
	records, err := crawler.Crawl(context.Background(),
		types.CrawlQuery{QueryString: "q", MaxResults: 10}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"k0", "k1", "k2", "k3", "k4"}, recordIDs(records))

	// MaxResults (3) is smaller than the declared total.
	records, err = crawler.Crawl(context.Background(),
		types.CrawlQuery{QueryString: "q", MaxResults: 3}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"k0", "k1", "k2"}, recordIDs(records))
}

func TestCrawlOrderIndependentOfCompletionOrder(t *testing.T) {
	pages := map[int]string{
		0: pageJSON(6, hitJSON("k0", "2020"), hitJSON("k1", "2020")),
		2: pageJSON(6, hitJSON("k2", "2020"), hitJSON("k3", "2020")),
		4: pageJSON(6, hitJSON("k4", "2020"), hitJSON("k5", "2020")),
	}
	crawler, _ := newTestCrawler(t, 2, func(w http.ResponseWriter, r *http.Request) {
		// The earlier offset completes last.
		if offsetOf(r) == 2 {
			time.Sleep(60 * time.Millisecond)
		}
		w.Write([]byte(pages[offsetOf(r)]))
	})

	records, err := crawler.Crawl(context.Background(),
		types.CrawlQuery{QueryString: "q", MaxResults: 6}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"k0", "k1", "k2", "k3", "k4", "k5"}, recordIDs(records))
}

func TestCrawlSkipsFailedPage(t *testing.T) {
	pages := map[int]string{
		0: pageJSON(6, hitJSON("k0", "2020"), hitJSON("k1", "2020")),
		4: pageJSON(6, hitJSON("k4", "2020"), hitJSON("k5", "2020")),
	}
	crawler, log := newTestCrawler(t, 2, func(w http.ResponseWriter, r *http.Request) {
		if offsetOf(r) == 2 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(pages[offsetOf(r)]))
	})

	records, err := crawler.Crawl(context.Background(),
		types.CrawlQuery{QueryString: "q", MaxResults: 6}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"k0", "k1", "k4", "k5"}, recordIDs(records))
	assert.Contains(t, log.String(), "offset 2")
}

func TestCrawlCancellationAborts(t *testing.T) {
	first := pageJSON(20, hitJSON("k0", "2020"), hitJSON("k1", "2020"))
	crawler, _ := newTestCrawler(t, 2, func(w http.ResponseWriter, r *http.Request) {
		if offsetOf(r) == 0 {
			w.Write([]byte(first))
			return
		}
		// Later pages hang until the client gives up.
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var progress []types.CrawlProgress
	onProgress := func(p types.CrawlProgress) {
		mu.Lock()
		progress = append(progress, p)
		mu.Unlock()
		cancel() // cancel as soon as the first page reports
	}

	_, err := crawler.Crawl(ctx, types.CrawlQuery{QueryString: "q", MaxResults: 20}, onProgress)
	assert.ErrorIs(t, err, context.Canceled)

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, progress, 1, "no progress callbacks after cancellation")
}

func TestCrawlEmptyQueryFailsBeforeIO(t *testing.T) {
	var requests int32
	crawler, _ := newTestCrawler(t, 2, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&requests, 1)
	})

	_, err := crawler.Crawl(context.Background(), types.CrawlQuery{QueryString: "   "}, nil)
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Equal(t, int32(0), atomic.LoadInt32(&requests))
}

func TestCrawlFirstPageUnreachable(t *testing.T) {
	crawler, _ := newTestCrawler(t, 2, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := crawler.Crawl(context.Background(),
		types.CrawlQuery{QueryString: "q", MaxResults: 2}, nil)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestCrawlEmptyResultIsSuccess(t *testing.T) {
	crawler, _ := newTestCrawler(t, 2, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(pageJSON(0)))
	})

	records, err := crawler.Crawl(context.Background(),
		types.CrawlQuery{QueryString: "q", MaxResults: 10}, nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCrawlDeduplicatesByID(t *testing.T) {
	pages := map[int]string{
		0: pageJSON(4, hitJSON("a", "2020"), hitJSON("b", "2020")),
		2: pageJSON(4, hitJSON("b", "2020"), hitJSON("c", "2020")),
	}
	crawler, _ := newTestCrawler(t, 2, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pages[offsetOf(r)]))
	})

	records, err := crawler.Crawl(context.Background(),
		types.CrawlQuery{QueryString: "q", MaxResults: 4}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, recordIDs(records))
}

func TestCrawlYearFilterKeepsUnparseableYears(t *testing.T) {
	crawler, _ := newTestCrawler(t, 4, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(pageJSON(4,
			hitJSON("k2019", "2019"),
			hitJSON("k2020", "2020"),
			hitJSON("knd", "n.d."),
			hitJSON("k2022", "2022"))))
	})

	records, err := crawler.Crawl(context.Background(),
		types.CrawlQuery{QueryString: "q", MaxResults: 4, YearStart: 2020, YearEnd: 2021}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"k2020", "knd"}, recordIDs(records))
}

func TestCrawlVenueFilter(t *testing.T) {
	crawler, _ := newTestCrawler(t, 3, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(pageJSON(3,
			hitJSON("journals/x/A", "2020"),
			hitJSON("conf/y/B", "2020"),
			hitJSON("books/z/C", "2020"))))
	})

	records, err := crawler.Crawl(context.Background(),
		types.CrawlQuery{QueryString: "q", MaxResults: 3, VenueFilter: types.VenueJournal}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"journals/x/A"}, recordIDs(records))
}

func TestCrawlProgressMonotonicAndBounded(t *testing.T) {
	pages := map[int]string{
		0: pageJSON(6, hitJSON("k0", "2020"), hitJSON("k1", "2020")),
		2: pageJSON(6, hitJSON("k2", "2020"), hitJSON("k3", "2020")),
		4: pageJSON(6, hitJSON("k4", "2020"), hitJSON("k5", "2020")),
	}
	crawler, _ := newTestCrawler(t, 2, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pages[offsetOf(r)]))
	})

	var mu sync.Mutex
	var progress []types.CrawlProgress
	onProgress := func(p types.CrawlProgress) {
		mu.Lock()
		progress = append(progress, p)
		mu.Unlock()
	}

	_, err := crawler.Crawl(context.Background(),
		types.CrawlQuery{QueryString: "q", MaxResults: 6}, onProgress)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, progress)
	prev := 0
	for _, p := range progress {
		assert.Equal(t, 6, p.Target)
		assert.GreaterOrEqual(t, p.Fetched, prev, "progress must be non-decreasing")
		assert.LessOrEqual(t, p.Fetched, p.Target)
		prev = p.Fetched
	}
	assert.Equal(t, 6, progress[len(progress)-1].Fetched)
}

func TestCrawlUnknownTotalDefaultsToMaxResults(t *testing.T) {
	pages := map[int]string{
		0: `{"result":{"hits":{"hit":[` + hitJSON("k0", "2020") + `,` + hitJSON("k1", "2020") + `]}}}`,
		2: `{"result":{"hits":{"hit":[` + hitJSON("k2", "2020") + `]}}}`,
	}
	crawler, _ := newTestCrawler(t, 2, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pages[offsetOf(r)]))
	})

	var progress []types.CrawlProgress
	var mu sync.Mutex
	records, err := crawler.Crawl(context.Background(),
		types.CrawlQuery{QueryString: "q", MaxResults: 4}, func(p types.CrawlProgress) {
			mu.Lock()
			progress = append(progress, p)
			mu.Unlock()
		})
	require.NoError(t, err)

	assert.Equal(t, []string{"k0", "k1", "k2"}, recordIDs(records))
	mu.Lock()
	defer mu.Unlock()
	for _, p := range progress {
		assert.Equal(t, 4, p.Target, "unknown total falls back to MaxResults")
	}
}

// The session file round-trip lives here because it captures a crawl's
// query and output together.
func TestSessionFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/session.yaml"

	query := types.CrawlQuery{QueryString: "graph databases", YearStart: 2019, MaxResults: 50}
	records := []types.Record{
		{ID: "a", Title: "Paper A", Authors: []string{"Jane Doe"}, Year: "2020", VenueType: types.VenueJournal},
		{ID: "b", Title: "Paper B", Authors: []string{"John Roe", "Jane Doe"}, Year: "2021", VenueType: types.VenueConference},
	}

	require.NoError(t, SaveSession(path, query, records))

	sf, err := LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, query, sf.Query)
	assert.Equal(t, records, sf.Records)
	assert.Equal(t, 2, sf.Summary.Total)
}

func TestLoadSessionMissingFile(t *testing.T) {
	_, err := LoadSession("/nonexistent/session.yaml")
	require.Error(t, err)
}
