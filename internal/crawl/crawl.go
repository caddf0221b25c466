// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crawl turns one logical query into a complete, deduplicated,
// size-bounded Record set by driving the paginated search API through a
// bounded worker pool.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/litmap/internal/dblp"
	"github.com/pdiddy/litmap/pkg/types"
)

// ErrEmptyQuery reports a query with no searchable text. It is returned
// before any network activity.
var ErrEmptyQuery = errors.New("query is empty")

// ErrServiceUnavailable reports that the first page could not be fetched
// at all, so the crawl produced nothing.
var ErrServiceUnavailable = errors.New("search service unavailable")

// Crawler coordinates one crawl at a time against a dblp.Client. Warnings
// about skipped pages go to Log.
type Crawler struct {
	client *dblp.Client
	log    io.Writer
}

// New returns a Crawler writing diagnostics to log.
func New(client *dblp.Client, log io.Writer) *Crawler {
	if log == nil {
		log = io.Discard
	}
	return &Crawler{client: client, log: log}
}

// Crawl fetches every page needed to cover min(total, q.MaxResults)
// records, normalizes and deduplicates the hits, and applies the query's
// client-side filters.
//
// The first page (offset 0) establishes the target; remaining offsets are
// fetched through a pool of at most Concurrency in-flight requests. Pages
// are requested in ascending offset order and land in indexed slots, so
// the assembled result is offset-ordered regardless of completion order.
//
// A page that fails after its own retries is logged and skipped; the crawl
// still returns every other page. Cancellation is the exception: it aborts
// the whole crawl and Crawl returns the context's error. A crawl that
// completes with zero records is a success, distinct from any error.
func (c *Crawler) Crawl(ctx context.Context, q types.CrawlQuery, onProgress types.ProgressFunc) ([]types.Record, error) {
	if strings.TrimSpace(q.QueryString) == "" {
		return nil, ErrEmptyQuery
	}

	pageSize := c.client.Cfg.PageSize
	if q.MaxResults <= 0 {
		q.MaxResults = pageSize
	}

	first, err := c.client.FetchPage(ctx, q.QueryString, 0)
	if err != nil {
		if isCancellation(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	target := q.MaxResults
	if first.Total != dblp.TotalUnknown && first.Total < target {
		target = first.Total
	}

	var offsets []int
	if len(first.Hits) < target {
		for off := pageSize; off < target; off += pageSize {
			offsets = append(offsets, off)
		}
	}

	// pages[0] is the first page; offsets[i] fills pages[i+1]. Indexed
	// slots keep assembly independent of completion order.
	pages := make([][]dblp.Hit, 1+len(offsets))
	pages[0] = first.Hits

	fetched := min(len(first.Hits), target)
	if onProgress != nil {
		onProgress(types.CrawlProgress{Fetched: fetched, Target: target})
	}

	if len(offsets) > 0 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.client.Cfg.Concurrency)

		// fetched and the progress callback are the only state shared
		// across workers; both sit behind mu so reported progress is
		// monotonic.
		var mu sync.Mutex

		for i, off := range offsets {
			i, off := i, off
			g.Go(func() error {
				page, err := c.client.FetchPage(gctx, q.QueryString, off)
				if err != nil {
					if cerr := gctx.Err(); cerr != nil {
						return cerr
					}
					if isCancellation(err) {
						return err
					}
					fmt.Fprintf(c.log, "warning: skipping page at offset %d: %v\n", off, err)
					return nil
				}

				mu.Lock()
				pages[i+1] = page.Hits
				fetched += len(page.Hits)
				if onProgress != nil && gctx.Err() == nil {
					onProgress(types.CrawlProgress{Fetched: min(fetched, target), Target: target})
				}
				mu.Unlock()
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var raw []dblp.Hit
	for _, p := range pages {
		raw = append(raw, p...)
	}
	if len(raw) > q.MaxResults {
		raw = raw[:q.MaxResults]
	}

	seen := make(map[string]bool, len(raw))
	records := make([]types.Record, 0, len(raw))
	for _, h := range raw {
		rec := dblp.NormalizeHit(h)
		if seen[rec.ID] {
			continue
		}
		seen[rec.ID] = true
		if !matchesFilters(rec, q) {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// matchesFilters applies the query's year range (inclusive; unparseable
// years always pass) and venue-type filter.
func matchesFilters(rec types.Record, q types.CrawlQuery) bool {
	if q.YearStart != 0 || q.YearEnd != 0 {
		if year, err := strconv.Atoi(strings.TrimSpace(rec.Year)); err == nil {
			if q.YearStart != 0 && year < q.YearStart {
				return false
			}
			if q.YearEnd != 0 && year > q.YearEnd {
				return false
			}
		}
	}
	if q.VenueFilter != "" && rec.VenueType != q.VenueFilter {
		return false
	}
	return true
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
