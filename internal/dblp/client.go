// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dblp talks to the DBLP publication-search API and normalizes its
// hits into Records.
package dblp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/litmap/internal/httputil"
	"github.com/pdiddy/litmap/pkg/types"
)

// PublSearchBase is the DBLP publication search endpoint. Declared as a var
// so tests can substitute an httptest server.
var PublSearchBase = "https://dblp.org/search/publ/api"

// TotalUnknown marks a page whose response did not carry a usable
// total-match count.
const TotalUnknown = -1

// Client issues paginated queries against the DBLP search API.
type Client struct {
	HTTP *http.Client
	Cfg  types.CrawlConfig
}

// NewClient returns a Client with defaults applied to cfg.
func NewClient(cfg types.CrawlConfig) *Client {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "litmap/0.1"
	}
	return &Client{
		HTTP: &http.Client{Timeout: cfg.Timeout},
		Cfg:  cfg,
	}
}

// Page is one page of raw hits plus the total-match count the source
// reported for the whole query (TotalUnknown when absent or unparseable).
type Page struct {
	Total int
	Hits  []Hit
}

// FetchPage requests one page of results at the given offset. Retry and
// backoff behavior is delegated to httputil.Fetch.
func (c *Client) FetchPage(ctx context.Context, query string, offset int) (Page, error) {
	params := url.Values{
		"q":      {query},
		"format": {"json"},
		"h":      {strconv.Itoa(c.Cfg.PageSize)},
		"f":      {strconv.Itoa(offset)},
	}
	reqURL := PublSearchBase + "?" + params.Encode()

	body, err := httputil.Fetch(ctx, c.HTTP, reqURL, c.Cfg.UserAgent, c.Cfg.MaxAttempts)
	if err != nil {
		return Page{}, fmt.Errorf("fetching page at offset %d: %w", offset, err)
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return Page{}, fmt.Errorf("parsing page at offset %d: %w", offset, err)
	}

	page := Page{Total: TotalUnknown, Hits: sr.Result.Hits.Hit}
	if total, err := strconv.Atoi(sr.Result.Hits.Total); err == nil {
		page.Total = total
	}
	return page, nil
}

// DBLP API JSON structures. Numeric fields arrive as strings.
type searchResponse struct {
	Result searchResult `json:"result"`
}

type searchResult struct {
	Hits hitSet `json:"hits"`
}

type hitSet struct {
	Total string `json:"@total"`
	Hit   []Hit  `json:"hit"`
}

// Hit is one raw search result.
type Hit struct {
	Info hitInfo `json:"info"`
}

type hitInfo struct {
	Key     string     `json:"key"`
	Title   string     `json:"title"`
	Venue   string     `json:"venue"`
	Year    string     `json:"year"`
	Type    string     `json:"type"`
	DOI     string     `json:"doi"`
	Authors authorList `json:"authors"`
}

// authorList absorbs the three shapes DBLP uses for the authors field:
// absent, a single author object, or a list of author objects. Individual
// authors are either plain strings or {"text": ..., "@pid": ...} objects.
type authorList struct {
	Names []string
}

func (a *authorList) UnmarshalJSON(data []byte) error {
	var wrapper struct {
		Author json.RawMessage `json:"author"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return fmt.Errorf("parsing authors wrapper: %w", err)
	}

	raw := bytes.TrimSpace(wrapper.Author)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		a.Names = nil
		return nil
	}

	if raw[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return fmt.Errorf("parsing author list: %w", err)
		}
		for _, item := range items {
			name, err := parseAuthor(item)
			if err != nil {
				return err
			}
			if name != "" {
				a.Names = append(a.Names, name)
			}
		}
		return nil
	}

	name, err := parseAuthor(raw)
	if err != nil {
		return err
	}
	if name != "" {
		a.Names = []string{name}
	}
	return nil
}

func parseAuthor(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("parsing author string: %w", err)
		}
		return s, nil
	case '{':
		var obj struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return "", fmt.Errorf("parsing author object: %w", err)
		}
		return obj.Text, nil
	default:
		return "", fmt.Errorf("unexpected author shape: %s", raw)
	}
}
