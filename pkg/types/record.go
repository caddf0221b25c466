// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the litmap pipeline.
package types

// VenueType classifies the publication venue of a Record.
type VenueType string

const (
	VenueJournal    VenueType = "journal"
	VenueConference VenueType = "conference"
	VenueEditorship VenueType = "editorship"
	VenueUnknown    VenueType = "unknown"
)

// Record is one bibliographic entry produced by a crawl. Records are
// created once by the normalizer and never mutated afterwards; analytics
// functions treat a []Record as read-only, so the same slice can be shared
// across concurrent callers.
type Record struct {
	// ID is unique within a crawl session. It is derived from the source
	// key when present, otherwise a generated fallback.
	ID string `json:"id" yaml:"id"`

	// Title is the publication title with markup stripped and entity
	// escapes resolved.
	Title string `json:"title" yaml:"title"`

	// Authors lists the authors in source order. Never empty: a
	// placeholder entry is substituted when the source omits authors.
	Authors []string `json:"authors" yaml:"authors"`

	// Venue is the journal or conference name as reported by the source.
	Venue string `json:"venue" yaml:"venue"`

	// VenueType classifies the venue.
	VenueType VenueType `json:"venue_type" yaml:"venue_type"`

	// Year is the publication year as a string. It may be non-numeric;
	// such records are treated as "unknown year" and are never excluded
	// by year filters.
	Year string `json:"year" yaml:"year"`

	// DOI is the digital object identifier, when the source reports one.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// SourceKey is the source's own identifier (e.g. "journals/tods/X24").
	SourceKey string `json:"source_key,omitempty" yaml:"source_key,omitempty"`
}

// CrawlQuery holds the parameters of one crawl. Immutable input.
type CrawlQuery struct {
	// QueryString is the free-text search query. Must be non-empty.
	QueryString string `json:"query_string" yaml:"query_string"`

	// YearStart and YearEnd bound the publication year inclusively.
	// Zero means unbounded on that side. Records whose year does not
	// parse as a number always pass the filter.
	YearStart int `json:"year_start,omitempty" yaml:"year_start,omitempty"`
	YearEnd   int `json:"year_end,omitempty" yaml:"year_end,omitempty"`

	// VenueFilter restricts results by venue type. The empty string
	// keeps all venue types.
	VenueFilter VenueType `json:"venue_filter,omitempty" yaml:"venue_filter,omitempty"`

	// MaxResults caps the number of records returned.
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// CrawlProgress reports crawl advancement. Within one crawl, Fetched is
// monotonically non-decreasing and never exceeds Target.
type CrawlProgress struct {
	Fetched int
	Target  int
}

// ProgressFunc receives progress updates during a crawl. It is called
// after the first page and after every subsequent page completes, from
// the goroutine that completed the page; implementations should be fast.
type ProgressFunc func(CrawlProgress)
