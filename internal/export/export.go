// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export renders a record set as CSV, BibTeX or JSON for use
// outside the tool.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/litmap/pkg/types"
)

// WriteCSV writes one header row plus one row per record.
func WriteCSV(records []types.Record, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "title", "authors", "venue", "venue_type", "year", "doi"}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.ID,
			rec.Title,
			strings.Join(rec.Authors, "; "),
			rec.Venue,
			string(rec.VenueType),
			rec.Year,
			rec.DOI,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row for %s: %w", rec.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteBibTeX writes one BibTeX entry per record. The entry type follows
// the venue type; records without a source key fall back to their id as
// citation key.
func WriteBibTeX(records []types.Record, w io.Writer) error {
	for i, rec := range records {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := writeBibEntry(rec, w); err != nil {
			return fmt.Errorf("writing BibTeX entry for %s: %w", rec.ID, err)
		}
	}
	return nil
}

func writeBibEntry(rec types.Record, w io.Writer) error {
	entryType := "misc"
	venueField := "howpublished"
	switch rec.VenueType {
	case types.VenueJournal:
		entryType = "article"
		venueField = "journal"
	case types.VenueConference:
		entryType = "inproceedings"
		venueField = "booktitle"
	case types.VenueEditorship:
		entryType = "proceedings"
		venueField = "title"
	}

	key := rec.SourceKey
	if key == "" {
		key = rec.ID
	}

	var b strings.Builder
	fmt.Fprintf(&b, "@%s{DBLP:%s,\n", entryType, key)
	if rec.VenueType != types.VenueEditorship {
		fmt.Fprintf(&b, "  title     = {%s},\n", rec.Title)
	}
	fmt.Fprintf(&b, "  author    = {%s},\n", strings.Join(rec.Authors, " and "))
	if rec.Venue != "" {
		fmt.Fprintf(&b, "  %-9s = {%s},\n", venueField, valueForVenueField(rec, venueField))
	}
	if rec.Year != "" {
		fmt.Fprintf(&b, "  year      = {%s},\n", rec.Year)
	}
	if rec.DOI != "" {
		fmt.Fprintf(&b, "  doi       = {%s},\n", rec.DOI)
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func valueForVenueField(rec types.Record, field string) string {
	if field == "title" {
		// Editorships cite the proceedings title itself.
		return rec.Title
	}
	return rec.Venue
}

// WriteJSON writes the records as indented JSON.
func WriteJSON(records []types.Record, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// FormatTable writes records as a human-readable table.
func FormatTable(records []types.Record, w io.Writer) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-24s  %-4s  %s\n", "Rank", "Title", "Authors", "Year", "Venue")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, rec := range records {
		title := truncate(rec.Title, 60)
		fmt.Fprintf(w, "%-4d  %-60s  %-24s  %-4s  %s\n",
			i+1, title, formatAuthors(rec.Authors), rec.Year, rec.Venue)
	}
	fmt.Fprintf(w, "\n%d records\n", len(records))
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 24)
	default:
		return truncate(authors[0], 16) + " et al."
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
