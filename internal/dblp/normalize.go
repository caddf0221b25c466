// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dblp

import (
	"fmt"
	"io"
	"math/rand"
	"strings"

	"golang.org/x/net/html"

	"github.com/pdiddy/litmap/pkg/types"
)

// placeholderAuthor is substituted when the source omits the author list,
// so downstream code never sees an empty Authors slice.
const placeholderAuthor = "Unknown Author"

// NormalizeHit maps one raw hit into the canonical Record.
func NormalizeHit(h Hit) types.Record {
	info := h.Info

	id := info.Key
	if id == "" {
		id = fallbackID()
	}

	authors := info.Authors.Names
	if len(authors) == 0 {
		authors = []string{placeholderAuthor}
	}

	return types.Record{
		ID:        id,
		Title:     CleanText(info.Title),
		Authors:   authors,
		Venue:     CleanText(info.Venue),
		VenueType: classifyVenue(info.Type, info.Key),
		Year:      info.Year,
		DOI:       info.DOI,
		SourceKey: info.Key,
	}
}

// classifyVenue maps the source's type field to a VenueType, falling back
// to the record key's collection prefix when the type field carries no
// recognizable signal.
func classifyVenue(typeField, key string) types.VenueType {
	switch {
	case strings.Contains(typeField, "Journal"):
		return types.VenueJournal
	case strings.Contains(typeField, "Conference"):
		return types.VenueConference
	case strings.Contains(typeField, "Editorship"):
		return types.VenueEditorship
	}

	switch {
	case strings.HasPrefix(key, "journals/"):
		return types.VenueJournal
	case strings.HasPrefix(key, "conf/"):
		return types.VenueConference
	}
	return types.VenueUnknown
}

// CleanText strips embedded markup and resolves entity escapes, returning
// plain text with collapsed whitespace. On tokenizer failure the raw input
// is returned unchanged rather than an error.
func CleanText(s string) string {
	if s == "" {
		return s
	}

	tok := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch tok.Next() {
		case html.ErrorToken:
			if tok.Err() == io.EOF {
				return strings.Join(strings.Fields(b.String()), " ")
			}
			return s
		case html.TextToken:
			b.Write(tok.Text())
		}
	}
}

// fallbackID generates a session-local id for hits that arrive without a
// source key. Values are random, not stable across sessions.
func fallbackID() string {
	return fmt.Sprintf("gen-%08x", rand.Uint32())
}
