// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analytics derives keyword frequencies, yearly trends, keyword
// co-occurrence, co-author graphs and title similarity from a crawled
// record set. Every function treats its input as read-only and builds
// fresh structures per call, so the same []Record can feed concurrent
// callers.
package analytics

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// stopWords holds common English function words plus generic academic
// boilerplate. Terms in this set never count as keywords. Static
// configuration, not learned.
var stopWords = map[string]struct{}{
	// function words
	"the": {}, "and": {}, "for": {}, "from": {}, "with": {}, "without": {},
	"into": {}, "onto": {}, "over": {}, "under": {}, "between": {},
	"are": {}, "was": {}, "were": {}, "has": {}, "have": {}, "had": {},
	"can": {}, "may": {}, "will": {}, "its": {}, "their": {}, "our": {},
	"this": {}, "that": {}, "these": {}, "those": {}, "what": {},
	"when": {}, "where": {}, "which": {}, "who": {}, "how": {}, "why": {},
	"all": {}, "any": {}, "some": {}, "more": {}, "most": {}, "other": {},
	"not": {}, "but": {}, "than": {}, "then": {}, "through": {},
	"using": {}, "used": {}, "use": {}, "via": {}, "per": {},
	// academic boilerplate
	"method": {}, "methods": {}, "approach": {}, "approaches": {},
	"framework": {}, "frameworks": {}, "novel": {}, "new": {},
	"based": {}, "study": {}, "studies": {}, "analysis": {},
	"towards": {}, "toward": {}, "improved": {}, "improving": {},
	"efficient": {}, "effective": {}, "case": {}, "survey": {},
	"review": {}, "evaluation": {}, "application": {}, "applications": {},
}

// Tokenize converts text into the ordered sequence of lowercase terms that
// every analytics function agrees on: punctuation is stripped (internal
// hyphens survive), terms of length <= 2, pure numbers and stop words are
// dropped. This is the single point deciding what counts as a keyword.
func Tokenize(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	var terms []string
	for _, tok := range strings.Fields(b.String()) {
		tok = strings.Trim(tok, "-")
		if utf8.RuneCountInString(tok) <= 2 {
			continue
		}
		if isNumeric(tok) {
			continue
		}
		if _, ok := stopWords[tok]; ok {
			continue
		}
		terms = append(terms, tok)
	}
	return terms
}

// termSet returns the distinct terms of a token sequence.
func termSet(terms []string) map[string]bool {
	set := make(map[string]bool, len(terms))
	for _, t := range terms {
		set[t] = true
	}
	return set
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
