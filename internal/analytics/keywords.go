// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analytics

import (
	"sort"

	"github.com/pdiddy/litmap/pkg/types"
)

// heatmapTermLimit caps the co-occurrence matrix size.
const heatmapTermLimit = 10

// ExtractKeywords tokenizes every record title, accumulates global term
// frequency and returns the top limit terms by descending count. Ties keep
// first-encountered order.
func ExtractKeywords(records []types.Record, limit int) []types.KeywordEntry {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)

	for _, rec := range records {
		for _, term := range Tokenize(rec.Title) {
			if _, ok := counts[term]; !ok {
				firstSeen[term] = len(firstSeen)
			}
			counts[term]++
		}
	}

	entries := make([]types.KeywordEntry, 0, len(counts))
	for term, count := range counts {
		entries = append(entries, types.KeywordEntry{Term: term, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return firstSeen[entries[i].Term] < firstSeen[entries[j].Term]
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// Trends groups records by year and counts, per year and requested term,
// how many records' tokenized titles contain the term. Rows come back
// sorted by ascending year string; years stay strings, so "n.d." groups
// are kept and ordering is lexicographic by design.
func Trends(records []types.Record, terms []string) []types.TrendRow {
	titleSets := make(map[string][]map[string]bool)
	for _, rec := range records {
		titleSets[rec.Year] = append(titleSets[rec.Year], termSet(Tokenize(rec.Title)))
	}

	years := make([]string, 0, len(titleSets))
	for year := range titleSets {
		years = append(years, year)
	}
	sort.Strings(years)

	rows := make([]types.TrendRow, 0, len(years))
	for _, year := range years {
		counts := make(map[string]int, len(terms))
		for _, term := range terms {
			n := 0
			for _, set := range titleSets[year] {
				if set[term] {
					n++
				}
			}
			counts[term] = n
		}
		rows = append(rows, types.TrendRow{Year: year, Counts: counts})
	}
	return rows
}

// CooccurrenceHeatmap counts, for every ordered pair of the first ten
// terms, the records whose tokenized title contains both. Only pairs with
// a positive count are emitted. Self-pairs are retained: a term co-occurs
// with itself in every title containing it, so the diagonal carries the
// per-term document frequency.
func CooccurrenceHeatmap(records []types.Record, terms []string) []types.TermPair {
	if len(terms) > heatmapTermLimit {
		terms = terms[:heatmapTermLimit]
	}

	sets := make([]map[string]bool, 0, len(records))
	for _, rec := range records {
		sets = append(sets, termSet(Tokenize(rec.Title)))
	}

	var pairs []types.TermPair
	for _, a := range terms {
		for _, b := range terms {
			count := 0
			for _, set := range sets {
				if set[a] && set[b] {
					count++
				}
			}
			if count > 0 {
				pairs = append(pairs, types.TermPair{TermA: a, TermB: b, Count: count})
			}
		}
	}
	return pairs
}
