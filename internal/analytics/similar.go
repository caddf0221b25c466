// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analytics

import (
	"math"
	"sort"

	"github.com/pdiddy/litmap/pkg/types"
)

// similarityThreshold is the minimum score for a candidate to count as
// similar at all.
const similarityThreshold = 0.1

// FindSimilar scores every candidate's title against the target's and
// returns the top limit hits above the threshold, best first. The score is
// the token overlap normalized by the geometric mean of the target's term
// set size and the candidate's term sequence length. The target itself is
// excluded by record id, not by content, so a distinct record with an
// identical title still qualifies.
func FindSimilar(target types.Record, candidates []types.Record, limit int) []types.SimilarityHit {
	targetSet := termSet(Tokenize(target.Title))

	var hits []types.SimilarityHit
	for _, cand := range candidates {
		if cand.ID == target.ID {
			continue
		}

		seq := Tokenize(cand.Title)
		overlap := 0
		sharedSeen := make(map[string]bool)
		var shared []string
		for _, term := range seq {
			if !targetSet[term] {
				continue
			}
			overlap++
			if !sharedSeen[term] {
				sharedSeen[term] = true
				shared = append(shared, term)
			}
		}

		denom := float64(len(targetSet) * len(seq))
		if denom == 0 {
			denom = 1
		}
		score := float64(overlap) / math.Sqrt(denom)
		if score <= similarityThreshold {
			continue
		}

		hits = append(hits, types.SimilarityHit{Record: cand, Score: score, SharedTerms: shared})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}
