// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analytics

import (
	"sort"

	"github.com/pdiddy/litmap/pkg/types"
)

// DefaultTopAuthors is the collaboration graph size when the caller passes
// a non-positive topN.
const DefaultTopAuthors = 20

// Collaboration builds the co-authorship graph of the topN most published
// authors. Every unordered author pair within a paper counts once per
// paper; edges are canonical (AuthorA < AuthorB) and kept only when both
// endpoints are inside the top-N set. Ties on paper count break by
// ascending author name so the cut at N is deterministic.
func Collaboration(records []types.Record, topN int) types.CollaborationGraph {
	if topN <= 0 {
		topN = DefaultTopAuthors
	}

	paperCount := make(map[string]int)
	pairCount := make(map[[2]string]int)

	for _, rec := range records {
		for _, author := range rec.Authors {
			paperCount[author]++
		}
		for i := 0; i < len(rec.Authors); i++ {
			for j := i + 1; j < len(rec.Authors); j++ {
				a, b := rec.Authors[i], rec.Authors[j]
				if a == b {
					continue
				}
				if a > b {
					a, b = b, a
				}
				pairCount[[2]string{a, b}]++
			}
		}
	}

	nodes := make([]types.CollaborationNode, 0, len(paperCount))
	for author, count := range paperCount {
		nodes = append(nodes, types.CollaborationNode{ID: author, PaperCount: count})
	}
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].PaperCount != nodes[j].PaperCount {
			return nodes[i].PaperCount > nodes[j].PaperCount
		}
		return nodes[i].ID < nodes[j].ID
	})
	if len(nodes) > topN {
		nodes = nodes[:topN]
	}

	top := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		top[n.ID] = true
	}

	edges := make([]types.CollaborationEdge, 0, len(pairCount))
	for pair, count := range pairCount {
		if !top[pair[0]] || !top[pair[1]] {
			continue
		}
		edges = append(edges, types.CollaborationEdge{
			AuthorA:            pair[0],
			AuthorB:            pair[1],
			CoPublicationCount: count,
		})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].CoPublicationCount != edges[j].CoPublicationCount {
			return edges[i].CoPublicationCount > edges[j].CoPublicationCount
		}
		if edges[i].AuthorA != edges[j].AuthorA {
			return edges[i].AuthorA < edges[j].AuthorA
		}
		return edges[i].AuthorB < edges[j].AuthorB
	})

	return types.CollaborationGraph{Nodes: nodes, Edges: edges}
}
