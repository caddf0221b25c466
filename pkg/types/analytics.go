// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// KeywordEntry is one ranked keyword with its global occurrence count.
type KeywordEntry struct {
	Term  string `json:"term" yaml:"term"`
	Count int    `json:"count" yaml:"count"`
}

// TrendRow holds, for one publication year, the number of records whose
// title contains each requested term. Years are kept as strings and rows
// are ordered by ascending year string.
type TrendRow struct {
	Year   string         `json:"year" yaml:"year"`
	Counts map[string]int `json:"counts" yaml:"counts"`
}

// TermPair is one cell of the keyword co-occurrence heatmap: the number of
// records whose tokenized title contains both terms. Self-pairs (TermA ==
// TermB) are included; the diagonal carries per-term document frequency.
type TermPair struct {
	TermA string `json:"term_a" yaml:"term_a"`
	TermB string `json:"term_b" yaml:"term_b"`
	Count int    `json:"count" yaml:"count"`
}

// CollaborationNode is one author in the collaboration graph.
type CollaborationNode struct {
	ID         string `json:"id" yaml:"id"`
	PaperCount int    `json:"paper_count" yaml:"paper_count"`
}

// CollaborationEdge is one undirected co-authorship edge. Edges are
// canonical: AuthorA < AuthorB lexicographically, so an unordered pair
// appears at most once.
type CollaborationEdge struct {
	AuthorA            string `json:"author_a" yaml:"author_a"`
	AuthorB            string `json:"author_b" yaml:"author_b"`
	CoPublicationCount int    `json:"co_publication_count" yaml:"co_publication_count"`
}

// CollaborationGraph is the node+edge list shape consumed by front-end
// graph libraries.
type CollaborationGraph struct {
	Nodes []CollaborationNode `json:"nodes" yaml:"nodes"`
	Edges []CollaborationEdge `json:"edges" yaml:"edges"`
}

// SimilarityHit is one candidate record scored against a target record.
type SimilarityHit struct {
	Record      Record   `json:"record" yaml:"record"`
	Score       float64  `json:"score" yaml:"score"`
	SharedTerms []string `json:"shared_terms" yaml:"shared_terms"`
}
