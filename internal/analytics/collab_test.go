// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analytics

import (
	"reflect"
	"testing"

	"github.com/pdiddy/litmap/pkg/types"
)

func TestCollaborationCountsAllPairsOnce(t *testing.T) {
	records := []types.Record{
		{ID: "1", Title: "P1", Authors: []string{"Ann", "Bob", "Cid"}},
	}

	graph := Collaboration(records, 20)

	if len(graph.Nodes) != 3 {
		t.Fatalf("len(Nodes) = %d, want 3", len(graph.Nodes))
	}
	want := []types.CollaborationEdge{
		{AuthorA: "Ann", AuthorB: "Bob", CoPublicationCount: 1},
		{AuthorA: "Ann", AuthorB: "Cid", CoPublicationCount: 1},
		{AuthorA: "Bob", AuthorB: "Cid", CoPublicationCount: 1},
	}
	if !reflect.DeepEqual(graph.Edges, want) {
		t.Errorf("Edges = %v, want %v", graph.Edges, want)
	}
}

func TestCollaborationEdgesAreCanonical(t *testing.T) {
	records := []types.Record{
		{ID: "1", Title: "P1", Authors: []string{"Zoe", "Ann"}},
		{ID: "2", Title: "P2", Authors: []string{"Ann", "Zoe"}},
	}

	graph := Collaboration(records, 20)
	if len(graph.Edges) != 1 {
		t.Fatalf("len(Edges) = %d, want 1 (both orderings collapse)", len(graph.Edges))
	}
	e := graph.Edges[0]
	if e.AuthorA != "Ann" || e.AuthorB != "Zoe" || e.CoPublicationCount != 2 {
		t.Errorf("edge = %+v", e)
	}
}

func TestCollaborationRestrictsToTopN(t *testing.T) {
	// Ann appears 3 times, Bob 2, Cid 1. With topN=2 Cid's node and every
	// edge touching Cid are dropped, not reassigned.
	records := []types.Record{
		{ID: "1", Title: "P1", Authors: []string{"Ann", "Bob"}},
		{ID: "2", Title: "P2", Authors: []string{"Ann", "Bob"}},
		{ID: "3", Title: "P3", Authors: []string{"Ann", "Cid"}},
	}

	graph := Collaboration(records, 2)

	wantNodes := []types.CollaborationNode{
		{ID: "Ann", PaperCount: 3},
		{ID: "Bob", PaperCount: 2},
	}
	if !reflect.DeepEqual(graph.Nodes, wantNodes) {
		t.Errorf("Nodes = %v, want %v", graph.Nodes, wantNodes)
	}

	wantEdges := []types.CollaborationEdge{
		{AuthorA: "Ann", AuthorB: "Bob", CoPublicationCount: 2},
	}
	if !reflect.DeepEqual(graph.Edges, wantEdges) {
		t.Errorf("Edges = %v, want %v", graph.Edges, wantEdges)
	}
}

func TestCollaborationTieBreaksByName(t *testing.T) {
	records := []types.Record{
		{ID: "1", Title: "P1", Authors: []string{"Zoe"}},
		{ID: "2", Title: "P2", Authors: []string{"Ann"}},
	}

	graph := Collaboration(records, 1)
	if len(graph.Nodes) != 1 || graph.Nodes[0].ID != "Ann" {
		t.Errorf("Nodes = %v, want only Ann", graph.Nodes)
	}
}

func TestCollaborationDefaultTopN(t *testing.T) {
	records := []types.Record{
		{ID: "1", Title: "P1", Authors: []string{"Ann", "Bob"}},
	}
	graph := Collaboration(records, 0)
	if len(graph.Nodes) != 2 {
		t.Errorf("len(Nodes) = %d, want 2", len(graph.Nodes))
	}
}
