// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litmap/internal/analytics"
	"github.com/pdiddy/litmap/internal/crawl"
	"github.com/pdiddy/litmap/internal/store"
	"github.com/pdiddy/litmap/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Derive statistics from a saved crawl session",
	Long: `Analyze reads records from a YAML session file (--in) or a stored session
(--session) and computes one of: keyword frequencies, yearly topic trends,
keyword co-occurrence, the co-author collaboration graph, or titles similar
to one record.`,
}

// loadSessionRecords resolves the shared --in/--session input flags.
func loadSessionRecords(cmd *cobra.Command) ([]types.Record, error) {
	inPath, _ := cmd.Flags().GetString("in")
	sessionID, _ := cmd.Flags().GetInt64("session")

	switch {
	case inPath != "" && sessionID != 0:
		return nil, fmt.Errorf("--in and --session are mutually exclusive")
	case inPath != "":
		sf, err := crawl.LoadSession(inPath)
		if err != nil {
			return nil, err
		}
		return sf.Records, nil
	case sessionID != 0:
		s, err := store.NewStore(pipelineConfig().Store)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		return s.LoadRecords(cmd.Context(), sessionID)
	default:
		return nil, fmt.Errorf("provide --in <file> or --session <id>")
	}
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("in", "", "YAML session file to read")
	cmd.Flags().Int64("session", 0, "stored session id to read")
	cmd.Flags().Bool("json", false, "output as JSON")
}

func emitJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// topTerms returns the terms driving trend and heatmap views when the user
// does not name any explicitly.
func topTerms(records []types.Record, n int) []string {
	entries := analytics.ExtractKeywords(records, n)
	terms := make([]string, len(entries))
	for i, e := range entries {
		terms[i] = e.Term
	}
	return terms
}

func termsFlag(cmd *cobra.Command, records []types.Record, fallback int) []string {
	raw, _ := cmd.Flags().GetString("terms")
	if raw == "" {
		return topTerms(records, fallback)
	}
	var terms []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(strings.ToLower(t)); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Rank keywords by global title frequency",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := loadSessionRecords(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		if limit <= 0 {
			limit = pipelineConfig().Analytics.TopKeywords
		}

		entries := analytics.ExtractKeywords(records, limit)
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return emitJSON(entries)
		}
		for _, e := range entries {
			fmt.Printf("%6d  %s\n", e.Count, e.Term)
		}
		return nil
	},
}

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Count keyword hits per publication year",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := loadSessionRecords(cmd)
		if err != nil {
			return err
		}
		terms := termsFlag(cmd, records, 5)

		rows := analytics.Trends(records, terms)
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return emitJSON(rows)
		}
		fmt.Printf("%-8s", "year")
		for _, t := range terms {
			fmt.Printf("  %s", t)
		}
		fmt.Println()
		for _, row := range rows {
			fmt.Printf("%-8s", row.Year)
			for _, t := range terms {
				fmt.Printf("  %*d", len(t), row.Counts[t])
			}
			fmt.Println()
		}
		return nil
	},
}

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Count keyword co-occurrence across titles",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := loadSessionRecords(cmd)
		if err != nil {
			return err
		}
		terms := termsFlag(cmd, records, 10)

		pairs := analytics.CooccurrenceHeatmap(records, terms)
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return emitJSON(pairs)
		}
		for _, p := range pairs {
			fmt.Printf("%6d  %s / %s\n", p.Count, p.TermA, p.TermB)
		}
		return nil
	},
}

var collabCmd = &cobra.Command{
	Use:   "collab",
	Short: "Build the co-author collaboration graph",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := loadSessionRecords(cmd)
		if err != nil {
			return err
		}
		topN, _ := cmd.Flags().GetInt("top")
		if topN <= 0 {
			topN = pipelineConfig().Analytics.TopAuthors
		}

		graph := analytics.Collaboration(records, topN)
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return emitJSON(graph)
		}
		fmt.Println("Authors:")
		for _, n := range graph.Nodes {
			fmt.Printf("%6d  %s\n", n.PaperCount, n.ID)
		}
		fmt.Println("\nCollaborations:")
		for _, e := range graph.Edges {
			fmt.Printf("%6d  %s -- %s\n", e.CoPublicationCount, e.AuthorA, e.AuthorB)
		}
		return nil
	},
}

var similarCmd = &cobra.Command{
	Use:   "similar",
	Short: "Rank records by title similarity to one record",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := loadSessionRecords(cmd)
		if err != nil {
			return err
		}
		targetID, _ := cmd.Flags().GetString("id")
		limit, _ := cmd.Flags().GetInt("limit")
		if limit <= 0 {
			limit = pipelineConfig().Analytics.SimilarLimit
		}

		var target *types.Record
		for i := range records {
			if records[i].ID == targetID {
				target = &records[i]
				break
			}
		}
		if target == nil {
			return fmt.Errorf("record %q not found in session", targetID)
		}

		hits := analytics.FindSimilar(*target, records, limit)
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return emitJSON(hits)
		}
		for _, h := range hits {
			fmt.Printf("%5.2f  %-60s  [%s]\n", h.Score, truncateTitle(h.Record.Title), strings.Join(h.SharedTerms, ", "))
		}
		return nil
	},
}

func truncateTitle(s string) string {
	if len(s) <= 60 {
		return s
	}
	return s[:57] + "..."
}

func init() {
	for _, cmd := range []*cobra.Command{keywordsCmd, trendsCmd, heatmapCmd, collabCmd, similarCmd} {
		addInputFlags(cmd)
		analyzeCmd.AddCommand(cmd)
	}

	keywordsCmd.Flags().Int("limit", 0, "number of keywords to return")
	trendsCmd.Flags().String("terms", "", "comma-separated terms (default: top 5 keywords)")
	heatmapCmd.Flags().String("terms", "", "comma-separated terms (default: top 10 keywords)")
	collabCmd.Flags().Int("top", 0, "number of top authors to keep")
	similarCmd.Flags().String("id", "", "target record id (required)")
	similarCmd.Flags().Int("limit", 0, "number of similar records to return")

	rootCmd.AddCommand(analyzeCmd)
}
