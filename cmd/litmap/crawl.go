// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litmap/internal/crawl"
	"github.com/pdiddy/litmap/internal/dblp"
	"github.com/pdiddy/litmap/internal/export"
	"github.com/pdiddy/litmap/internal/store"
	"github.com/pdiddy/litmap/pkg/types"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl DBLP for publications matching a query",
	Long: `Crawl pages the DBLP publication search API until the query's matches (or
the --max-results cap, whichever is smaller) are covered, then applies the
year and venue filters client-side. The result can be printed, written to a
YAML session file with --out, or saved to the local store with --save.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		queryStr, _ := cmd.Flags().GetString("query")
		yearFrom, _ := cmd.Flags().GetInt("year-from")
		yearTo, _ := cmd.Flags().GetInt("year-to")
		venue, _ := cmd.Flags().GetString("venue")
		maxResults, _ := cmd.Flags().GetInt("max-results")
		outPath, _ := cmd.Flags().GetString("out")
		save, _ := cmd.Flags().GetBool("save")
		asJSON, _ := cmd.Flags().GetBool("json")

		venueFilter, err := parseVenueFilter(venue)
		if err != nil {
			return err
		}

		query := types.CrawlQuery{
			QueryString: queryStr,
			YearStart:   yearFrom,
			YearEnd:     yearTo,
			VenueFilter: venueFilter,
			MaxResults:  maxResults,
		}

		cfg := pipelineConfig()
		crawler := crawl.New(dblp.NewClient(cfg.Crawl), os.Stderr)

		onProgress := func(p types.CrawlProgress) {
			fmt.Fprintf(os.Stderr, "fetched %d/%d\n", p.Fetched, p.Target)
		}

		records, err := crawler.Crawl(cmd.Context(), query, onProgress)
		if err != nil {
			return err
		}

		if outPath != "" {
			if err := crawl.SaveSession(outPath, query, records); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Session written to %s\n", outPath)
		}

		if save {
			s, err := store.NewStore(cfg.Store)
			if err != nil {
				return err
			}
			defer s.Close()
			id, err := s.SaveSession(cmd.Context(), query, records)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Saved as session %d\n", id)
		}

		if asJSON {
			return export.WriteJSON(records, os.Stdout)
		}
		export.FormatTable(records, os.Stdout)
		return nil
	},
}

func parseVenueFilter(venue string) (types.VenueType, error) {
	switch venue {
	case "", "all":
		return "", nil
	case "journal":
		return types.VenueJournal, nil
	case "conference":
		return types.VenueConference, nil
	default:
		return "", fmt.Errorf("unknown venue filter %q (want journal, conference or all)", venue)
	}
}

func init() {
	crawlCmd.Flags().String("query", "", "free-text search query (required)")
	crawlCmd.Flags().Int("year-from", 0, "keep records published in or after this year")
	crawlCmd.Flags().Int("year-to", 0, "keep records published in or before this year")
	crawlCmd.Flags().String("venue", "all", "venue filter: journal, conference or all")
	crawlCmd.Flags().Int("max-results", 500, "maximum number of records to fetch")
	crawlCmd.Flags().String("out", "", "write the session to this YAML file")
	crawlCmd.Flags().Bool("save", false, "save the session to the local store")
	crawlCmd.Flags().Bool("json", false, "output records as JSON")

	rootCmd.AddCommand(crawlCmd)
}
