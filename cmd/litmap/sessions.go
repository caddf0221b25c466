// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litmap/internal/store"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect the local session store",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored crawl sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.NewStore(pipelineConfig().Store)
		if err != nil {
			return err
		}
		defer s.Close()

		sessions, err := s.ListSessions(cmd.Context())
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("No stored sessions.")
			return nil
		}
		for _, info := range sessions {
			fmt.Printf("%4d  %s  %5d records  %s\n",
				info.ID, info.Created.Format("2006-01-02 15:04"), info.RecordCount, info.Query)
		}
		return nil
	},
}

var sessionsSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Full-text search over stored record titles",
	RunE: func(cmd *cobra.Command, args []string) error {
		match, _ := cmd.Flags().GetString("match")
		limit, _ := cmd.Flags().GetInt("limit")
		if match == "" {
			return fmt.Errorf("provide --match <query>")
		}

		s, err := store.NewStore(pipelineConfig().Store)
		if err != nil {
			return err
		}
		defer s.Close()

		matches, err := s.SearchTitles(cmd.Context(), match, limit)
		if err != nil {
			return err
		}
		for _, m := range matches {
			fmt.Printf("%4d  %-40s  %s\n", m.SessionID, m.Record.ID, m.Record.Title)
		}
		return nil
	},
}

func init() {
	sessionsSearchCmd.Flags().String("match", "", "FTS5 match expression over titles")
	sessionsSearchCmd.Flags().Int("limit", 20, "maximum number of matches")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsSearchCmd)
	rootCmd.AddCommand(sessionsCmd)
}
