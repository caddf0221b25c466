// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litmap/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a saved session as CSV, BibTeX or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := loadSessionRecords(cmd)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")

		switch format {
		case "csv":
			return export.WriteCSV(records, os.Stdout)
		case "bibtex":
			return export.WriteBibTeX(records, os.Stdout)
		case "json":
			return export.WriteJSON(records, os.Stdout)
		default:
			return fmt.Errorf("unknown format %q (want csv, bibtex or json)", format)
		}
	},
}

func init() {
	exportCmd.Flags().String("in", "", "YAML session file to read")
	exportCmd.Flags().Int64("session", 0, "stored session id to read")
	exportCmd.Flags().String("format", "csv", "output format: csv, bibtex or json")

	rootCmd.AddCommand(exportCmd)
}
