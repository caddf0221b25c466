// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the litmap version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("litmap", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
