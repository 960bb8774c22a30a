package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"codypdf/internal/converter"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the supported input formats",
	Run: func(cmd *cobra.Command, args []string) {
		table := converter.SupportedExtensions()
		exts := make([]string, 0, len(table))
		for ext := range table {
			exts = append(exts, ext)
		}
		sort.Strings(exts)
		for _, ext := range exts {
			fmt.Printf("%-8s %s\n", ext, table[ext])
		}
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
