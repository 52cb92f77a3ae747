// Copyright CrisisWatch Labs, 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crisiswatch/claimwatch/internal/cache"
	"github.com/crisiswatch/claimwatch/pkg/types"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the claim cache",
	Long: `Cache operates on the claim result cache. Use subcommands to show
statistics, find cached claims similar to a query, or clear the cache.`,
}

func openCache() *cache.Cache {
	return cache.New(pipelineConfig().Cache, os.Stderr)
}

// --- stats subcommand ---

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats := openCache().Stats()

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		}

		fmt.Printf("Cached claims: %d\n", stats.Total)
		if stats.Total == 0 {
			return nil
		}
		fmt.Println("\nBy verdict:")
		for _, v := range []types.Verdict{types.VerdictFalse, types.VerdictMostlyFalse, types.VerdictMixed, types.VerdictMostlyTrue, types.VerdictTrue, types.VerdictUnverifiable} {
			if n := stats.ByVerdict[v]; n > 0 {
				fmt.Printf("  %-13s %d\n", v, n)
			}
		}
		fmt.Println("\nBy severity:")
		for _, s := range []types.Severity{types.SeverityCritical, types.SeverityHigh, types.SeverityMedium, types.SeverityLow} {
			if n := stats.BySeverity[s]; n > 0 {
				fmt.Printf("  %-13s %d\n", s, n)
			}
		}
		return nil
	},
}

// --- similar subcommand ---

var cacheSimilarCmd = &cobra.Command{
	Use:   "similar [claim]",
	Short: "Find cached claims similar to a query",
	Long: `Similar searches the cache for claims whose normalized text overlaps
the query. Useful for spotting variants of a claim already checked.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		threshold, _ := cmd.Flags().GetFloat64("threshold")

		matches := openCache().FindSimilar(query, threshold)

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(matches)
		}

		if len(matches) == 0 {
			fmt.Println("No similar cached claims found.")
			return nil
		}
		for i, m := range matches {
			fmt.Printf("%3d. %.0f%%  %s  %s (%.0f%%)\n",
				i+1, m.Similarity*100, m.Entry.ClaimText,
				strings.ToUpper(string(m.Entry.Verdict)), m.Entry.Confidence*100)
		}
		return nil
	},
}

// --- clear subcommand ---

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached claims",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := openCache()
		n := c.Stats().Total
		c.Clear()
		fmt.Printf("Cleared %d cached claim(s).\n", n)
		return nil
	},
}

func init() {
	cacheStatsCmd.Flags().Bool("json", false, "output statistics as JSON")

	cacheSimilarCmd.Flags().Float64("threshold", 0.5, "minimum similarity in [0,1]")
	cacheSimilarCmd.Flags().Bool("json", false, "output matches as JSON")

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheSimilarCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	rootCmd.AddCommand(cacheCmd)
}
