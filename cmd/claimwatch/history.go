// Copyright CrisisWatch Labs, 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/crisiswatch/claimwatch/internal/history"
	"github.com/crisiswatch/claimwatch/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query past verifications",
	Long: `History queries the persistent verification log. Use list to show past
checks with optional filters, or counts for a per-verdict summary.`,
}

func openHistory() (*history.Store, error) {
	return history.NewStore(pipelineConfig().History)
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List past verifications, most recent first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	f, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}

	results, err := store.Query(context.Background(), f)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No matching verifications found.")
		return nil
	}

	fmt.Printf("%-19s  %-50s  %-13s  %-5s  %s\n",
		"Checked", "Claim", "Verdict", "Conf", "Severity")
	fmt.Println(strings.Repeat("-", 100))
	for _, r := range results {
		claim := r.Claim.Text
		if len(claim) > 50 {
			claim = claim[:47] + "..."
		}
		fmt.Printf("%-19s  %-50s  %-13s  %3.0f%%  %s\n",
			r.CheckedAt.Local().Format("2006-01-02 15:04:05"),
			claim, r.Verdict, r.Confidence*100, r.Severity)
	}
	fmt.Printf("\n%d result(s)\n", len(results))
	return nil
}

// filterFromFlags builds a history filter. --since accepts either a
// duration ("24h") or a date (YYYY-MM-DD).
func filterFromFlags(cmd *cobra.Command) (history.Filter, error) {
	verdict, _ := cmd.Flags().GetString("verdict")
	severity, _ := cmd.Flags().GetString("severity")
	since, _ := cmd.Flags().GetString("since")
	limit, _ := cmd.Flags().GetInt("limit")

	f := history.Filter{
		Verdict:  types.Verdict(verdict),
		Severity: types.Severity(severity),
		Limit:    limit,
	}

	if since != "" {
		if d, err := time.ParseDuration(since); err == nil {
			f.Since = time.Now().Add(-d)
		} else if t, err := time.Parse("2006-01-02", since); err == nil {
			f.Since = t
		} else {
			return f, fmt.Errorf("invalid --since %q: use a duration (24h) or date (2006-01-02)", since)
		}
	}
	return f, nil
}

// --- counts subcommand ---

var historyCountsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Show verification counts per verdict",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		counts, err := store.Counts(context.Background())
		if err != nil {
			return err
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(counts)
		}

		total := 0
		for _, v := range []types.Verdict{types.VerdictFalse, types.VerdictMostlyFalse, types.VerdictMixed, types.VerdictMostlyTrue, types.VerdictTrue, types.VerdictUnverifiable} {
			if n := counts[v]; n > 0 {
				fmt.Printf("%-13s %d\n", v, n)
				total += n
			}
		}
		fmt.Printf("\n%d verification(s) recorded\n", total)
		return nil
	},
}

func init() {
	historyListCmd.Flags().String("verdict", "", "filter by verdict (false, mixed, true, ...)")
	historyListCmd.Flags().String("severity", "", "filter by severity (critical, high, medium, low)")
	historyListCmd.Flags().String("since", "", "only checks after a duration ago (24h) or date (2006-01-02)")
	historyListCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	historyListCmd.Flags().Bool("json", false, "output results as JSON")

	historyCountsCmd.Flags().Bool("json", false, "output counts as JSON")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyCountsCmd)

	rootCmd.AddCommand(historyCmd)
}
