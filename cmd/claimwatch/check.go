// Copyright CrisisWatch Labs, 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crisiswatch/claimwatch/internal/pipeline"
	"github.com/crisiswatch/claimwatch/internal/search"
	"github.com/crisiswatch/claimwatch/pkg/types"
)

var checkCmd = &cobra.Command{
	Use:   "check [claim]",
	Short: "Verify a single claim",
	Long: `Check runs the full verification pipeline on one claim: extraction,
evidence search across all configured sources, verdict synthesis, and
explanation. Recently checked claims are answered from the cache.

With --stream, sources are searched one at a time and progress is printed
as each source reports.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	input := strings.Join(args, " ")

	language, _ := cmd.Flags().GetString("language")
	stream, _ := cmd.Flags().GetBool("stream")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	noHistory, _ := cmd.Flags().GetBool("no-history")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	checker, closer, err := newChecker(!noHistory)
	if err != nil {
		return err
	}
	defer closer()

	opts := pipeline.RunOptions{Language: language, SkipCache: noCache}
	if stream && !jsonOutput {
		opts.Events = printEvent
	}

	result, err := checker.Run(context.Background(), input, opts)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printResult(result)
	return nil
}

func printEvent(ev search.Event) {
	switch ev.Status {
	case "searching":
		fmt.Fprintf(os.Stderr, "Searching %s...\n", ev.Source)
	case "found":
		fmt.Fprintf(os.Stderr, "  %s: %d result(s)\n", ev.Source, ev.Count)
	case "error":
		fmt.Fprintf(os.Stderr, "  %s: failed\n", ev.Source)
	}
}

func printResult(r types.VerificationResult) {
	fmt.Printf("Claim:     %s\n", r.Claim.Text)
	verdict := strings.ToUpper(string(r.Verdict))
	if r.Cached {
		fmt.Printf("Verdict:   %s (%.0f%% confidence, cached)\n", verdict, r.Confidence*100)
	} else {
		fmt.Printf("Verdict:   %s (%.0f%% confidence)\n", verdict, r.Confidence*100)
	}
	fmt.Printf("Severity:  %s\n", r.Severity)
	if r.SourcesChecked > 0 {
		fmt.Printf("Sources:   %d checked, reliability %.2f, diversity %.0f%%\n",
			r.SourcesChecked, r.OverallReliability, r.Diversity*100)
	}

	fmt.Printf("\n%s\n", r.Explanation)
	if r.TranslatedExplanation != "" {
		fmt.Printf("\n%s\n", r.TranslatedExplanation)
	}
	if r.Correction != "" {
		fmt.Printf("\nCorrection: %s\n", r.Correction)
	}

	if len(r.Evidence) > 0 {
		fmt.Println("\nEvidence:")
		for i, ev := range r.Evidence {
			fmt.Printf("%3d. [%s] %s (%.2f)\n", i+1, ev.Stance, ev.SourceName, ev.Reliability)
			if ev.SourceURL != "" {
				fmt.Printf("     %s\n", ev.SourceURL)
			}
			snippet := ev.Snippet
			if len(snippet) > 200 {
				snippet = snippet[:197] + "..."
			}
			if snippet != "" {
				fmt.Printf("     %s\n", snippet)
			}
		}
	}
}

func init() {
	checkCmd.Flags().String("language", "", "claim language code (default: configured default)")
	checkCmd.Flags().Bool("stream", false, "search sources sequentially and print progress")
	checkCmd.Flags().Bool("no-cache", false, "bypass the claim cache lookup")
	checkCmd.Flags().Bool("no-history", false, "do not record the result in history")
	checkCmd.Flags().Bool("json", false, "output the result as JSON")

	rootCmd.AddCommand(checkCmd)
}
