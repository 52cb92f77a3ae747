// Copyright CrisisWatch Labs, 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crisiswatch/claimwatch/internal/pipeline"
	"github.com/crisiswatch/claimwatch/pkg/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch [claims...]",
	Short: "Verify multiple claims",
	Long: `Batch verifies several claims in one run. Claims are taken from the
arguments, or from a file (one claim per line, blank lines and lines
starting with # skipped) with --file. Cached claims are answered first;
the rest are checked concurrently in chunks.`,
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	language, _ := cmd.Flags().GetString("language")
	noHistory, _ := cmd.Flags().GetBool("no-history")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	inputs := args
	if file != "" {
		fromFile, err := readClaimsFile(file)
		if err != nil {
			return err
		}
		inputs = append(fromFile, inputs...)
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no claims given: pass claims as arguments or use --file")
	}

	checker, closer, err := newChecker(!noHistory)
	if err != nil {
		return err
	}
	defer closer()

	items := checker.Batch(context.Background(), inputs, pipeline.RunOptions{Language: language})

	if jsonOutput {
		return writeBatchJSON(items)
	}
	writeBatchTable(items)
	return nil
}

func readClaimsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening claims file: %w", err)
	}
	defer f.Close()

	var claims []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		claims = append(claims, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading claims file: %w", err)
	}
	return claims, nil
}

// batchRecord is the JSON projection of one batch item. Errors are
// flattened to strings so the output is plain JSON.
type batchRecord struct {
	Input  string                    `json:"input"`
	Result *types.VerificationResult `json:"result,omitempty"`
	Error  string                    `json:"error,omitempty"`
}

func writeBatchJSON(items []pipeline.BatchItem) error {
	records := make([]batchRecord, 0, len(items))
	for i := range items {
		rec := batchRecord{Input: items[i].Input}
		if items[i].Err != nil {
			rec.Error = items[i].Err.Error()
		} else {
			rec.Result = &items[i].Result
		}
		records = append(records, rec)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func writeBatchTable(items []pipeline.BatchItem) {
	counts := map[types.Verdict]int{}
	failed := 0

	for i, item := range items {
		claim := item.Input
		if len(claim) > 60 {
			claim = claim[:57] + "..."
		}
		if item.Err != nil {
			failed++
			fmt.Printf("%3d. %-60s  error: %v\n", i+1, claim, item.Err)
			continue
		}
		r := item.Result
		counts[r.Verdict]++
		cached := ""
		if r.Cached {
			cached = "  (cached)"
		}
		fmt.Printf("%3d. %-60s  %s (%.0f%%)%s\n",
			i+1, claim, strings.ToUpper(string(r.Verdict)), r.Confidence*100, cached)
	}

	fmt.Printf("\n%d claim(s) checked", len(items)-failed)
	if failed > 0 {
		fmt.Printf(", %d failed", failed)
	}
	fmt.Println()
	for _, v := range []types.Verdict{types.VerdictFalse, types.VerdictMostlyFalse, types.VerdictMixed, types.VerdictMostlyTrue, types.VerdictTrue, types.VerdictUnverifiable} {
		if counts[v] > 0 {
			fmt.Printf("  %-13s %d\n", v, counts[v])
		}
	}
}

func init() {
	batchCmd.Flags().String("file", "", "file with one claim per line")
	batchCmd.Flags().String("language", "", "claim language code (default: configured default)")
	batchCmd.Flags().Bool("no-history", false, "do not record results in history")
	batchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(batchCmd)
}
