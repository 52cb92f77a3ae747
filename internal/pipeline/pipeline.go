// Copyright CrisisWatch Labs, 2026. All rights reserved.

// Package pipeline orchestrates the verification stages: claim
// extraction, query planning, evidence search, synthesis, calibration,
// and explanation.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/crisiswatch/claimwatch/internal/cache"
	"github.com/crisiswatch/claimwatch/internal/calibrate"
	"github.com/crisiswatch/claimwatch/internal/history"
	"github.com/crisiswatch/claimwatch/internal/search"
	"github.com/crisiswatch/claimwatch/internal/synthesize"
	"github.com/crisiswatch/claimwatch/pkg/types"
)

// defaultBatchSize is the number of claims verified concurrently per
// batch chunk.
const defaultBatchSize = 5

// Checker runs the verification pipeline. All collaborators are injected
// so tests can substitute fakes; History may be nil to disable
// persistence.
type Checker struct {
	cfg   types.PipelineConfig
	synth *synthesize.Synthesizer
	agg   *search.Aggregator
	cache *cache.Cache
	hist  *history.Store
	log   io.Writer
}

// NewChecker assembles a Checker from its stages.
func NewChecker(cfg types.PipelineConfig, synth *synthesize.Synthesizer, agg *search.Aggregator, c *cache.Cache, hist *history.Store, log io.Writer) *Checker {
	if log == nil {
		log = io.Discard
	}
	return &Checker{cfg: cfg, synth: synth, agg: agg, cache: c, hist: hist, log: log}
}

// RunOptions controls one verification run.
type RunOptions struct {
	// Language overrides the configured default claim language.
	Language string

	// SkipCache bypasses the cache lookup. The result is still stored.
	SkipCache bool

	// Events, when non-nil, switches evidence search to the sequential
	// streaming mode and receives its progress events.
	Events func(search.Event)
}

// state accumulates intermediate values as a run moves through the
// stages.
type state struct {
	rawInput  string
	language  string
	claim     types.Claim
	queries   []string
	results   []types.SearchResult
	diversity float64
	outcome   synthesize.Outcome
	verdict   types.Verdict
	conf      float64
	reasoning string
}

// Run verifies one claim end to end. Input the model flags as pure
// opinion is the only error; every degraded path still yields a result.
func (c *Checker) Run(ctx context.Context, rawInput string, opts RunOptions) (types.VerificationResult, error) {
	start := time.Now()

	st := &state{
		rawInput: rawInput,
		language: opts.Language,
	}
	if st.language == "" {
		st.language = c.cfg.DefaultLanguage
	}
	if st.language == "" {
		st.language = "en"
	}

	if !opts.SkipCache {
		if entry, ok := c.cache.Get(rawInput); ok {
			return cachedResult(entry, st.language), nil
		}
	}

	claim, err := c.synth.ExtractClaim(ctx, rawInput, st.language)
	if err != nil {
		return types.VerificationResult{}, err
	}
	st.claim = claim

	st.queries = c.synth.PlanQueries(ctx, st.claim)

	plan := search.Plan{Primary: st.claim.Text, Language: st.language}
	if len(st.queries) > 0 {
		plan.Primary = st.queries[0]
	}
	if len(st.queries) > 1 {
		plan.Secondary = st.queries[1]
	}

	var out search.Output
	if opts.Events != nil {
		out = c.agg.SearchStreaming(ctx, plan, opts.Events)
	} else {
		out = c.agg.Search(ctx, plan, c.log)
	}
	st.results = out.Results
	st.diversity = out.Diversity

	st.outcome = c.synth.Synthesize(ctx, st.claim, st.results, st.diversity)

	conf, calNote := calibrate.Confidence(c.cfg.Calibration, st.outcome.Confidence, st.outcome.Verdict, st.outcome.Evidence, st.claim.Text)
	verdict, verdictNote := calibrate.Verdict(c.cfg.Calibration, st.outcome.Verdict, conf)
	st.conf = conf
	st.verdict = verdict
	st.reasoning = fmt.Sprintf("%s [Calibration: %s] [Verdict: %s]", st.outcome.Reasoning, calNote, verdictNote)

	explanation := c.synth.Explain(ctx, synthesize.ExplainInput{
		Claim:              st.claim,
		Verdict:            st.verdict,
		Confidence:         st.conf,
		Severity:           st.outcome.Severity,
		Evidence:           st.outcome.Evidence,
		Reasoning:          st.reasoning,
		TranslatedLanguage: c.cfg.SecondaryLanguage,
	})

	result := types.VerificationResult{
		Claim:                 st.claim,
		Verdict:               st.verdict,
		Confidence:            st.conf,
		Severity:              st.outcome.Severity,
		Explanation:           explanation.Text,
		TranslatedExplanation: explanation.Translated,
		Correction:            explanation.Correction,
		Evidence:              st.outcome.Evidence,
		SourcesChecked:        len(st.results),
		OverallReliability:    st.outcome.OverallReliability,
		Diversity:             st.diversity,
		CheckedAt:             time.Now().UTC(),
		Elapsed:               time.Since(start),
	}

	c.cache.Store(rawInput, result)

	if c.hist != nil {
		if err := c.hist.Record(ctx, result); err != nil {
			fmt.Fprintf(c.log, "warning: recording history: %v\n", err)
		}
	}

	return result, nil
}

// BatchItem pairs one batch input with its result or error.
type BatchItem struct {
	Input  string
	Result types.VerificationResult
	Err    error
}

// Batch verifies many claims. Cached claims are answered immediately, and
// a claim that is a near-duplicate of an earlier one in the same batch
// reuses its result. The rest run concurrently in fixed-size chunks so a
// long list cannot flood the evidence sources. A failed claim fills its
// slot with an error instead of aborting the batch.
func (c *Checker) Batch(ctx context.Context, inputs []string, opts RunOptions) []BatchItem {
	items := make([]BatchItem, len(inputs))

	var pending []int
	dupOf := make(map[int]int)
	for i, input := range inputs {
		items[i].Input = input
		if !opts.SkipCache {
			if entry, ok := c.cache.Get(input); ok {
				lang := opts.Language
				if lang == "" {
					lang = c.cfg.DefaultLanguage
				}
				items[i].Result = cachedResult(entry, lang)
				continue
			}
		}
		dup := -1
		for j := 0; j < i; j++ {
			if cache.IsNearDuplicate(input, inputs[j]) {
				dup = j
				break
			}
		}
		if dup >= 0 {
			// Chase one level so every alias points at a real run.
			if canonical, ok := dupOf[dup]; ok {
				dup = canonical
			}
			dupOf[i] = dup
			continue
		}
		pending = append(pending, i)
	}

	chunkSize := c.cfg.BatchSize
	if chunkSize <= 0 {
		chunkSize = defaultBatchSize
	}

	runOpts := opts
	runOpts.Events = nil

	for start := 0; start < len(pending); start += chunkSize {
		end := start + chunkSize
		if end > len(pending) {
			end = len(pending)
		}

		var wg sync.WaitGroup
		for _, idx := range pending[start:end] {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				result, err := c.Run(ctx, inputs[idx], runOpts)
				items[idx].Result = result
				items[idx].Err = err
			}(idx)
		}
		wg.Wait()
	}

	// Duplicates share the earlier claim's outcome.
	for i, j := range dupOf {
		items[i].Result = items[j].Result
		items[i].Err = items[j].Err
	}

	return items
}

// cachedResult expands a cache entry back into a result. The evidence
// list is not cached, so it comes back empty.
func cachedResult(entry cache.Entry, language string) types.VerificationResult {
	return types.VerificationResult{
		Claim:                 types.Claim{Text: entry.ClaimText, Language: language},
		Verdict:               entry.Verdict,
		Confidence:            entry.Confidence,
		Severity:              entry.Severity,
		Explanation:           entry.Explanation,
		TranslatedExplanation: entry.TranslatedExplanation,
		Correction:            entry.Correction,
		SourcesChecked:        entry.SourcesChecked,
		OverallReliability:    entry.OverallReliability,
		Diversity:             entry.Diversity,
		Cached:                true,
		CheckedAt:             entry.CheckedAt,
	}
}
