// Copyright CrisisWatch Labs, 2026. All rights reserved.

// Package search fans claim queries out to heterogeneous evidence sources
// and returns deduplicated, reliability-ranked results.
package search

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/crisiswatch/claimwatch/internal/score"
	"github.com/crisiswatch/claimwatch/pkg/types"
)

// Adapter searches a single evidence source. Any subset of adapters may be
// unavailable or failing; the aggregator tolerates both.
type Adapter interface {
	Name() string
	Search(ctx context.Context, query string, opts Options) ([]types.SearchResult, error)
}

// Options holds per-call search parameters.
type Options struct {
	// MaxResults caps how many results the adapter should return.
	MaxResults int

	// Language is the claim language code, for adapters that localize.
	Language string
}

// Plan holds the queries produced by the query-planning stage.
type Plan struct {
	Primary   string
	Secondary string
	Language  string
}

// Output holds the ranked results and aggregation statistics.
type Output struct {
	Results       []types.SearchResult
	RawCount      int
	DedupCount    int
	Diversity     float64
	AdapterErrors []string
}

// Event reports streaming-search progress for one adapter.
type Event struct {
	// Source is the adapter display name.
	Source string

	// Status is "searching", "found", or "error".
	Status string

	// Count is the number of results found. Zero unless Status is "found".
	Count int
}

// displayNames maps adapter identifiers to names fit for progress output.
var displayNames = map[string]string{
	"tavily":               "Web Search",
	"tavily_secondary":     "Extended Web Search",
	"factcheck":            "Google Fact Check",
	"newsapi":              "NewsAPI",
	"wikipedia":            "Wikipedia",
	"factcheck_aggregator": "Fact-Checkers",
}

// DisplayName returns the human-readable name for an adapter identifier.
func DisplayName(id string) string {
	if name, ok := displayNames[id]; ok {
		return name
	}
	return id
}

// task pairs an adapter with the query and result cap assigned to it.
type task struct {
	id      string
	adapter Adapter
	query   string
	opts    Options
}

// Aggregator coordinates the adapter set. It is long-lived and safe for
// concurrent pipeline runs.
type Aggregator struct {
	adapters []Adapter
	cfg      types.SearchConfig
}

// NewAggregator builds an aggregator over the given adapters.
func NewAggregator(cfg types.SearchConfig, adapters ...Adapter) *Aggregator {
	return &Aggregator{adapters: adapters, cfg: cfg}
}

// buildTasks assigns each adapter a query and a result cap. Every adapter
// gets the primary query; the deep web adapter additionally runs the
// secondary query at a shallower cap, and the dedicated fact-check API
// gets a deeper one.
func (a *Aggregator) buildTasks(plan Plan) []task {
	primaryDepth := a.cfg.PrimaryDepth
	if primaryDepth <= 0 {
		primaryDepth = 5
	}
	secondaryDepth := a.cfg.SecondaryDepth
	if secondaryDepth <= 0 {
		secondaryDepth = 3
	}
	factCheckDepth := a.cfg.FactCheckDepth
	if factCheckDepth <= 0 {
		factCheckDepth = 10
	}

	var tasks []task
	for _, adapter := range a.adapters {
		opts := Options{MaxResults: primaryDepth, Language: plan.Language}
		if adapter.Name() == "factcheck" {
			opts.MaxResults = factCheckDepth
		}
		tasks = append(tasks, task{
			id:      adapter.Name(),
			adapter: adapter,
			query:   plan.Primary,
			opts:    opts,
		})

		if adapter.Name() == "tavily" && plan.Secondary != "" {
			tasks = append(tasks, task{
				id:      "tavily_secondary",
				adapter: adapter,
				query:   plan.Secondary,
				opts:    Options{MaxResults: secondaryDepth, Language: plan.Language},
			})
		}
	}
	return tasks
}

// Search runs every task concurrently, collects partial results, and
// post-processes them. A failed adapter is logged to w and contributes
// zero results; it never cancels its siblings.
func (a *Aggregator) Search(ctx context.Context, plan Plan, w io.Writer) Output {
	tasks := a.buildTasks(plan)

	type taskResult struct {
		id      string
		results []types.SearchResult
		err     error
	}

	ch := make(chan taskResult, len(tasks))
	var wg sync.WaitGroup

	for _, t := range tasks {
		wg.Add(1)
		go func(t task) {
			defer wg.Done()
			results, err := t.adapter.Search(ctx, t.query, t.opts)
			ch <- taskResult{id: t.id, results: results, err: err}
		}(t)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var all []types.SearchResult
	var adapterErrors []string
	for tr := range ch {
		if tr.err != nil {
			adapterErrors = append(adapterErrors, fmt.Sprintf("%s: %v", tr.id, tr.err))
			fmt.Fprintf(w, "warning: adapter %s failed: %v\n", tr.id, tr.err)
			continue
		}
		all = append(all, tr.results...)
	}

	return a.finish(all, adapterErrors)
}

// SearchStreaming runs the tasks sequentially, emitting a "searching"
// event before and a "found" or "error" event after each one, in
// invocation order. It trades total latency for deterministic progress
// ordering.
func (a *Aggregator) SearchStreaming(ctx context.Context, plan Plan, emit func(Event)) Output {
	tasks := a.buildTasks(plan)

	var all []types.SearchResult
	var adapterErrors []string

	for _, t := range tasks {
		name := DisplayName(t.id)
		emit(Event{Source: name, Status: "searching"})

		results, err := t.adapter.Search(ctx, t.query, t.opts)
		if err != nil {
			adapterErrors = append(adapterErrors, fmt.Sprintf("%s: %v", t.id, err))
			emit(Event{Source: name, Status: "error"})
			continue
		}
		all = append(all, results...)
		emit(Event{Source: name, Status: "found", Count: len(results)})
	}

	return a.finish(all, adapterErrors)
}

func (a *Aggregator) finish(all []types.SearchResult, adapterErrors []string) Output {
	maxPerDomain := a.cfg.MaxPerDomain
	if maxPerDomain <= 0 {
		maxPerDomain = 3
	}

	deduped := deduplicate(all, maxPerDomain)
	ranked := rankByReliability(deduped)

	return Output{
		Results:       ranked,
		RawCount:      len(all),
		DedupCount:    len(deduped),
		Diversity:     score.Diversity(ranked),
		AdapterErrors: adapterErrors,
	}
}

// deduplicate drops results once their domain has contributed maxPerDomain
// entries, and drops results whose snippet prefix duplicates one already
// kept.
func deduplicate(results []types.SearchResult, maxPerDomain int) []types.SearchResult {
	domainCounts := make(map[string]int)
	seenSnippets := make(map[string]bool)
	var deduped []types.SearchResult

	for _, r := range results {
		domain := score.Domain(r.URL)
		if domain != "" && domainCounts[domain] >= maxPerDomain {
			continue
		}

		key := snippetKey(r.Snippet)
		if key != "" && seenSnippets[key] {
			continue
		}

		deduped = append(deduped, r)
		domainCounts[domain]++
		if key != "" {
			seenSnippets[key] = true
		}
	}
	return deduped
}

// snippetKey is the case-folded first 100 characters of the snippet.
func snippetKey(snippet string) string {
	key := strings.ToLower(strings.TrimSpace(snippet))
	if runes := []rune(key); len(runes) > 100 {
		key = string(runes[:100])
	}
	return key
}

// rankByReliability sorts results descending by reliability score. Ties
// keep relative input order so equally reliable sources stay grouped by
// adapter.
func rankByReliability(results []types.SearchResult) []types.SearchResult {
	ranked := make([]types.SearchResult, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		si, _ := score.ResultReliability(ranked[i])
		sj, _ := score.ResultReliability(ranked[j])
		return si > sj
	})
	return ranked
}
