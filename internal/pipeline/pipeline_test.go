package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/crisiswatch/claimwatch/internal/cache"
	"github.com/crisiswatch/claimwatch/internal/history"
	"github.com/crisiswatch/claimwatch/internal/search"
	"github.com/crisiswatch/claimwatch/internal/synthesize"
	"github.com/crisiswatch/claimwatch/pkg/types"
)

// mockGenerator returns canned responses in call order. Batch runs share
// one generator across goroutines, so it locks.
type mockGenerator struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     int
}

func (m *mockGenerator) Generate(_ context.Context, _, _ string, _ float32, _ int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	i := m.calls
	m.calls++
	if i >= len(m.responses) {
		i = len(m.responses) - 1
	}
	return m.responses[i], nil
}

type mockAdapter struct {
	name    string
	results []types.SearchResult
	err     error
}

func (m *mockAdapter) Name() string { return m.name }

func (m *mockAdapter) Search(_ context.Context, _ string, _ search.Options) ([]types.SearchResult, error) {
	return m.results, m.err
}

const (
	extractionResponse = `{"main_claim": "5G towers spread COVID-19", "category": "health", "entities": ["5G", "COVID-19"], "is_checkworthy": true, "reason": "verifiable"}`

	synthesisResponse = `{
		"verdict": "false",
		"confidence": 0.85,
		"severity": "high",
		"key_findings": [
			{"source": "WHO", "finding": "Viruses cannot travel on radio waves", "stance": "refutes"}
		],
		"reasoning": "Official sources refute the claim."
	}`

	explanationResponse = `{"explanation": "The claim is false.", "correction": "5G does not spread COVID-19."}`
)

func resultsFixture() []types.SearchResult {
	return []types.SearchResult{
		{Title: "WHO: 5G does not spread viruses", URL: "https://www.who.int/news/item/5g", Snippet: "Viruses cannot travel on radio waves.", Adapter: "tavily"},
		{Title: "Fact-check by Snopes", URL: "https://www.snopes.com/fact-check/5g", Snippet: "Rating: False.", Adapter: "factcheck"},
		{Title: "5G", URL: "https://en.wikipedia.org/wiki/5G", Snippet: "5G is a cellular network standard.", Adapter: "wikipedia"},
	}
}

func newTestChecker(gen *mockGenerator, adapters ...search.Adapter) *Checker {
	cfg := types.PipelineConfig{
		Calibration:     types.DefaultCalibration(),
		DefaultLanguage: "en",
	}
	agg := search.NewAggregator(types.SearchConfig{MaxPerDomain: 3}, adapters...)
	claimCache := cache.New(types.CacheConfig{}, io.Discard)
	return NewChecker(cfg, synthesize.New(gen), agg, claimCache, nil, io.Discard)
}

func TestRunFalseClaim(t *testing.T) {
	gen := &mockGenerator{responses: []string{extractionResponse, synthesisResponse, explanationResponse}}
	checker := newTestChecker(gen, &mockAdapter{name: "tavily", results: resultsFixture()})

	result, err := checker.Run(context.Background(), "I heard 5G towers spread COVID through radio waves!", RunOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Verdict != types.VerdictFalse {
		t.Errorf("Verdict = %v, want false", result.Verdict)
	}
	// Pseudoscience floor to 0.90, +0.15 official refutation, then the
	// thin-evidence multiplier: 1.05 * 0.85 = 0.8925.
	if result.Confidence < 0.89 || result.Confidence > 0.90 {
		t.Errorf("Confidence = %v, want ~0.8925", result.Confidence)
	}
	if result.Severity != types.SeverityHigh {
		t.Errorf("Severity = %v", result.Severity)
	}
	if result.SourcesChecked != 3 {
		t.Errorf("SourcesChecked = %d, want 3", result.SourcesChecked)
	}
	if len(result.Evidence) != 1 || result.Evidence[0].Stance != types.StanceRefutes {
		t.Errorf("Evidence = %+v", result.Evidence)
	}
	if result.Explanation != "The claim is false." {
		t.Errorf("Explanation = %q", result.Explanation)
	}
	if result.Correction == "" {
		t.Error("Correction is empty")
	}
	if result.Diversity <= 0 {
		t.Errorf("Diversity = %v", result.Diversity)
	}
	if result.Cached {
		t.Error("Cached = true on a fresh run")
	}
	if result.CheckedAt.IsZero() || result.Elapsed < 0 {
		t.Errorf("timing fields = %v / %v", result.CheckedAt, result.Elapsed)
	}
}

func TestRunServesSecondCallFromCache(t *testing.T) {
	gen := &mockGenerator{responses: []string{extractionResponse, synthesisResponse, explanationResponse}}
	checker := newTestChecker(gen, &mockAdapter{name: "tavily", results: resultsFixture()})

	input := "I heard 5G towers spread COVID through radio waves!"
	first, err := checker.Run(context.Background(), input, RunOptions{})
	if err != nil {
		t.Fatal(err)
	}

	callsAfterFirst := gen.calls
	second, err := checker.Run(context.Background(), input, RunOptions{})
	if err != nil {
		t.Fatal(err)
	}

	if !second.Cached {
		t.Error("second run not served from cache")
	}
	if second.Verdict != first.Verdict || second.Confidence != first.Confidence {
		t.Errorf("cached result diverges: %+v vs %+v", second, first)
	}
	if len(second.Evidence) != 0 {
		t.Errorf("cached Evidence = %v, want empty", second.Evidence)
	}
	if gen.calls != callsAfterFirst {
		t.Errorf("model called %d more times on cache hit", gen.calls-callsAfterFirst)
	}
}

func TestRunSkipCacheBypassesLookup(t *testing.T) {
	gen := &mockGenerator{responses: []string{extractionResponse, synthesisResponse, explanationResponse}}
	checker := newTestChecker(gen, &mockAdapter{name: "tavily", results: resultsFixture()})

	input := "I heard 5G towers spread COVID through radio waves!"
	if _, err := checker.Run(context.Background(), input, RunOptions{}); err != nil {
		t.Fatal(err)
	}

	result, err := checker.Run(context.Background(), input, RunOptions{SkipCache: true})
	if err != nil {
		t.Fatal(err)
	}
	if result.Cached {
		t.Error("SkipCache run was served from cache")
	}
}

func TestRunNoSearchResults(t *testing.T) {
	gen := &mockGenerator{responses: []string{extractionResponse, explanationResponse}}
	checker := newTestChecker(gen, &mockAdapter{name: "tavily"})

	result, err := checker.Run(context.Background(), "I heard 5G towers spread COVID through radio waves!", RunOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Verdict != types.VerdictUnverifiable {
		t.Errorf("Verdict = %v, want unverifiable", result.Verdict)
	}
	if result.Confidence != 0.3 {
		t.Errorf("Confidence = %v, want 0.3", result.Confidence)
	}
	if result.Severity != types.SeverityMedium {
		t.Errorf("Severity = %v, want medium", result.Severity)
	}
	if result.SourcesChecked != 0 || len(result.Evidence) != 0 {
		t.Errorf("SourcesChecked = %d, Evidence = %v", result.SourcesChecked, result.Evidence)
	}
}

func TestRunRejectsOpinion(t *testing.T) {
	gen := &mockGenerator{responses: []string{
		`{"is_checkworthy": false, "reason": "pure opinion about food"}`,
	}}
	checker := newTestChecker(gen, &mockAdapter{name: "tavily"})

	_, err := checker.Run(context.Background(), "pizza is clearly the best food in the world", RunOptions{})
	if err == nil {
		t.Fatal("expected not-checkworthy error")
	}
	if !strings.Contains(err.Error(), "not checkworthy") {
		t.Errorf("err = %v", err)
	}
}

func TestRunStreamingEmitsEvents(t *testing.T) {
	gen := &mockGenerator{responses: []string{extractionResponse, synthesisResponse, explanationResponse}}
	checker := newTestChecker(gen,
		&mockAdapter{name: "wikipedia", results: resultsFixture()[:1]},
		&mockAdapter{name: "newsapi", err: fmt.Errorf("boom")},
	)

	var events []search.Event
	result, err := checker.Run(context.Background(), "I heard 5G towers spread COVID through radio waves!", RunOptions{
		Events: func(e search.Event) { events = append(events, e) },
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(events) != 4 {
		t.Fatalf("got %d events, want 4: %+v", len(events), events)
	}
	if events[0].Status != "searching" || events[1].Status != "found" {
		t.Errorf("events = %+v", events)
	}
	if events[3].Status != "error" {
		t.Errorf("events[3] = %+v, want error from failing adapter", events[3])
	}
	if result.SourcesChecked != 1 {
		t.Errorf("SourcesChecked = %d, want 1", result.SourcesChecked)
	}
}

func TestRunRecordsHistory(t *testing.T) {
	gen := &mockGenerator{responses: []string{extractionResponse, synthesisResponse, explanationResponse}}

	hist, err := history.NewStore(types.HistoryConfig{Dir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { hist.Close() })

	cfg := types.PipelineConfig{Calibration: types.DefaultCalibration(), DefaultLanguage: "en"}
	agg := search.NewAggregator(types.SearchConfig{}, &mockAdapter{name: "tavily", results: resultsFixture()})
	checker := NewChecker(cfg, synthesize.New(gen), agg, cache.New(types.CacheConfig{}, io.Discard), hist, io.Discard)

	if _, err := checker.Run(context.Background(), "I heard 5G towers spread COVID through radio waves!", RunOptions{}); err != nil {
		t.Fatal(err)
	}

	stored, err := hist.Query(context.Background(), history.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 {
		t.Fatalf("history entries = %d, want 1", len(stored))
	}
	if stored[0].Verdict != types.VerdictFalse {
		t.Errorf("stored verdict = %v", stored[0].Verdict)
	}
}

func TestBatch(t *testing.T) {
	gen := &mockGenerator{responses: []string{extractionResponse, synthesisResponse, explanationResponse, explanationResponse}}
	checker := newTestChecker(gen, &mockAdapter{name: "tavily", results: resultsFixture()})

	// Pre-populate the cache for the first input.
	input := "I heard 5G towers spread COVID through radio waves!"
	if _, err := checker.Run(context.Background(), input, RunOptions{}); err != nil {
		t.Fatal(err)
	}

	items := checker.Batch(context.Background(), []string{input, "short"}, RunOptions{})
	if len(items) != 2 {
		t.Fatalf("len(items) = %d", len(items))
	}
	if !items[0].Result.Cached {
		t.Error("items[0] not served from cache")
	}
	if items[1].Err != nil {
		t.Errorf("items[1].Err = %v", items[1].Err)
	}
	if items[1].Result.Cached {
		t.Error("items[1] wrongly marked cached")
	}
	if items[1].Input != "short" {
		t.Errorf("items[1].Input = %q", items[1].Input)
	}
}

func TestBatchReusesNearDuplicateResult(t *testing.T) {
	gen := &mockGenerator{responses: []string{extractionResponse, synthesisResponse, explanationResponse}}
	checker := newTestChecker(gen, &mockAdapter{name: "tavily", results: resultsFixture()})

	inputs := []string{
		"5G towers are spreading COVID-19 through radio waves",
		"5G towers are spreading COVID-19 through the radio waves",
	}
	items := checker.Batch(context.Background(), inputs, RunOptions{})

	if items[0].Err != nil {
		t.Fatalf("items[0].Err = %v", items[0].Err)
	}
	if items[1].Err != nil {
		t.Fatalf("items[1].Err = %v", items[1].Err)
	}
	if items[1].Result.Verdict != items[0].Result.Verdict {
		t.Errorf("duplicate verdict = %v, want %v", items[1].Result.Verdict, items[0].Result.Verdict)
	}
	if items[1].Input != inputs[1] {
		t.Errorf("items[1].Input = %q", items[1].Input)
	}

	// Only one claim went through the pipeline: extraction, synthesis,
	// and two explanation calls at most.
	gen.mu.Lock()
	calls := gen.calls
	gen.mu.Unlock()
	if calls > 3 {
		t.Errorf("generator calls = %d, want <= 3", calls)
	}
}

func TestBatchIsolatesFailures(t *testing.T) {
	// First call (extraction of the long claim) fails opinion-style;
	// short inputs skip extraction entirely.
	gen := &mockGenerator{responses: []string{
		`{"is_checkworthy": false, "reason": "pure opinion"}`,
		synthesisResponse,
		explanationResponse,
	}}
	checker := newTestChecker(gen, &mockAdapter{name: "tavily", results: resultsFixture()})

	items := checker.Batch(context.Background(), []string{"pizza is clearly the best food in the world"}, RunOptions{})
	if items[0].Err == nil {
		t.Error("expected error for opinion input")
	}
}
