// Copyright CrisisWatch Labs, 2026. All rights reserved.

// Package synthesize turns raw input into a normalized claim and search
// results into a stance-tagged verdict, using a language model for the
// reasoning steps while degrading gracefully when the model misbehaves.
package synthesize

import (
	"context"
	"fmt"
	"strings"

	"github.com/crisiswatch/claimwatch/internal/llm"
	"github.com/crisiswatch/claimwatch/internal/score"
	"github.com/crisiswatch/claimwatch/pkg/types"
)

// shortInputLimit is the raw-input length below which extraction skips
// the model and uses the input verbatim as the claim.
const shortInputLimit = 10

// simpleClaimLimit is the claim length below which query planning uses
// templated queries instead of a model call.
const simpleClaimLimit = 100

// topResultsForPrompt caps how many ranked results feed the synthesis
// prompt.
const topResultsForPrompt = 10

// fallbackEvidenceLimit caps how many results become neutral evidence
// when the model produces no usable findings.
const fallbackEvidenceLimit = 5

// Synthesizer drives the model-backed stages of verification.
type Synthesizer struct {
	gen llm.Generator
}

// New builds a Synthesizer over the given generator.
func New(gen llm.Generator) *Synthesizer {
	return &Synthesizer{gen: gen}
}

type extractionResponse struct {
	MainClaim     string   `json:"main_claim"`
	Category      string   `json:"category"`
	Entities      []string `json:"entities"`
	IsCheckworthy *bool    `json:"is_checkworthy"`
	Reason        string   `json:"reason"`
}

// ErrNotCheckworthy marks input that is pure opinion rather than a
// verifiable factual claim.
type ErrNotCheckworthy struct {
	Reason string
}

func (e *ErrNotCheckworthy) Error() string {
	return fmt.Sprintf("claim not checkworthy: %s", e.Reason)
}

// ExtractClaim restates raw input as a normalized claim. Very short input
// is taken verbatim. Model or parse failures fall back to the raw input
// rather than failing the run; the only hard rejection is input the model
// explicitly flags as pure opinion.
func (s *Synthesizer) ExtractClaim(ctx context.Context, rawInput, language string) (types.Claim, error) {
	trimmed := strings.TrimSpace(rawInput)
	if len(trimmed) < shortInputLimit {
		return types.Claim{Text: trimmed, Language: language}, nil
	}

	prompt := fmt.Sprintf(claimExtractionPrompt, rawInput)
	response, err := s.gen.Generate(ctx, prompt,
		"You are a fact-checking assistant. Always respond with valid JSON. Be generous - most claims can be fact-checked.",
		0.3, 0)
	if err != nil {
		return types.Claim{Text: trimmed, Language: language}, nil
	}

	var parsed extractionResponse
	if err := Decode(response, &parsed); err != nil {
		return types.Claim{Text: trimmed, Language: language}, nil
	}

	if parsed.IsCheckworthy != nil && !*parsed.IsCheckworthy &&
		strings.Contains(strings.ToLower(parsed.Reason), "opinion") {
		return types.Claim{}, &ErrNotCheckworthy{Reason: parsed.Reason}
	}

	text := parsed.MainClaim
	if text == "" {
		text = trimmed
	}

	return types.Claim{
		Text:     text,
		Language: language,
		Category: parsed.Category,
		Entities: parsed.Entities,
	}, nil
}

type queryPlanResponse struct {
	Queries []struct {
		Query   string `json:"query"`
		Purpose string `json:"purpose"`
	} `json:"queries"`
}

// PlanQueries produces search queries for the claim. Simple claims (short
// text or few entities) use templated queries without a model round-trip;
// everything falls back to the claim text itself.
func (s *Synthesizer) PlanQueries(ctx context.Context, claim types.Claim) []string {
	if len(claim.Text) < simpleClaimLimit || len(claim.Entities) < 3 {
		queries := []string{
			claim.Text,
			claim.Text + " fact check",
			claim.Text + " true or false",
		}
		if len(claim.Entities) > 0 {
			n := len(claim.Entities)
			if n > 3 {
				n = 3
			}
			queries = append(queries, strings.Join(claim.Entities[:n], " ")+" news")
		}
		return queries
	}

	prompt := fmt.Sprintf(queryPlanningPrompt, claim.Text)
	response, err := s.gen.Generate(ctx, prompt,
		"You are a research assistant. Always respond with valid JSON.", 0.5, 0)
	if err != nil {
		return []string{claim.Text}
	}

	var parsed queryPlanResponse
	if err := Decode(response, &parsed); err != nil {
		return []string{claim.Text}
	}

	var queries []string
	for _, q := range parsed.Queries {
		if q.Query != "" {
			queries = append(queries, q.Query)
		}
	}
	if len(queries) == 0 {
		return []string{claim.Text}
	}
	return queries
}

// Outcome is the synthesis stage result, before calibration.
type Outcome struct {
	Verdict            types.Verdict
	Confidence         float64
	Severity           types.Severity
	Evidence           []types.Evidence
	OverallReliability float64
	Reasoning          string
	Degraded           bool
}

type synthesisResponse struct {
	Verdict     string  `json:"verdict"`
	Confidence  float64 `json:"confidence"`
	Severity    string  `json:"severity"`
	KeyFindings []struct {
		Source  string `json:"source"`
		Finding string `json:"finding"`
		Stance  string `json:"stance"`
	} `json:"key_findings"`
	SourceAgreement string   `json:"source_agreement"`
	Reasoning       string   `json:"reasoning"`
	DetectedTactics []string `json:"detected_tactics"`
}

// Synthesize weighs ranked search results into a verdict with supporting
// evidence. A failed model call degrades to a fixed unverifiable outcome;
// an unparseable model answer is kept as an unstructured summary. Both
// carry the top results as neutral evidence instead of returning an error.
func (s *Synthesizer) Synthesize(ctx context.Context, claim types.Claim, results []types.SearchResult, diversity float64) Outcome {
	if len(results) == 0 {
		return Outcome{
			Verdict:    types.VerdictUnverifiable,
			Confidence: 0.3,
			Severity:   types.SeverityMedium,
		}
	}

	top := results
	if len(top) > topResultsForPrompt {
		top = top[:topResultsForPrompt]
	}

	prompt := fmt.Sprintf(synthesisPrompt,
		claim.Text, formatEvidence(top), len(top), diversity*100, misinfoPatterns)

	response, err := s.gen.Generate(ctx, prompt,
		"You are an expert fact-checker. Analyze evidence objectively and respond with valid JSON. Consider source reliability scores when weighing evidence.",
		0.3, 0)
	if err != nil {
		return degradedOutcome(results, fmt.Sprintf("Error during analysis: %v", err))
	}

	var parsed synthesisResponse
	if err := Decode(response, &parsed); err != nil {
		// The model answered but not in a parseable form. Keep the raw
		// text as an unstructured summary with default verdict and
		// neutral fallback evidence; this is a recoverable answer, not
		// a failed call.
		evidence := fallbackEvidence(results)
		return Outcome{
			Verdict:            types.VerdictUnverifiable,
			Confidence:         0.5,
			Severity:           types.SeverityMedium,
			Evidence:           evidence,
			OverallReliability: meanReliability(evidence),
			Reasoning:          strings.TrimSpace(response),
		}
	}

	verdict := parseVerdict(parsed.Verdict)
	severity := parseSeverity(parsed.Severity)

	evidence := buildEvidence(parsed.KeyFindings, results)
	if len(evidence) == 0 {
		evidence = fallbackEvidence(results)
	}

	reasoning := parsed.Reasoning
	if len(parsed.DetectedTactics) > 0 {
		reasoning += " Detected tactics: " + strings.Join(parsed.DetectedTactics, ", ") + "."
	}

	return Outcome{
		Verdict:            verdict,
		Confidence:         parsed.Confidence,
		Severity:           severity,
		Evidence:           evidence,
		OverallReliability: meanReliability(evidence),
		Reasoning:          reasoning,
	}
}

// formatEvidence renders ranked results for the synthesis prompt, one
// numbered block per result with its reliability annotation.
func formatEvidence(results []types.SearchResult) string {
	var b strings.Builder
	for i, r := range results {
		reliability, category := score.ResultReliability(r)
		fmt.Fprintf(&b, "\n%d. [%s] %s (Reliability: %.0f%%, Type: %s)\n", i+1, r.Adapter, r.Title, reliability*100, category)
		fmt.Fprintf(&b, "   URL: %s\n", r.URL)
		fmt.Fprintf(&b, "   Content: %s...\n", truncateRunes(r.Snippet, 350))
	}
	return b.String()
}

// buildEvidence converts model findings to evidence, matching each
// finding back to a search result to recover the URL and date.
func buildEvidence(findings []struct {
	Source  string `json:"source"`
	Finding string `json:"finding"`
	Stance  string `json:"stance"`
}, results []types.SearchResult) []types.Evidence {
	var evidence []types.Evidence
	for _, f := range findings {
		name := f.Source
		if name == "" {
			name = "Unknown"
		}

		var sourceURL, publishedDate string
		lower := strings.ToLower(name)
		for _, r := range results {
			if strings.Contains(strings.ToLower(r.Title), lower) ||
				strings.Contains(strings.ToLower(r.Adapter), lower) {
				sourceURL = r.URL
				publishedDate = r.PublishedDate
				break
			}
		}

		reliability, category := score.Reliability(sourceURL, name, "web")
		evidence = append(evidence, types.Evidence{
			SourceName:    name,
			SourceURL:     sourceURL,
			Category:      category,
			Snippet:       f.Finding,
			Stance:        parseStance(f.Stance),
			Reliability:   reliability,
			PublishedDate: publishedDate,
		})
	}
	return evidence
}

// fallbackEvidence turns the top ranked results into neutral evidence
// when the model produced no usable findings.
func fallbackEvidence(results []types.SearchResult) []types.Evidence {
	top := results
	if len(top) > fallbackEvidenceLimit {
		top = top[:fallbackEvidenceLimit]
	}

	var evidence []types.Evidence
	for _, r := range top {
		reliability, category := score.ResultReliability(r)
		name := truncateRunes(r.Title, 50)
		if name == "" {
			name = r.Adapter
		}

		evidence = append(evidence, types.Evidence{
			SourceName:    name,
			SourceURL:     r.URL,
			Category:      category,
			Snippet:       truncateRunes(r.Snippet, 300),
			Stance:        types.StanceNeutral,
			Reliability:   reliability,
			PublishedDate: r.PublishedDate,
		})
	}
	return evidence
}

func degradedOutcome(results []types.SearchResult, reasoning string) Outcome {
	evidence := fallbackEvidence(results)
	return Outcome{
		Verdict:            types.VerdictUnverifiable,
		Confidence:         0.3,
		Severity:           types.SeverityMedium,
		Evidence:           evidence,
		OverallReliability: meanReliability(evidence),
		Reasoning:          reasoning,
		Degraded:           true,
	}
}

func meanReliability(evidence []types.Evidence) float64 {
	if len(evidence) == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range evidence {
		sum += e.Reliability
	}
	return sum / float64(len(evidence))
}

func parseVerdict(s string) types.Verdict {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "false":
		return types.VerdictFalse
	case "mostly_false":
		return types.VerdictMostlyFalse
	case "mixed":
		return types.VerdictMixed
	case "mostly_true":
		return types.VerdictMostlyTrue
	case "true":
		return types.VerdictTrue
	default:
		return types.VerdictUnverifiable
	}
}

func parseSeverity(s string) types.Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return types.SeverityCritical
	case "high":
		return types.SeverityHigh
	case "low":
		return types.SeverityLow
	default:
		return types.SeverityMedium
	}
}

func parseStance(s string) types.Stance {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "supports":
		return types.StanceSupports
	case "refutes":
		return types.StanceRefutes
	default:
		return types.StanceNeutral
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
