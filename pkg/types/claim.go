// Copyright CrisisWatch Labs, 2026. All rights reserved.

// Package types defines shared data structures for the claimwatch pipeline.
//
// See docs/ARCHITECTURE.md § Pipeline Interface, § Data Structures.
package types

import "time"

// Verdict classifies a verified claim.
type Verdict string

const (
	VerdictFalse        Verdict = "false"
	VerdictMostlyFalse  Verdict = "mostly_false"
	VerdictMixed        Verdict = "mixed"
	VerdictMostlyTrue   Verdict = "mostly_true"
	VerdictTrue         Verdict = "true"
	VerdictUnverifiable Verdict = "unverifiable"
)

// IsFalseVariant reports whether the verdict is false or mostly_false.
func (v Verdict) IsFalseVariant() bool {
	return v == VerdictFalse || v == VerdictMostlyFalse
}

// IsTrueVariant reports whether the verdict is true or mostly_true.
func (v Verdict) IsTrueVariant() bool {
	return v == VerdictTrue || v == VerdictMostlyTrue
}

// Severity grades the harm potential of a piece of misinformation.
type Severity string

const (
	// SeverityCritical marks claims that could cause immediate physical
	// harm or mass panic (fake evacuation routes, dangerous remedies).
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// SourceCategory is the canonical category a source falls into.
type SourceCategory string

const (
	CategoryFactCheck SourceCategory = "fact_check"
	CategoryNews      SourceCategory = "news"
	CategoryOfficial  SourceCategory = "official"
	CategoryWikipedia SourceCategory = "wikipedia"
	CategoryWeb       SourceCategory = "web"
)

// Stance records whether a piece of evidence supports or refutes the claim.
type Stance string

const (
	StanceSupports Stance = "supports"
	StanceRefutes  Stance = "refutes"
	StanceNeutral  Stance = "neutral"
)

// Claim is a normalized factual statement to be verified. It is created
// once by the extraction stage and immutable afterwards.
type Claim struct {
	// Text is the claim to verify, restated by the extraction stage.
	Text string `json:"text" yaml:"text"`

	// Language is the claim language code (e.g. "en", "hi").
	Language string `json:"language" yaml:"language"`

	// Category tags the claim topic (health, politics, science, ...).
	// Empty when extraction could not classify it.
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	// Entities lists named entities extracted from the claim.
	Entities []string `json:"entities,omitempty" yaml:"entities,omitempty"`
}

// SearchResult is a raw hit returned by an evidence source adapter.
// Transient: produced per run and never persisted individually.
type SearchResult struct {
	// Title is the result title as returned by the source.
	Title string `json:"title" yaml:"title"`

	// URL locates the result.
	URL string `json:"url" yaml:"url"`

	// Snippet is the relevant text excerpt.
	Snippet string `json:"snippet" yaml:"snippet"`

	// Adapter identifies which adapter produced this result
	// (e.g. "tavily", "newsapi", "factcheck_aggregator:snopes").
	Adapter string `json:"adapter" yaml:"adapter"`

	// PublishedDate is the publication date if the source reported one.
	PublishedDate string `json:"published_date,omitempty" yaml:"published_date,omitempty"`
}

// Evidence is a scored, stance-tagged excerpt supporting or refuting a claim.
type Evidence struct {
	// SourceName names the source (e.g. "WHO", "Reuters").
	SourceName string `json:"source_name" yaml:"source_name"`

	// SourceURL locates the source, when known.
	SourceURL string `json:"source_url,omitempty" yaml:"source_url,omitempty"`

	// Category is the canonical source category.
	Category SourceCategory `json:"category" yaml:"category"`

	// Snippet is the relevant excerpt or finding.
	Snippet string `json:"snippet" yaml:"snippet"`

	// Stance records whether the evidence supports or refutes the claim.
	Stance Stance `json:"stance" yaml:"stance"`

	// Reliability is the source trust weight in [0,1].
	Reliability float64 `json:"reliability" yaml:"reliability"`

	// PublishedDate is the source publication date if available.
	PublishedDate string `json:"published_date,omitempty" yaml:"published_date,omitempty"`
}

// VerificationResult is the complete outcome of verifying one claim.
type VerificationResult struct {
	Claim Claim `json:"claim" yaml:"claim"`

	Verdict    Verdict  `json:"verdict" yaml:"verdict"`
	Confidence float64  `json:"confidence" yaml:"confidence"`
	Severity   Severity `json:"severity" yaml:"severity"`

	// Explanation is the human-readable verdict explanation.
	Explanation string `json:"explanation" yaml:"explanation"`

	// TranslatedExplanation is the explanation in the secondary output
	// language, when one is configured.
	TranslatedExplanation string `json:"translated_explanation,omitempty" yaml:"translated_explanation,omitempty"`

	// Correction is a short shareable correction message.
	Correction string `json:"correction,omitempty" yaml:"correction,omitempty"`

	Evidence []Evidence `json:"evidence" yaml:"evidence"`

	// SourcesChecked counts the deduplicated results that fed synthesis.
	SourcesChecked int `json:"sources_checked" yaml:"sources_checked"`

	// OverallReliability is the mean reliability of the evidence, 0 if none.
	OverallReliability float64 `json:"overall_reliability" yaml:"overall_reliability"`

	// Diversity measures domain and category variety of the result set.
	Diversity float64 `json:"diversity" yaml:"diversity"`

	// Cached reports that the result was answered from the claim cache.
	// Cached results carry no evidence list.
	Cached bool `json:"cached,omitempty" yaml:"cached,omitempty"`

	CheckedAt time.Time     `json:"checked_at" yaml:"checked_at"`
	Elapsed   time.Duration `json:"elapsed" yaml:"elapsed"`
}
