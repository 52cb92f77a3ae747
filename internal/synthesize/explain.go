// Copyright CrisisWatch Labs, 2026. All rights reserved.

package synthesize

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/crisiswatch/claimwatch/pkg/types"
)

// ExplainInput carries everything the explanation stage needs.
type ExplainInput struct {
	Claim      types.Claim
	Verdict    types.Verdict
	Confidence float64
	Severity   types.Severity
	Evidence   []types.Evidence
	Reasoning  string

	// TranslatedLanguage, when non-empty, requests a second explanation
	// in that language, generated concurrently with the primary one.
	TranslatedLanguage string
}

// Explanation is the explanation stage output.
type Explanation struct {
	Text       string
	Correction string

	// Translated is the explanation in the requested secondary language,
	// empty when none was requested or its generation failed.
	Translated string
}

type explanationResponse struct {
	Explanation string `json:"explanation"`
	Correction  string `json:"correction"`
}

// Explain generates the public-facing explanation and a shareable
// correction. The primary and translated explanations run concurrently.
// Failures never propagate: a templated one-line verdict statement stands
// in when the model cannot deliver.
func (s *Synthesizer) Explain(ctx context.Context, in ExplainInput) Explanation {
	evidenceText := formatExplanationEvidence(in.Evidence)
	confidencePct := int(in.Confidence * 100)

	var (
		wg         sync.WaitGroup
		primary    explanationResponse
		primaryOK  bool
		translated explanationResponse
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		prompt := fmt.Sprintf(explanationPrompt,
			in.Claim.Text, in.Verdict, confidencePct, in.Severity, evidenceText, in.Reasoning)
		primary, primaryOK = s.generateExplanation(ctx, prompt)
	}()

	if in.TranslatedLanguage != "" && in.TranslatedLanguage != in.Claim.Language {
		wg.Add(1)
		go func() {
			defer wg.Done()
			prompt := fmt.Sprintf(translatedExplanationPrompt,
				in.TranslatedLanguage, in.Claim.Text, in.Verdict, confidencePct, in.Severity, evidenceText, in.Reasoning)
			translated, _ = s.generateExplanation(ctx, prompt)
		}()
	}

	wg.Wait()

	out := Explanation{
		Text:       primary.Explanation,
		Correction: primary.Correction,
		Translated: translated.Explanation,
	}
	if !primaryOK || out.Text == "" {
		out.Text = fmt.Sprintf("This claim has been rated as %s with %d%% confidence.", in.Verdict, confidencePct)
	}
	return out
}

func (s *Synthesizer) generateExplanation(ctx context.Context, prompt string) (explanationResponse, bool) {
	response, err := s.gen.Generate(ctx, prompt,
		"You are a crisis communication expert. Generate clear, helpful explanations. Respond with valid JSON.",
		0.5, 0)
	if err != nil {
		return explanationResponse{}, false
	}

	var parsed explanationResponse
	if err := Decode(response, &parsed); err != nil {
		return explanationResponse{}, false
	}
	return parsed, true
}

// formatExplanationEvidence renders the top evidence for the explanation
// prompt, one line per source.
func formatExplanationEvidence(evidence []types.Evidence) string {
	top := evidence
	if len(top) > 5 {
		top = top[:5]
	}

	var b strings.Builder
	for _, e := range top {
		fmt.Fprintf(&b, "- %s: %s (Stance: %s)\n", e.SourceName, e.Snippet, e.Stance)
	}
	if b.Len() == 0 {
		return "Limited evidence found."
	}
	return b.String()
}
