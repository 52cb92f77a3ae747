// Copyright CrisisWatch Labs, 2026. All rights reserved.

package calibrate

import (
	"strings"
	"testing"

	"github.com/crisiswatch/claimwatch/pkg/types"
)

func cfg() types.CalibrationConfig { return types.DefaultCalibration() }

func evidence(stance types.Stance, cat types.SourceCategory, reliability float64) types.Evidence {
	return types.Evidence{
		SourceName:  "src",
		Category:    cat,
		Snippet:     "snippet",
		Stance:      stance,
		Reliability: reliability,
	}
}

func TestConfidenceEmptyEvidence(t *testing.T) {
	tests := []struct {
		name string
		raw  float64
		want float64
	}{
		{"high raw capped", 0.9, 0.4},
		{"low raw kept", 0.25, 0.25},
		{"below min floored", 0.05, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rationale := Confidence(cfg(), tt.raw, types.VerdictFalse, nil, "anything")
			if got != tt.want {
				t.Errorf("Confidence = %f, want %f", got, tt.want)
			}
			if rationale != "Limited evidence available" {
				t.Errorf("rationale = %q", rationale)
			}
		})
	}
}

func TestConfidenceEmptyEvidenceIgnoresVerdict(t *testing.T) {
	for _, v := range []types.Verdict{
		types.VerdictFalse, types.VerdictTrue, types.VerdictMixed, types.VerdictUnverifiable,
	} {
		got, _ := Confidence(cfg(), 0.9, v, nil, "")
		if got != 0.4 {
			t.Errorf("verdict %s: Confidence = %f, want 0.4", v, got)
		}
	}
}

func TestConfidencePseudoscienceFloor(t *testing.T) {
	ev := []types.Evidence{
		evidence(types.StanceRefutes, types.CategoryWeb, 0.6),
		evidence(types.StanceRefutes, types.CategoryWeb, 0.6),
		evidence(types.StanceRefutes, types.CategoryWeb, 0.6),
	}
	got, rationale := Confidence(cfg(), 0.5, types.VerdictFalse, ev, "5G towers spread the coronavirus")
	if got < 0.90 {
		t.Errorf("Confidence = %f, want >= 0.90", got)
	}
	if !strings.Contains(rationale, "pseudoscience") {
		t.Errorf("rationale missing pseudoscience note: %q", rationale)
	}

	// The floor does not apply to true verdicts.
	got, _ = Confidence(cfg(), 0.5, types.VerdictTrue, ev, "5G towers spread the coronavirus")
	if got >= 0.90 {
		t.Errorf("true verdict got pseudoscience floor: %f", got)
	}
}

func TestConfidenceFactCheckAndOfficialBoosts(t *testing.T) {
	ev := []types.Evidence{
		evidence(types.StanceRefutes, types.CategoryFactCheck, 0.92),
		evidence(types.StanceRefutes, types.CategoryOfficial, 0.95),
		evidence(types.StanceNeutral, types.CategoryWeb, 0.5),
	}
	got, rationale := Confidence(cfg(), 0.5, types.VerdictFalse, ev, "some false claim")
	// 0.5 + 0.20 (fact-check) + 0.15 (official) = 0.85
	if got < 0.84 || got > 0.86 {
		t.Errorf("Confidence = %f, want ~0.85", got)
	}
	if !strings.Contains(rationale, "fact-check sources") || !strings.Contains(rationale, "official sources") {
		t.Errorf("rationale = %q", rationale)
	}
}

func TestConfidenceAgreementBoost(t *testing.T) {
	var ev []types.Evidence
	for i := 0; i < 4; i++ {
		ev = append(ev, evidence(types.StanceSupports, types.CategoryNews, 0.85))
	}
	got, rationale := Confidence(cfg(), 0.6, types.VerdictTrue, ev, "")
	// 0.6 + 0.06*(4-2) = 0.72
	if got < 0.71 || got > 0.73 {
		t.Errorf("Confidence = %f, want ~0.72", got)
	}
	if !strings.Contains(rationale, "agreeing high-reliability sources") {
		t.Errorf("rationale = %q", rationale)
	}
}

func TestConfidenceConflictPenalty(t *testing.T) {
	ev := []types.Evidence{
		evidence(types.StanceSupports, types.CategoryNews, 0.7),
		evidence(types.StanceSupports, types.CategoryNews, 0.7),
		evidence(types.StanceRefutes, types.CategoryNews, 0.7),
		evidence(types.StanceRefutes, types.CategoryNews, 0.7),
	}
	got, rationale := Confidence(cfg(), 0.7, types.VerdictMixed, ev, "")
	// ratio 1.0, penalty 0.15 -> 0.55
	if got < 0.54 || got > 0.56 {
		t.Errorf("Confidence = %f, want ~0.55", got)
	}
	if !strings.Contains(rationale, "conflicting sources") {
		t.Errorf("rationale = %q", rationale)
	}
}

func TestConfidenceThinEvidenceMultiplier(t *testing.T) {
	ev := []types.Evidence{
		evidence(types.StanceNeutral, types.CategoryWeb, 0.5),
		evidence(types.StanceNeutral, types.CategoryWeb, 0.5),
	}
	got, rationale := Confidence(cfg(), 0.6, types.VerdictMixed, ev, "")
	if want := 0.6 * 0.85; got < want-0.001 || got > want+0.001 {
		t.Errorf("Confidence = %f, want %f", got, want)
	}
	if !strings.Contains(rationale, "limited evidence") {
		t.Errorf("rationale = %q", rationale)
	}
}

func TestConfidenceUnverifiableCap(t *testing.T) {
	ev := []types.Evidence{
		evidence(types.StanceNeutral, types.CategoryWeb, 0.5),
		evidence(types.StanceNeutral, types.CategoryWeb, 0.5),
		evidence(types.StanceNeutral, types.CategoryWeb, 0.5),
	}
	got, rationale := Confidence(cfg(), 0.9, types.VerdictUnverifiable, ev, "")
	if got > 0.5 {
		t.Errorf("Confidence = %f, want <= 0.5", got)
	}
	if !strings.Contains(rationale, "Capped at 50% for unverifiable claims") {
		t.Errorf("rationale = %q, want cap note", rationale)
	}

	// The note appears even when the confidence is already below the cap.
	_, rationale = Confidence(cfg(), 0.2, types.VerdictUnverifiable, ev, "")
	if !strings.Contains(rationale, "Capped at 50% for unverifiable claims") {
		t.Errorf("rationale = %q, want cap note for low confidence too", rationale)
	}
}

func TestConfidenceClamp(t *testing.T) {
	ev := []types.Evidence{
		evidence(types.StanceRefutes, types.CategoryFactCheck, 0.92),
		evidence(types.StanceRefutes, types.CategoryFactCheck, 0.92),
		evidence(types.StanceRefutes, types.CategoryFactCheck, 0.92),
		evidence(types.StanceRefutes, types.CategoryOfficial, 0.95),
	}
	got, _ := Confidence(cfg(), 0.9, types.VerdictFalse, ev, "")
	if got > 0.98 {
		t.Errorf("Confidence = %f, want <= 0.98", got)
	}
}

// Scenario from the original system: a pseudoscience claim refuted by one
// fact-check and one official source ends at or above the floor.
func TestConfidenceScenario5G(t *testing.T) {
	ev := []types.Evidence{
		evidence(types.StanceRefutes, types.CategoryFactCheck, 0.9),
		evidence(types.StanceRefutes, types.CategoryOfficial, 0.92),
	}
	got, _ := Confidence(cfg(), 0.6, types.VerdictFalse, ev, "5G towers spread the coronavirus")
	if got < 0.90 {
		t.Errorf("Confidence = %f, want >= 0.90", got)
	}
}

func TestVerdictUpgrade(t *testing.T) {
	tests := []struct {
		name       string
		verdict    types.Verdict
		confidence float64
		want       types.Verdict
	}{
		{"mostly_false upgrades", types.VerdictMostlyFalse, 0.85, types.VerdictFalse},
		{"mostly_true upgrades", types.VerdictMostlyTrue, 0.85, types.VerdictTrue},
		{"below threshold unchanged", types.VerdictMostlyFalse, 0.5, types.VerdictMostlyFalse},
		{"at threshold upgrades", types.VerdictMostlyFalse, 0.80, types.VerdictFalse},
		{"definitive unchanged", types.VerdictFalse, 0.95, types.VerdictFalse},
		{"mixed unchanged", types.VerdictMixed, 0.95, types.VerdictMixed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rationale := Verdict(cfg(), tt.verdict, tt.confidence)
			if got != tt.want {
				t.Errorf("Verdict = %s, want %s", got, tt.want)
			}
			if rationale == "" {
				t.Error("rationale is empty")
			}
		})
	}
}
