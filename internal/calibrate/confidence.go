// Copyright CrisisWatch Labs, 2026. All rights reserved.

// Package calibrate adjusts raw verdict confidence using evidence
// composition, and upgrades hedged verdicts when confidence is high.
// Every function here is deterministic and side-effect-free.
package calibrate

import (
	"fmt"
	"math"
	"strings"

	"github.com/crisiswatch/claimwatch/pkg/types"
)

// pseudoscienceKeywords lists claim fragments that well-documented
// debunkings cover. A false verdict on a matching claim gets a confidence
// floor rather than whatever the reasoning call produced.
var pseudoscienceKeywords = []string{
	"urine cure", "cow urine", "gomutra", "urine therapy",
	"bleach cure", "mms cure", "miracle mineral",
	"5g cause", "5g corona", "5g covid", "5g towers spread",
	"vaccine autism", "vaccines cause autism",
	"flat earth", "earth is flat",
	"homeopathy cure cancer", "homeopathic cancer",
	"crystal heal", "healing crystals cure",
	"essential oil cure", "oils cure cancer",
	"alkaline water cure", "alkaline diet cancer",
	"black salve", "colloidal silver cure",
	"turpentine cure", "kerosene medicine",
	"magnetic therapy cure", "magnet heal",
}

// Confidence applies the rule-ordered calibration to a raw confidence
// value. It returns the calibrated confidence and a human-readable
// rationale listing every adjustment that fired.
//
// With no evidence at all, calibration short-circuits to min(raw, 0.4).
func Confidence(cfg types.CalibrationConfig, raw float64, verdict types.Verdict, evidence []types.Evidence, claimText string) (float64, string) {
	if len(evidence) == 0 {
		return math.Max(cfg.MinConfidence, math.Min(raw, 0.4)), "Limited evidence available"
	}

	confidence := raw
	var adjustments []string

	// Rule 0: known pseudoscience floor.
	if claimText != "" && verdict.IsFalseVariant() {
		lower := strings.ToLower(claimText)
		for _, kw := range pseudoscienceKeywords {
			if strings.Contains(lower, kw) {
				if confidence < cfg.PseudoscienceFloor {
					old := confidence
					confidence = cfg.PseudoscienceFloor
					adjustments = append(adjustments, fmt.Sprintf(
						"Boosted from %.0f%% to %.0f%%: matches known debunked pseudoscience pattern",
						old*100, confidence*100))
				}
				break
			}
		}
	}

	var supports, refutes int
	var highRelSupports, highRelRefutes int
	var factCheckRefutes, officialRefutes int

	for _, e := range evidence {
		switch e.Stance {
		case types.StanceSupports:
			supports++
			if e.Reliability >= cfg.HighReliability {
				highRelSupports++
			}
		case types.StanceRefutes:
			refutes++
			if e.Reliability >= cfg.HighReliability {
				highRelRefutes++
			}
			if e.Category == types.CategoryFactCheck {
				factCheckRefutes++
			}
			if e.Category == types.CategoryOfficial {
				officialRefutes++
			}
		}
	}

	// Rule 1: fact-check organizations already debunked the claim.
	if factCheckRefutes > 0 && verdict.IsFalseVariant() {
		boost := cfg.FactCheckBoost * float64(factCheckRefutes)
		confidence += boost
		adjustments = append(adjustments, fmt.Sprintf("+%.0f%% from fact-check sources", boost*100))
	}

	// Rule 2: official sources contradict the claim.
	if officialRefutes > 0 {
		boost := cfg.OfficialBoost * float64(officialRefutes)
		confidence += boost
		adjustments = append(adjustments, fmt.Sprintf("+%.0f%% from official sources", boost*100))
	}

	// Rule 3: three or more high-reliability sources agree with the verdict.
	if verdict.IsFalseVariant() && highRelRefutes >= 3 {
		boost := cfg.AgreementBoost * float64(highRelRefutes-2)
		confidence += boost
		adjustments = append(adjustments, fmt.Sprintf(
			"+%.0f%% from %d agreeing high-reliability sources", boost*100, highRelRefutes))
	} else if verdict.IsTrueVariant() && highRelSupports >= 3 {
		boost := cfg.AgreementBoost * float64(highRelSupports-2)
		confidence += boost
		adjustments = append(adjustments, fmt.Sprintf(
			"+%.0f%% from %d agreeing high-reliability sources", boost*100, highRelSupports))
	}

	// Rule 4: penalize near-even stance conflicts.
	if supports > 0 && refutes > 0 {
		ratio := float64(min(supports, refutes)) / float64(max(supports, refutes))
		if ratio > 0.5 {
			penalty := cfg.ConflictPenalty * ratio
			confidence -= penalty
			adjustments = append(adjustments, fmt.Sprintf("-%.0f%% due to conflicting sources", penalty*100))
		}
	}

	// Rule 5: thin evidence.
	if len(evidence) < 3 {
		confidence *= 0.85
		adjustments = append(adjustments, "-15% due to limited evidence")
	}

	// Rule 6: unverifiable verdicts never exceed 50%. The note is
	// recorded even when the cap changes nothing.
	if verdict == types.VerdictUnverifiable {
		confidence = math.Min(confidence, 0.5)
		adjustments = append(adjustments, "Capped at 50% for unverifiable claims")
	}

	confidence = math.Max(cfg.MinConfidence, math.Min(confidence, cfg.MaxConfidence))

	rationale := "No calibration adjustments"
	if len(adjustments) > 0 {
		rationale = strings.Join(adjustments, "; ")
	}
	return confidence, rationale
}
