// Copyright CrisisWatch Labs, 2026. All rights reserved.

package calibrate

import (
	"fmt"

	"github.com/crisiswatch/claimwatch/pkg/types"
)

// Verdict upgrades a hedged verdict to the definitive one when the
// calibrated confidence clears the configured threshold. The rationale
// always states whether an upgrade occurred.
func Verdict(cfg types.CalibrationConfig, verdict types.Verdict, confidence float64) (types.Verdict, string) {
	if confidence >= cfg.UpgradeThreshold {
		switch verdict {
		case types.VerdictMostlyFalse:
			return types.VerdictFalse, fmt.Sprintf(
				"Upgraded mostly_false to false at %.0f%% confidence (threshold %.0f%%)",
				confidence*100, cfg.UpgradeThreshold*100)
		case types.VerdictMostlyTrue:
			return types.VerdictTrue, fmt.Sprintf(
				"Upgraded mostly_true to true at %.0f%% confidence (threshold %.0f%%)",
				confidence*100, cfg.UpgradeThreshold*100)
		}
	}
	return verdict, fmt.Sprintf("No upgrade: verdict %s at %.0f%% confidence", verdict, confidence*100)
}
