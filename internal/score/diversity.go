// Copyright CrisisWatch Labs, 2026. All rights reserved.

package score

import (
	"math"

	"github.com/crisiswatch/claimwatch/pkg/types"
)

// Diversity measures how varied a deduplicated result set is, in [0,1].
//
// Two components: a domain component from the unique-domain ratio (capped
// at 0.5, penalized when one domain holds more than 40% of the results)
// and a category component from coverage of the five canonical categories
// plus fixed bonuses for fact-check and official presence. Empty input
// yields 0.
func Diversity(results []types.SearchResult) float64 {
	if len(results) == 0 {
		return 0.0
	}

	domains := make(map[string]int)
	categories := make(map[types.SourceCategory]bool)

	for _, r := range results {
		if d := Domain(r.URL); d != "" {
			domains[d]++
		}
		_, cat := ResultReliability(r)
		categories[cat] = true
	}

	total := float64(len(results))

	domainScore := math.Min(0.5, float64(len(domains))/total*0.6)

	maxPerDomain := 0
	for _, n := range domains {
		if n > maxPerDomain {
			maxPerDomain = n
		}
	}
	if ratio := float64(maxPerDomain) / total; ratio > 0.4 {
		domainScore *= 1 - (ratio - 0.4)
	}

	canonical := []types.SourceCategory{
		types.CategoryFactCheck, types.CategoryNews, types.CategoryOfficial,
		types.CategoryWikipedia, types.CategoryWeb,
	}
	covered := 0
	for _, c := range canonical {
		if categories[c] {
			covered++
		}
	}
	categoryScore := float64(covered) / float64(len(canonical)) * 0.5

	if categories[types.CategoryFactCheck] {
		categoryScore += 0.1
	}
	if categories[types.CategoryOfficial] {
		categoryScore += 0.1
	}

	return round3(math.Min(1.0, domainScore+categoryScore))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
