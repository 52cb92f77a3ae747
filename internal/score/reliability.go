// Copyright CrisisWatch Labs, 2026. All rights reserved.

// Package score assigns reliability and diversity scores to evidence sources.
//
// Both scorers are pure functions over static tables: identical inputs
// always yield identical outputs. Calibration depends on that.
package score

import (
	"strings"

	"github.com/crisiswatch/claimwatch/pkg/types"
)

// officialDomains maps government and intergovernmental domains to scores.
var officialDomains = map[string]float64{
	// International organizations
	"who.int":       0.95,
	"un.org":        0.95,
	"unicef.org":    0.95,
	"worldbank.org": 0.90,
	"imf.org":       0.90,
	"icrc.org":      0.92,
	"ifrc.org":      0.92,

	// Indian government
	"india.gov.in":  0.95,
	"pib.gov.in":    0.95,
	"ndma.gov.in":   0.95,
	"mha.gov.in":    0.95,
	"mohfw.gov.in":  0.95,
	"icmr.gov.in":   0.93,
	"imd.gov.in":    0.93,
	"incois.gov.in": 0.93,

	// US government
	"cdc.gov":  0.95,
	"fema.gov": 0.95,
	"nih.gov":  0.95,
	"fda.gov":  0.95,
	"usgs.gov": 0.93,
	"noaa.gov": 0.93,

	// Other government
	"gov.uk":    0.93,
	"europa.eu": 0.92,
}

// factCheckDomains maps IFCN-certified and other fact-checking organizations.
var factCheckDomains = map[string]float64{
	"snopes.com":      0.92,
	"politifact.com":  0.92,
	"factcheck.org":   0.92,
	"fullfact.org":    0.92,
	"boomlive.in":     0.90,
	"altnews.in":      0.90,
	"factchecker.in":  0.90,
	"vishvasnews.com": 0.88,
	"newschecker.in":  0.88,
	"leadstories.com": 0.85,
	"africacheck.org": 0.88,
	"chequeado.com":   0.88,
}

// newsDomains maps major news organizations. Wire services score highest.
var newsDomains = map[string]float64{
	"reuters.com": 0.90,
	"apnews.com":  0.90,
	"afp.com":     0.88,

	"bbc.com":            0.88,
	"bbc.co.uk":          0.88,
	"theguardian.com":    0.85,
	"nytimes.com":        0.85,
	"washingtonpost.com": 0.85,
	"economist.com":      0.85,
	"ft.com":             0.85,
	"aljazeera.com":      0.82,

	"thehindu.com":                0.85,
	"indianexpress.com":           0.83,
	"hindustantimes.com":          0.82,
	"ndtv.com":                    0.82,
	"timesofindia.indiatimes.com": 0.80,
	"news18.com":                  0.78,
	"firstpost.com":               0.78,
	"scroll.in":                   0.80,
	"thewire.in":                  0.80,
	"theprint.in":                 0.80,
}

// academicDomains maps research publishers and archives. Preprint servers
// score lower than peer-reviewed venues.
var academicDomains = map[string]float64{
	"nature.com":              0.92,
	"science.org":             0.92,
	"sciencedirect.com":       0.88,
	"pubmed.ncbi.nlm.nih.gov": 0.90,
	"arxiv.org":               0.75,
	"medrxiv.org":             0.72,
	"biorxiv.org":             0.72,
}

// domainSuffixes are checked after the exact tables, in order.
var domainSuffixes = []struct {
	suffix string
	score  float64
}{
	{".gov.in", 0.93},
	{".gov", 0.90},
	{".edu", 0.80},
	{".ac.in", 0.80},
	{".ac.uk", 0.80},
}

// adapterBaseScores is the fallback table keyed by adapter identity.
var adapterBaseScores = map[string]float64{
	"factcheck":            0.90,
	"factcheck_aggregator": 0.90,
	"snopes":               0.92,
	"politifact":           0.92,
	"fullfact":             0.90,
	"afp_factcheck":        0.90,
	"reuters_factcheck":    0.90,
	"newsapi":              0.70,
	"tavily":               0.60,
	"wikipedia":            0.75,
}

const unknownAdapterScore = 0.50

// Domain extracts the registrable domain from a URL: scheme and "www."
// prefix stripped, path dropped, lowercased. Empty input yields "".
func Domain(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u := strings.ToLower(rawURL)
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "http://")
	if i := strings.IndexAny(u, "/?#"); i >= 0 {
		u = u[:i]
	}
	return strings.TrimPrefix(u, "www.")
}

// Reliability scores a source from its URL, display name, and the adapter
// that produced it. Lookup order: official, fact-check, news, and academic
// exact tables; then domain suffix patterns; then the adapter base table.
// The generic news adapter attempts a display-name match against the news
// table before defaulting.
func Reliability(rawURL, displayName, adapter string) (float64, types.SourceCategory) {
	domain := Domain(rawURL)

	if s, ok := officialDomains[domain]; ok {
		return s, types.CategoryOfficial
	}
	if s, ok := factCheckDomains[domain]; ok {
		return s, types.CategoryFactCheck
	}
	if s, ok := newsDomains[domain]; ok {
		return s, types.CategoryNews
	}
	if s, ok := academicDomains[domain]; ok {
		// Academic maps to official for category purposes.
		return s, types.CategoryOfficial
	}

	for _, p := range domainSuffixes {
		if strings.HasSuffix(domain, p.suffix) {
			return p.score, types.CategoryOfficial
		}
	}

	switch adapter {
	case "factcheck", "factcheck_aggregator", "snopes", "politifact",
		"fullfact", "afp_factcheck", "reuters_factcheck":
		return adapterBaseScores[adapter], types.CategoryFactCheck
	case "wikipedia":
		return adapterBaseScores[adapter], types.CategoryWikipedia
	case "newsapi":
		// Match the display name against known outlets; take the
		// highest-scoring match so the result is deterministic.
		name := strings.ToLower(displayName)
		best := 0.0
		for d, s := range newsDomains {
			outlet := d[:strings.IndexByte(d, '.')]
			if strings.Contains(name, outlet) && s > best {
				best = s
			}
		}
		if best > 0 {
			return best, types.CategoryNews
		}
		return 0.65, types.CategoryNews
	case "tavily":
		return adapterBaseScores[adapter], types.CategoryWeb
	default:
		return unknownAdapterScore, types.CategoryWeb
	}
}

// AdapterID returns the adapter identity for a search result, stripping any
// sub-source suffix ("factcheck_aggregator:snopes" yields
// "factcheck_aggregator").
func AdapterID(result types.SearchResult) string {
	if i := strings.IndexByte(result.Adapter, ':'); i >= 0 {
		return result.Adapter[:i]
	}
	return result.Adapter
}

// ResultReliability scores a raw search result. The display name is the
// adapter sub-source when one is present ("newsapi:BBC News"), otherwise
// the result title.
func ResultReliability(r types.SearchResult) (float64, types.SourceCategory) {
	name := r.Title
	if i := strings.IndexByte(r.Adapter, ':'); i >= 0 {
		name = r.Adapter[i+1:]
	}
	return Reliability(r.URL, name, AdapterID(r))
}
