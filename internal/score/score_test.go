// Copyright CrisisWatch Labs, 2026. All rights reserved.

package score

import (
	"testing"

	"github.com/crisiswatch/claimwatch/pkg/types"
)

func TestDomain(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"https with www", "https://www.reuters.com/article/x", "reuters.com"},
		{"http no www", "http://who.int/news", "who.int"},
		{"no scheme", "cdc.gov/flu", "cdc.gov"},
		{"query string", "https://snopes.com/?s=5g", "snopes.com"},
		{"uppercase", "HTTPS://WWW.BBC.COM/news", "bbc.com"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Domain(tt.url); got != tt.want {
				t.Errorf("Domain(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestReliabilityKnownDomains(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		adapter  string
		wantCat  types.SourceCategory
		minScore float64
	}{
		{"WHO is official", "https://www.who.int/advice", "tavily", types.CategoryOfficial, 0.9},
		{"Snopes is fact-check", "https://snopes.com/fact-check/x", "tavily", types.CategoryFactCheck, 0.9},
		{"Reuters is news", "https://reuters.com/article", "newsapi", types.CategoryNews, 0.88},
		{"Nature maps to official", "https://nature.com/articles/1", "tavily", types.CategoryOfficial, 0.9},
		{"INCOIS is official", "https://incois.gov.in/tsunami", "tavily", types.CategoryOfficial, 0.93},
		{"Times of India is news", "https://timesofindia.indiatimes.com/city/x", "newsapi", types.CategoryNews, 0.80},
		{"News18 is news", "https://www.news18.com/india/x", "tavily", types.CategoryNews, 0.78},
		{"Firstpost is news", "https://firstpost.com/india/x", "tavily", types.CategoryNews, 0.78},
		{"gov suffix", "https://cityhall.texas.gov/page", "tavily", types.CategoryOfficial, 0.88},
		{"edu suffix", "https://physics.mit.edu/x", "tavily", types.CategoryOfficial, 0.79},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, cat := Reliability(tt.url, "", tt.adapter)
			if cat != tt.wantCat {
				t.Errorf("category = %q, want %q", cat, tt.wantCat)
			}
			if got < tt.minScore {
				t.Errorf("score = %f, want >= %f", got, tt.minScore)
			}
		})
	}
}

func TestReliabilityAdapterFallback(t *testing.T) {
	tests := []struct {
		name      string
		adapter   string
		display   string
		wantScore float64
		wantCat   types.SourceCategory
	}{
		{"aggregated fact-check", "factcheck_aggregator", "", 0.90, types.CategoryFactCheck},
		{"wikipedia", "wikipedia", "", 0.75, types.CategoryWikipedia},
		{"tavily web", "tavily", "", 0.60, types.CategoryWeb},
		{"unknown adapter", "mystery", "", 0.50, types.CategoryWeb},
		{"newsapi default", "newsapi", "Village Gazette", 0.65, types.CategoryNews},
		{"newsapi name match", "newsapi", "BBC News", 0.88, types.CategoryNews},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, cat := Reliability("https://example.org/a", tt.display, tt.adapter)
			if got != tt.wantScore {
				t.Errorf("score = %f, want %f", got, tt.wantScore)
			}
			if cat != tt.wantCat {
				t.Errorf("category = %q, want %q", cat, tt.wantCat)
			}
		})
	}
}

func TestReliabilityIsPure(t *testing.T) {
	for i := 0; i < 50; i++ {
		s1, c1 := Reliability("https://www.who.int/x", "WHO", "tavily")
		s2, c2 := Reliability("https://www.who.int/x", "WHO", "tavily")
		if s1 != s2 || c1 != c2 {
			t.Fatalf("scorer not deterministic: (%f,%s) vs (%f,%s)", s1, c1, s2, c2)
		}
	}
}

func TestAdapterID(t *testing.T) {
	r := types.SearchResult{Adapter: "factcheck_aggregator:snopes"}
	if got := AdapterID(r); got != "factcheck_aggregator" {
		t.Errorf("AdapterID = %q, want factcheck_aggregator", got)
	}
	r.Adapter = "wikipedia"
	if got := AdapterID(r); got != "wikipedia" {
		t.Errorf("AdapterID = %q, want wikipedia", got)
	}
}

func TestDiversityEmpty(t *testing.T) {
	if got := Diversity(nil); got != 0.0 {
		t.Errorf("Diversity(nil) = %f, want 0", got)
	}
}

func TestDiversityRange(t *testing.T) {
	sets := [][]types.SearchResult{
		{{URL: "https://who.int/a", Adapter: "tavily"}},
		{
			{URL: "https://who.int/a", Adapter: "tavily"},
			{URL: "https://snopes.com/b", Adapter: "factcheck_aggregator:snopes"},
			{URL: "https://reuters.com/c", Adapter: "newsapi"},
			{URL: "https://en.wikipedia.org/d", Adapter: "wikipedia"},
			{URL: "https://blog.example.com/e", Adapter: "tavily"},
		},
		{
			{URL: "https://example.com/1", Adapter: "tavily"},
			{URL: "https://example.com/2", Adapter: "tavily"},
			{URL: "https://example.com/3", Adapter: "tavily"},
		},
	}
	for i, results := range sets {
		got := Diversity(results)
		if got < 0 || got > 1 {
			t.Errorf("set %d: Diversity = %f, want in [0,1]", i, got)
		}
	}
}

func TestDiversityPrefersVariedSets(t *testing.T) {
	varied := []types.SearchResult{
		{URL: "https://who.int/a", Adapter: "tavily"},
		{URL: "https://snopes.com/b", Adapter: "factcheck_aggregator:snopes"},
		{URL: "https://reuters.com/c", Adapter: "newsapi"},
		{URL: "https://en.wikipedia.org/d", Adapter: "wikipedia"},
	}
	clustered := []types.SearchResult{
		{URL: "https://example.com/1", Adapter: "tavily"},
		{URL: "https://example.com/2", Adapter: "tavily"},
		{URL: "https://example.com/3", Adapter: "tavily"},
		{URL: "https://example.com/4", Adapter: "tavily"},
	}
	if dv, dc := Diversity(varied), Diversity(clustered); dv <= dc {
		t.Errorf("varied set scored %f, clustered %f; want varied higher", dv, dc)
	}
}
