// Copyright CrisisWatch Labs, 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"sync"

	"github.com/crisiswatch/claimwatch/internal/httputil"
	"github.com/crisiswatch/claimwatch/pkg/types"
)

// FactCheckSite describes one fact-checking organization searched by the
// aggregated adapter via its WordPress JSON API.
type FactCheckSite struct {
	// ID is the sub-source identifier carried in the adapter field.
	ID string

	// Name is the display prefix for result titles.
	Name string

	// Base is the site root, without a trailing slash.
	Base string
}

// factCheckSites lists the organizations searched by the aggregated
// adapter. Declared as a var so tests can substitute httptest servers.
var factCheckSites = []FactCheckSite{
	{ID: "snopes", Name: "Snopes", Base: "https://www.snopes.com"},
	{ID: "politifact", Name: "PolitiFact", Base: "https://www.politifact.com"},
	{ID: "fullfact", Name: "Full Fact", Base: "https://fullfact.org"},
	{ID: "afp_factcheck", Name: "AFP Fact Check", Base: "https://factcheck.afp.com"},
	{ID: "reuters_factcheck", Name: "Reuters Fact Check", Base: "https://www.reuters.com"},
}

// perSiteResults caps how many results each organization contributes.
const perSiteResults = 3

// AggregatedFactCheckAdapter searches several fact-checking organizations
// at once through their WordPress post-search endpoints. Sites without a
// reachable endpoint simply contribute nothing; the adapter as a whole
// only fails when every site fails.
type AggregatedFactCheckAdapter struct {
	Client    *http.Client
	UserAgent string
}

// Name returns the adapter identifier.
func (a *AggregatedFactCheckAdapter) Name() string { return "factcheck_aggregator" }

// SourceCount reports how many organizations this adapter represents.
func (a *AggregatedFactCheckAdapter) SourceCount() int { return len(factCheckSites) }

type wpPost struct {
	Link  string `json:"link"`
	Date  string `json:"date"`
	Title struct {
		Rendered string `json:"rendered"`
	} `json:"title"`
	Excerpt struct {
		Rendered string `json:"rendered"`
	} `json:"excerpt"`
}

// Search fans the query out to every configured site concurrently and
// merges whatever comes back.
func (a *AggregatedFactCheckAdapter) Search(ctx context.Context, query string, opts Options) ([]types.SearchResult, error) {
	sites := factCheckSites

	type siteResult struct {
		results []types.SearchResult
		err     error
	}

	ch := make(chan siteResult, len(sites))
	var wg sync.WaitGroup

	for _, site := range sites {
		wg.Add(1)
		go func(site FactCheckSite) {
			defer wg.Done()
			results, err := a.searchSite(ctx, site, query)
			ch <- siteResult{results: results, err: err}
		}(site)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var all []types.SearchResult
	failures := 0
	var lastErr error
	for sr := range ch {
		if sr.err != nil {
			failures++
			lastErr = sr.err
			continue
		}
		all = append(all, sr.results...)
	}

	if failures == len(sites) {
		return nil, fmt.Errorf("all fact-check sites failed: %w", lastErr)
	}
	return all, nil
}

func (a *AggregatedFactCheckAdapter) searchSite(ctx context.Context, site FactCheckSite, query string) ([]types.SearchResult, error) {
	params := url.Values{
		"search":   {query},
		"per_page": {fmt.Sprintf("%d", perSiteResults)},
	}
	reqURL := site.Base + "/wp-json/wp/v2/posts?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", a.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, a.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", site.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned HTTP %d", site.ID, resp.StatusCode)
	}

	var posts []wpPost
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", site.ID, err)
	}

	var results []types.SearchResult
	for _, post := range posts {
		title := html.UnescapeString(stripTags(post.Title.Rendered))
		snippet := html.UnescapeString(stripTags(post.Excerpt.Rendered))
		if snippet == "" {
			snippet = title
		}
		if title == "" || post.Link == "" {
			continue
		}

		results = append(results, types.SearchResult{
			Title:         fmt.Sprintf("%s: %s", site.Name, truncate(title, 150)),
			URL:           post.Link,
			Snippet:       truncate(snippet, 500),
			Adapter:       "factcheck_aggregator:" + site.ID,
			PublishedDate: post.Date,
		})
	}
	return results, nil
}
