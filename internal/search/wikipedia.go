// Copyright CrisisWatch Labs, 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/crisiswatch/claimwatch/internal/httputil"
	"github.com/crisiswatch/claimwatch/pkg/types"
)

// wikipediaAPIBase overrides the per-language Wikipedia endpoint when
// non-empty. Tests point it at an httptest server; in production it stays
// empty and the endpoint is derived from the claim language.
var wikipediaAPIBase = ""

// WikipediaAdapter searches Wikipedia for factual background. No API key
// required.
type WikipediaAdapter struct {
	Client    *http.Client
	UserAgent string
}

// Name returns the adapter identifier.
func (a *WikipediaAdapter) Name() string { return "wikipedia" }

type wikiSearchResponse struct {
	Query struct {
		Search []struct {
			PageID  int    `json:"pageid"`
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
		} `json:"search"`
	} `json:"query"`
}

type wikiExtractResponse struct {
	Query struct {
		Pages map[string]struct {
			Extract string `json:"extract"`
			FullURL string `json:"fullurl"`
		} `json:"pages"`
	} `json:"query"`
}

// Search runs a two-phase MediaWiki query: a full-text search for page
// hits, then an extract fetch for the intro text of each hit. When the
// extract fetch fails the search snippets are used as-is rather than
// failing the whole adapter.
func (a *WikipediaAdapter) Search(ctx context.Context, query string, opts Options) ([]types.SearchResult, error) {
	lang := opts.Language
	if lang == "" {
		lang = "en"
	}
	base := wikipediaAPIBase
	if base == "" {
		base = fmt.Sprintf("https://%s.wikipedia.org/w/api.php", lang)
	}

	searchParams := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"srlimit":  {fmt.Sprintf("%d", opts.MaxResults)},
		"format":   {"json"},
		"utf8":     {"1"},
	}

	var sr wikiSearchResponse
	if err := a.get(ctx, base+"?"+searchParams.Encode(), &sr); err != nil {
		return nil, fmt.Errorf("Wikipedia search: %w", err)
	}
	if len(sr.Query.Search) == 0 {
		return nil, nil
	}

	var pageIDs []string
	for _, hit := range sr.Query.Search {
		pageIDs = append(pageIDs, fmt.Sprintf("%d", hit.PageID))
	}
	if len(pageIDs) > 5 {
		pageIDs = pageIDs[:5]
	}

	extractParams := url.Values{
		"action":      {"query"},
		"pageids":     {strings.Join(pageIDs, "|")},
		"prop":        {"extracts|info"},
		"exintro":     {"1"},
		"explaintext": {"1"},
		"exsentences": {"3"},
		"inprop":      {"url"},
		"format":      {"json"},
		"utf8":        {"1"},
	}

	var er wikiExtractResponse
	extractErr := a.get(ctx, base+"?"+extractParams.Encode(), &er)

	var results []types.SearchResult
	for _, hit := range sr.Query.Search {
		snippet := stripTags(hit.Snippet)
		pageURL := fmt.Sprintf("https://%s.wikipedia.org/wiki/%s", lang, strings.ReplaceAll(hit.Title, " ", "_"))

		if extractErr == nil {
			if page, ok := er.Query.Pages[fmt.Sprintf("%d", hit.PageID)]; ok {
				if page.Extract != "" {
					snippet = truncate(page.Extract, 500)
				}
				if page.FullURL != "" {
					pageURL = page.FullURL
				}
			}
		}

		results = append(results, types.SearchResult{
			Title:   hit.Title,
			URL:     pageURL,
			Snippet: snippet,
			Adapter: "wikipedia",
		})
	}
	return results, nil
}

func (a *WikipediaAdapter) get(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", a.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, a.Client, req, 0)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// stripTags removes HTML markup such as the search-match highlight spans
// MediaWiki embeds in snippets.
func stripTags(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}
