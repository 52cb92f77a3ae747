// Copyright CrisisWatch Labs, 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/crisiswatch/claimwatch/internal/httputil"
	"github.com/crisiswatch/claimwatch/pkg/types"
)

// newsAPIBase is the NewsAPI article search endpoint. Declared as a var
// so tests can substitute an httptest server.
var newsAPIBase = "https://newsapi.org/v2/everything"

// NewsAPIAdapter searches recent news coverage for claim context.
type NewsAPIAdapter struct {
	Client    *http.Client
	APIKey    string
	UserAgent string
}

// Name returns the adapter identifier.
func (a *NewsAPIAdapter) Name() string { return "newsapi" }

type newsAPIResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		URL         string `json:"url"`
		Description string `json:"description"`
		Content     string `json:"content"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// Search queries NewsAPI sorted by relevancy. The outlet name rides along
// in the adapter field ("newsapi:<outlet>") so scoring can weight known
// outlets individually.
func (a *NewsAPIAdapter) Search(ctx context.Context, query string, opts Options) ([]types.SearchResult, error) {
	if a.APIKey == "" {
		return nil, fmt.Errorf("NewsAPI key not configured")
	}

	lang := opts.Language
	if lang == "" {
		lang = "en"
	}
	pageSize := opts.MaxResults
	if pageSize > 100 {
		pageSize = 100
	}

	params := url.Values{
		"apiKey":   {a.APIKey},
		"q":        {query},
		"language": {lang},
		"sortBy":   {"relevancy"},
		"pageSize": {fmt.Sprintf("%d", pageSize)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, newsAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", a.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, a.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("NewsAPI request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("NewsAPI returned HTTP %d", resp.StatusCode)
	}

	var nr newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&nr); err != nil {
		return nil, fmt.Errorf("parsing NewsAPI response: %w", err)
	}
	if nr.Status != "ok" {
		msg := nr.Message
		if msg == "" {
			msg = "unknown error"
		}
		return nil, fmt.Errorf("NewsAPI error: %s", msg)
	}

	var results []types.SearchResult
	for _, article := range nr.Articles {
		snippet := article.Description
		if snippet == "" {
			snippet = truncate(article.Content, 500)
		}
		outlet := article.Source.Name
		if outlet == "" {
			outlet = "Unknown"
		}

		results = append(results, types.SearchResult{
			Title:         article.Title,
			URL:           article.URL,
			Snippet:       snippet,
			Adapter:       "newsapi:" + outlet,
			PublishedDate: article.PublishedAt,
		})
	}
	return results, nil
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
