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

// factCheckAPIBase is the Google Fact Check Tools claim search endpoint.
// Declared as a var so tests can substitute an httptest server.
var factCheckAPIBase = "https://factchecktools.googleapis.com/v1alpha1/claims:search"

// FactCheckAdapter queries the Google Fact Check Tools API for published
// fact-checks of the claim.
type FactCheckAdapter struct {
	Client    *http.Client
	APIKey    string
	UserAgent string
}

// Name returns the adapter identifier.
func (a *FactCheckAdapter) Name() string { return "factcheck" }

type factCheckResponse struct {
	Claims []struct {
		Text        string `json:"text"`
		Claimant    string `json:"claimant"`
		ClaimReview []struct {
			Publisher struct {
				Name string `json:"name"`
				Site string `json:"site"`
			} `json:"publisher"`
			URL           string `json:"url"`
			Title         string `json:"title"`
			ReviewDate    string `json:"reviewDate"`
			TextualRating string `json:"textualRating"`
		} `json:"claimReview"`
	} `json:"claims"`
}

// Search queries for published fact-checks. A single claim may carry
// several reviews; each review becomes one result.
func (a *FactCheckAdapter) Search(ctx context.Context, query string, opts Options) ([]types.SearchResult, error) {
	if a.APIKey == "" {
		return nil, fmt.Errorf("fact check API key not configured")
	}

	lang := opts.Language
	if lang == "" {
		lang = "en"
	}

	params := url.Values{
		"key":          {a.APIKey},
		"query":        {query},
		"languageCode": {lang},
		"pageSize":     {fmt.Sprintf("%d", opts.MaxResults)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, factCheckAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", a.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, a.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("fact check API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fact check API returned HTTP %d", resp.StatusCode)
	}

	var fr factCheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return nil, fmt.Errorf("parsing fact check response: %w", err)
	}

	var results []types.SearchResult
	for _, claim := range fr.Claims {
		claimant := claim.Claimant
		if claimant == "" {
			claimant = "Unknown"
		}

		for _, review := range claim.ClaimReview {
			publisher := review.Publisher.Name
			if publisher == "" {
				publisher = "Unknown"
			}
			rating := review.TextualRating
			if rating == "" {
				rating = "N/A"
			}

			results = append(results, types.SearchResult{
				Title:         fmt.Sprintf("Fact-check by %s: %s", publisher, review.Title),
				URL:           review.URL,
				Snippet:       fmt.Sprintf("Claim: %q by %s. Rating: %s. %s", claim.Text, claimant, rating, review.Title),
				Adapter:       "factcheck",
				PublishedDate: review.ReviewDate,
			})
		}
	}
	return results, nil
}
