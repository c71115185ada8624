package search

import (
	"context"
	"net/url"
	"strconv"
)

// SerpAPIProvider consulta a SerpApi com engine=google.
type SerpAPIProvider struct {
	apiKey string
	cfg    ProviderConfig
}

func NewSerpAPIProvider(apiKey string, cfg ProviderConfig) *SerpAPIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://serpapi.com/search"
	}
	return &SerpAPIProvider{apiKey: apiKey, cfg: cfg}
}

type serpAPIResponse struct {
	OrganicResults []struct {
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
}

func (s *SerpAPIProvider) Name() string { return ProviderSerpAPI }

func (s *SerpAPIProvider) Configured() bool { return s.apiKey != "" }

func (s *SerpAPIProvider) Snippets(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("engine", "google")
	params.Set("api_key", s.apiKey)
	params.Set("num", strconv.Itoa(s.cfg.results()))

	var resp serpAPIResponse
	if err := getJSON(ctx, s.cfg.httpClient(), s.cfg.BaseURL, params, &resp); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(resp.OrganicResults))
	for _, r := range resp.OrganicResults {
		out = append(out, r.Snippet)
	}
	return out, nil
}
