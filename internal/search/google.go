package search

import (
	"context"
	"net/url"
	"strconv"
)

// GoogleProvider consulta a Google Custom Search JSON API.
type GoogleProvider struct {
	apiKey string
	cx     string
	cfg    ProviderConfig
}

func NewGoogleProvider(apiKey, cx string, cfg ProviderConfig) *GoogleProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.googleapis.com/customsearch/v1"
	}
	return &GoogleProvider{apiKey: apiKey, cx: cx, cfg: cfg}
}

type googleResponse struct {
	Items []struct {
		Snippet string `json:"snippet"`
	} `json:"items"`
}

func (g *GoogleProvider) Name() string { return ProviderGoogle }

func (g *GoogleProvider) Configured() bool { return g.apiKey != "" && g.cx != "" }

func (g *GoogleProvider) Snippets(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("key", g.apiKey)
	params.Set("cx", g.cx)
	params.Set("num", strconv.Itoa(g.cfg.results()))

	var resp googleResponse
	if err := getJSON(ctx, g.cfg.httpClient(), g.cfg.BaseURL, params, &resp); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(resp.Items))
	for _, it := range resp.Items {
		out = append(out, it.Snippet)
	}
	return out, nil
}
