package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Provider é uma API de busca web que devolve os snippets dos resultados, na ordem.
type Provider interface {
	Name() string
	Configured() bool
	Snippets(ctx context.Context, query string) ([]string, error)
}

// ProviderConfig é comum aos dois provedores.
type ProviderConfig struct {
	BaseURL string
	Results int
	Timeout time.Duration
	Client  *http.Client // opcional; quando nil usa http.Client{Timeout}
}

func (c ProviderConfig) httpClient() *http.Client {
	if c.Client != nil {
		return c.Client
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

func (c ProviderConfig) results() int {
	if c.Results <= 0 {
		return 3
	}
	return c.Results
}

// getJSON faz o GET e decodifica o corpo; status fora de 2xx vira erro.
func getJSON(ctx context.Context, client *http.Client, base string, params url.Values, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = redactURL(ue.URL)
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// parâmetros de credencial nunca vão para log
var secretParams = []string{"key", "api_key"}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<url omitida>"
	}
	q := u.Query()
	for _, k := range secretParams {
		if q.Has(k) {
			q.Set(k, "REDACTED")
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
