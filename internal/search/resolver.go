package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Werneck0live/registro-leads/internal/metrics"
	"github.com/Werneck0live/registro-leads/internal/utils"
)

const querySuffix = " CNPJ"

const (
	ProviderGoogle  = "google"
	ProviderSerpAPI = "serpapi"
)

// Result identifica o CNPJ encontrado e o provedor que o encontrou.
type Result struct {
	CNPJ     string
	Provider string
}

// Resolver tenta os provedores em ordem e para no primeiro snippet com CNPJ.
// Falhas de rede ou HTTP contam como "não encontrado" naquele provedor; não há retry nem cache.
type Resolver struct {
	providers []Provider
	log       *slog.Logger
}

func NewResolver(log *slog.Logger, providers ...Provider) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{providers: providers, log: log.With("cmp", "search.resolver")}
}

func Query(companyName string) string {
	return strings.TrimSpace(companyName) + querySuffix
}

func (r *Resolver) Resolve(ctx context.Context, companyName string) (Result, bool) {
	q := Query(companyName)

	for _, p := range r.providers {
		if !p.Configured() {
			r.log.Warn("search_provider_not_configured", "provider", p.Name())
			metrics.RecordSearch(p.Name(), "skipped")
			continue
		}

		snippets, err := p.Snippets(ctx, q)
		if err != nil {
			r.log.Warn("search_provider_error", "provider", p.Name(), "err", err)
			metrics.RecordSearch(p.Name(), "error")
			continue
		}

		if cnpj, ok := firstCNPJ(snippets); ok {
			r.log.Info("search_provider_hit", "provider", p.Name(), "cnpj", cnpj)
			metrics.RecordSearch(p.Name(), "hit")
			return Result{CNPJ: cnpj, Provider: p.Name()}, true
		}
		r.log.Info("search_provider_miss", "provider", p.Name(), "snippets", len(snippets))
		metrics.RecordSearch(p.Name(), "miss")
	}
	return Result{}, false
}

func firstCNPJ(snippets []string) (string, bool) {
	for _, s := range snippets {
		if cnpj, ok := utils.FindCNPJ(s); ok {
			return cnpj, true
		}
	}
	return "", false
}
