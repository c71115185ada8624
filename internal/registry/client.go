package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Werneck0live/registro-leads/internal/metrics"
	"github.com/Werneck0live/registro-leads/internal/models"
	"github.com/Werneck0live/registro-leads/internal/utils"
)

var ErrNotFound = errors.New("registry: company not found")

// Client consulta a ReceitaWS (GET /v1/cnpj/{digitos}).
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://www.receitaws.com.br"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log.With("cmp", "registry"),
	}
}

// campos ausentes ficam nil e viram models.Missing()
type cnpjResponse struct {
	Status   string  `json:"status"`
	Message  string  `json:"message"`
	Nome     *string `json:"nome"`
	Fantasia *string `json:"fantasia"`
	Email    *string `json:"email"`
	Telefone *string `json:"telefone"`
}

// Lookup aceita o CNPJ pontuado ou só dígitos. Qualquer falha devolve ErrNotFound.
func (c *Client) Lookup(ctx context.Context, cnpj string) (*models.Company, error) {
	digits := utils.SanitizeCNPJ(cnpj)
	if digits == "" {
		metrics.RecordRegistryLookup("not_found")
		return nil, fmt.Errorf("%w: empty cnpj", ErrNotFound)
	}

	company, err := c.fetch(ctx, digits)
	if err != nil {
		c.log.Warn("registry_lookup_failed", "cnpj", digits, "err", err)
		metrics.RecordRegistryLookup("not_found")
		return nil, err
	}
	c.log.Info("registry_lookup_ok", "cnpj", digits)
	metrics.RecordRegistryLookup("found")
	return company, nil
}

func (c *Client) fetch(ctx context.Context, digits string) (*models.Company, error) {
	url := fmt.Sprintf("%s/v1/cnpj/%s", c.baseURL, digits)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request: %v", ErrNotFound, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrNotFound, resp.StatusCode)
	}

	var body cnpjResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrNotFound, err)
	}
	if strings.EqualFold(body.Status, "ERROR") {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, body.Message)
	}

	return &models.Company{
		CNPJ:         digits,
		RazaoSocial:  models.FieldFrom(body.Nome),
		NomeFantasia: models.FieldFrom(body.Fantasia),
		Email:        models.FieldFrom(body.Email),
		Telefone:     models.FieldFrom(body.Telefone),
	}, nil
}
