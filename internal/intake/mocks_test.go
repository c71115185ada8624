package intake

import (
	"context"
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Werneck0live/registro-leads/internal/models"
	"github.com/Werneck0live/registro-leads/internal/search"
)

type resolverMock struct {
	ResolveFn func(ctx context.Context, name string) (search.Result, bool)
	calls     int
}

func (m *resolverMock) Resolve(ctx context.Context, name string) (search.Result, bool) {
	m.calls++
	if m.ResolveFn == nil {
		return search.Result{}, false
	}
	return m.ResolveFn(ctx, name)
}

type enricherMock struct {
	LookupFn func(ctx context.Context, cnpj string) (*models.Company, error)
	calls    int
}

func (m *enricherMock) Lookup(ctx context.Context, cnpj string) (*models.Company, error) {
	m.calls++
	if m.LookupFn == nil {
		return nil, errors.New("LookupFn not set")
	}
	return m.LookupFn(ctx, cnpj)
}

type appenderMock struct {
	AppendFn func(ctx context.Context, l models.Lead) error
	rows     []models.Lead
}

func (m *appenderMock) Append(ctx context.Context, l models.Lead) error {
	if m.AppendFn != nil {
		if err := m.AppendFn(ctx, l); err != nil {
			return err
		}
	}
	m.rows = append(m.rows, l)
	return nil
}

type pubMock struct {
	PublishFn func(ctx context.Context, body []byte, headers amqp.Table) error
}

func (p *pubMock) Publish(ctx context.Context, body []byte, headers amqp.Table) error {
	if p.PublishFn == nil {
		return nil
	}
	return p.PublishFn(ctx, body, headers)
}
