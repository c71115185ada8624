package handlers

import (
	"context"
	"errors"

	"github.com/Werneck0live/registro-leads/internal/ledger"
	"github.com/Werneck0live/registro-leads/internal/models"
	"github.com/Werneck0live/registro-leads/internal/session"
)

type intakeMock struct {
	SearchFn func(ctx context.Context, sess *session.Session, companyName, leadLabel string)
	SaveFn   func(ctx context.Context, sess *session.Session, form models.Lead) (models.Lead, error)
}

func (m *intakeMock) Search(ctx context.Context, sess *session.Session, companyName, leadLabel string) {
	if m.SearchFn != nil {
		m.SearchFn(ctx, sess, companyName, leadLabel)
	}
}

func (m *intakeMock) Save(ctx context.Context, sess *session.Session, form models.Lead) (models.Lead, error) {
	if m.SaveFn == nil {
		return models.Lead{}, errors.New("SaveFn not set")
	}
	return m.SaveFn(ctx, sess, form)
}

type ledgerMock struct {
	LoadFn func(ctx context.Context) (*ledger.Table, error)
}

func (m *ledgerMock) Load(ctx context.Context) (*ledger.Table, error) {
	if m.LoadFn == nil {
		return nil, errors.New("LoadFn not set")
	}
	return m.LoadFn(ctx)
}

type brokerMock struct{ up bool }

func (b brokerMock) Healthy() bool { return b.up }

type pingMock struct{ err error }

func (p pingMock) Ping(context.Context) error { return p.err }
