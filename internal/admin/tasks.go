package admin

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Werneck0live/registro-leads/internal/ledger"
	"github.com/Werneck0live/registro-leads/internal/models"
)

//go:embed seeds/leads.json
var leadsJSON []byte

// Tasks são os jobs one-off disparados por -task no cmd/api.
type Tasks struct {
	Ledger *ledger.Ledger
	Log    *slog.Logger
}

func (t Tasks) Run(ctx context.Context, name string) error {
	switch name {
	case "init-ledger":
		return t.InitLedger()
	case "check-ledger":
		_, err := t.CheckLedger(ctx)
		return err
	case "seed":
		return t.SeedLeads(ctx)
	default:
		return fmt.Errorf("unknown admin task %q", name)
	}
}

// InitLedger cria o arquivo com BOM e cabeçalho se ainda não existir.
func (t Tasks) InitLedger() error {
	created, err := t.Ledger.EnsureHeader()
	if err != nil {
		return err
	}
	t.Log.Info("ledger_init", "path", t.Ledger.Path(), "created", created)
	return nil
}

// CheckLedger carrega o ledger e informa quantas linhas ele tem.
// Arquivo ausente ou vazio não é erro para a task.
func (t Tasks) CheckLedger(ctx context.Context) (int, error) {
	table, err := t.Ledger.Load(ctx)
	switch {
	case errors.Is(err, ledger.ErrNoLedger):
		t.Log.Info("ledger_check", "path", t.Ledger.Path(), "state", "absent")
		return 0, nil
	case errors.Is(err, ledger.ErrEmptyLedger):
		t.Log.Info("ledger_check", "path", t.Ledger.Path(), "state", "empty")
		return 0, nil
	case err != nil:
		t.Log.Error("ledger_check", "path", t.Ledger.Path(), "state", "invalid", "err", err)
		return 0, err
	}
	t.Log.Info("ledger_check", "path", t.Ledger.Path(), "state", "ok", "rows", len(table.Rows))
	return len(table.Rows), nil
}

// Idempotente: só grava os leads de demonstração se o ledger não tiver linhas.
func (t Tasks) SeedLeads(ctx context.Context) error {
	var items []models.Lead
	if err := json.Unmarshal(leadsJSON, &items); err != nil {
		return err
	}

	rows, err := t.CheckLedger(ctx)
	if err != nil {
		return err
	}
	if rows > 0 {
		t.Log.Info("seed_skipped_ledger_has_rows", "rows", rows)
		return nil
	}

	for _, l := range items {
		if err := t.Ledger.Append(ctx, l); err != nil {
			return err
		}
		t.Log.Info("seed_lead_created", "cnpj", l.CNPJ)
	}
	t.Log.Info("seed_leads_done", "count", len(items))
	return nil
}
