package admin

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Werneck0live/registro-leads/internal/ledger"
)

/*
	Para rodar: go test -v ./internal/admin -count=1
*/

func newTasks(t *testing.T) Tasks {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "dados_leads.csv")
	return Tasks{Ledger: ledger.New(path, log), Log: log}
}

func TestInitLedger_Idempotent(t *testing.T) {
	tk := newTasks(t)
	ctx := context.Background()

	require.NoError(t, tk.Run(ctx, "init-ledger"))
	first, err := os.ReadFile(tk.Ledger.Path())
	require.NoError(t, err)

	require.NoError(t, tk.Run(ctx, "init-ledger"))
	second, err := os.ReadFile(tk.Ledger.Path())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	rows, err := tk.CheckLedger(ctx)
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestCheckLedger_Absent(t *testing.T) {
	tk := newTasks(t)
	rows, err := tk.CheckLedger(context.Background())
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestCheckLedger_Invalid(t *testing.T) {
	tk := newTasks(t)
	require.NoError(t, os.WriteFile(tk.Ledger.Path(), []byte("a,b\r\n1,2\r\n"), 0o644))
	_, err := tk.CheckLedger(context.Background())
	require.Error(t, err)
}

func TestSeedLeads_OnlyOnce(t *testing.T) {
	tk := newTasks(t)
	ctx := context.Background()

	require.NoError(t, tk.Run(ctx, "seed"))
	rows, err := tk.CheckLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, rows)

	require.NoError(t, tk.Run(ctx, "seed"))
	rows, err = tk.CheckLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, rows)
}

func TestRun_UnknownTask(t *testing.T) {
	tk := newTasks(t)
	require.Error(t, tk.Run(context.Background(), "drop-all"))
}
