package ledger

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/Werneck0live/registro-leads/internal/models"
)

var (
	ErrNoLedger      = errors.New("ledger: file not found")
	ErrEmptyLedger   = errors.New("ledger: no data rows")
	ErrInvalidHeader = errors.New("ledger: unexpected header")
)

// Table é o ledger inteiro, com os rótulos de exibição.
type Table struct {
	Columns []string
	Rows    [][]string
}

func (t *Table) Leads() []models.Lead {
	out := make([]models.Lead, 0, len(t.Rows))
	for _, r := range t.Rows {
		if l, ok := models.LeadFromRow(r); ok {
			out = append(out, l)
		}
	}
	return out
}

// Load lê o arquivo completo. Arquivo ausente -> ErrNoLedger; vazio ou só cabeçalho -> ErrEmptyLedger.
func (l *Ledger) Load(ctx context.Context) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoLedger
	}
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	return readTable(f)
}

func readTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(transform.NewReader(r, unicode.UTF8BOM.NewDecoder()))
	cr.Comma = ','
	cr.FieldsPerRecord = -1 // aceita o cabeçalho antigo de 8 colunas

	first, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyLedger
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if !isHeaderRow(first) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHeader, first)
	}

	t := &Table{Columns: Labels()}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		// cabeçalhos repetidos deixados por escritores concorrentes antigos
		if isHeaderRow(row) {
			continue
		}
		if len(row) != len(Columns) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("read row: line %d has %d fields, want %d", line, len(row), len(Columns))
		}
		t.Rows = append(t.Rows, row)
	}

	if len(t.Rows) == 0 {
		return nil, ErrEmptyLedger
	}
	return t, nil
}
