package ledger

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/Werneck0live/registro-leads/internal/models"
)

// Ledger é o arquivo CSV compartilhado onde os leads são acrescentados.
// O arquivo nunca é reescrito: cada Append grava exatamente uma linha no fim.
type Ledger struct {
	path string
	mu   sync.Mutex
	log  *slog.Logger
}

func New(path string, log *slog.Logger) *Ledger {
	if log == nil {
		log = slog.Default()
	}
	return &Ledger{path: path, log: log.With("cmp", "ledger")}
}

func (l *Ledger) Path() string { return l.path }

// Append grava o lead como uma linha. Se o arquivo não existe, ele é criado com BOM + cabeçalho
// de forma atômica antes da linha.
func (l *Ledger) Append(ctx context.Context, lead models.Lead) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	row, err := encodeRows(lead.Row())
	if err != nil {
		return fmt.Errorf("encode row: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	created, err := l.ensureHeader()
	if err != nil {
		return fmt.Errorf("create ledger: %w", err)
	}
	if created {
		l.log.Info("ledger_created", "path", l.path)
	}

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	// uma única escrita por linha: appends concorrentes só se intercalam por linha inteira
	if _, err := f.Write(row); err != nil {
		_ = f.Close()
		return fmt.Errorf("append ledger: %w", err)
	}
	return f.Close()
}

// EnsureHeader cria o arquivo com o cabeçalho se ele ainda não existe.
func (l *Ledger) EnsureHeader() (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ensureHeader()
}

func (l *Ledger) ensureHeader() (bool, error) {
	if _, err := os.Stat(l.path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	header, err := encodeHeader()
	if err != nil {
		return false, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(l.path), ".ledger-*.tmp")
	if err != nil {
		return false, err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(header); err != nil {
		_ = tmp.Close()
		return false, err
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return false, err
	}
	if err := tmp.Close(); err != nil {
		return false, err
	}

	// link falha com ErrExist se outro escritor criou o arquivo primeiro
	err = os.Link(tmpName, l.path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrExist):
		return false, nil
	}

	// sistema de arquivos sem hard link: cai para O_EXCL
	l.log.Debug("ledger_link_unsupported", "err", err)
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if _, err := f.Write(header); err != nil {
		_ = f.Close()
		return false, err
	}
	return true, f.Close()
}

func encodeHeader() ([]byte, error) {
	var buf bytes.Buffer
	w := transform.NewWriter(&buf, unicode.UTF8BOM.NewEncoder())
	if err := writeCSV(w, Header()); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeRows(rows ...[]string) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCSV(&buf, rows...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeCSV usa vírgula e CRLF, como as planilhas esperam.
func writeCSV(w io.Writer, rows ...[]string) error {
	cw := csv.NewWriter(w)
	cw.Comma = ','
	cw.UseCRLF = true
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
