package handlers

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/Werneck0live/registro-leads/internal/ledger"
	"github.com/Werneck0live/registro-leads/internal/metrics"
	"github.com/Werneck0live/registro-leads/internal/session"
	"github.com/Werneck0live/registro-leads/internal/ws"
)

const (
	msgWrongPassword = "Senha incorreta"
	msgNoLeads       = "Nenhum lead registrado"
	msgEmptyLedger   = "O arquivo está vazio"
)

type LedgerReader interface {
	Load(ctx context.Context) (*ledger.Table, error)
}

type ReportHandler struct {
	Ledger   LedgerReader
	Sessions *session.Manager
	Password string
	FeedURL  string // websocket do feed ao vivo; vazio desliga
	// assina o token do feed; o serviço ws verifica com o mesmo segredo
	FeedSecret []byte
}

func NewReportHandler(l LedgerReader, sessions *session.Manager, password, feedURL string, feedSecret []byte) *ReportHandler {
	return &ReportHandler{Ledger: l, Sessions: sessions, Password: password, FeedURL: feedURL, FeedSecret: feedSecret}
}

// GET /report
func (h *ReportHandler) View(w http.ResponseWriter, r *http.Request) {
	sess, ok := loadSession(h.Sessions, w, r)
	if !ok {
		return
	}
	view := reportView{Title: "Relatório de Leads", Unlocked: sess.ReportUnlocked}
	if !sess.ReportUnlocked {
		render(w, reportPage, http.StatusOK, view)
		return
	}

	view.FeedURL = h.feedURL()
	table, err := h.Ledger.Load(r.Context())
	switch {
	case err == nil:
		view.Table = table
	case errors.Is(err, ledger.ErrNoLedger):
		view.Message = msgNoLeads
	case errors.Is(err, ledger.ErrEmptyLedger):
		view.Message = msgEmptyLedger
	default:
		slog.Error("ledger_load_error", "err", err)
		view.Error = fmt.Sprintf("Erro ao carregar os dados: %v", err)
	}
	render(w, reportPage, http.StatusOK, view)
}

// feedURL devolve o endereço do feed com um token de curta duração, ou "" se o feed está desligado.
func (h *ReportHandler) feedURL() string {
	if h.FeedURL == "" {
		return ""
	}
	token, err := ws.SignFeedToken(h.FeedSecret, ws.FeedTokenTTL)
	if err != nil {
		slog.Error("feed_token_error", "err", err)
		return ""
	}
	u, err := url.Parse(h.FeedURL)
	if err != nil {
		slog.Error("feed_url_invalid", "err", err)
		return ""
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

// POST /report/unlock
func (h *ReportHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "formulário inválido", http.StatusBadRequest)
		return
	}
	sess, ok := loadSession(h.Sessions, w, r)
	if !ok {
		return
	}

	if !h.passwordMatches(r.PostForm.Get("password")) {
		metrics.RecordReportUnlock(false)
		slog.Warn("report_unlock_denied", "remote", r.RemoteAddr)
		render(w, reportPage, http.StatusUnauthorized, reportView{Title: "Relatório de Leads", Error: msgWrongPassword})
		return
	}

	metrics.RecordReportUnlock(true)
	sess.ReportUnlocked = true
	if err := h.Sessions.Save(r.Context(), sess); err != nil {
		slog.Error("session_save_error", "id", sess.ID, "err", err)
		http.Error(w, "sessão indisponível", http.StatusInternalServerError)
		return
	}
	redirect(w, r, "/report")
}

// POST /report/lock
func (h *ReportHandler) Lock(w http.ResponseWriter, r *http.Request) {
	sess, ok := loadSession(h.Sessions, w, r)
	if !ok {
		return
	}
	sess.ReportUnlocked = false
	if err := h.Sessions.Save(r.Context(), sess); err != nil {
		slog.Error("session_save_error", "id", sess.ID, "err", err)
	}
	redirect(w, r, "/report")
}

// GET /report/export.csv
func (h *ReportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	table, ok := h.exportTable(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ledger.ExportFileName))
	if err := table.WriteCSV(w); err != nil {
		slog.Error("export_csv_error", "err", err)
	}
}

// GET /report/export.xlsx
func (h *ReportHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	table, ok := h.exportTable(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ledger.XLSXFileName))
	if err := table.WriteXLSX(w); err != nil {
		slog.Error("export_xlsx_error", "err", err)
	}
}

func (h *ReportHandler) exportTable(w http.ResponseWriter, r *http.Request) (*ledger.Table, bool) {
	sess, ok := loadSession(h.Sessions, w, r)
	if !ok {
		return nil, false
	}
	if !sess.ReportUnlocked {
		http.Error(w, "acesso negado", http.StatusForbidden)
		return nil, false
	}
	table, err := h.Ledger.Load(r.Context())
	switch {
	case err == nil:
		return table, true
	case errors.Is(err, ledger.ErrNoLedger):
		http.Error(w, msgNoLeads, http.StatusNotFound)
	case errors.Is(err, ledger.ErrEmptyLedger):
		http.Error(w, msgEmptyLedger, http.StatusNotFound)
	default:
		slog.Error("ledger_load_error", "err", err)
		http.Error(w, "erro ao carregar os dados", http.StatusInternalServerError)
	}
	return nil, false
}

// sem senha configurada o relatório fica fechado
func (h *ReportHandler) passwordMatches(given string) bool {
	if h.Password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(given), []byte(h.Password)) == 1
}
