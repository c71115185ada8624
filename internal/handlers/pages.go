package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/Werneck0live/registro-leads/internal/ledger"
	"github.com/Werneck0live/registro-leads/internal/models"
	"github.com/Werneck0live/registro-leads/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	intakePage = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/intake.html"))
	reportPage = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/report.html"))
)

type intakeView struct {
	Title   string
	Draft   session.Draft
	Notices []string
	Warning string
	Saved   *models.Lead
}

type reportView struct {
	Title    string
	Unlocked bool
	Error    string
	Message  string
	Table    *ledger.Table
	FeedURL  string
}

// render executa em buffer para não enviar página pela metade
func render(w http.ResponseWriter, t *template.Template, status int, data any) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("template_render_error", "err", err)
		http.Error(w, "erro ao montar a página", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func loadSession(m *session.Manager, w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := m.Load(w, r)
	if err != nil {
		slog.Error("session_load_error", "err", err)
		http.Error(w, "sessão indisponível", http.StatusInternalServerError)
		return nil, false
	}
	return sess, true
}
