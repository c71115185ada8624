package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Werneck0live/registro-leads/internal/intake"
	"github.com/Werneck0live/registro-leads/internal/models"
	"github.com/Werneck0live/registro-leads/internal/session"
)

const msgSaveFailed = "Erro ao salvar os dados. Tente novamente."

type IntakeService interface {
	Search(ctx context.Context, sess *session.Session, companyName, leadLabel string)
	Save(ctx context.Context, sess *session.Session, form models.Lead) (models.Lead, error)
}

type IntakeHandler struct {
	Svc      IntakeService
	Sessions *session.Manager
}

func NewIntakeHandler(svc IntakeService, sessions *session.Manager) *IntakeHandler {
	return &IntakeHandler{Svc: svc, Sessions: sessions}
}

// GET /
func (h *IntakeHandler) Form(w http.ResponseWriter, r *http.Request) {
	sess, ok := loadSession(h.Sessions, w, r)
	if !ok {
		return
	}
	notices, warning, saved := sess.TakeMessages()
	h.save(r.Context(), sess)

	render(w, intakePage, http.StatusOK, intakeView{
		Title:   "Registro de Leads",
		Draft:   sess.Draft,
		Notices: notices,
		Warning: warning,
		Saved:   saved,
	})
}

// POST /search
func (h *IntakeHandler) Search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "formulário inválido", http.StatusBadRequest)
		return
	}
	sess, ok := loadSession(h.Sessions, w, r)
	if !ok {
		return
	}
	h.Svc.Search(r.Context(), sess, r.PostForm.Get("company_name"), r.PostForm.Get("lead"))
	h.save(r.Context(), sess)
	redirect(w, r, "/")
}

// POST /save
func (h *IntakeHandler) Save(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "formulário inválido", http.StatusBadRequest)
		return
	}
	sess, ok := loadSession(h.Sessions, w, r)
	if !ok {
		return
	}

	_, err := h.Svc.Save(r.Context(), sess, leadFromForm(r))
	if err != nil && !errors.Is(err, intake.ErrRequiredFields) {
		sess.Warning = msgSaveFailed
	}
	h.save(r.Context(), sess)
	redirect(w, r, "/")
}

func leadFromForm(r *http.Request) models.Lead {
	f := r.PostForm
	return models.Lead{
		AgenteComercial: f.Get("agente_comercial"),
		Lead:            f.Get("lead"),
		RazaoSocial:     f.Get("razao_social"),
		NomeFantasia:    f.Get("nome_fantasia"),
		Email:           f.Get("email"),
		Telefone:        f.Get("telefone"),
		CNPJ:            f.Get("cnpj"),
		NumeroCobrancas: f.Get("numero_cobrancas"),
		Mensagem:        f.Get("mensagem"),
	}
}

func (h *IntakeHandler) save(ctx context.Context, sess *session.Session) {
	if err := h.Sessions.Save(ctx, sess); err != nil {
		slog.Error("session_save_error", "id", sess.ID, "err", err)
	}
}
