package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Werneck0live/registro-leads/internal/broker"
	"github.com/Werneck0live/registro-leads/internal/metrics"
	"github.com/Werneck0live/registro-leads/internal/models"
	"github.com/Werneck0live/registro-leads/internal/search"
	"github.com/Werneck0live/registro-leads/internal/session"
)

// Mensagens exibidas ao operador.
const (
	MsgEmptyName       = "Por favor, insira um nome de empresa."
	MsgPrimaryMiss     = "CNPJ não encontrado pelo Google. Tentando via SerpApi..."
	MsgCNPJNotFound    = "CNPJ não encontrado em nenhuma fonte."
	MsgNoDetails       = "Não foi possível obter informações adicionais."
	MsgRequiredMissing = "Todos os campos obrigatórios devem ser preenchidos!"
)

var ErrRequiredFields = errors.New("intake: required fields missing")

// RequiredFieldsError lista os campos obrigatórios vazios.
type RequiredFieldsError struct {
	Fields []string
}

func (e *RequiredFieldsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrRequiredFields, strings.Join(e.Fields, ", "))
}

func (e *RequiredFieldsError) Unwrap() error { return ErrRequiredFields }

type Resolver interface {
	Resolve(ctx context.Context, companyName string) (search.Result, bool)
}

type Enricher interface {
	Lookup(ctx context.Context, cnpj string) (*models.Company, error)
}

type Appender interface {
	Append(ctx context.Context, lead models.Lead) error
}

type Publisher interface {
	Publish(ctx context.Context, body []byte, headers amqp.Table) error
}

type Service struct {
	Resolver Resolver
	Enricher Enricher
	Ledger   Appender
	Pub      Publisher // opcional
	Log      *slog.Logger
	Now      func() time.Time

	validate *validator.Validate
}

func NewService(res Resolver, enr Enricher, led Appender, pub Publisher, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		Resolver: res,
		Enricher: enr,
		Ledger:   led,
		Pub:      pub,
		Log:      log.With("cmp", "intake"),
		Now:      time.Now,
		validate: validator.New(),
	}
}

// Search resolve o CNPJ pelo nome e preenche o rascunho da sessão.
// Agente, cobranças e mensagem já digitados são mantidos.
func (s *Service) Search(ctx context.Context, sess *session.Session, companyName, leadLabel string) {
	d := &sess.Draft
	d.CompanyName = companyName
	d.Lead = leadLabel
	d.Form.Lead = leadLabel

	name := strings.TrimSpace(companyName)
	if name == "" {
		sess.Notice(MsgEmptyName)
		return
	}

	d.Searched = true
	d.Provider = ""
	d.CNPJFound = false
	d.Enriched = false
	d.Company = models.UnknownCompany()
	d.Form.CNPJ = ""
	d.Form.RazaoSocial, d.Form.NomeFantasia, d.Form.Email, d.Form.Telefone = "", "", "", ""

	res, ok := s.Resolver.Resolve(ctx, name)
	if !ok || res.Provider != search.ProviderGoogle {
		sess.Notice(MsgPrimaryMiss)
	}
	if !ok {
		s.Log.Info("cnpj_not_found", "company", name)
		sess.Notice(MsgCNPJNotFound)
		return
	}

	d.CNPJFound = true
	d.Provider = res.Provider
	d.Form.CNPJ = res.CNPJ

	company, err := s.Enricher.Lookup(ctx, res.CNPJ)
	if err != nil {
		s.Log.Warn("enrichment_failed", "cnpj", res.CNPJ, "err", err)
		sess.Notice(MsgNoDetails)
		return
	}

	d.Enriched = true
	d.Company = *company
	// o placeholder vai para o formulário como texto editável
	d.Form.RazaoSocial = company.RazaoSocial.Display()
	d.Form.NomeFantasia = company.NomeFantasia.Display()
	d.Form.Email = company.Email.Display()
	d.Form.Telefone = company.Telefone.Display()
}

// Save valida os obrigatórios e grava o lead. Em caso de falha de validação
// nada é escrito e o rascunho guarda o que foi digitado.
func (s *Service) Save(ctx context.Context, sess *session.Session, form models.Lead) (models.Lead, error) {
	sess.Draft.Form = form
	sess.Draft.Lead = form.Lead

	if missing := s.missingFields(form); len(missing) > 0 {
		metrics.RecordLeadRejected()
		s.Log.Info("lead_rejected", "missing", missing)
		sess.Warning = MsgRequiredMissing
		return models.Lead{}, &RequiredFieldsError{Fields: missing}
	}

	if err := s.Ledger.Append(ctx, form); err != nil {
		s.Log.Error("lead_append_failed", "err", err)
		return models.Lead{}, fmt.Errorf("intake: save lead: %w", err)
	}
	metrics.RecordLeadSaved()
	s.Log.Info("lead_saved", "cnpj", form.CNPJ, "agente", form.AgenteComercial)

	s.publishEvent(ctx, form)

	sess.Reset()
	saved := form
	sess.Saved = &saved
	return form, nil
}

// o ledger já foi gravado; falha no broker só gera log
func (s *Service) publishEvent(ctx context.Context, l models.Lead) {
	if s.Pub == nil {
		return
	}
	ev := broker.NewLeadEvent(l, s.Now())
	body, err := ev.Body()
	if err != nil {
		s.Log.Error("lead_event_encode_failed", "err", err)
		return
	}
	if err := s.Pub.Publish(ctx, body, ev.Headers()); err != nil {
		s.Log.Warn("lead_event_publish_failed", "cnpj", l.CNPJ, "err", err)
	}
}

func (s *Service) missingFields(form models.Lead) []string {
	trimmed := models.Lead{
		AgenteComercial: strings.TrimSpace(form.AgenteComercial),
		RazaoSocial:     strings.TrimSpace(form.RazaoSocial),
		NomeFantasia:    strings.TrimSpace(form.NomeFantasia),
		Email:           strings.TrimSpace(form.Email),
		Telefone:        strings.TrimSpace(form.Telefone),
		CNPJ:            strings.TrimSpace(form.CNPJ),
	}
	err := s.validate.Struct(trimmed)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if label, ok := fieldLabels[fe.StructField()]; ok {
			out = append(out, label)
		} else {
			out = append(out, fe.StructField())
		}
	}
	return out
}

var fieldLabels = map[string]string{
	"AgenteComercial": "Agente Comercial",
	"RazaoSocial":     "Razão Social",
	"NomeFantasia":    "Nome Fantasia",
	"Email":           "E-mail",
	"Telefone":        "Telefone",
	"CNPJ":            "CNPJ",
}
