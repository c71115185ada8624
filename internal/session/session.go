package session

import (
	"time"

	"github.com/Werneck0live/registro-leads/internal/models"
)

// Draft é a cópia de trabalho do lead em edição.
type Draft struct {
	CompanyName string         `bson:"company_name" json:"company_name"`
	Lead        string         `bson:"lead" json:"lead"`
	Searched    bool           `bson:"searched" json:"searched"`
	Provider    string         `bson:"provider,omitempty" json:"provider,omitempty"`
	CNPJFound   bool           `bson:"cnpj_found" json:"cnpj_found"`
	Company     models.Company `bson:"company" json:"company"`
	Enriched    bool           `bson:"enriched" json:"enriched"`
	// valores editáveis exibidos no formulário
	Form models.Lead `bson:"form" json:"form"`
}

// Session é o contexto de um navegador: rascunho, avisos e a liberação do relatório.
type Session struct {
	ID             string       `bson:"_id" json:"id"`
	Draft          Draft        `bson:"draft" json:"draft"`
	Notices        []string     `bson:"notices,omitempty" json:"notices,omitempty"`
	Warning        string       `bson:"warning,omitempty" json:"warning,omitempty"`
	Saved          *models.Lead `bson:"saved,omitempty" json:"saved,omitempty"`
	ReportUnlocked bool         `bson:"report_unlocked" json:"report_unlocked"`
	UpdatedAt      time.Time    `bson:"updated_at" json:"updated_at"`
}

func New(id string) *Session {
	return &Session{ID: id, UpdatedAt: time.Now()}
}

// Reset limpa o rascunho depois de um salvamento bem-sucedido.
// A liberação do relatório não é afetada.
func (s *Session) Reset() {
	s.Draft = Draft{}
	s.Notices = nil
	s.Warning = ""
}

func (s *Session) Notice(msg string) {
	s.Notices = append(s.Notices, msg)
}

// TakeMessages devolve e limpa avisos e resumo de salvamento (exibição única).
func (s *Session) TakeMessages() (notices []string, warning string, saved *models.Lead) {
	notices, warning, saved = s.Notices, s.Warning, s.Saved
	s.Notices, s.Warning, s.Saved = nil, "", nil
	return
}

func (s *Session) clone() *Session {
	c := *s
	if s.Notices != nil {
		c.Notices = append([]string(nil), s.Notices...)
	}
	if s.Saved != nil {
		saved := *s.Saved
		c.Saved = &saved
	}
	return &c
}
