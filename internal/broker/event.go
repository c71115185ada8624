package broker

import (
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Werneck0live/registro-leads/internal/models"
)

const ActionLeadCreated = "cadastro"

// LeadEvent é publicado a cada lead gravado no ledger e repassado ao feed websocket.
type LeadEvent struct {
	Action    string    `json:"action"`
	Message   string    `json:"message"`
	Empresa   string    `json:"empresa"`
	CNPJ      string    `json:"cnpj"`
	Agente    string    `json:"agente"`
	Lead      string    `json:"lead,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLeadEvent(l models.Lead, at time.Time) LeadEvent {
	empresa := l.DisplayName()
	return LeadEvent{
		Action:    ActionLeadCreated,
		Message:   fmt.Sprintf("Cadastro de LEAD %s", empresa),
		Empresa:   empresa,
		CNPJ:      l.CNPJ,
		Agente:    l.AgenteComercial,
		Lead:      l.Lead,
		Timestamp: at.UTC(),
	}
}

func (e LeadEvent) Body() ([]byte, error) {
	return json.Marshal(e)
}

func (e LeadEvent) Headers() amqp.Table {
	return amqp.Table{
		"action":    e.Action,
		"cnpj":      e.CNPJ,
		"empresa":   e.Empresa,
		"agente":    e.Agente,
		"timestamp": e.Timestamp.Format(time.RFC3339),
	}
}
