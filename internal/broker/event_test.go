package broker

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Werneck0live/registro-leads/internal/models"
)

func TestNewLeadEvent(t *testing.T) {
	at := time.Date(2026, 10, 19, 12, 0, 0, 0, time.FixedZone("BRT", -3*3600))
	ev := NewLeadEvent(models.Lead{AgenteComercial: "Ana", RazaoSocial: "ACME LTDA", CNPJ: "12.345.678/0001-95"}, at)

	if ev.Message != "Cadastro de LEAD ACME LTDA" {
		t.Fatalf("message: %q", ev.Message)
	}
	if ev.Timestamp.Location() != time.UTC || ev.Timestamp.Hour() != 15 {
		t.Fatalf("timestamp should be UTC: %v", ev.Timestamp)
	}

	body, err := ev.Body()
	if err != nil {
		t.Fatalf("body: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("json: %v", err)
	}
	if got["action"] != ActionLeadCreated || got["cnpj"] != "12.345.678/0001-95" || got["agente"] != "Ana" {
		t.Fatalf("unexpected payload: %s", body)
	}

	h := ev.Headers()
	if h["timestamp"] != "2026-10-19T15:00:00Z" || h["empresa"] != "ACME LTDA" {
		t.Fatalf("unexpected headers: %#v", h)
	}
}
