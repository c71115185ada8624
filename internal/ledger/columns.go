package ledger

import "github.com/Werneck0live/registro-leads/internal/models"

// Column liga o cabeçalho gravado no arquivo ao rótulo exibido no relatório.
// Escrita e leitura usam esta mesma lista, na mesma ordem de models.Lead.Row().
type Column struct {
	Header string
	Label  string
}

var Columns = [models.LeadFields]Column{
	{Header: "Agente Comercial", Label: "Agente Comercial"},
	{Header: "Lead", Label: "Lead"},
	{Header: "Razão Social", Label: "Razão Social"},
	{Header: "Nome Fantasia", Label: "Nome Fantasia"},
	{Header: "E-mail", Label: "E-mail"},
	{Header: "Telefone", Label: "Telefone"},
	{Header: "CNPJ", Label: "CNPJ"},
	{Header: "Número de Cobranças", Label: "Nº de Cobranças"},
	{Header: "Mensagem", Label: "Comentários"},
}

// cabeçalho de 8 colunas gravado por versões antigas do formulário
var legacyHeader = []string{"Lead", "Razão Social", "Nome Fantasia", "E-mail", "Telefone", "CNPJ", "Número de Cobranças", "Mensagem"}

func Header() []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i] = c.Header
	}
	return out
}

func Labels() []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i] = c.Label
	}
	return out
}

func isHeaderRow(row []string) bool {
	return equalRow(row, Header()) || equalRow(row, legacyHeader)
}

func equalRow(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
