package models

// Lead é a linha gravada no ledger. A ordem de Row() é a ordem das colunas do arquivo.
type Lead struct {
	AgenteComercial string `json:"agente_comercial" validate:"required"`
	Lead            string `json:"lead"`
	RazaoSocial     string `json:"razao_social" validate:"required"`
	NomeFantasia    string `json:"nome_fantasia" validate:"required"`
	Email           string `json:"email" validate:"required"`
	Telefone        string `json:"telefone" validate:"required"`
	CNPJ            string `json:"cnpj" validate:"required"`
	NumeroCobrancas string `json:"numero_cobrancas"`
	Mensagem        string `json:"mensagem"`
}

const LeadFields = 9

func (l Lead) Row() []string {
	return []string{
		l.AgenteComercial,
		l.Lead,
		l.RazaoSocial,
		l.NomeFantasia,
		l.Email,
		l.Telefone,
		l.CNPJ,
		l.NumeroCobrancas,
		l.Mensagem,
	}
}

func LeadFromRow(row []string) (Lead, bool) {
	if len(row) != LeadFields {
		return Lead{}, false
	}
	return Lead{
		AgenteComercial: row[0],
		Lead:            row[1],
		RazaoSocial:     row[2],
		NomeFantasia:    row[3],
		Email:           row[4],
		Telefone:        row[5],
		CNPJ:            row[6],
		NumeroCobrancas: row[7],
		Mensagem:        row[8],
	}, true
}

// DisplayName escolhe o nome a exibir em eventos e mensagens.
func (l Lead) DisplayName() string {
	switch {
	case l.NomeFantasia != "":
		return l.NomeFantasia
	case l.RazaoSocial != "":
		return l.RazaoSocial
	default:
		return l.CNPJ
	}
}
