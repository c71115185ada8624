package models

// Company é o resultado da consulta ao cadastro público de CNPJ.
type Company struct {
	CNPJ         string `json:"cnpj" bson:"cnpj"` // apenas dígitos
	RazaoSocial  Field  `json:"razao_social" bson:"razao_social"`
	NomeFantasia Field  `json:"nome_fantasia" bson:"nome_fantasia"`
	Email        Field  `json:"email" bson:"email"`
	Telefone     Field  `json:"telefone" bson:"telefone"`
}

// UnknownCompany é usado quando a consulta não retorna dados.
func UnknownCompany() Company {
	return Company{
		RazaoSocial:  Missing(),
		NomeFantasia: Missing(),
		Email:        Missing(),
		Telefone:     Missing(),
	}
}
