package utils

import (
	"regexp"
	"unicode"
)

// formato pontuado DD.DDD.DDD/DDDD-DD
var cnpjPattern = regexp.MustCompile(`\b\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}\b`)

// remove qualquer coisa que não seja dígito
func SanitizeCNPJ(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, r)
		}
	}
	return string(out)
}

// FindCNPJ devolve a primeira ocorrência de um CNPJ pontuado no texto, sem alterações.
func FindCNPJ(text string) (string, bool) {
	m := cnpjPattern.FindString(text)
	return m, m != ""
}
