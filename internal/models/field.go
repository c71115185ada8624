package models

import "strings"

// NotFound é o texto exibido para campos que a consulta externa não trouxe.
const NotFound = "Não encontrado"

// Field distingue um valor presente de um valor ausente.
// A string de placeholder só aparece na borda de apresentação (Display).
type Field struct {
	Value   string `json:"value,omitempty" bson:"value,omitempty"`
	Present bool   `json:"present" bson:"present"`
}

func Present(v string) Field { return Field{Value: v, Present: true} }

func Missing() Field { return Field{} }

// FieldFrom trata nil e strings em branco como ausentes.
func FieldFrom(v *string) Field {
	if v == nil || strings.TrimSpace(*v) == "" {
		return Missing()
	}
	return Present(strings.TrimSpace(*v))
}

func (f Field) Display() string {
	if !f.Present {
		return NotFound
	}
	return f.Value
}
