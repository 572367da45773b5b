// Package field defines the per-document-type field registry and the regex
// cascade, normalization, and validation applied to extracted text.
package field

import "regexp"

// SemanticType classifies how a field's raw text is parsed.
type SemanticType string

const (
	TypeDate     SemanticType = "date"
	TypeCurrency SemanticType = "currency"
	TypeInteger  SemanticType = "integer"
	TypeNumber   SemanticType = "number"
)

// Definition describes one extractable field of a document type. Patterns
// are an ordered cascade: specific patterns must precede generic fallbacks,
// because a generic numeric pattern would otherwise greedily match first.
type Definition struct {
	Name     string
	Label    string
	Type     SemanticType
	Required bool
	// Mappable fields may be bound to document coordinates. Non-mappable
	// fields are derived elsewhere and never appear in a template.
	Mappable bool
	Patterns []string

	compiled []*regexp.Regexp
}
