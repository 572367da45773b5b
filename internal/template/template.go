// Package template persists the field-to-coordinate mappings that let a
// known bill layout extract without user interaction.
package template

import (
	"encoding/json"
	"fmt"

	"github.com/billmap/billmap/internal/field"
)

// Kind discriminates the two binding shapes.
type Kind string

const (
	// KindCoordinate binds a field to a point on a page. Canonical.
	KindCoordinate Kind = "coordinate"
	// KindAnchor binds a field to a label text, for documents mapped in
	// text-only mode. Legacy-readable.
	KindAnchor Kind = "anchor"
)

// FieldBinding records where one field's value lives in a document layout.
// Exactly one of the coordinate or anchor shapes is populated, per Kind.
type FieldBinding struct {
	Kind    Kind    `json:"kind"`
	Page    int     `json:"page,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	Anchor  string  `json:"anchor,omitempty"`
	Pattern string  `json:"pattern,omitempty"`
	// Value is the text captured when the binding was saved. It is a
	// display convenience only; every extraction run recomputes it.
	Value string `json:"value,omitempty"`
}

// Coordinate builds a coordinate binding.
func Coordinate(page int, x, y float64) FieldBinding {
	return FieldBinding{Kind: KindCoordinate, Page: page, X: x, Y: y}
}

// AnchorBinding builds a legacy anchor binding with an optional manual
// pattern override.
func AnchorBinding(anchor, pattern string) FieldBinding {
	return FieldBinding{Kind: KindAnchor, Anchor: anchor, Pattern: pattern}
}

// UnmarshalJSON accepts both current records and legacy ones written before
// the kind discriminator existed, inferring the shape from which keys are
// present.
func (b *FieldBinding) UnmarshalJSON(data []byte) error {
	type alias FieldBinding
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.Kind == "" {
		if a.Anchor != "" {
			a.Kind = KindAnchor
		} else {
			a.Kind = KindCoordinate
		}
	}
	*b = FieldBinding(a)
	return nil
}

// Mapping is one document type's template: field name to binding. Saves
// replace the whole mapping; there is no partial merge.
type Mapping map[string]FieldBinding

// checkFields rejects mappings that name unknown fields or bind fields the
// registry marks non-mappable. Enforced by every store backend so a
// non-mappable field can never reach persistence.
func checkFields(docType string, mapping Mapping) error {
	for name := range mapping {
		def, ok := field.Lookup(docType, name)
		if !ok {
			return fmt.Errorf("unknown field %q for document type %q", name, docType)
		}
		if !def.Mappable {
			return fmt.Errorf("field %q is not mappable and cannot be saved in a template", name)
		}
	}
	return nil
}
