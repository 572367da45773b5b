// Package session orchestrates one document's extraction run: load the text
// blocks, apply the saved template if one exists, or accumulate interactive
// field bindings until they are saved as a new template.
package session

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/billmap/billmap/internal/document"
	"github.com/billmap/billmap/internal/field"
	"github.com/billmap/billmap/internal/template"
)

// State tracks where a session is in its lifecycle. A session never moves
// backwards; a new document load always starts a fresh session.
type State int

const (
	// StateUnloaded is a session before any document is loaded.
	StateUnloaded State = iota
	// StateLoaded has a document but no template; bindings accumulate.
	StateLoaded
	// StateExtracted ran a saved template against the document. Terminal.
	StateExtracted
	// StateSaved persisted the accumulated bindings as a template.
	StateSaved
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateExtracted:
		return "extracted"
	case StateSaved:
		return "saved"
	default:
		return "unloaded"
	}
}

// How many nearby blocks are concatenated for the wider cascade candidate.
// Values like a billing-period end date can span adjacent tokens.
const neighborhoodSize = 3

// Service creates extraction sessions from a loader and a template store.
type Service struct {
	loader document.Loader
	store  template.Store
}

// NewService wires a session factory.
func NewService(loader document.Loader, store template.Store) *Service {
	return &Service{loader: loader, store: store}
}

// Open loads a document and starts a session for it. When a template exists
// for the document type it is applied immediately and the session arrives
// extracted; otherwise the session waits for interactive bindings. A
// degraded load (no text layer or no page rendering) is reported through
// Session.Warning, never as an error.
func (s *Service) Open(path, docType string) (*Session, error) {
	if field.Definitions(docType) == nil {
		return nil, fmt.Errorf("unknown document type %q", docType)
	}

	doc, err := s.loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}
	if doc.Diagnostic != "" {
		slog.Warn("Document loaded in degraded mode", "path", path, "diagnostic", doc.Diagnostic)
	}

	sess := &Session{
		doc:     doc,
		store:   s.store,
		docType: docType,
		pending: template.Mapping{},
		state:   StateLoaded,
	}

	mapping, err := s.store.Load(docType)
	if err != nil {
		return nil, fmt.Errorf("loading template: %w", err)
	}
	if mapping != nil {
		sess.values = sess.ExtractAll(mapping)
		sess.state = StateExtracted
	}
	return sess, nil
}

// Session is one document's extraction run. Not safe for concurrent use;
// the core is single-threaded by design.
type Session struct {
	doc     *document.Document
	store   template.Store
	docType string
	pending template.Mapping
	values  map[string]string
	state   State
}

// State returns the session's lifecycle state.
func (s *Session) State() State { return s.state }

// DocumentType returns the document type the session extracts for.
func (s *Session) DocumentType() string { return s.docType }

// Document exposes the loaded text blocks and page images for the UI.
func (s *Session) Document() *document.Document { return s.doc }

// Warning returns the loader's diagnostic for a degraded load, or "".
func (s *Session) Warning() string { return s.doc.Diagnostic }

// TextOnly reports whether visual coordinate mapping is unavailable and the
// caller must map fields by anchor text instead.
func (s *Session) TextOnly() bool { return s.doc.TextOnly() }

// FieldDefinitions returns the ordered field definitions for this session's
// document type.
func (s *Session) FieldDefinitions() []field.Definition {
	return field.Definitions(s.docType)
}

// Values returns the most recent extraction results, field name to raw text.
func (s *Session) Values() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// PendingBindings returns the bindings accumulated so far, for display.
func (s *Session) PendingBindings() template.Mapping {
	out := make(template.Mapping, len(s.pending))
	for k, v := range s.pending {
		out[k] = v
	}
	return out
}

// Bind maps a field to a point on a page, extracts its value immediately,
// and records a pending coordinate binding. The returned value is for
// display; it is recomputed on every later extraction. A point with no
// nearby text yields an empty value, not an error.
func (s *Session) Bind(name string, page int, x, y float64) (string, error) {
	def, err := s.bindableField(name)
	if err != nil {
		return "", err
	}
	value := s.extractAt(def, page, x, y)

	binding := template.Coordinate(page, x, y)
	binding.Value = value
	s.pending[name] = binding
	return value, nil
}

// BindAnchor maps a field to a label text for documents without visual
// mapping, with an optional manual pattern override, and records a pending
// anchor binding.
func (s *Session) BindAnchor(name, anchor, pattern string) (string, error) {
	def, err := s.bindableField(name)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(anchor) == "" {
		return "", fmt.Errorf("anchor text is required for field %q", name)
	}
	value := s.extractByAnchor(def, anchor, pattern)

	binding := template.AnchorBinding(anchor, pattern)
	binding.Value = value
	s.pending[name] = binding
	return value, nil
}

func (s *Session) bindableField(name string) (field.Definition, error) {
	if s.state == StateExtracted {
		return field.Definition{}, fmt.Errorf("session already extracted with a saved template; reload the document to remap")
	}
	def, ok := field.Lookup(s.docType, name)
	if !ok {
		return field.Definition{}, fmt.Errorf("unknown field %q for document type %q", name, s.docType)
	}
	if !def.Mappable {
		return field.Definition{}, fmt.Errorf("field %q is not mappable", name)
	}
	return def, nil
}

// SaveTemplate re-extracts every pending binding to refresh its display
// value, then persists the accumulated bindings as this document type's
// template, replacing any previous one.
func (s *Session) SaveTemplate() error {
	if len(s.pending) == 0 {
		return fmt.Errorf("no field bindings to save")
	}

	values := s.ExtractAll(s.pending)
	for name, binding := range s.pending {
		binding.Value = values[name]
		s.pending[name] = binding
	}

	if err := s.store.Save(s.docType, s.pending); err != nil {
		return fmt.Errorf("saving template: %w", err)
	}
	s.values = values
	s.state = StateSaved
	slog.Info("Template saved", "doc_type", s.docType, "fields", len(s.pending))
	return nil
}

// ExtractAll runs every binding in the mapping against the loaded document
// and returns the raw values. Fields whose location yields no text are
// omitted; extraction never fails on data quality.
func (s *Session) ExtractAll(mapping template.Mapping) map[string]string {
	results := make(map[string]string, len(mapping))
	for name, binding := range mapping {
		def, ok := field.Lookup(s.docType, name)
		if !ok {
			continue
		}
		var value string
		switch binding.Kind {
		case template.KindCoordinate:
			value = s.extractAt(def, binding.Page, binding.X, binding.Y)
		case template.KindAnchor:
			value = s.extractByAnchor(def, binding.Anchor, binding.Pattern)
		}
		if value != "" {
			results[name] = value
		}
	}
	return results
}

// Validate applies the document type's field rules to extracted values.
func (s *Session) Validate(values map[string]string) (bool, []string) {
	return field.Validate(values, s.docType)
}

// extractAt runs the locator and cascade at a document point: the closest
// block's own text first, then a concatenation of the nearest few blocks for
// values that span adjacent tokens.
func (s *Session) extractAt(def field.Definition, page int, x, y float64) string {
	blocks := s.doc.FindNear(x, y, page, document.DefaultNearRadius)
	if len(blocks) == 0 {
		return ""
	}
	closest := blocks[0].Text

	n := neighborhoodSize
	if len(blocks) < n {
		n = len(blocks)
	}
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = blocks[i].Text
	}
	combined := strings.Join(parts, " ")

	return field.Extract(def, []string{closest, combined})
}

// extractByAnchor gathers the text around an anchor label and runs the
// manual pattern override first, then the field's registry cascade. No raw
// fallback here: anchor text includes the label itself, which is never the
// value.
func (s *Session) extractByAnchor(def field.Definition, anchor, pattern string) string {
	text := s.doc.TextNearAnchor(anchor, 0)
	if text == "" {
		return ""
	}
	if pattern != "" {
		if v := field.ExtractWithPattern(text, pattern); v != "" {
			return v
		}
	}
	return field.Match(def, text)
}
