package template

// Store persists one template mapping per document type. Save is a
// whole-entity overwrite: the previous template for that type is replaced,
// last write wins. Writers for the same document type must be serialized by
// the caller; different types are independent.
type Store interface {
	// Save replaces the template for a document type.
	Save(docType string, mapping Mapping) error

	// Load returns the template for a document type, or nil when none has
	// been saved.
	Load(docType string) (Mapping, error)

	// Delete removes the template for a document type.
	Delete(docType string) error

	// Close releases the underlying storage.
	Close() error
}
