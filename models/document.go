package models

// DocumentSource tells who supplied a document
type DocumentSource string

const (
	SourceClient  DocumentSource = "client"
	SourceCompany DocumentSource = "company"
)

// Document is a file attached to an order. Path is a storage key, never a URL.
type Document struct {
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	LastUpdated string         `json:"lastUpdated"`
	Path        string         `json:"path"`
	Source      DocumentSource `json:"source"`
}

// RemoveDocument returns docs without the entry stored at path
func RemoveDocument(docs []Document, path string) ([]Document, bool) {
	out := make([]Document, 0, len(docs))
	removed := false
	for _, d := range docs {
		if d.Path == path {
			removed = true
			continue
		}
		out = append(out, d)
	}
	return out, removed
}
