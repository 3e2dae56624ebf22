package document

// Document represents a text document with metadata
type Document struct {
	PageContent string                 `json:"page_content"`
	Metadata    map[string]interface{} `json:"metadata"`
}

// CopyMetadata returns a shallow copy of the document metadata.
func (d Document) CopyMetadata() map[string]interface{} {
	out := make(map[string]interface{}, len(d.Metadata))
	for k, v := range d.Metadata {
		out[k] = v
	}
	return out
}
