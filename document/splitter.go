package document

// ChunkKey is the metadata key holding a chunk's 0-based index within the
// document it was split from.
const ChunkKey = "chunk"

// Splitter interface defines methods for splitting text into chunks
type Splitter interface {
	SplitText(text string) ([]string, error)
}

// SplitDocuments splits every document with splitter. Chunks keep their
// parent's order and get their own copy of its metadata plus ChunkKey.
// Documents with empty content produce no chunks.
func SplitDocuments(splitter Splitter, documents []Document) ([]Document, error) {
	var result []Document

	for _, doc := range documents {
		chunks, err := splitter.SplitText(doc.PageContent)
		if err != nil {
			return nil, &SplitterError{
				Op:      "split_documents",
				Message: "failed to split document text",
				Err:     err,
			}
		}

		for i, chunk := range chunks {
			metadata := doc.CopyMetadata()
			metadata[ChunkKey] = i
			result = append(result, Document{
				PageContent: chunk,
				Metadata:    metadata,
			})
		}
	}

	return result, nil
}
