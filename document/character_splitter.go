package document

import (
	"fmt"
	"strings"
)

// CharacterSplitter packs separator-delimited parts into chunks of at most
// ChunkSize bytes. A single part longer than ChunkSize becomes its own chunk.
type CharacterSplitter struct {
	ChunkSize    int
	ChunkOverlap int
	Separator    string
}

func NewCharacterSplitter(chunkSize int, chunkOverlap int, separator string) (*CharacterSplitter, error) {
	const op = "new_character_splitter"
	if chunkSize <= 0 {
		return nil, invalidParam(op, "chunkSize must be positive", fmt.Errorf("invalid chunkSize: %d", chunkSize))
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, invalidParam(op, "chunkOverlap must be in [0, chunkSize)", fmt.Errorf("invalid chunkOverlap: %d", chunkOverlap))
	}
	if separator == "" {
		separator = " "
	}

	return &CharacterSplitter{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		Separator:    separator,
	}, nil
}

func (cs *CharacterSplitter) SplitText(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	var chunks []string
	var current []string
	size := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, strings.TrimSpace(strings.Join(current, cs.Separator)))

		// carry trailing parts forward while they fit in the overlap window
		var carried []string
		carriedSize := 0
		for i := len(current) - 1; i >= 0; i-- {
			next := carriedSize + len(current[i])
			if len(carried) > 0 {
				next += len(cs.Separator)
			}
			if next > cs.ChunkOverlap {
				break
			}
			carried = append([]string{current[i]}, carried...)
			carriedSize = next
		}
		current = carried
		size = carriedSize
	}

	for _, part := range strings.Split(text, cs.Separator) {
		if part == "" {
			continue
		}
		added := len(part)
		if len(current) > 0 {
			added += len(cs.Separator)
		}
		if size+added > cs.ChunkSize && len(current) > 0 {
			flush()
			added = len(part) + len(cs.Separator)
			if len(current) == 0 || size+added > cs.ChunkSize {
				current, size, added = nil, 0, len(part)
			}
		}
		current = append(current, part)
		size += added
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.TrimSpace(strings.Join(current, cs.Separator)))
	}

	return chunks, nil
}
