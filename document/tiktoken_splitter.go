package document

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

const defaultEncoding = "cl100k_base"

// TiktokenSplitter cuts text into windows of TokensPerChunk tokens, each
// window starting ChunkOverlap tokens before the end of the previous one.
type TiktokenSplitter struct {
	TokensPerChunk int
	ChunkOverlap   int
	Model          string
	encoding       *tiktoken.Tiktoken
}

// encodingForModel maps an embedding or chat model name to the tiktoken
// encoding it was trained with. Unknown models use cl100k_base.
func encodingForModel(model string) string {
	switch {
	case strings.HasPrefix(model, "gpt-4o"), strings.HasPrefix(model, "o1"), strings.HasPrefix(model, "o3"):
		return "o200k_base"
	case strings.HasPrefix(model, "gpt-4"),
		strings.HasPrefix(model, "gpt-3.5-turbo"),
		strings.HasPrefix(model, "text-embedding-"):
		return defaultEncoding
	case strings.HasPrefix(model, "code-"),
		model == "text-davinci-002",
		model == "text-davinci-003":
		return "p50k_base"
	case model == "davinci", model == "curie", model == "babbage", model == "ada",
		strings.HasPrefix(model, "text-davinci-001"),
		strings.HasPrefix(model, "text-curie-001"),
		strings.HasPrefix(model, "text-babbage-001"),
		strings.HasPrefix(model, "text-ada-001"):
		return "r50k_base"
	}
	return defaultEncoding
}

func NewTiktokenSplitter(tokensPerChunk int, chunkOverlap int, model string) (*TiktokenSplitter, error) {
	const op = "new_tiktoken_splitter"
	if tokensPerChunk <= 0 {
		return nil, invalidParam(op, "tokensPerChunk must be positive", fmt.Errorf("invalid tokensPerChunk: %d", tokensPerChunk))
	}
	if chunkOverlap < 0 {
		return nil, invalidParam(op, "chunkOverlap must be non-negative", fmt.Errorf("invalid chunkOverlap: %d", chunkOverlap))
	}
	if chunkOverlap >= tokensPerChunk {
		return nil, invalidParam(op, "chunkOverlap must be less than tokensPerChunk",
			fmt.Errorf("overlap %d >= chunk size %d", chunkOverlap, tokensPerChunk))
	}

	name := encodingForModel(model)
	encoding, err := tiktoken.GetEncoding(name)
	if err != nil {
		return nil, invalidParam(op, fmt.Sprintf("failed to get %s encoding for model %s", name, model), err)
	}

	return &TiktokenSplitter{
		TokensPerChunk: tokensPerChunk,
		ChunkOverlap:   chunkOverlap,
		Model:          model,
		encoding:       encoding,
	}, nil
}

func (ts *TiktokenSplitter) SplitText(text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}

	tokens := ts.encoding.Encode(text, nil, nil)
	if len(tokens) == 0 {
		return nil, nil
	}

	// overlap < TokensPerChunk is enforced by the constructor, so every
	// window advances by at least one token
	step := ts.TokensPerChunk - ts.ChunkOverlap
	chunks := make([]string, 0, len(tokens)/step+1)
	for start := 0; start < len(tokens); start += step {
		end := min(start+ts.TokensPerChunk, len(tokens))
		chunks = append(chunks, ts.encoding.Decode(tokens[start:end]))
		if end == len(tokens) {
			break
		}
	}

	return chunks, nil
}

// CountTokens returns the number of tokens text encodes to.
func (ts *TiktokenSplitter) CountTokens(text string) int {
	return len(ts.encoding.Encode(text, nil, nil))
}
