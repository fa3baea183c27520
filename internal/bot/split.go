package bot

import (
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// Splitter breaks a chat message into sentences that are classified
// independently.
type Splitter interface {
	Split(text string) []string
}

// SentenceSplitter uses a trained punkt tokenizer. The English model
// copes fine with the short mixed German/English guild chatter the bot
// sees; sentence boundaries are language-neutral enough.
type SentenceSplitter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewSentenceSplitter loads the tokenizer model.
func NewSentenceSplitter() (*SentenceSplitter, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, err
	}
	return &SentenceSplitter{tokenizer: tokenizer}, nil
}

// Split returns the trimmed, non-empty sentences of the text. A text
// the tokenizer cannot split is returned whole.
func (s *SentenceSplitter) Split(text string) []string {
	raw := s.tokenizer.Tokenize(text)
	if len(raw) == 0 {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			return []string{trimmed}
		}
		return nil
	}

	parts := make([]string, 0, len(raw))
	for _, sentence := range raw {
		if trimmed := strings.TrimSpace(sentence.Text); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
