package classifier

import (
	"strings"
	"unicode"
)

// tokenize lower-cases the text and splits it into runs of letters and
// digits. Punctuation and whitespace separate tokens; umlauts and other
// letters survive intact, which matters for the German training data.
func tokenize(text string) []string {
	text = strings.ToLower(text)

	var tokens []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
			continue
		}
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}
