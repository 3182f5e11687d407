package preprocessor

import "unicode"

// Tokenize splits s on whitespace and punctuation, dropping empty tokens,
// per spec.md §4.4's "Vocabulary helper" used by TextFieldSplitter.
func Tokenize(s string) []string {
	var tokens []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, string(cur))
			cur = cur[:0]
		}
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			flush()
			continue
		}
		cur = append(cur, r)
	}
	flush()
	return tokens
}
