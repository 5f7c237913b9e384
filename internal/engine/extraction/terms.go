// internal/engine/extraction/terms.go
package extraction

import (
	"strings"
	"unicode"
)

const maxSearchTerms = 20

// stopWords are skipped during term extraction. Mix of generic English and
// resume filler that carries no skill signal.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {},
	"of": {}, "in": {}, "on": {}, "at": {}, "to": {}, "for": {},
	"with": {}, "from": {}, "by": {}, "as": {}, "is": {}, "are": {},
	"was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"it": {}, "its": {}, "this": {}, "that": {}, "these": {}, "those": {},
	"i": {}, "you": {}, "he": {}, "she": {}, "we": {}, "they": {},
	"my": {}, "your": {}, "our": {}, "their": {},
	"have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "can": {}, "could": {}, "should": {},
	"may": {}, "might": {}, "not": {}, "no": {}, "so": {}, "such": {},
	"than": {}, "then": {}, "there": {}, "here": {}, "about": {},
	"into": {}, "over": {}, "under": {}, "out": {}, "up": {}, "down": {},
	"other": {}, "some": {}, "any": {}, "each": {}, "all": {}, "more": {},
	"most": {}, "very": {}, "also": {}, "etc": {},
	"who": {}, "what": {}, "when": {}, "where": {}, "which": {}, "how": {},

	"experience": {}, "experienced": {}, "years": {}, "year": {},
	"work": {}, "working": {}, "worked": {}, "job": {}, "role": {},
	"strong": {}, "good": {}, "excellent": {}, "ability": {},
	"knowledge": {}, "skills": {}, "skill": {}, "including": {},
	"required": {}, "preferred": {}, "plus": {}, "responsible": {},
	"responsibilities": {}, "candidate": {}, "team": {}, "using": {},
}

// ExtractTerms lower-cases the text, strips punctuation except hyphens and
// dots, and returns up to 20 unique terms in first-seen order. Stop words and
// purely numeric tokens are dropped.
func ExtractTerms(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '-' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	seen := make(map[string]struct{}, maxSearchTerms)
	terms := make([]string, 0, maxSearchTerms)
	for _, tok := range strings.Fields(b.String()) {
		tok = strings.Trim(tok, "-.")
		if tok == "" || isNumeric(tok) {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		terms = append(terms, tok)
		if len(terms) == maxSearchTerms {
			break
		}
	}
	return terms
}

func isNumeric(tok string) bool {
	for _, r := range tok {
		if !unicode.IsDigit(r) && r != '.' {
			return false
		}
	}
	return true
}
