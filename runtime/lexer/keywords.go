package lexer

// Reserved words. They are matched with word boundaries and are never accepted
// as identifiers.
const (
	KwLet   = "let"
	KwIf    = "if"
	KwElif  = "elif"
	KwElse  = "else"
	KwAnd   = "and"
	KwOr    = "or"
	KwNot   = "not"
	KwTrue  = "true"
	KwFalse = "false"
)

// Keywords lists every reserved word in a stable order.
var Keywords = []string{KwLet, KwIf, KwElif, KwElse, KwAnd, KwOr, KwNot, KwTrue, KwFalse}

var keywordSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Keywords))
	for _, kw := range Keywords {
		m[kw] = struct{}{}
	}
	return m
}()

// IsKeyword reports whether word is reserved.
func IsKeyword(word string) bool {
	_, ok := keywordSet[word]
	return ok
}
