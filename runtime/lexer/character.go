package lexer

import "unicode"

// ASCII character lookup tables for fast classification (zero-allocation).
//
// Use inline bounds-checked lookups on hot paths:
//
//	if ch < 128 && isDigit[ch] { ... }
//
// Characters >= 128 fall back to the unicode package.
var (
	isWhitespace [128]bool // Space, tab, carriage return, newline, form feed, vertical tab
	isLetter     [128]bool // a-z, A-Z, _
	isDigit      [128]bool // 0-9
	isIdentStart [128]bool // Letter or _
	isIdentPart  [128]bool // Letter, digit or _
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)

		// Newlines carry no meaning in crabstar, so they are plain whitespace.
		isWhitespace[i] = ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f' || ch == '\v'
		isLetter[i] = ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
		isDigit[i] = '0' <= ch && ch <= '9'
		isIdentStart[i] = isLetter[i]
		isIdentPart[i] = isLetter[i] || isDigit[i]
	}
}

// Identifiers are ASCII-only.
//
//	Identifiers: [a-zA-Z_][a-zA-Z0-9_]*
//
// Non-ASCII runes are never part of an identifier; they only matter for
// position tracking.

// IsSpace reports whether r is insignificant whitespace.
func IsSpace(r rune) bool {
	if r < 128 {
		return isWhitespace[r]
	}
	return unicode.IsSpace(r)
}

// IsDigit reports whether r is an ASCII decimal digit.
func IsDigit(r rune) bool {
	return r >= 0 && r < 128 && isDigit[r]
}

// IsIdentStart reports whether r may begin an identifier.
func IsIdentStart(r rune) bool {
	return r >= 0 && r < 128 && isIdentStart[r]
}

// IsIdentPart reports whether r may continue an identifier.
func IsIdentPart(r rune) bool {
	return r >= 0 && r < 128 && isIdentPart[r]
}

// IsValidIdentifier reports whether s is a syntactically valid identifier.
// Reserved words are valid identifiers at this level; see IsKeyword.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	if s[0] >= 128 || !isIdentStart[s[0]] {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] >= 128 || !isIdentPart[s[i]] {
			return false
		}
	}
	return true
}
