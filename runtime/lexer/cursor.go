// Package lexer provides the character-level cursor the crabstar grammar reads
// from. There is no token stream: the parser asks the cursor to recognize
// identifiers, digits, punctuation and keywords in place, so scanning and
// grammar matching happen in a single pass.
package lexer

import (
	"fmt"
	"unicode/utf8"
)

// EOF is returned by Peek and Next at end of input.
const EOF rune = -1

// Position is a location in the source.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column, counted in runes
	Offset int // 0-based byte offset
}

// String renders the position as line:column.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a half-open source range [Start, End).
type Span struct {
	Start Position
	End   Position
}

// Len returns the byte length of the span.
func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}

// Empty reports whether the span covers no input.
func (s Span) Empty() bool {
	return s.Len() == 0
}

// Cursor walks an immutable source buffer rune by rune.
// The zero value is not usable; call NewCursor.
type Cursor struct {
	src []byte
	pos Position
}

// NewCursor returns a cursor at the start of src. src is never modified.
func NewCursor(src []byte) *Cursor {
	return &Cursor{src: src, pos: Position{Line: 1, Column: 1}}
}

// Source returns the underlying buffer.
func (c *Cursor) Source() []byte { return c.src }

// Pos returns the current position.
func (c *Cursor) Pos() Position { return c.pos }

// Offset returns the current byte offset.
func (c *Cursor) Offset() int { return c.pos.Offset }

// Mark returns a position Reset can rewind to.
func (c *Cursor) Mark() Position { return c.pos }

// Reset rewinds (or fast-forwards) the cursor to a position obtained from Mark.
func (c *Cursor) Reset(p Position) { c.pos = p }

// AtEnd reports whether all input has been consumed.
func (c *Cursor) AtEnd() bool { return c.pos.Offset >= len(c.src) }

// Peek returns the rune at the cursor without consuming it.
func (c *Cursor) Peek() rune {
	if c.AtEnd() {
		return EOF
	}
	b := c.src[c.pos.Offset]
	if b < utf8.RuneSelf {
		return rune(b)
	}
	r, _ := utf8.DecodeRune(c.src[c.pos.Offset:])
	return r
}

// Next consumes and returns one rune.
func (c *Cursor) Next() rune {
	if c.AtEnd() {
		return EOF
	}
	r, size := rune(c.src[c.pos.Offset]), 1
	if r >= utf8.RuneSelf {
		r, size = utf8.DecodeRune(c.src[c.pos.Offset:])
	}
	c.pos.Offset += size
	if r == '\n' {
		c.pos.Line++
		c.pos.Column = 1
	} else {
		c.pos.Column++
	}
	return r
}

// HasPrefix reports whether the remaining input starts with lit.
func (c *Cursor) HasPrefix(lit string) bool {
	rest := c.src[c.pos.Offset:]
	return len(rest) >= len(lit) && string(rest[:len(lit)]) == lit
}

// Consume consumes lit if the remaining input starts with it.
func (c *Cursor) Consume(lit string) bool {
	if !c.HasPrefix(lit) {
		return false
	}
	end := c.pos.Offset + len(lit)
	for c.pos.Offset < end {
		c.Next()
	}
	return true
}

// SkipSpace consumes whitespace and reports whether any was consumed.
func (c *Cursor) SkipSpace() bool {
	start := c.pos.Offset
	for !c.AtEnd() && IsSpace(c.Peek()) {
		c.Next()
	}
	return c.pos.Offset > start
}

// PeekIdent returns the identifier at the cursor, or "" if there is none.
func (c *Cursor) PeekIdent() string {
	rest := c.src[c.pos.Offset:]
	if len(rest) == 0 || rest[0] >= 128 || !isIdentStart[rest[0]] {
		return ""
	}
	n := 1
	for n < len(rest) && rest[n] < 128 && isIdentPart[rest[n]] {
		n++
	}
	return string(rest[:n])
}

// Ident consumes an identifier. Keywords are returned like any other word.
func (c *Cursor) Ident() (string, bool) {
	word := c.PeekIdent()
	if word == "" {
		return "", false
	}
	c.advanceBytes(len(word))
	return word, true
}

// AtKeyword reports whether the word at the cursor is exactly kw, so "let"
// matches in "let x" but not in "letter".
func (c *Cursor) AtKeyword(kw string) bool {
	return c.PeekIdent() == kw
}

// Keyword consumes kw if AtKeyword(kw).
func (c *Cursor) Keyword(kw string) bool {
	if !c.AtKeyword(kw) {
		return false
	}
	c.advanceBytes(len(kw))
	return true
}

// AtWordStart reports whether the previous byte cannot continue an identifier,
// i.e. a word beginning here is not the tail of a longer word.
func (c *Cursor) AtWordStart() bool {
	if c.pos.Offset == 0 {
		return true
	}
	prev := c.src[c.pos.Offset-1]
	return prev >= 128 || !isIdentPart[prev]
}

// Digits consumes a maximal run of ASCII digits.
func (c *Cursor) Digits() (string, bool) {
	start := c.pos.Offset
	n := start
	for n < len(c.src) && c.src[n] < 128 && isDigit[c.src[n]] {
		n++
	}
	if n == start {
		return "", false
	}
	c.advanceBytes(n - start)
	return string(c.src[start:n]), true
}

// SkipUntil consumes runes until stop reports true or input ends, and returns
// the consumed span. stop is evaluated before every rune.
func (c *Cursor) SkipUntil(stop func(*Cursor) bool) Span {
	start := c.pos
	for !c.AtEnd() && !stop(c) {
		c.Next()
	}
	return Span{Start: start, End: c.pos}
}

// Text returns the source text covered by span.
func (c *Cursor) Text(span Span) string {
	return string(c.src[span.Start.Offset:span.End.Offset])
}

// SpanFrom returns the span from start to the current position.
func (c *Cursor) SpanFrom(start Position) Span {
	return Span{Start: start, End: c.pos}
}

// Describe names the input at the cursor for diagnostics, e.g. "'*'",
// "'elif'" or "end of input".
func (c *Cursor) Describe() string {
	if c.AtEnd() {
		return "end of input"
	}
	if word := c.PeekIdent(); word != "" {
		return "'" + word + "'"
	}
	if digits := c.peekDigits(); digits != "" {
		return "'" + digits + "'"
	}
	r := c.Peek()
	switch r {
	case '\n':
		return "newline"
	case utf8.RuneError:
		return "invalid UTF-8"
	}
	return fmt.Sprintf("'%c'", r)
}

func (c *Cursor) peekDigits() string {
	rest := c.src[c.pos.Offset:]
	n := 0
	for n < len(rest) && rest[n] < 128 && isDigit[rest[n]] {
		n++
	}
	return string(rest[:n])
}

// advanceBytes moves over n bytes known to contain no newline.
func (c *Cursor) advanceBytes(n int) {
	c.pos.Offset += n
	c.pos.Column += n
}
