// Package invariant provides contract assertions for the crabstar toolchain.
//
// Assertions guard programming errors inside the parser and its helpers, never
// malformed user input: a syntax error is always reported as a diagnostic, while a
// violated invariant means the parser itself is broken.
//
// All functions panic on violation.
package invariant

import (
	"fmt"
	"reflect"
	"runtime"
)

// Precondition checks an input contract at function entry.
//
// Example:
//
//	func Parse(source []byte, opts ...ParserOpt) *ParseTree {
//	    invariant.Precondition(utf8.Valid(source) || len(source) == 0, "source must be UTF-8")
//	}
func Precondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("PRECONDITION", format, args...)
	}
}

// Postcondition checks an output contract before function return.
func Postcondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("POSTCONDITION", format, args...)
	}
}

// Invariant checks internal consistency while a function runs, most often that a
// grammar loop consumed input:
//
//	prev := p.cur.Offset()
//	p.declaration()
//	invariant.Invariant(p.cur.Offset() > prev, "declaration made no progress")
func Invariant(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("INVARIANT", format, args...)
	}
}

// NotNil panics if value is nil, including typed nils such as (*ast.Int)(nil)
// stored in an ast.Node.
func NotNil(value interface{}, name string) {
	if value == nil || isNilValue(value) {
		fail("PRECONDITION", "%s must not be nil", name)
	}
}

func isNilValue(value interface{}) bool {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}

// fail panics with the violation kind and the caller's location.
func fail(kind, format string, args ...interface{}) {
	pc := make([]uintptr, 10)
	n := runtime.Callers(3, pc)
	frames := runtime.CallersFrames(pc[:n])

	msg := fmt.Sprintf("%s VIOLATION: "+format, append([]interface{}{kind}, args...)...)
	if frame, ok := frames.Next(); ok {
		msg += fmt.Sprintf("\n  at %s:%d", frame.File, frame.Line)
	}

	panic(msg)
}
