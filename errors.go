// errors.go: the diagnostic taxonomy shared by every stage of the pipeline.
//
// Every fatal condition in the runtime is an *Error with a Kind from the
// taxonomy below. The only non-fatal kind is DiagIncomplete, the private
// signal between the parser/lexer and the reader meaning "the input so far
// is a valid prefix; fetch more bytes and retry". Hosts detect it with
// IsIncomplete and must never surface it to users as a failure.
//
// The core never terminates the process itself: allocator exhaustion is
// raised as a panicking *Error and recovered into an ordinary error at the
// interpreter boundary (see interp.go), and the command-line driver maps
// any returned error to a nonzero exit status.
package skald

import (
	"errors"
	"fmt"
)

// DiagKind classifies a diagnostic.
type DiagKind int

const (
	DiagLex        DiagKind = iota // unrecognized byte, unterminated string, malformed number
	DiagParse                      // unmatched ')' or input ended inside an open list
	DiagIncomplete                 // need more input; reader-private, never fatal
	DiagMemory                     // arena cannot satisfy an allocation
	DiagIO                         // a raw read or write failed
)

func (k DiagKind) String() string {
	switch k {
	case DiagLex:
		return "lex error"
	case DiagParse:
		return "parse error"
	case DiagIncomplete:
		return "incomplete input"
	case DiagMemory:
		return "out of memory"
	case DiagIO:
		return "io error"
	default:
		return "error"
	}
}

// Error is a diagnostic with an optional byte offset into the input buffer.
// Pos is -1 when no input position applies (memory and I/O failures).
type Error struct {
	Kind DiagKind
	Msg  string
	Pos  int
}

func (e *Error) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("%s at byte %d: %s", e.Kind, e.Pos, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// IsIncomplete reports whether err is the parser/lexer "need more input"
// signal rather than a genuine failure.
func IsIncomplete(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == DiagIncomplete
}

func errIncomplete(msg string, pos int) *Error {
	return &Error{Kind: DiagIncomplete, Msg: msg, Pos: pos}
}

func errLex(msg string, pos int) *Error {
	return &Error{Kind: DiagLex, Msg: msg, Pos: pos}
}

func errParse(msg string, pos int) *Error {
	return &Error{Kind: DiagParse, Msg: msg, Pos: pos}
}
