package shi

import "fmt"

// ErrorKind loosely classifies a ShiError for callers that want to
// branch on it; the language itself only ever sees the message string
// (spec.md §7: "every error is a single message string").
type ErrorKind int

const (
	ErrReader ErrorKind = iota
	ErrType
	ErrArity
	ErrBinding
	ErrResource
)

func (k ErrorKind) String() string {
	switch k {
	case ErrReader:
		return "reader"
	case ErrType:
		return "type"
	case ErrArity:
		return "arity"
	case ErrBinding:
		return "binding"
	case ErrResource:
		return "resource"
	default:
		return "error"
	}
}

// Pos is a line/column position in source text, 1-based, the way the
// reader reports it.
type Pos struct {
	Line, Col int
}

func (p Pos) String() string {
	if p.Line == 0 {
		return "?"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// ShiError is the Go-level representation of a Shi error: adapted
// from the teacher's ParsingError (errors.go), which likewise pairs a
// message with a source span.
type ShiError struct {
	Kind    ErrorKind
	Message string
	Pos     Pos
}

func (e ShiError) Error() string {
	if e.Pos.Line == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s @ %s", e.Message, e.Pos)
}

func newError(kind ErrorKind, format string, args ...any) ShiError {
	return ShiError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (rt *Runtime) typeErrorf(r Ref, want, ctx string) ShiError {
	return newError(ErrType, "%s: expected %s, got %s", ctx, want, rt.printRef(r))
}

// shiEscape is the unexported panic payload used for the error-trap's
// non-local transfer (trap.go). It is recovered by trap-error's own
// recover() or, when no trap is active, by guardTopLevel — see trap.go.
type shiEscape struct {
	Message string
}

func (e shiEscape) Error() string { return e.Message }
