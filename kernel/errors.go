package kernel

import (
	"errors"
	"fmt"
)

// Kind classifies a judgement failure. A Kind is itself an error, so
// errors.Is(err, kernel.TypeMismatch) matches any *Error of that kind.
type Kind int

const (
	UnboundVariable Kind = iota + 1
	MalformedPiType
	InvalidContext
	TypeMismatch
	ApplicationDomainMismatch
	ProofStatementMismatch
	// Ambiguous marks a case the context judgement has no rule for. It is
	// never folded into an ordinary failure.
	Ambiguous
	ReductionLimit
)

var kindNames = map[Kind]string{
	UnboundVariable:           "unbound variable",
	MalformedPiType:           "malformed pi type",
	InvalidContext:            "invalid context",
	TypeMismatch:              "type mismatch",
	ApplicationDomainMismatch: "application domain mismatch",
	ProofStatementMismatch:    "proof statement mismatch",
	Ambiguous:                 "ambiguous",
	ReductionLimit:            "reduction limit",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) Error() string { return k.String() }

type Error struct {
	Kind Kind
	// Pos is the index of the failing step, counted as the pipeline cursor
	// moves, or -1 outside of a program.
	Pos  int
	Step string
	Expr Expr
	Msg  string
}

func newError(kind Kind, expr Expr, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: -1, Expr: expr, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Pos >= 0 {
		return fmt.Sprintf("step %d (%s): %s", e.Pos, e.Step, msg)
	}
	return msg
}

func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// at returns err located at the given step. Errors that are not *Error are
// returned unchanged.
func at(err error, pos int, name string) error {
	var kerr *Error
	if !errors.As(err, &kerr) {
		return err
	}
	located := *kerr
	located.Pos = pos
	located.Step = name
	return &located
}
