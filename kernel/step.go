package kernel

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

type Theorem struct {
	Name      Var
	Statement Expr
	Proof     Expr
}

func (t Theorem) String() string {
	return "theorem " + t.Name.String() + " : " + t.Statement.String() + " := " + t.Proof.String()
}

// Step is one element of a program. A nil Step is the end of the program.
type Step interface {
	isStep()
	fmt.Stringer
	next() Step
}

var (
	_ Step = Let{}
	_ Step = TheoremStep{}
	_ Step = ExprStep{}
)

type Let struct {
	Name Var
	Expr Expr
	Next Step
}

func (Let) isStep()      {}
func (l Let) next() Step { return l.Next }

func (l Let) String() string {
	return "let " + l.Name.String() + " = " + l.Expr.String() + ";" + tail(l.Next)
}

type TheoremStep struct {
	Theorem Theorem
	Next    Step
}

func (TheoremStep) isStep()      {}
func (t TheoremStep) next() Step { return t.Next }

func (t TheoremStep) String() string {
	return t.Theorem.String() + ";" + tail(t.Next)
}

// ExprStep is always the last step of a program.
type ExprStep struct {
	Expr Expr
}

func (ExprStep) isStep()    {}
func (ExprStep) next() Step { return nil }

func (e ExprStep) String() string {
	return e.Expr.String()
}

func tail(s Step) string {
	if s == nil {
		return ""
	}
	return "\n" + s.String()
}

// Program links steps into a single sequence. Every ExprStep but a trailing
// one is dropped, since nothing can follow it.
func Program(steps ...Step) Step {
	var out Step
	for _, s := range lo.Reverse(append([]Step(nil), steps...)) {
		switch s := s.(type) {
		case Let:
			out = Let{s.Name, s.Expr, out}
		case TheoremStep:
			out = TheoremStep{s.Theorem, out}
		case ExprStep:
			if out == nil {
				out = s
			}
		}
	}
	return out
}

// Steps flattens a program into its heads. Each element keeps its own Next.
func Steps(s Step) []Step {
	var heads []Step
	for ; s != nil; s = s.next() {
		heads = append(heads, s)
	}
	return heads
}

// Len is the number of steps in the program.
func Len(s Step) int {
	return len(Steps(s))
}

// Next returns the step after s, or nil at the end of the program.
func Next(s Step) Step {
	if s == nil {
		return nil
	}
	return s.next()
}

func stepName(s Step) string {
	switch s := s.(type) {
	case Let:
		return s.Name.String()
	case TheoremStep:
		return s.Theorem.Name.String()
	case ExprStep:
		return "<expr>"
	}
	return ""
}

// mapSteps rebuilds a program with f applied to every expression it holds.
// The walk is a loop so long programs do not deepen the stack.
func mapSteps(steps Step, f func(Expr) Expr) Step {
	var out Step
	for _, s := range lo.Reverse(Steps(steps)) {
		switch s := s.(type) {
		case Let:
			out = Let{s.Name, f(s.Expr), out}
		case TheoremStep:
			out = TheoremStep{Theorem{s.Theorem.Name, f(s.Theorem.Statement), f(s.Theorem.Proof)}, out}
		case ExprStep:
			out = ExprStep{f(s.Expr)}
		default:
			panic("unreachable")
		}
	}
	return out
}

func programString(s Step) string {
	return strings.Join(lo.Map(Steps(s), func(s Step, _ int) string {
		switch s := s.(type) {
		case Let:
			return "let " + s.Name.String() + " = " + s.Expr.String()
		case TheoremStep:
			return s.Theorem.String()
		}
		return s.String()
	}), "; ")
}
