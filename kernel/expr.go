// Package kernel implements the type-checking kernel of a single-sort
// dependent calculus: substitution, contexts encoded as terms, type synthesis
// and the step elaborator that folds checked definitions into the rest of a
// program.
package kernel

import "fmt"

type Expr interface {
	isExpr()
	fmt.Stringer
}

var (
	_ Expr = Var("")
	_ Expr = Lambda{}
	_ Expr = App{}
	_ Expr = Forall{}
	_ Expr = Sort{}
)

type Var string

func (Var) isExpr() {}

func (v Var) String() string {
	return string(v)
}

// Lambda binds Var of type Type in Body.
type Lambda struct {
	Var  Var
	Type Expr
	Body Expr
}

func (Lambda) isExpr() {}

func (l Lambda) String() string {
	return "(λ (" + l.Var.String() + " : " + l.Type.String() + ") " + l.Body.String() + ")"
}

type App struct {
	Fn  Expr
	Arg Expr
}

func (App) isExpr() {}

func (a App) String() string {
	return "(" + a.Fn.String() + " " + a.Arg.String() + ")"
}

// Forall is the dependent function type. A right-nested chain of Foralls
// ending in Sort is also how a typing context is represented.
type Forall struct {
	Var  Var
	Type Expr
	Body Expr
}

func (Forall) isExpr() {}

func (f Forall) String() string {
	return "(Π (" + f.Var.String() + " : " + f.Type.String() + ") " + f.Body.String() + ")"
}

// Sort is the only universe, and it is its own type.
type Sort struct{}

func (Sort) isExpr() {}

func (Sort) String() string { return "Sort" }
