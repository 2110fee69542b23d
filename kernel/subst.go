package kernel

import (
	"strconv"

	"github.com/samber/lo"
)

// Substitute replaces every occurrence of v in e by r.
//
// A Lambda or Forall whose binder is v is returned as is, type annotation
// included. No renaming is done: a binder in e that also occurs free in r
// captures it. Hygienic is the capture-avoiding alternative.
func Substitute(e Expr, v Var, r Expr) Expr {
	switch e := e.(type) {
	case Var:
		if Equal(e, v) {
			return r
		}
		return e
	case Lambda:
		if Equal(e.Var, v) {
			return e
		}
		return Lambda{e.Var, Substitute(e.Type, v, r), Substitute(e.Body, v, r)}
	case App:
		return App{Substitute(e.Fn, v, r), Substitute(e.Arg, v, r)}
	case Forall:
		if Equal(e.Var, v) {
			return e
		}
		return Forall{e.Var, Substitute(e.Type, v, r), Substitute(e.Body, v, r)}
	case Sort:
		return Sort{}
	}
	panic("unreachable")
}

// SubstituteSteps applies Substitute to every expression of a program: let
// bodies, theorem statements and proofs, and the trailing expression.
func SubstituteSteps(steps Step, v Var, r Expr) Step {
	return mapSteps(steps, func(e Expr) Expr { return Substitute(e, v, r) })
}

// FreeVars lists the variables of e not bound by an enclosing binder, each
// once, in order of first occurrence.
func FreeVars(e Expr) []Var {
	switch e := e.(type) {
	case Var:
		return []Var{e}
	case Lambda:
		return binderFreeVars(e.Var, e.Type, e.Body)
	case App:
		return lo.Uniq(append(FreeVars(e.Fn), FreeVars(e.Arg)...))
	case Forall:
		return binderFreeVars(e.Var, e.Type, e.Body)
	case Sort:
		return nil
	}
	panic("unreachable")
}

func binderFreeVars(x Var, ty, body Expr) []Var {
	inBody := lo.Filter(FreeVars(body), func(v Var, _ int) bool { return v != x })
	return lo.Uniq(append(FreeVars(ty), inBody...))
}

func occursFree(v Var, e Expr) bool {
	return lo.Contains(FreeVars(e), v)
}

// A Substituter rewrites terms and programs. The package-level functions
// are the Naive one.
type Substituter interface {
	Substitute(e Expr, v Var, r Expr) Expr
	SubstituteSteps(steps Step, v Var, r Expr) Step
}

var (
	_ Substituter = Naive{}
	_ Substituter = Hygienic{}
)

type Naive struct{}

func (Naive) Substitute(e Expr, v Var, r Expr) Expr          { return Substitute(e, v, r) }
func (Naive) SubstituteSteps(steps Step, v Var, r Expr) Step { return SubstituteSteps(steps, v, r) }

// A NameSupply picks a name derived from base for which used reports false.
type NameSupply interface {
	Fresh(base Var, used func(Var) bool) Var
}

// Primes freshens a name by appending primes: x, x', x'', ...
type Primes struct{}

func (p Primes) Fresh(base Var, used func(Var) bool) Var {
	if used(base) {
		return p.Fresh(base+"'", used)
	}
	return base
}

// Counter freshens a name by appending a number that only ever grows within
// one Counter.
type Counter struct {
	n int
}

func (c *Counter) Fresh(base Var, used func(Var) bool) Var {
	for {
		c.n++
		name := base + Var(strconv.Itoa(c.n))
		if !used(name) {
			return name
		}
	}
}

// Hygienic is capture-avoiding substitution. Binder annotations are always
// rewritten, since they are outside the binder's scope, and a binder that
// occurs free in the replacement is renamed with Names before the body is
// entered. Avoid lists names that renaming must never pick.
type Hygienic struct {
	Names NameSupply
	Avoid []Var
}

func (h Hygienic) names() NameSupply {
	if h.Names == nil {
		return Primes{}
	}
	return h.Names
}

func (h Hygienic) Substitute(e Expr, v Var, r Expr) Expr {
	return h.subst(e, v, r, FreeVars(r))
}

func (h Hygienic) SubstituteSteps(steps Step, v Var, r Expr) Step {
	return mapSteps(steps, func(e Expr) Expr { return h.Substitute(e, v, r) })
}

func (h Hygienic) subst(e Expr, v Var, r Expr, fv []Var) Expr {
	switch e := e.(type) {
	case Var:
		if e == v {
			return r
		}
		return e
	case Lambda:
		x, body := h.rebind(e.Var, e.Body, v, r, fv)
		return Lambda{x, h.subst(e.Type, v, r, fv), body}
	case App:
		return App{h.subst(e.Fn, v, r, fv), h.subst(e.Arg, v, r, fv)}
	case Forall:
		x, body := h.rebind(e.Var, e.Body, v, r, fv)
		return Forall{x, h.subst(e.Type, v, r, fv), body}
	case Sort:
		return Sort{}
	}
	panic("unreachable")
}

// rebind substitutes under the binder x, renaming x first if r would be
// captured by it.
func (h Hygienic) rebind(x Var, body Expr, v Var, r Expr, fv []Var) (Var, Expr) {
	if x == v || !occursFree(v, body) {
		return x, body
	}
	if lo.Contains(fv, x) {
		bodyFree := FreeVars(body)
		fresh := h.names().Fresh(x, func(n Var) bool {
			return n == v || lo.Contains(fv, n) || lo.Contains(bodyFree, n) || lo.Contains(h.Avoid, n)
		})
		body = h.Substitute(body, x, fresh)
		x = fresh
	}
	return x, h.subst(body, v, r, fv)
}
