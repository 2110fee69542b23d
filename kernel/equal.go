package kernel

import "golang.org/x/exp/slices"

// Equal reports whether a and b are syntactically identical, binder names
// included.
func Equal(a, b Expr) bool {
	switch a := a.(type) {
	case Var:
		b, ok := b.(Var)
		return ok && a == b
	case Lambda:
		b, ok := b.(Lambda)
		return ok && a.Var == b.Var && Equal(a.Type, b.Type) && Equal(a.Body, b.Body)
	case App:
		b, ok := b.(App)
		return ok && Equal(a.Fn, b.Fn) && Equal(a.Arg, b.Arg)
	case Forall:
		b, ok := b.(Forall)
		return ok && a.Var == b.Var && Equal(a.Type, b.Type) && Equal(a.Body, b.Body)
	case Sort:
		_, ok := b.(Sort)
		return ok
	}
	panic("unreachable")
}

type pairing struct {
	L, R Var
}

// Env records the bound variables already assumed equal while comparing two
// terms. The innermost pairing comes first. An Env is never mutated; Bind
// returns a new one.
type Env struct {
	pairs []pairing
}

func NewEnv() *Env {
	return &Env{}
}

func (env *Env) Bind(l, r Var) *Env {
	if env == nil {
		env = NewEnv()
	}
	return &Env{pairs: prepend(pairing{l, r}, env.pairs)}
}

func (env *Env) related(l, r Var) bool {
	var pairs []pairing
	if env != nil {
		pairs = env.pairs
	}
	i := slices.IndexFunc(pairs, func(p pairing) bool { return p.L == l || p.R == r })
	if i < 0 {
		// both free
		return l == r
	}
	return pairs[i].L == l && pairs[i].R == r
}

// AlphaEquivalent reports whether a and b are equal up to a consistent
// renaming of bound variables, given the pairings already in env.
func AlphaEquivalent(env *Env, a, b Expr) bool {
	switch a := a.(type) {
	case Var:
		b, ok := b.(Var)
		return ok && env.related(a, b)
	case Lambda:
		b, ok := b.(Lambda)
		return ok &&
			AlphaEquivalent(env, a.Type, b.Type) &&
			AlphaEquivalent(env.Bind(a.Var, b.Var), a.Body, b.Body)
	case App:
		b, ok := b.(App)
		return ok && AlphaEquivalent(env, a.Fn, b.Fn) && AlphaEquivalent(env, a.Arg, b.Arg)
	case Forall:
		b, ok := b.(Forall)
		return ok &&
			AlphaEquivalent(env, a.Type, b.Type) &&
			AlphaEquivalent(env.Bind(a.Var, b.Var), a.Body, b.Body)
	case Sort:
		_, ok := b.(Sort)
		return ok
	}
	panic("unreachable")
}

func prepend[T any](v T, from []T) []T {
	return append([]T{v}, from...)
}
