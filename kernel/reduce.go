package kernel

// DefaultFuel is the number of beta steps Run allows a single normalization
// unless configured otherwise.
const DefaultFuel = 1_000_000

type reducer struct {
	fuel  int
	steps int
	h     Hygienic
}

// BetaReduce reduces e to beta-normal form. Names bound in ctx are never
// chosen when a binder has to be renamed. It does not return on terms
// without a normal form; Normalize is the bounded version.
func BetaReduce(ctx, e Expr) Expr {
	n, err := Normalize(ctx, e, 0)
	if err != nil {
		panic(err)
	}
	return n
}

// Normalize is BetaReduce with a budget of fuel beta steps. A fuel of zero
// or less means no limit. Running out yields a ReductionLimit error.
func Normalize(ctx, e Expr, fuel int) (Expr, error) {
	r := &reducer{fuel: fuel, h: Hygienic{Names: Primes{}, Avoid: boundNames(ctx)}}
	return r.normalize(e)
}

func boundNames(ctx Expr) []Var {
	var names []Var
	for {
		f, ok := ctx.(Forall)
		if !ok {
			return names
		}
		names = append(names, f.Var)
		ctx = f.Body
	}
}

func (r *reducer) tick(e Expr) error {
	r.steps++
	if r.fuel > 0 && r.steps > r.fuel {
		return newError(ReductionLimit, e, "no normal form within %d steps", r.fuel)
	}
	return nil
}

// whnf contracts redexes at the head of e until its head is no longer a
// lambda applied to an argument.
func (r *reducer) whnf(e Expr) (Expr, error) {
	for {
		app, ok := e.(App)
		if !ok {
			return e, nil
		}
		fn, err := r.whnf(app.Fn)
		if err != nil {
			return nil, err
		}
		lam, ok := fn.(Lambda)
		if !ok {
			return App{fn, app.Arg}, nil
		}
		if err := r.tick(e); err != nil {
			return nil, err
		}
		e = r.h.Substitute(lam.Body, lam.Var, app.Arg)
	}
}

func (r *reducer) normalize(e Expr) (Expr, error) {
	e, err := r.whnf(e)
	if err != nil {
		return nil, err
	}
	switch e := e.(type) {
	case Var, Sort:
		return e, nil
	case Lambda:
		ty, body, err := r.normalizeBinder(e.Type, e.Body)
		if err != nil {
			return nil, err
		}
		return Lambda{e.Var, ty, body}, nil
	case Forall:
		ty, body, err := r.normalizeBinder(e.Type, e.Body)
		if err != nil {
			return nil, err
		}
		return Forall{e.Var, ty, body}, nil
	case App:
		fn, err := r.normalize(e.Fn)
		if err != nil {
			return nil, err
		}
		arg, err := r.normalize(e.Arg)
		if err != nil {
			return nil, err
		}
		return App{fn, arg}, nil
	}
	panic("unreachable")
}

func (r *reducer) normalizeBinder(ty, body Expr) (Expr, Expr, error) {
	ty, err := r.normalize(ty)
	if err != nil {
		return nil, nil, err
	}
	body, err = r.normalize(body)
	if err != nil {
		return nil, nil, err
	}
	return ty, body, nil
}
