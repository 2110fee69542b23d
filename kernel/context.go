package kernel

// A context is an ordinary expression: Sort is the empty context and
// Forall(v, t, rest) is rest extended with v : t.

// IsValidContext reports whether e is shaped like a context, a chain of
// Foralls ending in Sort. The bound types are not looked at.
func IsValidContext(e Expr) bool {
	for {
		switch f := e.(type) {
		case Sort:
			return true
		case Forall:
			e = f.Body
		default:
			return false
		}
	}
}

func ExtendContext(gamma Expr, v Var, ty Expr) Expr {
	return SetInContext(gamma, v, ty)
}

func SetInContext(gamma Expr, v Var, ty Expr) Expr {
	return Forall{v, ty, gamma}
}

// LookupInContext returns the type of the innermost binding of v in gamma.
func LookupInContext(gamma Expr, v Var) (Expr, error) {
	for {
		f, ok := gamma.(Forall)
		if !ok {
			return nil, newError(UnboundVariable, v, "%s is not bound in the context", v)
		}
		if Equal(f.Var, v) {
			return f.Type, nil
		}
		gamma = f.Body
	}
}

// TypecheckContext reports whether delta is a valid context under gamma,
// which is assumed valid already.
//
// Under a non-empty gamma only delta = Sort has a rule: the latest binding of
// gamma must then be a context itself or a type of sort Sort. Any other
// delta there yields an Ambiguous error rather than a verdict.
func (c Checker) TypecheckContext(gamma, delta Expr) (bool, error) {
	for {
		switch g := gamma.(type) {
		case Sort:
			switch d := delta.(type) {
			case Sort:
				return true, nil
			case Forall:
				gamma, delta = ExtendContext(gamma, d.Var, d.Type), d.Body
			default:
				return false, nil
			}
		case Forall:
			if _, ok := delta.(Sort); !ok {
				return false, newError(Ambiguous, delta, "no rule for %s under the non-empty context %s", delta, gamma)
			}
			if IsValidContext(g.Type) {
				return c.TypecheckContext(g.Body, g.Type)
			}
			ty, err := c.NormalizeSynthesis(g.Body, g.Type)
			if err != nil {
				return false, err
			}
			_, isSort := ty.(Sort)
			return isSort, nil
		default:
			d, ok := delta.(Forall)
			if !ok {
				return false, nil
			}
			gamma, delta = ExtendContext(gamma, d.Var, d.Type), d.Body
		}
	}
}

func TypecheckContext(gamma, delta Expr) (bool, error) {
	return Checker{}.TypecheckContext(gamma, delta)
}
