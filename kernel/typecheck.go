package kernel

// Checker runs the typing judgements. The zero value normalizes without a
// step limit and substitutes naively.
type Checker struct {
	// Fuel bounds each normalization; zero or less is unlimited.
	Fuel  int
	Subst Substituter
}

func (c Checker) subst() Substituter {
	if c.Subst == nil {
		return Naive{}
	}
	return c.Subst
}

// Synthesize computes the type of e under the valid context gamma.
func (c Checker) Synthesize(gamma, e Expr) (Expr, error) {
	switch e := e.(type) {
	case Var:
		return LookupInContext(gamma, e)
	case Lambda:
		bodyType, err := c.NormalizeSynthesis(ExtendContext(gamma, e.Var, e.Type), e.Body)
		if err != nil {
			return nil, err
		}
		return Forall{e.Var, e.Type, bodyType}, nil
	case App:
		return c.synthesizeApp(gamma, e)
	case Forall:
		ok, err := c.TypecheckContext(ExtendContext(gamma, e.Var, e.Type), e.Body)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, newError(MalformedPiType, e, "body of %s is not a valid context", e)
		}
		return Sort{}, nil
	case Sort:
		return Sort{}, nil
	}
	panic("unreachable")
}

func (c Checker) synthesizeApp(gamma Expr, a App) (Expr, error) {
	fnType, err := c.NormalizeSynthesis(gamma, a.Fn)
	if err != nil {
		return nil, err
	}
	argType, err := c.NormalizeSynthesis(gamma, a.Arg)
	if err != nil {
		return nil, err
	}
	pi, ok := fnType.(Forall)
	if !ok {
		return nil, newError(TypeMismatch, a, "%s has type %s, which is not a function type", a.Fn, fnType)
	}
	if !AlphaEquivalent(NewEnv(), argType, pi.Type) {
		return nil, newError(ApplicationDomainMismatch, a, "argument %s has type %s, expected %s", a.Arg, argType, pi.Type)
	}
	// The argument itself, not its type, goes into the codomain.
	return c.subst().Substitute(pi.Body, pi.Var, a.Arg), nil
}

// NormalizeSynthesis is Synthesize followed by beta reduction of the type.
func (c Checker) NormalizeSynthesis(gamma, e Expr) (Expr, error) {
	ty, err := c.Synthesize(gamma, e)
	if err != nil {
		return nil, err
	}
	return Normalize(gamma, ty, c.Fuel)
}

// TypecheckExpression types a closed expression. A context-shaped e is
// checked as a context under the empty one and has type Sort; anything else
// is synthesized under the empty context.
func (c Checker) TypecheckExpression(e Expr) (Expr, error) {
	if IsValidContext(e) {
		ok, err := c.TypecheckContext(Sort{}, e)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, newError(InvalidContext, e, "%s is not a well-formed context", e)
		}
		return Sort{}, nil
	}
	return c.NormalizeSynthesis(Sort{}, e)
}

func Synthesize(gamma, e Expr) (Expr, error) {
	return Checker{}.Synthesize(gamma, e)
}

func NormalizeSynthesis(gamma, e Expr) (Expr, error) {
	return Checker{}.NormalizeSynthesis(gamma, e)
}

func TypecheckExpression(e Expr) (Expr, error) {
	return Checker{}.TypecheckExpression(e)
}
