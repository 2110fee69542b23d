package kernel

// Binding is a name eliminated from the program and the value inlined for it.
type Binding struct {
	Name  Var
	Value Expr
}

// Result is the normal form of a bare expression step. Type is nil unless
// expression steps are checked.
type Result struct {
	Pos   int
	Value Expr
	Type  Expr
}

type Outcome struct {
	Bindings []Binding
	Results  []Result
	// Skipped names the steps the cursor passed over without looking at them.
	Skipped []string
	// Diagnostics are failures that did not stop the run.
	Diagnostics []error
	// Errors are fatal step failures. There is at most one unless the run
	// keeps going.
	Errors []error
	// Remainder is the program left when the run halted: the failing step
	// followed by the rest, unmodified.
	Remainder Step
}

func (o *Outcome) Err() error {
	if len(o.Errors) == 0 {
		return nil
	}
	return o.Errors[0]
}

// Elaborator drives a program to completion, inlining each checked
// definition and theorem into the steps that follow it.
type Elaborator struct {
	opts    Options
	checker Checker
}

func NewElaborator(opts ...Option) *Elaborator {
	o := newOptions(opts)
	return &Elaborator{
		opts:    o,
		checker: Checker{Fuel: o.Fuel, Subst: o.Subst},
	}
}

// Run elaborates steps with a new Elaborator.
func Run(steps Step, opts ...Option) *Outcome {
	return NewElaborator(opts...).Run(steps)
}

func (el *Elaborator) tracef(format string, args ...any) {
	if el.opts.Logger == nil {
		return
	}
	el.opts.Logger.Printf("[kernel] "+format, args...)
}

// ElaborateLet normalizes e and substitutes it for name in next.
func (el *Elaborator) ElaborateLet(name Var, e Expr, next Step) (Step, Expr, error) {
	value, err := Normalize(Sort{}, e, el.opts.Fuel)
	if err != nil {
		return nil, nil, err
	}
	return el.opts.Subst.SubstituteSteps(next, name, value), value, nil
}

// ElaborateTheorem checks that the proof of thm has its statement as type
// and substitutes the normalized proof for the theorem's name in next.
func (el *Elaborator) ElaborateTheorem(thm Theorem, next Step) (Step, Expr, error) {
	return el.elaborateTheorem(thm, next, nil)
}

func (el *Elaborator) elaborateTheorem(thm Theorem, next Step, diagnose func(error)) (Step, Expr, error) {
	if _, err := el.checker.TypecheckExpression(thm.Statement); err != nil {
		if el.opts.StrictStatements {
			return nil, nil, err
		}
		el.tracef("statement of %s: %v", thm.Name, err)
		if diagnose != nil {
			diagnose(err)
		}
	}
	statement, err := Normalize(Sort{}, thm.Statement, el.opts.Fuel)
	if err != nil {
		return nil, nil, err
	}
	proof, err := Normalize(Sort{}, thm.Proof, el.opts.Fuel)
	if err != nil {
		return nil, nil, err
	}
	proofType, err := el.checker.TypecheckExpression(thm.Proof)
	if err != nil {
		return nil, nil, err
	}
	if !AlphaEquivalent(NewEnv(), statement, proofType) {
		return nil, nil, newError(ProofStatementMismatch, thm.Proof, "proof has type %s, statement is %s", proofType, statement)
	}
	return el.opts.Subst.SubstituteSteps(next, thm.Name, proof), proof, nil
}

func (el *Elaborator) evaluate(pos int, e Expr, o *Outcome) error {
	var ty Expr
	if el.opts.CheckExprs {
		var err error
		if ty, err = el.checker.TypecheckExpression(e); err != nil {
			return err
		}
	}
	value, err := Normalize(Sort{}, e, el.opts.Fuel)
	if err != nil {
		// evaluation is best effort; the step itself stays accepted
		o.Diagnostics = append(o.Diagnostics, at(err, pos, stepName(ExprStep{e})))
		value = e
	}
	o.Results = append(o.Results, Result{pos, value, ty})
	return nil
}

// step elaborates the head of the program and returns what replaces it.
func (el *Elaborator) step(cur Step, pos int, o *Outcome) (Step, error) {
	switch s := cur.(type) {
	case Let:
		rest, value, err := el.ElaborateLet(s.Name, s.Expr, s.Next)
		if err != nil {
			return nil, err
		}
		o.Bindings = append(o.Bindings, Binding{s.Name, value})
		return rest, nil
	case TheoremStep:
		rest, proof, err := el.elaborateTheorem(s.Theorem, s.Next, func(err error) {
			o.Diagnostics = append(o.Diagnostics, at(err, pos, s.Theorem.Name.String()))
		})
		if err != nil {
			return nil, err
		}
		o.Bindings = append(o.Bindings, Binding{s.Theorem.Name, proof})
		return rest, nil
	case ExprStep:
		return nil, el.evaluate(pos, s.Expr, o)
	}
	panic("unreachable")
}

// Run elaborates steps in order.
//
// After a let or theorem the cursor moves to the substituted remainder and
// then one step further, so the step right after every definition is passed
// over unless NoSkip is set. Positions count every step the cursor moves
// across, skipped ones included.
func (el *Elaborator) Run(steps Step) *Outcome {
	o := &Outcome{}
	el.tracef("run %d steps: %s", Len(steps), programString(steps))
	cur, pos := steps, 0
	for cur != nil {
		name := stepName(cur)
		rest, err := el.step(cur, pos, o)
		if err != nil {
			err = at(err, pos, name)
			el.tracef("%v", err)
			o.Errors = append(o.Errors, err)
			if !el.opts.KeepGoing {
				o.Remainder = cur
				return o
			}
			cur, pos = Next(cur), pos+1
			continue
		}
		el.tracef("step %d (%s) ok", pos, name)
		if _, isExpr := cur.(ExprStep); isExpr || el.opts.NoSkip {
			cur, pos = rest, pos+1
			continue
		}
		if rest != nil {
			el.tracef("step %d (%s) skipped", pos+1, stepName(rest))
			o.Skipped = append(o.Skipped, stepName(rest))
		}
		cur, pos = Next(rest), pos+2
	}
	return o
}
