package kernel_test

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/kr/pretty"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"

	. "github.com/smasher164/coc/kernel"
)

func let(name Var, e Expr) Step { return Let{Name: name, Expr: e} }

func theorem(name Var, statement, proof Expr) Step {
	return TheoremStep{Theorem: Theorem{Name: name, Statement: statement, Proof: proof}}
}

func bound(o *Outcome) []Var {
	return lo.Map(o.Bindings, func(b Binding, _ int) Var { return b.Name })
}

func TestElaborateLetInlinesTheDefinition(t *testing.T) {
	next := Program(ExprStep{Expr: Var("id")})
	rest, value, err := NewElaborator().ElaborateLet("id", id, next)
	if err != nil {
		t.Fatal(err)
	}
	expectExpr(t, value, id)
	want := ExprStep{Expr: id}
	if diff := pretty.Diff(rest, want); len(diff) != 0 {
		t.Errorf("got %s, want %s\n%v", rest, want, diff)
	}
	// the definition itself still types as expected
	ty, err := TypecheckExpression(value)
	if err != nil {
		t.Fatal(err)
	}
	expectExpr(t, ty, pi(x, sort, sort))
}

func TestRunIdentity(t *testing.T) {
	o := Run(Program(let("id", id), ExprStep{Expr: Var("id")}))
	if err := o.Err(); err != nil {
		t.Fatal(err)
	}
	if len(o.Bindings) != 1 || o.Bindings[0].Name != "id" {
		t.Fatalf("got bindings %v, want [id]", bound(o))
	}
	expectExpr(t, o.Bindings[0].Value, id)
	if !slices.Equal(o.Skipped, []string{"<expr>"}) {
		t.Errorf("got skipped %v, want [<expr>]", o.Skipped)
	}
	if len(o.Results) != 0 {
		t.Errorf("a skipped expression should not be evaluated, got %v", o.Results)
	}
}

func TestRunTheorem(t *testing.T) {
	prog := Program(theorem("thm", pi(x, sort, sort), id), ExprStep{Expr: app(Var("thm"), sort)})
	o := Run(prog, WithoutSkip(), WithExprChecking())
	if err := o.Err(); err != nil {
		t.Fatal(err)
	}
	if len(o.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics %v", o.Diagnostics)
	}
	expectExpr(t, o.Bindings[0].Value, id)
	if len(o.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(o.Results))
	}
	r := o.Results[0]
	if r.Pos != 1 {
		t.Errorf("got result at %d, want 1", r.Pos)
	}
	expectExpr(t, r.Value, sort)
	expectExpr(t, r.Type, sort)
}

func TestElaborateTheoremMismatch(t *testing.T) {
	thm := Theorem{Name: "thm", Statement: pi(x, sort, x), Proof: lam(x, sort, sort)}
	_, _, err := NewElaborator().ElaborateTheorem(thm, nil)
	if !errors.Is(err, ProofStatementMismatch) {
		t.Errorf("got %v, want %v", err, ProofStatementMismatch)
	}
}

func TestRunTheoremMismatch(t *testing.T) {
	prog := Program(
		theorem("thm", pi(x, sort, x), lam(x, sort, sort)),
		let("a", Var("thm")),
		ExprStep{Expr: Var("a")},
	)
	o := Run(prog)
	if !errors.Is(o.Err(), ProofStatementMismatch) {
		t.Fatalf("got %v, want %v", o.Err(), ProofStatementMismatch)
	}
	var kerr *Error
	if !errors.As(o.Err(), &kerr) || kerr.Pos != 0 || kerr.Step != "thm" {
		t.Errorf("got %v, want it located at step 0 (thm)", o.Err())
	}
	if diff := pretty.Diff(o.Remainder, prog); len(diff) != 0 {
		t.Errorf("the remainder should be the untouched program:\n%v", diff)
	}
	if len(o.Bindings) != 0 {
		t.Errorf("got bindings %v, want none", bound(o))
	}
	// the statement itself hits the context rule without a case
	if len(o.Diagnostics) != 1 || !errors.Is(o.Diagnostics[0], Ambiguous) {
		t.Errorf("got diagnostics %v, want one %v", o.Diagnostics, Ambiguous)
	}

	o = Run(prog, WithStrictStatements())
	if !errors.Is(o.Err(), Ambiguous) {
		t.Errorf("strict: got %v, want %v", o.Err(), Ambiguous)
	}
}

func TestRunBadApplication(t *testing.T) {
	prog := Program(ExprStep{Expr: app(sort, sort)})
	if o := Run(prog); o.Err() != nil {
		t.Errorf("expressions are unchecked by default, got %v", o.Err())
	}
	o := Run(prog, WithExprChecking())
	if !errors.Is(o.Err(), TypeMismatch) {
		t.Errorf("got %v, want %v", o.Err(), TypeMismatch)
	}
	if len(o.Results) != 0 {
		t.Errorf("a failed expression should not be evaluated, got %v", o.Results)
	}
}

func TestRunSkipsAfterDefinitions(t *testing.T) {
	tests := []struct {
		name    string
		prog    Step
		opts    []Option
		bound   []Var
		skipped []string
	}{
		{"two lets", Program(let("a", sort), let("b", sort)), nil, []Var{"a"}, []string{"b"}},
		{"two lets without skip", Program(let("a", sort), let("b", sort)), []Option{WithoutSkip()}, []Var{"a", "b"}, nil},
		{"three lets", Program(let("a", sort), let("b", sort), let("c", id)), nil, []Var{"a", "c"}, []string{"b"}},
		{"skipped theorem", Program(let("a", sort), theorem("t", sort, x)), nil, []Var{"a"}, []string{"t"}},
		{"one let", Program(let("a", sort)), nil, []Var{"a"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Run(tt.prog, tt.opts...)
			if err := o.Err(); err != nil {
				t.Fatal(err)
			}
			if got := bound(o); !slices.Equal(got, tt.bound) {
				t.Errorf("got bindings %v, want %v", got, tt.bound)
			}
			if !slices.Equal(o.Skipped, tt.skipped) {
				t.Errorf("got skipped %v, want %v", o.Skipped, tt.skipped)
			}
		})
	}
}

func TestRunKeepGoing(t *testing.T) {
	prog := Program(
		let("loop", omega),
		theorem("t", sort, id),
		let("a", sort),
		ExprStep{Expr: app(Var("a"), sort)},
	)
	o := Run(prog, WithoutSkip(), WithExprChecking(), WithKeepGoing(), WithFuel(50))
	if len(o.Errors) != 3 {
		t.Fatalf("got errors %v, want three", o.Errors)
	}
	want := []struct {
		kind Kind
		pos  int
		step string
	}{
		{ReductionLimit, 0, "loop"},
		{ProofStatementMismatch, 1, "t"},
		{TypeMismatch, 3, "<expr>"},
	}
	for i, w := range want {
		var kerr *Error
		if !errors.As(o.Errors[i], &kerr) || kerr.Kind != w.kind || kerr.Pos != w.pos || kerr.Step != w.step {
			t.Errorf("error %d: got %v, want %v at step %d (%s)", i, o.Errors[i], w.kind, w.pos, w.step)
		}
	}
	if o.Remainder != nil {
		t.Errorf("a run that keeps going has no remainder, got %s", o.Remainder)
	}
	if got := bound(o); !slices.Equal(got, []Var{"a"}) {
		t.Errorf("got bindings %v, want [a]", got)
	}
}

func TestRunKeepGoingPastTheorems(t *testing.T) {
	prog := Program(
		theorem("t1", sort, id),
		theorem("t2", pi(x, sort, sort), app(sort, sort)),
		let("a", sort),
	)
	o := Run(prog, WithKeepGoing())
	if len(o.Errors) != 2 {
		t.Fatalf("got errors %v, want two", o.Errors)
	}
	if !errors.Is(o.Errors[0], ProofStatementMismatch) || !errors.Is(o.Errors[1], TypeMismatch) {
		t.Errorf("got %v", o.Errors)
	}
	if !strings.HasPrefix(o.Errors[1].Error(), "step 1 (t2): ") {
		t.Errorf("got %q, want it located at step 1", o.Errors[1])
	}
	if got := bound(o); !slices.Equal(got, []Var{"a"}) {
		t.Errorf("got bindings %v, want [a]", got)
	}
	if !errors.Is(o.Err(), ProofStatementMismatch) {
		t.Errorf("Err should be the first failure, got %v", o.Err())
	}
}

func TestRunFuel(t *testing.T) {
	prog := Program(let("loop", omega), let("a", sort))
	o := Run(prog, WithFuel(50))
	if !errors.Is(o.Err(), ReductionLimit) {
		t.Fatalf("got %v, want %v", o.Err(), ReductionLimit)
	}

	// an expression that does not normalize is still accepted
	o = Run(Program(ExprStep{Expr: omega}), WithFuel(50))
	if o.Err() != nil {
		t.Fatal(o.Err())
	}
	if len(o.Diagnostics) != 1 || !errors.Is(o.Diagnostics[0], ReductionLimit) {
		t.Errorf("got diagnostics %v, want one %v", o.Diagnostics, ReductionLimit)
	}
	if len(o.Results) != 1 || !Equal(o.Results[0].Value, omega) {
		t.Errorf("got results %v, want omega unreduced", o.Results)
	}
}

func TestRunHygiene(t *testing.T) {
	// a free y inlined under a binder named y
	prog := Program(let("a", y), ExprStep{Expr: lam(y, sort, Var("a"))})

	o := Run(prog, WithoutSkip())
	if len(o.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(o.Results))
	}
	expectExpr(t, o.Results[0].Value, lam(y, sort, y))

	o = Run(prog, WithoutSkip(), WithHygiene(Primes{}))
	if len(o.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(o.Results))
	}
	expectExpr(t, o.Results[0].Value, lam("y'", sort, y))
}

func TestRunTrace(t *testing.T) {
	var buf bytes.Buffer
	o := Run(Program(let("a", sort), let("b", sort)), WithLogger(log.New(&buf, "", 0)))
	if err := o.Err(); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"[kernel] run 2 steps: let a = Sort; let b = Sort",
		"[kernel] step 0 (a) ok",
		"[kernel] step 1 (b) skipped",
	} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("trace is missing %q:\n%s", want, buf.String())
		}
	}
}
