package kernel_test

import (
	"testing"

	"github.com/kr/pretty"

	. "github.com/smasher164/coc/kernel"
)

func lam(v Var, ty, body Expr) Expr { return Lambda{Var: v, Type: ty, Body: body} }
func pi(v Var, ty, body Expr) Expr  { return Forall{Var: v, Type: ty, Body: body} }

func app(fn Expr, args ...Expr) Expr {
	for _, arg := range args {
		fn = App{Fn: fn, Arg: arg}
	}
	return fn
}

var (
	x, y, z = Var("x"), Var("y"), Var("z")
	sort    = Sort{}
	// λ (x : Sort) x
	id = lam(x, sort, x)
	// λ (A : Sort) λ (a : A) a
	polyID = lam("A", sort, lam("a", Var("A"), Var("a")))
	// λ (x : Sort) λ (y : Sort) x
	konst = lam(x, sort, lam(y, sort, x))
	// (λ (x : Sort) x x) (λ (x : Sort) x x)
	omega = app(lam(x, sort, app(x, x)), lam(x, sort, app(x, x)))

	samples = []Expr{
		sort, x, y, id, polyID, konst,
		app(id, sort),
		app(polyID, sort, sort),
		pi(x, sort, sort),
		pi(x, sort, x),
		lam(x, x, x),
		pi(y, x, app(y, z)),
		lam(z, pi(x, sort, sort), app(z, x)),
	}
)

func expectExpr(t *testing.T, got, want Expr) {
	t.Helper()
	if !Equal(got, want) {
		t.Errorf("got %s, want %s\n%v", got, want, pretty.Diff(got, want))
	}
}
