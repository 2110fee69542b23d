package syntax

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/smasher164/coc/kernel"
)

// Error is a syntax error. EOF is set when the input ended early, so more
// input could still make it parse.
type Error struct {
	Msg string
	EOF bool
}

func (e *Error) Error() string {
	return "syntax error: " + e.Msg
}

// Incomplete reports whether err only says that the input ended too soon.
func Incomplete(err error) bool {
	var serr *Error
	return errors.As(err, &serr) && serr.EOF
}

func fail(eof bool, format string, args ...any) {
	panic(&Error{Msg: fmt.Sprintf(format, args...), EOF: eof})
}

func unexpected(s string) {
	fail(false, "unexpected token %q", s)
}

func recoverError(err *error) {
	if r := recover(); r != nil {
		serr, ok := r.(*Error)
		if !ok {
			panic(r)
		}
		*err = serr
	}
}

// ParseProgram reads a whole program. An empty source is the empty program.
func ParseProgram(src string) (prog kernel.Step, err error) {
	defer recoverError(&err)
	prog, tokens := parseProgram(scan(src))
	if len(tokens) != 0 {
		unexpected(tokens[0])
	}
	return prog, nil
}

// ParseExpr reads a single expression.
func ParseExpr(src string) (e kernel.Expr, err error) {
	defer recoverError(&err)
	e, tokens := parseExpr(scan(src))
	if len(tokens) != 0 {
		fail(false, "expected token \"EOF\", got %q", tokens[0])
	}
	return e, nil
}

func expect(tok string, tokens []string) []string {
	if len(tokens) == 0 {
		fail(true, "expected token %q, got \"EOF\"", tok)
	}
	hd, tl := tokens[0], tokens[1:]
	if hd != tok {
		fail(false, "expected token %q, got %q", tok, hd)
	}
	return tl
}

func expectIdent(tokens []string) (kernel.Var, []string) {
	if len(tokens) == 0 {
		fail(true, "expected identifier, got \"EOF\"")
	}
	tok, tokens := tokens[0], tokens[1:]
	if !isIdent(tok) || slices.Contains(keywords, tok) {
		fail(false, "expected identifier, got %q", tok)
	}
	return kernel.Var(tok), tokens
}

func isSeparator(tok string) bool {
	return tok == ";" || tok == "in"
}

func parseProgram(tokens []string) (kernel.Step, []string) {
	var steps []kernel.Step
	for len(tokens) > 0 {
		var step kernel.Step
		step, tokens = parseStep(tokens)
		steps = append(steps, step)
		if len(tokens) == 0 {
			break
		}
		if _, isExpr := step.(kernel.ExprStep); isExpr {
			if isSeparator(tokens[0]) && len(tokens) == 1 {
				return kernel.Program(steps...), nil
			}
			fail(false, "an expression must be the last step, got %q", tokens[0])
		}
		if !isSeparator(tokens[0]) {
			fail(false, "expected \";\" or \"in\", got %q", tokens[0])
		}
		tokens = tokens[1:]
	}
	return kernel.Program(steps...), tokens
}

func parseStep(tokens []string) (kernel.Step, []string) {
	switch tokens[0] {
	case "let":
		name, tokens := expectIdent(tokens[1:])
		tokens = expect("=", tokens)
		e, tokens := parseExpr(tokens)
		return kernel.Let{Name: name, Expr: e}, tokens
	case "theorem":
		name, tokens := expectIdent(tokens[1:])
		tokens = expect(":", tokens)
		statement, tokens := parseExpr(tokens)
		tokens = expect(":=", tokens)
		proof, tokens := parseExpr(tokens)
		return kernel.TheoremStep{Theorem: kernel.Theorem{Name: name, Statement: statement, Proof: proof}}, tokens
	}
	e, tokens := parseExpr(tokens)
	return kernel.ExprStep{Expr: e}, tokens
}

// stops ends an application spine.
var stops = []string{")", ";", "in", ":=", ":", "=", ",", "."}

func parseExpr(tokens []string) (kernel.Expr, []string) {
	e, tokens := parseSingle(tokens)
	for len(tokens) > 0 && !slices.Contains(stops, tokens[0]) {
		var arg kernel.Expr
		arg, tokens = parseSingle(tokens)
		e = kernel.App{Fn: e, Arg: arg}
	}
	return e, tokens
}

func parseParenExpr(tokens []string) (kernel.Expr, []string) {
	if len(tokens) == 0 {
		fail(true, "unexpected token \"EOF\"")
	}
	e, tokens := parseExpr(tokens)
	return e, expect(")", tokens)
}

type binder struct {
	name kernel.Var
	ty   kernel.Expr
}

// isBinderGroup reports whether tokens start with "(" IDENT ":".
func isBinderGroup(tokens []string) bool {
	return len(tokens) > 2 && tokens[0] == "(" && isIdent(tokens[1]) && tokens[2] == ":"
}

func parseBinders(tokens []string) ([]binder, []string) {
	if len(tokens) == 0 {
		fail(true, "expected binder, got \"EOF\"")
	}
	var bs []binder
	if tokens[0] != "(" {
		name, tokens := expectIdent(tokens)
		tokens = expect(":", tokens)
		ty, tokens := parseExpr(tokens)
		if len(tokens) == 0 || (tokens[0] != "." && tokens[0] != ",") {
			if len(tokens) == 0 {
				fail(true, "expected token \".\", got \"EOF\"")
			}
			fail(false, "expected token \".\", got %q", tokens[0])
		}
		return append(bs, binder{name, ty}), tokens[1:]
	}
	for isBinderGroup(tokens) {
		name, rest := expectIdent(tokens[1:])
		rest = expect(":", rest)
		ty, rest := parseExpr(rest)
		tokens = expect(")", rest)
		bs = append(bs, binder{name, ty})
	}
	if len(bs) == 0 {
		fail(false, "expected binder, got %q", tokens[0])
	}
	if len(tokens) > 0 && (tokens[0] == "." || tokens[0] == ",") {
		tokens = tokens[1:]
	}
	return bs, tokens
}

func parseBinder(tokens []string, build func(kernel.Var, kernel.Expr, kernel.Expr) kernel.Expr) (kernel.Expr, []string) {
	bs, tokens := parseBinders(tokens)
	if len(tokens) == 0 {
		fail(true, "expected body, got \"EOF\"")
	}
	body, tokens := parseExpr(tokens)
	for i := len(bs) - 1; i >= 0; i-- {
		body = build(bs[i].name, bs[i].ty, body)
	}
	return body, tokens
}

func lambda(v kernel.Var, ty, body kernel.Expr) kernel.Expr {
	return kernel.Lambda{Var: v, Type: ty, Body: body}
}

func forall(v kernel.Var, ty, body kernel.Expr) kernel.Expr {
	return kernel.Forall{Var: v, Type: ty, Body: body}
}

func parseSingle(tokens []string) (kernel.Expr, []string) {
	if len(tokens) == 0 {
		fail(true, "unexpected token \"EOF\"")
	}
	tok, tokens := tokens[0], tokens[1:]
	switch tok {
	case "(":
		return parseParenExpr(tokens)
	case "λ", "lambda", "fun":
		return parseBinder(tokens, lambda)
	case "Π", "∀", "forall":
		return parseBinder(tokens, forall)
	case "Sort", "Type":
		return kernel.Sort{}, tokens
	}
	if !isIdent(tok) || slices.Contains(keywords, tok) {
		unexpected(tok)
	}
	return kernel.Var(tok), tokens
}
