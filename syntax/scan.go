// Package syntax reads programs and expressions of the kernel calculus.
//
//	program = step { (";" | "in") step } [";"]
//	step    = "let" IDENT "=" expr
//	        | "theorem" IDENT ":" expr ":=" expr
//	        | expr                          (last step only)
//	expr    = single { single }
//	single  = IDENT | "Sort" | "Type" | "(" expr ")"
//	        | ("λ" | "lambda" | "fun") binders expr
//	        | ("Π" | "∀" | "forall") binders expr
//	binders = "(" IDENT ":" expr ")" { "(" IDENT ":" expr ")" } [ "," | "." ]
//	        | IDENT ":" expr ( "," | "." )
//
// "--" starts a comment that runs to the end of the line.
package syntax

import (
	"strings"
	"unicode"

	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

var punctuation = []string{":=", "(", ")", ":", ";", "=", ",", ".", "λ", "Π", "∀"}

var keywords = []string{"let", "in", "theorem", "lambda", "fun", "forall", "Sort", "Type"}

func stripComments(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i], _, _ = strings.Cut(line, "--")
	}
	return strings.Join(lines, "\n")
}

func isIdent(s string) bool {
	for i, r := range s {
		switch {
		case unicode.IsLetter(r), r == '_':
		case i > 0 && (unicode.IsDigit(r) || r == '\''):
		default:
			return false
		}
	}
	return s != ""
}

func validateToken(s string) {
	if slices.Contains(punctuation, s) || isIdent(s) {
		return
	}
	unexpected(s)
}

func scan(s string) (res []string) {
	res = strings.Fields(stripComments(s))
	sep := func(c string) []string {
		return lo.FlatMap(res, func(s string, _ int) (ret []string) {
			if slices.Contains(punctuation, s) {
				return []string{s}
			}
			for {
				before, after, found := strings.Cut(s, c)
				if before != "" {
					ret = append(ret, before)
				}
				s = after
				if !found {
					break
				}
				ret = append(ret, c)
			}
			return ret
		})
	}
	// ":=" goes first so that ":" and "=" leave it whole.
	for _, c := range punctuation {
		res = sep(c)
	}
	for _, s := range res {
		validateToken(s)
	}
	return res
}
