package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/smasher164/coc/kernel"
	"github.com/smasher164/coc/syntax"
)

const (
	historyFile = ".coc_history"
	promptMain  = "coc> "
	promptCont  = "...  "
	banner      = "coc interactive session. Ctrl+D to exit, :help for commands."
	helpText    = `commands:
  :help            show this help
  :quit, :exit     leave the session
  :defs            list the names defined so far
  :type <expr>     print the type of an expression
  :load <file>     check a file and keep its definitions
  :reset           forget every definition
`
)

// session keeps the definitions of earlier inputs. Each new input has them
// inlined before it is checked, the same way the pipeline inlines a let into
// the steps after it.
type session struct {
	opts    []kernel.Option
	subst   kernel.Substituter
	checker kernel.Checker
	defs    []kernel.Binding
}

func newSession(cfg *config, opts []kernel.Option) *session {
	s := &session{opts: opts, subst: kernel.Naive{}}
	if cfg.hygienic {
		s.subst = kernel.Hygienic{Names: kernel.Primes{}}
	}
	s.checker = kernel.Checker{Fuel: cfg.fuel, Subst: s.subst}
	return s
}

func (s *session) inline(prog kernel.Step) kernel.Step {
	for i := len(s.defs) - 1; i >= 0; i-- {
		prog = s.subst.SubstituteSteps(prog, s.defs[i].Name, s.defs[i].Value)
	}
	return prog
}

func (s *session) inlineExpr(e kernel.Expr) kernel.Expr {
	for i := len(s.defs) - 1; i >= 0; i-- {
		e = s.subst.Substitute(e, s.defs[i].Name, s.defs[i].Value)
	}
	return e
}

func (s *session) check(src string, stdout, stderr io.Writer) {
	prog, err := syntax.ParseProgram(src)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return
	}
	o := kernel.Run(s.inline(prog), s.opts...)
	printOutcome(o, stdout, stderr)
	s.defs = append(s.defs, o.Bindings...)
}

func (s *session) typeOf(src string, stdout, stderr io.Writer) {
	e, err := syntax.ParseExpr(src)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return
	}
	ty, err := s.checker.TypecheckExpression(s.inlineExpr(e))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return
	}
	fmt.Fprintln(stdout, ty)
}

// command runs a ":" command and reports whether the session should end.
func (s *session) command(line string, stdout, stderr io.Writer) (exit bool) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case ":quit", ":exit":
		return true
	case ":help":
		fmt.Fprint(stdout, helpText)
	case ":defs":
		for _, d := range s.defs {
			fmt.Fprintf(stdout, "%s = %s\n", d.Name, d.Value)
		}
	case ":reset":
		s.defs = nil
	case ":type":
		s.typeOf(arg, stdout, stderr)
	case ":load":
		b, err := os.ReadFile(arg)
		if err != nil {
			fmt.Fprintf(stderr, "%s: cannot read %s: %v\n", appName, arg, err)
			return false
		}
		s.check(string(b), stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q, type :help for a list\n", cmd)
	}
	return false
}

func runREPL(cfg *config, opts []kernel.Option, stdout, stderr io.Writer) int {
	fmt.Fprintln(stdout, banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	s := newSession(cfg, opts)
	for {
		src, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Fprintln(stdout)
			return 0
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			if s.command(src, stdout, stderr) {
				return 0
			}
			continue
		}
		s.check(src, stdout, stderr)
	}
}

// readByParseProbe reads lines until they form a complete program, or until
// the parse fails for a reason other than running out of input.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, err := syntax.ParseProgram(src); syntax.Incomplete(err) {
			continue
		}
		return src, true
	}
}
