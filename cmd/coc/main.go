// Command coc checks programs of a single-sort dependent calculus: each let
// is normalized and inlined into the rest of the program, each theorem's
// proof is checked against its statement.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/samber/lo"

	"github.com/smasher164/coc/kernel"
	"github.com/smasher164/coc/syntax"
)

const appName = "coc"

type config struct {
	strict      bool
	checkExprs  bool
	noSkip      bool
	keepGoing   bool
	hygienic    bool
	verbose     bool
	interactive bool
	fuel        int
	eval        string
}

func usage(fs *flag.FlagSet, w io.Writer) func() {
	return func() {
		fmt.Fprint(w, "usage: coc [flags] [file ...]\n\n")
		fmt.Fprint(w, "coc is a proof checker for a dependently-typed lambda calculus with a single sort.\n")
		fmt.Fprint(w, "With no file, or with -i, it starts an interactive session.\n\n")
		fs.SetOutput(w)
		fs.PrintDefaults()
	}
}

func parseFlags(args []string, stderr io.Writer) (*config, []string, error) {
	var cfg config
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.Usage = usage(fs, stderr)
	fs.SetOutput(stderr)
	fs.BoolVar(&cfg.strict, "strict", false, "fail a theorem whose statement does not typecheck")
	fs.BoolVar(&cfg.checkExprs, "check-exprs", false, "typecheck bare expression steps")
	fs.BoolVar(&cfg.noSkip, "no-skip", false, "do not pass over the step after each definition")
	fs.BoolVar(&cfg.keepGoing, "keep-going", false, "report every failing step instead of stopping at the first")
	fs.BoolVar(&cfg.hygienic, "hygienic", false, "use capture-avoiding substitution")
	fs.BoolVar(&cfg.verbose, "v", false, "trace each step to stderr")
	fs.BoolVar(&cfg.interactive, "i", false, "start an interactive session")
	fs.IntVar(&cfg.fuel, "fuel", kernel.DefaultFuel, "beta steps allowed per normalization (0 is unlimited)")
	fs.StringVar(&cfg.eval, "e", "", "check the given program text and exit")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return &cfg, fs.Args(), nil
}

func (cfg *config) options(stderr io.Writer) []kernel.Option {
	opts := []kernel.Option{kernel.WithFuel(cfg.fuel)}
	if cfg.strict {
		opts = append(opts, kernel.WithStrictStatements())
	}
	if cfg.checkExprs {
		opts = append(opts, kernel.WithExprChecking())
	}
	if cfg.noSkip {
		opts = append(opts, kernel.WithoutSkip())
	}
	if cfg.keepGoing {
		opts = append(opts, kernel.WithKeepGoing())
	}
	if cfg.hygienic {
		opts = append(opts, kernel.WithHygiene(kernel.Primes{}))
	}
	if cfg.verbose {
		opts = append(opts, kernel.WithLogger(log.New(stderr, "", 0)))
	}
	return opts
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, files, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}
	opts := cfg.options(stderr)
	switch {
	case cfg.eval != "":
		return checkSource(cfg.eval, opts, stdout, stderr)
	case cfg.interactive || len(files) == 0:
		return runREPL(cfg, opts, stdout, stderr)
	}
	status := 0
	for _, file := range files {
		if rc := checkFile(file, opts, stdout, stderr); rc != 0 {
			status = rc
		}
	}
	return status
}

func checkFile(path string, opts []kernel.Option, stdout, stderr io.Writer) int {
	b, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "%s: cannot read %s: %v\n", appName, path, err)
		return 1
	}
	return checkSource(string(b), opts, stdout, stderr)
}

func checkSource(src string, opts []kernel.Option, stdout, stderr io.Writer) int {
	prog, err := syntax.ParseProgram(src)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return 1
	}
	o := kernel.Run(prog, opts...)
	printOutcome(o, stdout, stderr)
	if o.Err() != nil {
		return 1
	}
	return 0
}

func printOutcome(o *kernel.Outcome, stdout, stderr io.Writer) {
	for _, b := range o.Bindings {
		fmt.Fprintf(stdout, "%s = %s\n", b.Name, b.Value)
	}
	for _, r := range o.Results {
		if r.Type != nil {
			fmt.Fprintf(stdout, "%s : %s\n", r.Value, r.Type)
		} else {
			fmt.Fprintln(stdout, r.Value)
		}
	}
	if len(o.Skipped) > 0 {
		fmt.Fprintf(stdout, "skipped: %s\n", strings.Join(o.Skipped, ", "))
	}
	for _, line := range lo.Map(o.Diagnostics, func(err error, _ int) string { return "warning: " + err.Error() }) {
		fmt.Fprintln(stderr, line)
	}
	for _, err := range o.Errors {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
	}
}
