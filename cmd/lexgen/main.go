// Command lexgen is C12, the flag-driven CLI driver: it wires
// patparse.Parse, compiler.Compile, and tablegen.Emit together into one
// runnable pipeline, the way blynn-nex ships both the nex compiler core
// and its own main.go driver.
package main

import (
	"flag"
	"io/ioutil"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/nexlex/lexgen/compiler"
	"github.com/nexlex/lexgen/dfa"
	"github.com/nexlex/lexgen/lexspec"
	"github.com/nexlex/lexgen/patparse"
	"github.com/nexlex/lexgen/tablegen"
)

func main() {
	var (
		prefix      string
		outFilename string
		pkgName     string
		unicode     bool
		warnAsError bool
		dfadotFile  string
	)
	flag.StringVar(&prefix, "p", "yy", "name prefix to use in generated code")
	flag.StringVar(&outFilename, "o", "", "output file (default: stdout)")
	flag.StringVar(&pkgName, "pkg", "main", "package clause of the generated file")
	flag.BoolVar(&unicode, "unicode", false, "compile against the Unicode universe instead of ASCII")
	flag.BoolVar(&warnAsError, "warn-as-error", false, "treat warnings as errors")
	// No -nfadot: this module builds DFAs directly off regular vectors
	// (spec.md §4.6), with no separate NFA stage to dump.
	flag.StringVar(&dfadotFile, "dfadot", "", "write the combined per-rule DFA graphs in DOT format to this file")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("lexgen: expected exactly one input file")
	}
	inPath := flag.Arg(0)

	src, err := ioutil.ReadFile(inPath)
	if err != nil {
		log.Fatal(errors.Wrap(err, "lexgen: reading input"))
	}

	spec, perrs := patparse.Parse(src, inPath)
	if len(perrs) > 0 {
		for _, e := range perrs {
			log.Print(e)
		}
		os.Exit(1)
	}

	opts := lexspec.CompilationOptions{Unicode: unicode, WarningsAsErrors: warnAsError}
	compiled, diags := compiler.Compile(spec, opts)
	for _, d := range diags {
		log.Print(d)
	}
	if diags.HasErrors() {
		// No output artifact is written when any error is present. A
		// diagnostic list containing only warnings (and -warn-as-error
		// not given) still compiles and still reaches this point with
		// compiled != nil.
		os.Exit(1)
	}

	if dfadotFile != "" {
		if err := writeDfaDot(dfadotFile, compiled); err != nil {
			log.Fatal(errors.Wrap(err, "lexgen: writing dfadot"))
		}
	}

	out := os.Stdout
	if outFilename != "" {
		f, err := os.Create(outFilename)
		if err != nil {
			log.Fatal(errors.Wrap(err, "lexgen: creating output"))
		}
		defer f.Close()
		out = f
	}

	emitOpts := tablegen.Options{Prefix: prefix, PackageName: pkgName}
	if err := (tablegen.Emitter{}).Emit(out, compiled, emitOpts); err != nil {
		log.Fatal(errors.Wrap(err, "lexgen: emitting"))
	}
}

// writeDfaDot concatenates the DOT dump of every rule's DFA into one
// file, each preceded by a comment naming the rule — blynn-nex/main.go's
// -dfadot flag dumps a single NFA/DFA pair because it only ever compiles
// one combined automaton; this module builds one DFA per rule, so the
// dump covers all of them.
func writeDfaDot(path string, spec *lexspec.CompiledSpecification) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, name := range spec.Rules.Keys() {
		rule, _ := spec.Rules.Get(name)
		if _, err := f.WriteString("// rule " + name + "\n"); err != nil {
			return err
		}
		accepting := make(map[dfa.StateID]bool, len(rule.Dfa.RuleAcceptedByState))
		for id := range rule.Dfa.RuleAcceptedByState {
			accepting[id] = true
		}
		if err := rule.Dfa.Graph.WriteDOT(f, accepting); err != nil {
			return err
		}
	}
	return nil
}
