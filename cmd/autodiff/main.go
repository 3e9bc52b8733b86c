// Command autodiff evaluates expressions and their forward-mode
// derivatives.
//
// Each argument (or line of standard input, if no arguments are given) is
// one expression. With -given bindings, the command prints each
// expression's value and derivative. With -var, it instead sweeps the
// named variable over an evenly spaced grid and prints one
// "x value derivative" row per sample, ready to feed a plotting tool.
//
//	autodiff -given x=2 'x*x/2 - x'
//	autodiff -var x -from 0 -to 10 -samples 1001 'exp(5/x) - 5'
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"gonum.org/v1/gonum/floats"

	autodiff "github.com/CS207-Project-Team-1/project-planning"
)

func main() {
	log.SetFlags(0)
	var (
		verb     string
		with     [][2]string
		sweep    string
		from, to float64
		samples  int
	)
	addwith := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		with = append(with, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		return nil
	}
	flag.StringVar(&verb, "fmt", "%g", "result formatting string")
	flag.Func("given", "name=value variable definition (any number of times)", addwith)
	flag.StringVar(&sweep, "var", "", "variable to sweep instead of printing single results")
	flag.Float64Var(&from, "from", 0, "start of the sweep range")
	flag.Float64Var(&to, "to", 1, "end of the sweep range")
	flag.IntVar(&samples, "samples", 101, "number of sweep samples")
	flag.Parse()
	if samples < 2 {
		log.Fatalf("samples (%d) must be at least 2", samples)
	}

	srcs := flag.Args()
	if len(srcs) == 0 {
		scan := bufio.NewScanner(os.Stdin)
		for scan.Scan() {
			if s := strings.TrimSpace(scan.Text()); s != "" {
				srcs = append(srcs, s)
			}
		}
		if err := scan.Err(); err != nil {
			log.Fatal(err)
		}
	}

	g := autodiff.NewGraph()
	env := autodiff.NewEnv()
	for _, d := range with {
		v, err := value(d[1])
		if err != nil {
			log.Fatalf("setting %s: %v", d[0], err)
		}
		env.BindName(d[0], v)
	}

	var exprs []autodiff.Expr
	for _, src := range srcs {
		e, err := g.ParseString(src)
		if err != nil {
			log.Fatalf("parsing %q: %v", src, err)
		}
		exprs = append(exprs, e)
	}

	if sweep != "" {
		grid := make([]float64, samples)
		floats.Span(grid, from, to)
		row := verb + "\t" + verb + "\t" + verb + "\n"
		for _, e := range exprs {
			for _, x := range grid {
				env.BindName(sweep, x)
				y, err := e.Eval(env)
				if err != nil {
					log.Fatal(err)
				}
				dy, err := e.Diff(env)
				if err != nil {
					log.Fatal(err)
				}
				fmt.Printf(row, x, y, dy)
			}
		}
		return
	}

	row := verb + "\t" + verb + "\n"
	for _, e := range exprs {
		y, err := e.Eval(env)
		if err != nil {
			log.Fatal(err)
		}
		dy, err := e.Diff(env)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf(row, y, dy)
	}
}

// value evaluates a variable definition. Definitions are full expressions,
// so -given k=2^10 and -given t=pi/2 work.
func value(src string) (float64, error) {
	e, err := autodiff.NewGraph().ParseString(src)
	if err != nil {
		return 0, err
	}
	return e.Eval(nil)
}
