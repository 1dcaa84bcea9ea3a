// Package rules compiles option-filter expressions into bytecode that the
// decision engine evaluates per candidate action. Filters let operators cut
// the option list with conditions like `ev > 0.02 && kind != "dribble"`
// without rebuilding the service.
package rules

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Env is the variable set visible to filter expressions. Field names are
// lowercased via the expr tags to keep expressions readable.
type Env struct {
	Kind      string  `expr:"kind"`      // "pass", "through_ball", "dribble", "shot"
	EV        float64 `expr:"ev"`        // expected value
	Success   float64 `expr:"success"`   // success probability
	Intercept float64 `expr:"intercept"` // interception probability
	Gain      float64 `expr:"gain"`      // zone value gain
}

// Filter is a compiled option predicate.
type Filter struct {
	src     string
	program *vm.Program
}

// Compile builds a filter from an expression source. The expression must
// evaluate to a boolean over Env; compilation fails otherwise, so a running
// engine never sees an invalid program.
func Compile(src string) (*Filter, error) {
	program, err := expr.Compile(src, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile option filter %q: %w", src, err)
	}
	return &Filter{src: src, program: program}, nil
}

// Keep reports whether the option described by env passes the filter.
// Runtime evaluation errors keep the option rather than dropping it, so a
// filter can never silence the whole analysis.
func (f *Filter) Keep(env Env) bool {
	result, err := vm.Run(f.program, env)
	if err != nil {
		return true
	}
	keep, ok := result.(bool)
	if !ok {
		return true
	}
	return keep
}

// Source returns the original expression text.
func (f *Filter) Source() string { return f.src }
