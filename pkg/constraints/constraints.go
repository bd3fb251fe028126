// Package constraints compiles and evaluates the boolean expressions a run
// may declare over its parameters, such as "window_size >= 10".
//
// Expressions see fixed parameters and the run's user parameters as plain
// identifiers. Builtin functions are disabled, so an expression can only
// compare and combine parameter values.
package constraints

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/covertmark/covertmark/pkg/types"
)

// TypeEnv builds the environment used to type-check a run's constraints at
// load time: fixed parameter values plus the zero value of every user
// parameter's declared type.
func TypeEnv(fixed []types.FixedParam, user []types.UserParam) map[string]interface{} {
	env := make(map[string]interface{}, len(fixed)+len(user))
	for _, p := range fixed {
		env[p.Name] = p.Value
	}
	for _, p := range user {
		env[p.Name] = p.Type.Zero()
	}
	return env
}

// Compile type-checks src against env. Unknown identifiers, function calls
// and non-boolean results are rejected.
func Compile(src string, env map[string]interface{}) (*vm.Program, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("constraint is empty")
	}

	program, err := expr.Compile(src,
		expr.Env(env),
		expr.AsBool(),
		expr.DisableAllBuiltins(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid constraint %q: %w", src, err)
	}
	return program, nil
}

// Eval reports whether src holds for the given parameter values
func Eval(src string, params map[string]interface{}) (bool, error) {
	program, err := Compile(src, params)
	if err != nil {
		return false, err
	}

	out, err := expr.Run(program, params)
	if err != nil {
		return false, fmt.Errorf("evaluating constraint %q: %w", src, err)
	}

	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("constraint %q must evaluate to bool (got %T)", src, out)
	}
	return b, nil
}
