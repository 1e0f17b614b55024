// Package filter selects producer records with a CEL expression.
//
// Expressions see three variables:
//
//	producer  string  the DW_AT_producer value
//	offset    uint    offset of the unit header in .debug_info
//	version   int     DWARF version of the unit
//
// For example:
//
//	producer.startsWith("GNU C") && version >= 4
package filter

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"

	"github.com/coral-mesh/dwprod/pkg/dwprod"
)

// ErrInvalidExpression is returned when an expression fails to compile or
// does not evaluate to a boolean.
var ErrInvalidExpression = errors.New("invalid filter expression")

// Filter is a compiled expression. The zero value and a nil *Filter match
// everything.
type Filter struct {
	expr    string
	program cel.Program
}

// Compile parses and type-checks expr. An empty expression yields a filter
// that matches every record.
func Compile(expr string) (*Filter, error) {
	if expr == "" {
		return &Filter{}, nil
	}

	env, err := cel.NewEnv(
		cel.Variable("producer", cel.StringType),
		cel.Variable("offset", cel.UintType),
		cel.Variable("version", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("create cel environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: %q evaluates to %s, want bool", ErrInvalidExpression, expr, ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}

	return &Filter{expr: expr, program: prg}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.expr
}

// Match reports whether rec satisfies the expression.
func (f *Filter) Match(rec dwprod.Producer) (bool, error) {
	if f == nil || f.program == nil {
		return true, nil
	}

	out, _, err := f.program.Eval(map[string]any{
		"producer": rec.Value,
		"offset":   rec.UnitOffset,
		"version":  int64(rec.Version),
	})
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", f.expr, err)
	}

	b, ok := out.(types.Bool)
	if !ok {
		return false, fmt.Errorf("%w: %q evaluated to %v", ErrInvalidExpression, f.expr, out.Type())
	}
	return bool(b), nil
}
