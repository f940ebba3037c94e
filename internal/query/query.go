// Package query compiles CEL "where" expressions into record predicates.
package query

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/verte-zerg/pyqtrack/internal/model"
)

// Variables lists the names available to expressions.
var Variables = []string{"subject", "class", "unit", "chapter", "status", "solved", "total", "weak", "years"}

func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("subject", cel.StringType),
		cel.Variable("class", cel.StringType),
		cel.Variable("unit", cel.StringType),
		cel.Variable("chapter", cel.StringType),
		cel.Variable("status", cel.StringType),
		cel.Variable("solved", cel.IntType),
		cel.Variable("total", cel.IntType),
		cel.Variable("weak", cel.BoolType),
		cel.Variable("years", cel.MapType(cel.IntType, cel.IntType)),
	)
}

// Compile parses and type-checks expr. An empty expression returns a nil
// predicate, meaning no restriction. Records whose evaluation fails (for
// example a missing map key) do not match.
func Compile(expr string) (model.Predicate, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}
	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid where expression: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("where expression must be boolean, got %s", ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to plan where expression: %w", err)
	}
	return func(r model.Record) bool {
		out, _, err := prg.Eval(activation(r))
		if err != nil {
			return false
		}
		b, ok := out.Value().(bool)
		return ok && b
	}, nil
}

func activation(r model.Record) map[string]any {
	years := make(map[int64]int64, len(r.YearCounts))
	for y, n := range r.YearCounts {
		years[int64(y)] = int64(n)
	}
	return map[string]any{
		"subject": r.Subject,
		"class":   r.Class,
		"unit":    r.Unit,
		"chapter": r.Chapter,
		"status":  r.Status.String(),
		"solved":  int64(r.QuestionSolved),
		"total":   int64(r.TotalQuestions()),
		"weak":    r.Weak,
		"years":   years,
	}
}
