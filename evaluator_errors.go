package params

import (
	"errors"
	"fmt"
	"strings"
)

var errEmptyExpression = errors.New("expression must not be empty")

// EvaluationError reports a validation rule that failed to compile or run.
// Evaluated is set when the failure happened while checking Value, which is
// the candidate the parameter pipeline handed to the rule.
type EvaluationError struct {
	Engine    string
	Expr      string
	Key       string
	Value     any
	Evaluated bool
	Err       error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "params: %s rule", e.Engine)
	if e.Expr != "" {
		fmt.Fprintf(&b, " %q", e.Expr)
	}
	if e.Key != "" {
		fmt.Fprintf(&b, " for %q", e.Key)
	}
	if e.Evaluated {
		fmt.Fprintf(&b, " failed on %#v", e.Value)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// asEvaluationError reuses an EvaluationError already in err's chain, filling
// in what it lacks, so engines and ExpressionValidator can each add context.
func asEvaluationError(engine, expr string, err error) *EvaluationError {
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		return evalErr
	}
	return &EvaluationError{Engine: engine, Expr: expr, Err: err}
}

func compileError(engine, expr string, err error) error {
	if err == nil {
		return nil
	}
	return asEvaluationError(engine, expr, err)
}

// forKey names the parameter a compile failure belongs to.
func forKey(err error, key string) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) && evalErr.Key == "" {
		evalErr.Key = key
	}
	return err
}

func evaluationError(engine, expr string, ctx RuleContext, err error) error {
	if err == nil {
		return nil
	}
	evalErr := asEvaluationError(engine, expr, err)
	if evalErr.Key == "" {
		evalErr.Key = ctx.Key
	}
	if !evalErr.Evaluated {
		evalErr.Value = ctx.Value
		evalErr.Evaluated = true
	}
	return evalErr
}
