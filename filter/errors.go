package filter

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr/file"
)

// ErrUnknownFilter is returned when a named preset is not registered
var ErrUnknownFilter = errors.New("filter not found")

// CompilationError indicates a filter expression could not be compiled
type CompilationError struct {
	Expression string
	Reason     string
	Line       int // 0 if unknown
	Column     int // -1 if unknown
	Err        error
}

func newCompilationError(expression, reason string, err error) *CompilationError {
	cerr := &CompilationError{
		Expression: expression,
		Reason:     reason,
		Column:     -1,
		Err:        err,
	}
	var ferr *file.Error
	if errors.As(err, &ferr) {
		cerr.Reason = ferr.Message
		cerr.Line = ferr.Line
		cerr.Column = ferr.Column
	}
	return cerr
}

func (e *CompilationError) Error() string {
	if e.Column >= 0 {
		return fmt.Sprintf("compilation error at column %d in '%s': %s", e.Column, e.Expression, e.Reason)
	}
	return fmt.Sprintf("compilation error in '%s': %s", e.Expression, e.Reason)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}
