package types

import (
	"fmt"
	"strings"
)

// Problem is a diagnostic attached to a position in a source file.
// Line and Column are -1 when unknown.
type Problem struct {
	Filename string
	Line     int
	Column   int
	Message  string
	Evidence string
}

// NewProblem builds a Problem without evidence
func NewProblem(filename string, line, column int, message string) Problem {
	return Problem{Filename: filename, Line: line, Column: column, Message: message}
}

// String renders "file:line:col: message"
func (p Problem) String() string {
	var b strings.Builder
	b.WriteString(p.Filename)
	if p.Line >= 0 {
		fmt.Fprintf(&b, ":%d", p.Line)
		if p.Column >= 0 {
			fmt.Fprintf(&b, ":%d", p.Column)
		}
	}
	b.WriteString(": ")
	b.WriteString(p.Message)
	if p.Evidence != "" {
		b.WriteString("\n    ")
		b.WriteString(p.Evidence)
	}
	return b.String()
}

// AssetError reports the problems a processor found. It is immutable once
// built.
type AssetError struct {
	id       string
	problems []Problem
	cause    error
}

// NewAssetError builds an AssetError for processor id; at least one
// problem is required.
func NewAssetError(id string, first Problem, rest ...Problem) *AssetError {
	problems := make([]Problem, 0, 1+len(rest))
	problems = append(problems, first)
	problems = append(problems, rest...)
	return &AssetError{id: id, problems: problems}
}

// WithCause returns a copy of e that unwraps to cause
func (e *AssetError) WithCause(cause error) *AssetError {
	cp := *e
	cp.problems = append([]Problem(nil), e.problems...)
	cp.cause = cause
	return &cp
}

// ID is the name of the processor that failed
func (e *AssetError) ID() string { return e.id }

// Problems returns a copy of the reported problems
func (e *AssetError) Problems() []Problem {
	return append([]Problem(nil), e.problems...)
}

// Error implements the error interface
func (e *AssetError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s found %d problem(s):", e.id, len(e.problems))
	for _, p := range e.problems {
		b.WriteString("\n  ")
		b.WriteString(p.String())
	}
	return b.String()
}

// Unwrap returns the underlying failure, if any
func (e *AssetError) Unwrap() error { return e.cause }
