// Package scouterrors defines the typed error kinds the engine raises.
// ParseError and IOError are warn-and-skip (the source is excluded, the scan
// continues); ConfigLoadError and RuleLoadError are fatal at startup;
// InternalError marks a programming bug (logged, current analysis
// abandoned, scan continues).
package scouterrors

import (
	"fmt"
	"time"
)

type ErrorType string

const (
	ErrorTypeParse    ErrorType = "parse"
	ErrorTypeIO       ErrorType = "io"
	ErrorTypeConfig   ErrorType = "config"
	ErrorTypeRule     ErrorType = "rule"
	ErrorTypeInternal ErrorType = "internal"
)

// ScanError is the common shape for every error kind the engine produces.
type ScanError struct {
	Type        ErrorType
	Path        string
	Operation   string
	Underlying  error
	Timestamp   time.Time
	Recoverable bool
}

func newError(t ErrorType, op string, err error) *ScanError {
	return &ScanError{Type: t, Operation: op, Underlying: err, Timestamp: time.Now()}
}

// NewParseError wraps a parser-collaborator failure that survived recovery.
func NewParseError(path string, err error) *ScanError {
	e := newError(ErrorTypeParse, "parse", err)
	e.Path = path
	e.Recoverable = true
	return e
}

// NewIOError wraps a failure to read a source file.
func NewIOError(path string, err error) *ScanError {
	e := newError(ErrorTypeIO, "read", err)
	e.Path = path
	e.Recoverable = true
	return e
}

// NewConfigLoadError wraps a fatal configuration load failure.
func NewConfigLoadError(path string, err error) *ScanError {
	e := newError(ErrorTypeConfig, "load config", err)
	e.Path = path
	e.Recoverable = false
	return e
}

// NewRuleLoadError wraps a fatal rule- or canary-catalog load failure.
func NewRuleLoadError(path string, err error) *ScanError {
	e := newError(ErrorTypeRule, "load catalog", err)
	e.Path = path
	e.Recoverable = false
	return e
}

// NewInternalError wraps a programming-bug-class failure, e.g. density
// fields with mismatched dimensions during combination.
func NewInternalError(op string, err error) *ScanError {
	e := newError(ErrorTypeInternal, op, err)
	e.Recoverable = false
	return e
}

func (e *ScanError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s failed for %s: %v", e.Type, e.Operation, e.Path, e.Underlying)
	}
	return fmt.Sprintf("%s: %s failed: %v", e.Type, e.Operation, e.Underlying)
}

func (e *ScanError) Unwrap() error {
	return e.Underlying
}

// IsRecoverable reports whether the caller should warn-and-skip (true) or
// treat the error as fatal (false).
func (e *ScanError) IsRecoverable() bool {
	return e.Recoverable
}
