// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed traversal step.
type ErrorKind string

const (
	KindNetwork ErrorKind = "network"
	KindStatus  ErrorKind = "status"
	KindParse   ErrorKind = "parse"
)

// StepError is a recoverable failure of one fetch or parse. The engine logs
// it, skips the branch, and continues with its siblings.
type StepError struct {
	Kind  ErrorKind
	Level string
	URL   string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s error at %s: %v", e.Kind, e.URL, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// IsRecoverable reports whether err is a StepError.
func IsRecoverable(err error) bool {
	var se *StepError
	return errors.As(err, &se)
}
