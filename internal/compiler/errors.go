package compiler

import (
	"errors"
	"fmt"

	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// InputFormatError reports malformed or inconsistent stoichiometry input.
// Loading fails as a whole; no partial network is returned.
type InputFormatError struct {
	File    string `json:"file,omitempty"`
	Row     int    `json:"row,omitempty"` // 1-based line in File, 0 if not applicable
	Col     int    `json:"col,omitempty"` // 1-based column in File, 0 if not applicable
	Name    string `json:"name,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *InputFormatError) Error() string {
	loc := e.File
	if e.Row > 0 {
		loc = fmt.Sprintf("%s:%d", loc, e.Row)
		if e.Col > 0 {
			loc = fmt.Sprintf("%s:%d", loc, e.Col)
		}
	}
	msg := e.Message
	if e.Name != "" {
		msg = fmt.Sprintf("%s: %s", e.Name, msg)
	}
	if loc == "" {
		return fmt.Sprintf("[%s] %s", e.Code, msg)
	}
	return fmt.Sprintf("%s: [%s] %s", loc, e.Code, msg)
}

// IsInputFormatError reports whether err wraps an *InputFormatError.
func IsInputFormatError(err error) bool {
	var target *InputFormatError
	return errors.As(err, &target)
}

// CompileError represents a CUE compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := cueerrors.Positions(first)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
