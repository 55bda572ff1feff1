package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bondgraph/internal/compiler"
	"github.com/roach88/bondgraph/internal/expr"
	"github.com/roach88/bondgraph/internal/steady"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.Success(map[string]string{"result": "success"}, "a cycle")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
	assert.Equal(t, []string{"a cycle"}, resp.Warnings)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.Error("E001", "derivation failed", nil)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E001", resp.Error.Code)
	assert.Equal(t, "derivation failed", resp.Error.Message)
}

func TestOutputFormatter_JSONDoesNotEscapeHTML(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}
	require.NoError(t, formatter.Success("a < b"))
	assert.Contains(t, buf.String(), "a < b")
}

type textPayload struct{ n int }

func (p textPayload) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "payload %d\n", p.n)
	return err
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Success("All networks valid"))
	assert.Contains(t, buf.String(), "All networks valid")

	buf.Reset()
	require.NoError(t, formatter.Success(textPayload{n: 3}, "watch out"))
	assert.Equal(t, "payload 3\nwarning: watch out\n", buf.String())
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf, Verbose: true}

	require.NoError(t, formatter.Error("E214", "file missing", map[string]int{"row": 2}))
	assert.Contains(t, buf.String(), "Error [E214]: file missing")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_Fail(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	cause := &compiler.InputFormatError{File: "x_f.csv", Row: 3, Code: compiler.ErrBadNumber, Message: "bad number"}
	err := formatter.Fail("failed to load network", cause)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.ErrorIs(t, err, cause)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, compiler.ErrBadNumber, resp.Error.Code)
	assert.NotNil(t, resp.Error.Details)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
		exit int
	}{
		{"input", &compiler.InputFormatError{Code: compiler.ErrReadFile}, compiler.ErrReadFile, ExitCommandError},
		{"compile", &compiler.CompileError{Field: "cue", Message: "bad"}, ErrCodeCompile, ExitCommandError},
		{"topology", &steady.UnsupportedTopologyError{}, ErrCodeTopology, ExitFailure},
		{"scale", &steady.UnsupportedScaleError{}, ErrCodeScale, ExitFailure},
		{"degenerate", &steady.DegenerateNetworkError{}, ErrCodeDegenerate, ExitFailure},
		{"zero", fmt.Errorf("eval: %w", expr.ErrZeroDenominator), ErrCodeZeroDenominator, ExitFailure},
		{"other", errors.New("boom"), ErrCodeGeneric, ExitCommandError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, exit := Classify(tt.err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.exit, exit)
		})
	}
}

func TestExitError(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapExitError(ExitCommandError, "failed to write", cause)
	assert.Equal(t, "failed to write: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	assert.Equal(t, "plain", NewExitError(ExitFailure, "plain").Error())
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("untyped")))
}
