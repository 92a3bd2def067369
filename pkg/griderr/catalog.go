// Package griderr is the engine's error catalog: canonical codes, standard
// messages, and retry/next-step guidance for every fallible grid operation.
// It generalizes the MCP-specific error catalog pattern (one canonical code
// per failure mode, normalized into a client-facing string) to the core
// engine, independent of any particular transport. internal/mcpserver wraps
// griderr.Error into MCP tool results at the edge.
package griderr

import (
	"fmt"
	"strings"
)

// Code is a canonical, stable identifier for one class of engine failure.
type Code string

const (
	// Validation & addressing
	Validation       Code = "VALIDATION"
	InvalidSheet     Code = "INVALID_SHEET"
	InvalidReference Code = "INVALID_REFERENCE"
	InvalidName      Code = "INVALID_NAME"
	CursorInvalid    Code = "CURSOR_INVALID"

	// Resource & limits
	BusyResource    Code = "BUSY_RESOURCE"
	Timeout         Code = "TIMEOUT"
	LimitExceeded   Code = "LIMIT_EXCEEDED"
	PayloadTooLarge Code = "PAYLOAD_TOO_LARGE"

	// Operation rejection (spec §7: "fatal to the operation, not the grid")
	OperationRejected Code = "OPERATION_REJECTED"
	NameConflict      Code = "NAME_CONFLICT"
	SpillBlocked      Code = "SPILL_BLOCKED"

	// Import/collaborator boundary (internal/importer)
	OpenFailed        Code = "OPEN_FAILED"
	UnsupportedFormat Code = "UNSUPPORTED_FORMAT"
	PathNotAllowed    Code = "PATH_NOT_ALLOWED"

	// Internal invariant violations (spec §7: "use assertions; violation
	// indicates a bug")
	InternalError Code = "INTERNAL_ERROR"
)

// Entry documents a code's standard message, retry semantics, and guidance.
type Entry struct {
	Code      Code
	Message   string
	Retryable bool
	NextSteps []string
}

var catalog = map[Code]Entry{
	Validation:       {Code: Validation, Message: "invalid inputs", Retryable: true, NextSteps: []string{"Correct the inputs and retry"}},
	InvalidSheet:     {Code: InvalidSheet, Message: "sheet not found", Retryable: true, NextSteps: []string{"Verify the sheet id or name"}},
	InvalidReference: {Code: InvalidReference, Message: "malformed A1 reference", Retryable: true, NextSteps: []string{"Check the range syntax against the A1 grammar"}},
	InvalidName:      {Code: InvalidName, Message: "invalid table or column name", Retryable: true, NextSteps: []string{"Names must be 1-255 chars, start with a letter/underscore, and be unique"}},
	CursorInvalid:    {Code: CursorInvalid, Message: "pagination cursor is invalid for current context", Retryable: true, NextSteps: []string{"Restart pagination from the first page"}},

	BusyResource:    {Code: BusyResource, Message: "concurrent evaluation limit reached", Retryable: true, NextSteps: []string{"Retry after a short delay"}},
	Timeout:         {Code: Timeout, Message: "operation exceeded its time budget", Retryable: true, NextSteps: []string{"Narrow the affected range"}},
	LimitExceeded:   {Code: LimitExceeded, Message: "operation exceeded configured limits", Retryable: true, NextSteps: []string{"Narrow range or reduce batch size"}},
	PayloadTooLarge: {Code: PayloadTooLarge, Message: "payload exceeds configured size", Retryable: true, NextSteps: []string{"Split the range into smaller batches"}},

	OperationRejected: {Code: OperationRejected, Message: "operation rejected; grid state unchanged", Retryable: false, NextSteps: []string{"Validate coordinates and values before retrying"}},
	NameConflict:      {Code: NameConflict, Message: "table or column name already in use", Retryable: true, NextSteps: []string{"Choose a different name"}},
	SpillBlocked:      {Code: SpillBlocked, Message: "data table output is obstructed", Retryable: true, NextSteps: []string{"Clear the obstructing cell, table, or merge"}},

	OpenFailed:        {Code: OpenFailed, Message: "failed to open workbook source", Retryable: true, NextSteps: []string{"Verify the path and permissions"}},
	UnsupportedFormat: {Code: UnsupportedFormat, Message: "unsupported workbook format", Retryable: false, NextSteps: []string{"Convert to a supported format"}},
	PathNotAllowed:    {Code: PathNotAllowed, Message: "path is outside the allowed directories", Retryable: false, NextSteps: []string{"Move the file under an allowed root"}},

	InternalError: {Code: InternalError, Message: "internal invariant violated", Retryable: false, NextSteps: []string{"This indicates a bug; please report it"}},
}

// Error is the engine's error type: a canonical code, a human message, and
// optional next-step guidance. It implements error.
type Error struct {
	Code      Code
	Message   string
	Retryable bool
	NextSteps []string
}

func (e *Error) Error() string {
	msg := strings.TrimSpace(e.Message)
	if len(e.NextSteps) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return fmt.Sprintf("%s: %s | next steps: %s", e.Code, msg, strings.Join(e.NextSteps, "; "))
}

// New builds an Error for code, using the catalog's standard message when
// message is empty.
func New(code Code, message string) *Error {
	e, ok := catalog[code]
	if !ok {
		return &Error{Code: code, Message: message}
	}
	if message != "" {
		e.Message = message
	}
	return &Error{Code: e.Code, Message: e.Message, Retryable: e.Retryable, NextSteps: e.NextSteps}
}

// Newf is New with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Is reports whether err is a griderr.Error carrying code.
func Is(err error, code Code) bool {
	ge, ok := err.(*Error)
	return ok && ge.Code == code
}
