package parser

import (
	"fmt"

	"tiendapos/internal/domain"
)

// Parse stages reported by ParseError.
const (
	StageDocument = "document"
	StageEnvelope = "envelope"
	StageInvoice  = "invoice"
)

// ParseError aborts a whole parse. Field-level problems never produce one.
type ParseError struct {
	Stage string
	Msg   string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", e.Stage, e.Msg, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", e.Stage, e.Msg)
}

// Is matches domain.ErrInvoiceParse so callers need not import this package.
func (e *ParseError) Is(target error) bool {
	return target == domain.ErrInvoiceParse
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(stage, msg string, err error) *ParseError {
	return &ParseError{Stage: stage, Msg: msg, Err: err}
}
