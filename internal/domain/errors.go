package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvoiceParse      = errors.New("invoice could not be parsed")
	ErrSchemaMismatch    = errors.New("store header is missing a required column")
	ErrStoreWrite        = errors.New("store write failed")
	ErrInvalidTransition = errors.New("invalid reception state transition")
	ErrInvalidQuantity   = errors.New("quantity must not be negative")
	ErrLineNotFound      = errors.New("reception line not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyCart         = errors.New("cart has no items")
	ErrSessionNotFound   = errors.New("reception session not found")
	ErrAlreadyApplied    = errors.New("invoice has already been applied")
	ErrStoreBusy         = errors.New("inventory store is locked by another apply")
	ErrDuplicateSKU      = errors.New("supplier sku matches more than one product")
	ErrFileTooLarge      = errors.New("file exceeds maximum allowed size")
	ErrUnsupportedFile   = errors.New("unsupported file type")
	ErrPriceNotSet       = errors.New("product has no sale price")
	ErrInvalidInput      = errors.New("invalid input")
)

// SchemaMismatchError reports a required column absent from a store header.
type SchemaMismatchError struct {
	Table  string
	Column string
}

func (e *SchemaMismatchError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("required column %q not found in store header", e.Column)
	}
	return fmt.Sprintf("required column %q not found in %s header", e.Column, e.Table)
}

func (e *SchemaMismatchError) Unwrap() error {
	return ErrSchemaMismatch
}

// Store write operations reported by StoreWriteError.
const (
	StoreOpUpdate = "update"
	StoreOpInsert = "insert"
	StoreOpAppend = "append"
)

// StoreWriteError reports a failed batch write. Batches committed before
// the failing one are left in place.
type StoreWriteError struct {
	Op  string
	Err error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("store write %s: %v", e.Op, e.Err)
}

// Is lets errors.Is match both ErrStoreWrite and the underlying cause.
func (e *StoreWriteError) Is(target error) bool {
	return target == ErrStoreWrite
}

func (e *StoreWriteError) Unwrap() error {
	return e.Err
}
