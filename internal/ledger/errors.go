// Package ledger contains the two core engines of the platform: the
// reservation ledger, which serializes access to a table's time slots,
// and the stock ledger, which derives current stock from an append-only
// transaction log.  Both read and write through small store interfaces
// so that handlers stay thin and tests can run against in-memory fakes.
package ledger

import "errors"

// Sentinel errors returned by ledger operations.  Handlers translate
// these into HTTP status codes; anything else is a storage failure and
// maps to 500.
var (
	// ErrInvalidInput means a required field was missing or malformed.
	// It is returned before any store access happens.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyHeld means the requested table slot overlaps an active
	// hold or booking for the same table.
	ErrAlreadyHeld = errors.New("table already held for this window")

	// ErrHoldNotFound means Book was called without a matching active
	// hold; callers must hold a slot before booking it.
	ErrHoldNotFound = errors.New("no matching hold")

	// ErrDuplicateBatch means a batch of the same type already exists
	// for the target calendar day.
	ErrDuplicateBatch = errors.New("batch already recorded for this day")

	// ErrNotFound means a referenced ingredient or table does not exist.
	ErrNotFound = errors.New("not found")
)
