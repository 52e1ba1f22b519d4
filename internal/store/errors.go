package store

import "errors"

// The closed set of domain errors surfaced by store operations. Handlers map
// these to HTTP statuses with errors.Is; nothing else leaks out of the core
// operations except wrapped storage errors.
var (
	// Not-found family.
	ErrUserNotFound     = errors.New("user not found")
	ErrItemNotFound     = errors.New("item not found")
	ErrTodoNotFound     = errors.New("todo not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrNotOwned         = errors.New("item not owned")

	// Conflict/validation family. No state is mutated when these are returned.
	ErrEmailTaken          = errors.New("email already registered")
	ErrAlreadyOwned        = errors.New("item already owned")
	ErrInsufficientBalance = errors.New("insufficient carrot balance")
	ErrAlreadyCompleted    = errors.New("todo already completed")
	ErrNotCompleted        = errors.New("todo not completed")
	ErrForbidden           = errors.New("not the owner")

	// ErrTransactionFailed wraps a storage failure during an operation's write
	// phase or commit. The operation rolled back fully, so the caller may retry
	// it as a whole.
	ErrTransactionFailed = errors.New("transaction failed")
)
