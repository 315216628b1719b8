package quotes

import "errors"

// Domain errors. Handlers map these onto problem responses so the UI can tell
// "fix your input" from "not allowed right now" from "try again".
var (
	// ErrQuoteNotFound indicates the requested quotation does not exist.
	ErrQuoteNotFound = errors.New("quotation not found")

	// ErrValidation flags malformed input; the wrapped message names the field.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTransition indicates the lifecycle event is not legal from the
	// current status. Never retried automatically: it is a caller mistake,
	// not a transient fault.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrTransitionConflict indicates a concurrent transition won the race.
	ErrTransitionConflict = errors.New("concurrent status transition")

	// ErrNotEditable indicates items/accessories can no longer change.
	ErrNotEditable = errors.New("only draft quotations can be edited")

	// ErrLedgerFailed wraps inventory ledger failures (hold or release). The
	// status transition is not committed; ledger calls are idempotent so the
	// whole transition may be retried safely.
	ErrLedgerFailed = errors.New("inventory ledger operation failed")

	// ErrInvoiceFailed wraps invoice-creation failures on conversion.
	ErrInvoiceFailed = errors.New("invoice creation failed")
)
