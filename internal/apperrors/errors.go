package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
// Wrong owner and wrong status are reported the same way so callers cannot
// probe for the existence of other customers' resources.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks
// (non-positive amount, overpayment, malformed request).
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrIdempotencyConflict indicates an idempotency key was reused with a
// different operation or amount.
var ErrIdempotencyConflict = errors.New("idempotency key already used with a different operation")

// ErrInsufficientFunds indicates a withdrawal or payment exceeds the
// available account balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrForbidden indicates the caller is not allowed to act on the resource
// (closed loan, account owned by someone else).
var ErrForbidden = errors.New("operation not permitted")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal indicates an unexpected storage or infrastructure failure.
var ErrInternal = errors.New("internal error")
