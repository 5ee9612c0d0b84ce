package models

import "errors"

var ErrNotFound = errors.New("requested resource not found")
var ErrForbidden = errors.New("user does not have permission to access this resource")
var ErrConflict = errors.New("resource conflict, item already exists")
var ErrInvalidCredentials = errors.New("invalid credentials") // email or password provided does not match database record
var ErrEmailTaken = errors.New("email already registered")

// ErrInvalidStatus indicates that a status value outside the defined
// package status enum was submitted.
var ErrInvalidStatus = errors.New("invalid package status")

// ErrInvoiceNotPayable indicates the invoice is not in a state that accepts payment.
var ErrInvoiceNotPayable = errors.New("invoice cannot be paid in its current status")

// ErrorResponse is the standard JSON error body returned by all handlers.
type ErrorResponse struct {
	Message string `json:"message"`
}
