package service

import "errors"

var (
	ErrForbidden         = errors.New("operation not permitted for this role")
	ErrNotFound          = errors.New("record not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrEmptyDraft        = errors.New("draft has no items")
	ErrNoCustomer        = errors.New("draft has no customer selected")
	ErrEditSessionOpen   = errors.New("an edit session is already open for this invoice")
	ErrNotPending        = errors.New("invoice is not in pending status")
	ErrAlreadyShipped    = errors.New("invoice has already been shipped")
	ErrTooManyImages     = errors.New("a shipment accepts at most 3 images")
	ErrUsernameTaken     = errors.New("username is already taken")
	ErrInvalidCredential = errors.New("invalid username or password")
	ErrTokenExpired      = errors.New("token is expired or revoked")
)
