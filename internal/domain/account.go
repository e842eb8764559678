// Package domain provides definitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountNumberTaken indicates that the generated account number is already in use.
	ErrAccountNumberTaken = errors.New("account number already taken")
	// ErrInvalidAccountNumber indicates a malformed account number.
	ErrInvalidAccountNumber = errors.New("invalid account number format")
	// ErrSelfLookup indicates an attempt to search for the caller's own account.
	ErrSelfLookup = errors.New("cannot search for your own account")
	// ErrNotAuthenticated indicates that no caller identity is resolvable.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Account holds a single balance addressed by an external account number.
//
// The balance is a fixed-point amount with two decimal places and is
// never negative.
type Account struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	AccountNumber string    `json:"account_number"`
	Balance       string    `json:"balance"`
	CreatedAt     time.Time `json:"created_at"`
}
