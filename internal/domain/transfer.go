package domain

import (
	"errors"
	"time"
)

var (
	// ErrInvalidAmount indicates invalid amount.
	ErrInvalidAmount = errors.New("invalid transfer amount")
	// ErrAmountTooSmall indicates an amount below the minimum transfer unit.
	ErrAmountTooSmall = errors.New("minimum transfer amount is 0.01")
	// ErrDescriptionTooLong indicates a description over 100 characters.
	ErrDescriptionTooLong = errors.New("description is too long")
	// ErrInsufficientBalance indicates that the sender does not have sufficient balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrSelfTransfer indicates an attempt to transfer money to the sender's own account.
	ErrSelfTransfer = errors.New("cannot transfer money to yourself")
	// ErrNotBeneficiary indicates that the quick transfer target is not a saved beneficiary.
	ErrNotBeneficiary = errors.New("account not found in your beneficiaries")
	// ErrTransferConflict indicates a concurrent modification detected at commit time.
	// The caller may retry the whole transfer from validation.
	ErrTransferConflict = errors.New("transfer conflicts with a concurrent transfer")
	// ErrTransferNotFound indicates that the transfer record is not found.
	ErrTransferNotFound = errors.New("transfer not found")
)

// DefaultDescription is used when the caller supplies no description.
const DefaultDescription = "Money transfer"

// MaxDescriptionLength bounds the transfer description.
const MaxDescriptionLength = 100

// Transfer is an immutable record of a completed movement of funds.
// Accounts are referenced by account number only; records are never
// updated or deleted once appended.
type Transfer struct {
	ID          int64     `json:"id"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	Amount      string    `json:"amount"` // always positive
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateTransferParams is the input data for the transfer transaction.
// Account ids are resolved by the engine before the transaction begins;
// balances are re-read inside it.
type CreateTransferParams struct {
	FromAccountID int64
	ToAccountID   int64
	From          string
	To            string
	Amount        string
	Description   string
}

// TransferTxResult is the result of the transfer transaction.
// FromAccount and ToAccount carry the balances as of the commit.
type TransferTxResult struct {
	Transfer    Transfer `json:"transfer"`
	FromAccount Account  `json:"from_account"`
	ToAccount   Account  `json:"to_account"`
}
