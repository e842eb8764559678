package domain

import (
	"errors"
	"time"
)

var (
	// ErrBeneficiaryNotFound indicates that the beneficiary is not in the owner's list.
	ErrBeneficiaryNotFound = errors.New("beneficiary not found")
	// ErrBeneficiaryExists indicates that the beneficiary is already saved.
	ErrBeneficiaryExists = errors.New("beneficiary already exists")
	// ErrBeneficiaryLimit indicates that the owner's beneficiary list is full.
	ErrBeneficiaryLimit = errors.New("maximum 10 beneficiaries allowed")
	// ErrBeneficiaryNameRequired indicates a missing beneficiary name.
	ErrBeneficiaryNameRequired = errors.New("beneficiary name is required")
	// ErrSelfBeneficiary indicates an attempt to add the owner's own account.
	ErrSelfBeneficiary = errors.New("cannot add yourself as beneficiary")
)

// MaxBeneficiaries caps the per-account beneficiary list.
const MaxBeneficiaries = 10

// Beneficiary is a saved counterpart account enabling quick transfers.
type Beneficiary struct {
	AccountNumber string    `json:"account_number"`
	Name          string    `json:"name"`
	Nickname      string    `json:"nickname,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// AddBeneficiaryParams is the input data for saving a beneficiary.
type AddBeneficiaryParams struct {
	AccountNumber string
	Name          string
	Nickname      string
}
