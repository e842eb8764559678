// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/peerbank/ledgercore/internal/domain"
	"github.com/peerbank/ledgercore/pkg/accountnumpkg"
	"github.com/peerbank/ledgercore/pkg/randompkg"
)

// Account numbers are random, so a freshly generated one can collide
// with an existing account. Creation retries a few times before giving up.
const maxNumberAttempts = 5

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, name, accountNumber, balance string) (domain.Account, error)
	Get(ctx context.Context, id int64) (domain.Account, error)
	GetByNumber(ctx context.Context, accountNumber string) (domain.Account, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo Repo
}

// New returns account service struct to manage account business logic.
func New(ar Repo) *Service {
	return &Service{repo: ar}
}

// Create opens an account for the given holder name with a zero balance
// and a freshly generated unique 10-digit account number.
func (s *Service) Create(ctx context.Context, name string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	name = strings.TrimSpace(name)

	var account domain.Account
	var err error

	for i := 0; i < maxNumberAttempts; i++ {
		number := randompkg.AccountNumber()

		account, err = s.repo.Create(ctx, name, number, "0")
		if err != domain.ErrAccountNumberTaken {
			return account, err
		}

		l.Info().Str("account_number", number).Msg("generated account number collided, retrying")
	}

	return account, err
}

// Get returns the account for the given internal id.
func (s *Service) Get(ctx context.Context, id int64) (domain.Account, error) {
	return s.repo.Get(ctx, id)
}

// GetByNumber returns the account for the given account number.
func (s *Service) GetByNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	return s.repo.GetByNumber(ctx, accountNumber)
}

// Search resolves an account number to an account on behalf of the caller.
// Looking up the caller's own account is rejected.
func (s *Service) Search(ctx context.Context, callerID int64, accountNumber string) (domain.Account, error) {
	if !accountnumpkg.IsValid(accountNumber) {
		return domain.Account{}, domain.ErrInvalidAccountNumber
	}

	caller, err := s.repo.Get(ctx, callerID)
	if err != nil {
		return domain.Account{}, err
	}

	if caller.AccountNumber == accountNumber {
		return domain.Account{}, domain.ErrSelfLookup
	}

	return s.repo.GetByNumber(ctx, accountNumber)
}
