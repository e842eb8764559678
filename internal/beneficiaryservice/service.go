// Package beneficiaryservice manages business logic layer of beneficiaries.
package beneficiaryservice

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/peerbank/ledgercore/internal/accountdelivery"
	"github.com/peerbank/ledgercore/internal/domain"
	"github.com/peerbank/ledgercore/pkg/accountnumpkg"
)

// Repo provides data access layer interface needed by beneficiary service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package beneficiaryservice
type Repo interface {
	Create(ctx context.Context, ownerID int64, arg domain.AddBeneficiaryParams) (domain.Beneficiary, error)
	Delete(ctx context.Context, ownerID int64, accountNumber string) error
	List(ctx context.Context, ownerID int64) ([]domain.Beneficiary, error)
}

// Service facilitates beneficiary service layer logic.
type Service struct {
	repo           Repo
	accountService accountdelivery.Service
}

// New returns beneficiary service struct to manage beneficiary business logic.
func New(br Repo, as accountdelivery.Service) *Service {
	return &Service{
		repo:           br,
		accountService: as,
	}
}

// Add saves a counterpart account in the owner's beneficiary list.
//
// The target account must exist, must not be the owner's own, must not
// already be saved, and the list must have room.
func (s *Service) Add(ctx context.Context, ownerID int64, arg domain.AddBeneficiaryParams) (domain.Beneficiary, error) {
	l := zerolog.Ctx(ctx)

	if !accountnumpkg.IsValid(arg.AccountNumber) {
		return domain.Beneficiary{}, domain.ErrInvalidAccountNumber
	}

	arg.Name = strings.TrimSpace(arg.Name)
	arg.Nickname = strings.TrimSpace(arg.Nickname)

	if arg.Name == "" {
		return domain.Beneficiary{}, domain.ErrBeneficiaryNameRequired
	}

	owner, err := s.accountService.Get(ctx, ownerID)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Beneficiary{}, err
	}

	saved, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return domain.Beneficiary{}, err
	}

	if len(saved) >= domain.MaxBeneficiaries {
		return domain.Beneficiary{}, domain.ErrBeneficiaryLimit
	}

	for _, b := range saved {
		if b.AccountNumber == arg.AccountNumber {
			return domain.Beneficiary{}, domain.ErrBeneficiaryExists
		}
	}

	if _, err := s.accountService.GetByNumber(ctx, arg.AccountNumber); err != nil {
		l.Info().Err(err).Send()
		return domain.Beneficiary{}, err
	}

	if arg.AccountNumber == owner.AccountNumber {
		return domain.Beneficiary{}, domain.ErrSelfBeneficiary
	}

	return s.repo.Create(ctx, ownerID, arg)
}

// Remove deletes the beneficiary from the owner's list.
func (s *Service) Remove(ctx context.Context, ownerID int64, accountNumber string) error {
	if _, err := s.accountService.Get(ctx, ownerID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, ownerID, accountNumber)
}

// List returns the owner's beneficiaries in insertion order.
func (s *Service) List(ctx context.Context, ownerID int64) ([]domain.Beneficiary, error) {
	if _, err := s.accountService.Get(ctx, ownerID); err != nil {
		return nil, err
	}

	return s.repo.List(ctx, ownerID)
}
