// Package transferservice manages business logic layer of transfers.
//
// It is the transfer engine: every balance movement in the system goes
// through Transfer or QuickTransfer. Preconditions are checked before
// any mutation; the atomic debit/credit/append itself is delegated to
// the repository's TransferTx.
package transferservice

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/peerbank/ledgercore/internal/accountdelivery"
	"github.com/peerbank/ledgercore/internal/beneficiarydelivery"
	"github.com/peerbank/ledgercore/internal/domain"
	"github.com/peerbank/ledgercore/internal/events"
	"github.com/peerbank/ledgercore/pkg/accountnumpkg"
	"github.com/peerbank/ledgercore/pkg/moneypkg"
)

const defaultHistoryLimit = 50

// Repo provides data access layer interface needed by transfer service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transferservice
type Repo interface {
	TransferTx(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferTxResult, error)
	ListByAccount(ctx context.Context, accountNumber string, limit int32) ([]domain.Transfer, error)
}

// Service facilitates transfer service layer logic.
type Service struct {
	repo           Repo
	accountService accountdelivery.Service
	beneficiaries  beneficiarydelivery.Service
	publisher      events.Publisher
}

// New returns transfer service struct to manage transfer business logic.
func New(tr Repo, as accountdelivery.Service, bs beneficiarydelivery.Service, pub events.Publisher) *Service {
	return &Service{
		repo:           tr,
		accountService: as,
		beneficiaries:  bs,
		publisher:      pub,
	}
}

// validRequest checks the transfer preconditions in order and resolves
// both accounts. Nothing is mutated here; the sender balance check is
// repeated inside the transaction against the locked row.
func (s *Service) validRequest(ctx context.Context, senderID int64, toAccountNumber, amount string) (sender, recipient domain.Account, amt decimal.Decimal, err error) {
	l := zerolog.Ctx(ctx)

	if !accountnumpkg.IsValid(toAccountNumber) {
		return sender, recipient, amt, domain.ErrInvalidAccountNumber
	}

	amt, err = moneypkg.Parse(amount)
	if err != nil {
		l.Info().Err(err).Str("amount", amount).Send()

		switch err {
		case moneypkg.ErrBelowMinUnit:
			return sender, recipient, amt, domain.ErrAmountTooSmall
		default:
			return sender, recipient, amt, domain.ErrInvalidAmount
		}
	}

	sender, err = s.accountService.Get(ctx, senderID)
	if err != nil {
		l.Info().Err(err).Send()
		return sender, recipient, amt, err
	}

	senderBalance, err := decimal.NewFromString(sender.Balance)
	if err != nil {
		l.Error().Err(err).Send()
		return sender, recipient, amt, err
	}

	if senderBalance.LessThan(amt) {
		return sender, recipient, amt, domain.ErrInsufficientBalance
	}

	recipient, err = s.accountService.GetByNumber(ctx, toAccountNumber)
	if err != nil {
		l.Info().Err(err).Send()
		return sender, recipient, amt, err
	}

	if sender.AccountNumber == recipient.AccountNumber {
		return sender, recipient, amt, domain.ErrSelfTransfer
	}

	return sender, recipient, amt, nil
}

// Transfer moves amount from the sender to the account with the given number.
func (s *Service) Transfer(ctx context.Context, senderID int64, toAccountNumber, amount, description string) (domain.TransferTxResult, error) {
	sender, recipient, amt, err := s.validRequest(ctx, senderID, toAccountNumber, amount)
	if err != nil {
		return domain.TransferTxResult{}, err
	}

	desc, err := normalizeDescription(description, domain.DefaultDescription)
	if err != nil {
		return domain.TransferTxResult{}, err
	}

	return s.execute(ctx, sender, recipient, amt, desc)
}

// QuickTransfer moves amount to a saved beneficiary. On top of the
// Transfer preconditions the recipient must already be in the sender's
// beneficiary list.
func (s *Service) QuickTransfer(ctx context.Context, senderID int64, beneficiaryAccountNumber, amount, description string) (domain.TransferTxResult, error) {
	sender, recipient, amt, err := s.validRequest(ctx, senderID, beneficiaryAccountNumber, amount)
	if err != nil {
		return domain.TransferTxResult{}, err
	}

	saved, err := s.beneficiaries.List(ctx, senderID)
	if err != nil {
		return domain.TransferTxResult{}, err
	}

	var beneficiary *domain.Beneficiary

	for i := range saved {
		if saved[i].AccountNumber == beneficiaryAccountNumber {
			beneficiary = &saved[i]
			break
		}
	}

	if beneficiary == nil {
		return domain.TransferTxResult{}, domain.ErrNotBeneficiary
	}

	desc, err := normalizeDescription(description, "Transfer to "+beneficiary.Name)
	if err != nil {
		return domain.TransferTxResult{}, err
	}

	return s.execute(ctx, sender, recipient, amt, desc)
}

func (s *Service) execute(ctx context.Context, sender, recipient domain.Account, amt decimal.Decimal, description string) (domain.TransferTxResult, error) {
	l := zerolog.Ctx(ctx)

	arg := domain.CreateTransferParams{
		FromAccountID: sender.ID,
		ToAccountID:   recipient.ID,
		From:          sender.AccountNumber,
		To:            recipient.AccountNumber,
		Amount:        moneypkg.String(amt),
		Description:   description,
	}

	result, err := s.repo.TransferTx(ctx, arg)
	if err != nil {
		return domain.TransferTxResult{}, err
	}

	event := events.TransferCompleted{
		EventID:    uuid.NewString(),
		TransferID: result.Transfer.ID,
		From:       result.Transfer.From,
		To:         result.Transfer.To,
		Amount:     result.Transfer.Amount,
		CreatedAt:  result.Transfer.CreatedAt,
	}

	// The transfer is committed; a publish failure must not undo it.
	if err := s.publisher.PublishTransferCompleted(ctx, event); err != nil {
		l.Error().Err(err).Int64("transfer_id", result.Transfer.ID).Msg("publishing transfer.completed failed")
	}

	return result, nil
}

// ListTransfers returns the sender's transfer history, newest first.
func (s *Service) ListTransfers(ctx context.Context, senderID int64, limit int32) ([]domain.Transfer, error) {
	sender, err := s.accountService.Get(ctx, senderID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > defaultHistoryLimit {
		limit = defaultHistoryLimit
	}

	return s.repo.ListByAccount(ctx, sender.AccountNumber, limit)
}

func normalizeDescription(raw, fallback string) (string, error) {
	desc := strings.TrimSpace(raw)
	if desc == "" {
		return fallback, nil
	}

	// The limit counts characters, not bytes, matching the varchar(100)
	// column.
	if utf8.RuneCountInString(desc) > domain.MaxDescriptionLength {
		return "", domain.ErrDescriptionTooLong
	}

	return desc, nil
}
