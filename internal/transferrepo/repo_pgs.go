// Package transferrepo manages repository layer of transfers.
//
// Besides plain queries over the append-only transfer log it owns
// TransferTx, the single atomic unit that moves funds between two
// accounts and records the movement.
package transferrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/peerbank/ledgercore/internal/accountrepo"
	"github.com/peerbank/ledgercore/internal/domain"
	"github.com/peerbank/ledgercore/pkg/dbpkg"
	"github.com/peerbank/ledgercore/pkg/errorspkg"
)

// RepoPGS facilitates transfer repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns transfer RepoPGS bound to an existing transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns transfer RepoPGS with a connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const createQuery = `
INSERT INTO
    transfers (from_account_number, to_account_number, amount, description)
VALUES
    ($1, $2, $3, $4)
RETURNING id, from_account_number, to_account_number, amount, description, created_at
`

// Create appends the transfer record and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateTransferParams) (domain.Transfer, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, arg.From, arg.To, arg.Amount, arg.Description)

	var t domain.Transfer
	err := row.Scan(
		&t.ID,
		&t.From,
		&t.To,
		&t.Amount,
		&t.Description,
		&t.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx, %+v)", arg)

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "transfers_amount_check" {
				return t, domain.ErrInvalidAmount
			}
		}

		if dbpkg.Conflict(err) {
			return t, domain.ErrTransferConflict
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const getQuery = `
SELECT
	id, from_account_number, to_account_number, amount, description, created_at
FROM transfers
WHERE id = $1
`

// Get returns the transfer record with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Transfer, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var t domain.Transfer

	err := row.Scan(
		&t.ID,
		&t.From,
		&t.To,
		&t.Amount,
		&t.Description,
		&t.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return t, domain.ErrTransferNotFound
		}

		l.Error().Err(err).Send()

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const listByAccountQuery = `
SELECT
	id, from_account_number, to_account_number, amount, description, created_at
FROM transfers
WHERE
    from_account_number = $1 OR to_account_number = $1
ORDER BY created_at DESC, id DESC
LIMIT $2
`

// ListByAccount returns the account's transfers, newest first.
func (r *RepoPGS) ListByAccount(ctx context.Context, accountNumber string, limit int32) ([]domain.Transfer, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listByAccountQuery, accountNumber, limit)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transfer{}

	for rows.Next() {
		var t domain.Transfer
		if err := rows.Scan(
			&t.ID,
			&t.From,
			&t.To,
			&t.Amount,
			&t.Description,
			&t.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

// TransferTx moves money between two accounts.
//
// Inside a single database transaction it locks both account rows in
// ascending id order, re-reads the sender balance under the lock,
// debits the sender, credits the recipient and appends the transfer
// record. Either all three writes commit or none of them do.
func (r *RepoPGS) TransferTx(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.TransferTxResult

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrUnavailable
	}

	committed := false

	defer func() {
		if committed {
			return
		}
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	accountRepo := accountrepo.NewRepoPGS(tx)
	logRepo := NewTxRepoPGS(tx)

	// Lock both rows in ascending id order so mirror-image transfers
	// cannot deadlock each other.
	firstID, secondID := arg.FromAccountID, arg.ToAccountID
	if firstID > secondID {
		firstID, secondID = secondID, firstID
	}

	first, err := accountRepo.GetForUpdate(ctx, firstID)
	if err != nil {
		return result, translateTxErr(err)
	}

	second, err := accountRepo.GetForUpdate(ctx, secondID)
	if err != nil {
		return result, translateTxErr(err)
	}

	// The pre-transaction balance check may be stale by now;
	// re-validate against the locked row before mutating anything.
	sender := first
	if arg.FromAccountID == second.ID {
		sender = second
	}

	senderBalance, err := decimal.NewFromString(sender.Balance)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	amount, err := decimal.NewFromString(arg.Amount)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	if senderBalance.LessThan(amount) {
		return result, domain.ErrInsufficientBalance
	}

	result.FromAccount, err = accountRepo.AddBalance(ctx, "-"+arg.Amount, arg.FromAccountID)
	if err != nil {
		return result, translateTxErr(err)
	}

	result.ToAccount, err = accountRepo.AddBalance(ctx, arg.Amount, arg.ToAccountID)
	if err != nil {
		return result, translateTxErr(err)
	}

	result.Transfer, err = logRepo.Create(ctx, arg)
	if err != nil {
		return result, translateTxErr(err)
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.TransferTxResult{}, translateTxErr(err)
	}

	committed = true

	return result, nil
}

func translateTxErr(err error) error {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrTransferConflict):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}

	if dbpkg.Conflict(err) {
		return domain.ErrTransferConflict
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// Class 08 covers connection exceptions.
		if len(pqErr.Code) >= 2 && string(pqErr.Code[:2]) == "08" {
			return errorspkg.ErrUnavailable
		}
	}

	if errors.Is(err, sql.ErrConnDone) {
		return errorspkg.ErrUnavailable
	}

	if errors.Is(err, errorspkg.ErrUnavailable) {
		return err
	}

	return errorspkg.ErrInternal
}
