// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/peerbank/ledgercore/internal/domain"
	"github.com/peerbank/ledgercore/pkg/dbpkg"
	"github.com/peerbank/ledgercore/pkg/errorspkg"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const createQuery = `
INSERT INTO
    accounts (name, account_number, balance)
VALUES
    ($1, $2, $3)
RETURNING id, name, account_number, balance, created_at
`

// Create creates the account and then returns it.
func (r *RepoPGS) Create(ctx context.Context, name, accountNumber, balance string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, name, accountNumber, balance)

	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.AccountNumber,
		&a.Balance,
		&a.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "accounts_account_number_key":
				return a, domain.ErrAccountNumberTaken
			case "accounts_balance_check":
				return a, domain.ErrInvalidAmount
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getQuery = `
SELECT
	id, name, account_number, balance, created_at
FROM accounts
WHERE id = $1
`

// Get returns the account with the given internal id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Account, error) {
	return r.scanOne(ctx, r.db.QueryRowContext(ctx, getQuery, id))
}

const getByNumberQuery = `
SELECT
	id, name, account_number, balance, created_at
FROM accounts
WHERE account_number = $1
`

// GetByNumber returns the account with the given account number.
func (r *RepoPGS) GetByNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	return r.scanOne(ctx, r.db.QueryRowContext(ctx, getByNumberQuery, accountNumber))
}

const getForUpdateQuery = `
SELECT
	id, name, account_number, balance, created_at
FROM accounts
WHERE id = $1
FOR UPDATE
`

// GetForUpdate returns the account with the given id and locks its row
// until the surrounding transaction ends. The caller is responsible for
// taking locks in ascending id order.
func (r *RepoPGS) GetForUpdate(ctx context.Context, id int64) (domain.Account, error) {
	return r.scanOne(ctx, r.db.QueryRowContext(ctx, getForUpdateQuery, id))
}

func (r *RepoPGS) scanOne(ctx context.Context, row *sql.Row) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.AccountNumber,
		&a.Balance,
		&a.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		if dbpkg.Conflict(err) {
			return a, domain.ErrTransferConflict
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const addBalanceQuery = `
UPDATE accounts
SET balance = balance + $1
WHERE id = $2
RETURNING id, name, account_number, balance, created_at
`

// AddBalance changes the account's balance and returns the changed account.
//
// The accounts_balance_check constraint is the conditional part of the
// write: an update that would drive the balance negative fails with
// ErrInsufficientBalance instead of committing.
func (r *RepoPGS) AddBalance(ctx context.Context, amount string, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, addBalanceQuery, amount, id)

	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.AccountNumber,
		&a.Balance,
		&a.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "accounts_balance_check" {
				return a, domain.ErrInsufficientBalance
			}
		}

		if dbpkg.Conflict(err) {
			return a, domain.ErrTransferConflict
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}
