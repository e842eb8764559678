// Package beneficiaryrepo manages repository layer of beneficiaries.
package beneficiaryrepo

import (
	"context"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/peerbank/ledgercore/internal/domain"
	"github.com/peerbank/ledgercore/pkg/dbpkg"
	"github.com/peerbank/ledgercore/pkg/errorspkg"
)

// RepoPGS facilitates beneficiary repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns beneficiary RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const createQuery = `
INSERT INTO
    beneficiaries (owner_id, account_number, name, nickname)
VALUES
    ($1, $2, $3, $4)
RETURNING account_number, name, nickname, created_at
`

// Create saves the beneficiary for the given owner and then returns it.
func (r *RepoPGS) Create(ctx context.Context, ownerID int64, arg domain.AddBeneficiaryParams) (domain.Beneficiary, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, ownerID, arg.AccountNumber, arg.Name, arg.Nickname)

	var b domain.Beneficiary

	err := row.Scan(
		&b.AccountNumber,
		&b.Name,
		&b.Nickname,
		&b.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "beneficiaries_pkey":
				return b, domain.ErrBeneficiaryExists
			case "beneficiaries_owner_id_fkey":
				return b, domain.ErrAccountNotFound
			}
		}

		return b, errorspkg.ErrInternal
	}

	return b, nil
}

const deleteQuery = `
DELETE FROM beneficiaries
WHERE owner_id = $1 AND account_number = $2
`

// Delete removes the beneficiary from the owner's list.
func (r *RepoPGS) Delete(ctx context.Context, ownerID int64, accountNumber string) error {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, deleteQuery, ownerID, accountNumber)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	n, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if n == 0 {
		return domain.ErrBeneficiaryNotFound
	}

	return nil
}

const listQuery = `
SELECT
	account_number, name, nickname, created_at
FROM beneficiaries
WHERE owner_id = $1
ORDER BY created_at, account_number
`

// List returns the owner's beneficiaries in insertion order.
func (r *RepoPGS) List(ctx context.Context, ownerID int64) ([]domain.Beneficiary, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery, ownerID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Beneficiary{}

	for rows.Next() {
		var b domain.Beneficiary
		if err := rows.Scan(&b.AccountNumber, &b.Name, &b.Nickname, &b.CreatedAt); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, b)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
