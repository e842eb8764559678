// Package test provides shared test helpers.
package test

import (
	"context"
	"testing"

	"github.com/peerbank/ledgercore/internal/accountrepo"
	"github.com/peerbank/ledgercore/internal/beneficiaryrepo"
	"github.com/peerbank/ledgercore/internal/domain"
	"github.com/peerbank/ledgercore/pkg/dbpkg"
	"github.com/peerbank/ledgercore/pkg/randompkg"
)

// SeedAccount creates an account with the given balance inside a test transaction.
func SeedAccount(t *testing.T, db dbpkg.SQLInterface, balance string) domain.Account {
	t.Helper()

	accountRepo := accountrepo.NewRepoPGS(db)

	account, err := accountRepo.Create(context.Background(), randompkg.HolderName(), randompkg.AccountNumber(), balance)
	if err != nil {
		t.Fatalf("accountRepo.Create(ctx, name, number, %v) returned error: %v", balance, err)
	}

	return account
}

// SeedAccountWith1000Balance creates an account with 1000.00 on balance.
func SeedAccountWith1000Balance(t *testing.T, db dbpkg.SQLInterface) domain.Account {
	t.Helper()

	return SeedAccount(t, db, "1000.00")
}

// SeedBeneficiary saves target in owner's beneficiary list.
func SeedBeneficiary(t *testing.T, db dbpkg.SQLInterface, owner, target domain.Account) domain.Beneficiary {
	t.Helper()

	beneficiaryRepo := beneficiaryrepo.NewRepoPGS(db)

	arg := domain.AddBeneficiaryParams{
		AccountNumber: target.AccountNumber,
		Name:          target.Name,
	}

	beneficiary, err := beneficiaryRepo.Create(context.Background(), owner.ID, arg)
	if err != nil {
		t.Fatalf("beneficiaryRepo.Create(ctx, %v, %+v) returned error: %v", owner.ID, arg, err)
	}

	return beneficiary
}
