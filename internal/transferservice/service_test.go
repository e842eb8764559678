package transferservice

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/peerbank/ledgercore/internal/accountdelivery"
	"github.com/peerbank/ledgercore/internal/beneficiarydelivery"
	"github.com/peerbank/ledgercore/internal/domain"
	"github.com/peerbank/ledgercore/internal/events"
	"github.com/peerbank/ledgercore/pkg/errorspkg"
	"github.com/peerbank/ledgercore/pkg/randompkg"
)

func testAccount(id int64, balance string) domain.Account {
	return domain.Account{
		ID:            id,
		Name:          randompkg.HolderName(),
		AccountNumber: randompkg.AccountNumber(),
		Balance:       balance,
		CreatedAt:     time.Now().Truncate(time.Second).UTC(),
	}
}

func newTestService(t *testing.T) (*Service, *MockRepo, *accountdelivery.MockService, *beneficiarydelivery.MockService) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := NewMockRepo(ctrl)
	accountService := accountdelivery.NewMockService(ctrl)
	beneficiaryService := beneficiarydelivery.NewMockService(ctrl)

	service := New(repo, accountService, beneficiaryService, events.NoopPublisher{})

	return service, repo, accountService, beneficiaryService
}

func TestTransfer(t *testing.T) {
	sender := testAccount(1, "100000.00")
	recipient := testAccount(2, "1000.00")

	okResult := domain.TransferTxResult{
		Transfer: domain.Transfer{
			ID:          1,
			From:        sender.AccountNumber,
			To:          recipient.AccountNumber,
			Amount:      "250.50",
			Description: domain.DefaultDescription,
		},
		FromAccount: func() domain.Account {
			a := sender
			a.Balance = "99749.50"
			return a
		}(),
		ToAccount: func() domain.Account {
			a := recipient
			a.Balance = "1250.50"
			return a
		}(),
	}

	type input struct {
		senderID    int64
		to          string
		amount      string
		description string
	}

	testCases := []struct {
		name          string
		input         input
		buildStubs    func(repo *MockRepo, as *accountdelivery.MockService)
		checkResponse func(t *testing.T, res domain.TransferTxResult, err error)
	}{
		{
			name:  "MalformedAccountNumber",
			input: input{sender.ID, "12345", "100", ""},
			buildStubs: func(repo *MockRepo, as *accountdelivery.MockService) {
				as.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, res domain.TransferTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrInvalidAccountNumber)
				require.Empty(t, res)
			},
		},
		{
			name:  "InvalidAmount",
			input: input{sender.ID, recipient.AccountNumber, "!@#$", ""},
			buildStubs: func(repo *MockRepo, as *accountdelivery.MockService) {
				as.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, res domain.TransferTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrInvalidAmount)
				require.Empty(t, res)
			},
		},
		{
			name:  "NegativeAmount",
			input: input{sender.ID, recipient.AccountNumber, "-100", ""},
			buildStubs: func(repo *MockRepo, as *accountdelivery.MockService) {
				as.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, res domain.TransferTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrInvalidAmount)
				require.Empty(t, res)
			},
		},
		{
			name:  "BelowMinimumUnit",
			input: input{sender.ID, recipient.AccountNumber, "0.005", ""},
			buildStubs: func(repo *MockRepo, as *accountdelivery.MockService) {
				as.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, res domain.TransferTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrAmountTooSmall)
				require.Empty(t, res)
			},
		},
		{
			name:  "SenderNotFound",
			input: input{404, recipient.AccountNumber, "100", ""},
			buildStubs: func(repo *MockRepo, as *accountdelivery.MockService) {
				as.EXPECT().Get(gomock.Any(), gomock.Eq(int64(404))).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, res domain.TransferTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrAccountNotFound)
				require.Empty(t, res)
			},
		},
		{
			name:  "InsufficientBalance",
			input: input{sender.ID, recipient.AccountNumber, "100000.01", ""},
			buildStubs: func(repo *MockRepo, as *accountdelivery.MockService) {
				as.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
					Times(1).
					Return(sender, nil)
				as.EXPECT().GetByNumber(gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, res domain.TransferTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrInsufficientBalance)
				require.Empty(t, res)
			},
		},
		{
			name:  "RecipientNotFound",
			input: input{sender.ID, "9999999999", "100", ""},
			buildStubs: func(repo *MockRepo, as *accountdelivery.MockService) {
				as.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
					Times(1).
					Return(sender, nil)
				as.EXPECT().GetByNumber(gomock.Any(), gomock.Eq("9999999999")).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, res domain.TransferTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrAccountNotFound)
				require.Empty(t, res)
			},
		},
		{
			name:  "SelfTransfer",
			input: input{sender.ID, sender.AccountNumber, "100", ""},
			buildStubs: func(repo *MockRepo, as *accountdelivery.MockService) {
				as.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
					Times(1).
					Return(sender, nil)
				as.EXPECT().GetByNumber(gomock.Any(), gomock.Eq(sender.AccountNumber)).
					Times(1).
					Return(sender, nil)
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, res domain.TransferTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrSelfTransfer)
				require.Empty(t, res)
			},
		},
		{
			name:  "DescriptionTooLong",
			input: input{sender.ID, recipient.AccountNumber, "100", strings.Repeat("x", domain.MaxDescriptionLength+1)},
			buildStubs: func(repo *MockRepo, as *accountdelivery.MockService) {
				as.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
					Times(1).
					Return(sender, nil)
				as.EXPECT().GetByNumber(gomock.Any(), gomock.Eq(recipient.AccountNumber)).
					Times(1).
					Return(recipient, nil)
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, res domain.TransferTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrDescriptionTooLong)
				require.Empty(t, res)
			},
		},
		{
			name:  "MultibyteDescriptionCountedInRunes",
			input: input{sender.ID, recipient.AccountNumber, "100", strings.Repeat("é", domain.MaxDescriptionLength)},
			buildStubs: func(repo *MockRepo, as *accountdelivery.MockService) {
				as.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
					Times(1).
					Return(sender, nil)
				as.EXPECT().GetByNumber(gomock.Any(), gomock.Eq(recipient.AccountNumber)).
					Times(1).
					Return(recipient, nil)

				repo.EXPECT().TransferTx(gomock.Any(), gomock.Any()).
					Times(1).
					DoAndReturn(func(_ context.Context, arg domain.CreateTransferParams) (domain.TransferTxResult, error) {
						require.Equal(t, strings.Repeat("é", domain.MaxDescriptionLength), arg.Description)
						return okResult, nil
					})
			},
			checkResponse: func(t *testing.T, res domain.TransferTxResult, err error) {
				require.NoError(t, err)
			},
		},
		{
			name:  "MultibyteDescriptionTooLong",
			input: input{sender.ID, recipient.AccountNumber, "100", strings.Repeat("é", domain.MaxDescriptionLength+1)},
			buildStubs: func(repo *MockRepo, as *accountdelivery.MockService) {
				as.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
					Times(1).
					Return(sender, nil)
				as.EXPECT().GetByNumber(gomock.Any(), gomock.Eq(recipient.AccountNumber)).
					Times(1).
					Return(recipient, nil)
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, res domain.TransferTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrDescriptionTooLong)
				require.Empty(t, res)
			},
		},
		{
			name:  "ConflictSurfaced",
			input: input{sender.ID, recipient.AccountNumber, "100", ""},
			buildStubs: func(repo *MockRepo, as *accountdelivery.MockService) {
				as.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
					Times(1).
					Return(sender, nil)
				as.EXPECT().GetByNumber(gomock.Any(), gomock.Eq(recipient.AccountNumber)).
					Times(1).
					Return(recipient, nil)
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransferTxResult{}, domain.ErrTransferConflict)
			},
			checkResponse: func(t *testing.T, res domain.TransferTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrTransferConflict)
				require.Empty(t, res)
			},
		},
		{
			name:  "StoreUnavailable",
			input: input{sender.ID, recipient.AccountNumber, "100", ""},
			buildStubs: func(repo *MockRepo, as *accountdelivery.MockService) {
				as.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
					Times(1).
					Return(sender, nil)
				as.EXPECT().GetByNumber(gomock.Any(), gomock.Eq(recipient.AccountNumber)).
					Times(1).
					Return(recipient, nil)
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransferTxResult{}, errorspkg.ErrUnavailable)
			},
			checkResponse: func(t *testing.T, res domain.TransferTxResult, err error) {
				require.ErrorIs(t, err, errorspkg.ErrUnavailable)
				require.Empty(t, res)
			},
		},
		{
			name:  "OK",
			input: input{sender.ID, recipient.AccountNumber, "250.50", ""},
			buildStubs: func(repo *MockRepo, as *accountdelivery.MockService) {
				as.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
					Times(1).
					Return(sender, nil)
				as.EXPECT().GetByNumber(gomock.Any(), gomock.Eq(recipient.AccountNumber)).
					Times(1).
					Return(recipient, nil)

				wantArg := domain.CreateTransferParams{
					FromAccountID: sender.ID,
					ToAccountID:   recipient.ID,
					From:          sender.AccountNumber,
					To:            recipient.AccountNumber,
					Amount:        "250.50",
					Description:   domain.DefaultDescription,
				}
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Eq(wantArg)).
					Times(1).
					Return(okResult, nil)
			},
			checkResponse: func(t *testing.T, res domain.TransferTxResult, err error) {
				require.NoError(t, err)
				require.Equal(t, okResult, res)
				require.Equal(t, "99749.50", res.FromAccount.Balance)
				require.Equal(t, "1250.50", res.ToAccount.Balance)
			},
		},
		{
			name:  "AmountNormalized",
			input: input{sender.ID, recipient.AccountNumber, "100", "rent"},
			buildStubs: func(repo *MockRepo, as *accountdelivery.MockService) {
				as.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
					Times(1).
					Return(sender, nil)
				as.EXPECT().GetByNumber(gomock.Any(), gomock.Eq(recipient.AccountNumber)).
					Times(1).
					Return(recipient, nil)

				wantArg := domain.CreateTransferParams{
					FromAccountID: sender.ID,
					ToAccountID:   recipient.ID,
					From:          sender.AccountNumber,
					To:            recipient.AccountNumber,
					Amount:        "100.00",
					Description:   "rent",
				}
				repo.EXPECT().TransferTx(gomock.Any(), gomock.Eq(wantArg)).
					Times(1).
					Return(okResult, nil)
			},
			checkResponse: func(t *testing.T, res domain.TransferTxResult, err error) {
				require.NoError(t, err)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			service, repo, accountService, _ := newTestService(t)

			tc.buildStubs(repo, accountService)

			res, err := service.Transfer(
				context.Background(),
				tc.input.senderID,
				tc.input.to,
				tc.input.amount,
				tc.input.description,
			)

			tc.checkResponse(t, res, err)
		})
	}
}

func TestQuickTransfer(t *testing.T) {
	sender := testAccount(1, "1000.00")
	recipient := testAccount(2, "1000.00")

	saved := []domain.Beneficiary{
		{AccountNumber: recipient.AccountNumber, Name: "Bob"},
	}

	t.Run("NotBeneficiary", func(t *testing.T) {
		service, repo, accountService, beneficiaryService := newTestService(t)

		stranger := testAccount(3, "1000.00")

		accountService.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
			Times(1).
			Return(sender, nil)
		accountService.EXPECT().GetByNumber(gomock.Any(), gomock.Eq(stranger.AccountNumber)).
			Times(1).
			Return(stranger, nil)
		beneficiaryService.EXPECT().List(gomock.Any(), gomock.Eq(sender.ID)).
			Times(1).
			Return(saved, nil)
		repo.EXPECT().TransferTx(gomock.Any(), gomock.Any()).Times(0)

		res, err := service.QuickTransfer(context.Background(), sender.ID, stranger.AccountNumber, "100", "")
		require.ErrorIs(t, err, domain.ErrNotBeneficiary)
		require.Empty(t, res)
	})

	t.Run("UnknownAccountNumber", func(t *testing.T) {
		service, repo, accountService, beneficiaryService := newTestService(t)

		accountService.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
			Times(1).
			Return(sender, nil)
		accountService.EXPECT().GetByNumber(gomock.Any(), gomock.Eq("9999999999")).
			Times(1).
			Return(domain.Account{}, domain.ErrAccountNotFound)
		beneficiaryService.EXPECT().List(gomock.Any(), gomock.Any()).Times(0)
		repo.EXPECT().TransferTx(gomock.Any(), gomock.Any()).Times(0)

		res, err := service.QuickTransfer(context.Background(), sender.ID, "9999999999", "100", "")
		require.ErrorIs(t, err, domain.ErrAccountNotFound)
		require.Empty(t, res)
	})

	t.Run("DefaultDescriptionUsesBeneficiaryName", func(t *testing.T) {
		service, repo, accountService, beneficiaryService := newTestService(t)

		accountService.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
			Times(1).
			Return(sender, nil)
		accountService.EXPECT().GetByNumber(gomock.Any(), gomock.Eq(recipient.AccountNumber)).
			Times(1).
			Return(recipient, nil)
		beneficiaryService.EXPECT().List(gomock.Any(), gomock.Eq(sender.ID)).
			Times(1).
			Return(saved, nil)

		wantArg := domain.CreateTransferParams{
			FromAccountID: sender.ID,
			ToAccountID:   recipient.ID,
			From:          sender.AccountNumber,
			To:            recipient.AccountNumber,
			Amount:        "100.00",
			Description:   "Transfer to Bob",
		}
		repo.EXPECT().TransferTx(gomock.Any(), gomock.Eq(wantArg)).
			Times(1).
			Return(domain.TransferTxResult{}, nil)

		_, err := service.QuickTransfer(context.Background(), sender.ID, recipient.AccountNumber, "100", "")
		require.NoError(t, err)
	})

	t.Run("ExplicitDescriptionKept", func(t *testing.T) {
		service, repo, accountService, beneficiaryService := newTestService(t)

		accountService.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
			Times(1).
			Return(sender, nil)
		accountService.EXPECT().GetByNumber(gomock.Any(), gomock.Eq(recipient.AccountNumber)).
			Times(1).
			Return(recipient, nil)
		beneficiaryService.EXPECT().List(gomock.Any(), gomock.Eq(sender.ID)).
			Times(1).
			Return(saved, nil)

		repo.EXPECT().TransferTx(gomock.Any(), gomock.Any()).
			Times(1).
			DoAndReturn(func(_ context.Context, arg domain.CreateTransferParams) (domain.TransferTxResult, error) {
				require.Equal(t, "groceries", arg.Description)
				return domain.TransferTxResult{}, nil
			})

		_, err := service.QuickTransfer(context.Background(), sender.ID, recipient.AccountNumber, "100", "  groceries  ")
		require.NoError(t, err)
	})
}

func TestListTransfers(t *testing.T) {
	sender := testAccount(1, "1000.00")

	transfers := []domain.Transfer{
		{ID: 2, From: sender.AccountNumber, Amount: "50.00"},
		{ID: 1, To: sender.AccountNumber, Amount: "100.00"},
	}

	t.Run("DefaultLimit", func(t *testing.T) {
		service, repo, accountService, _ := newTestService(t)

		accountService.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
			Times(1).
			Return(sender, nil)
		repo.EXPECT().ListByAccount(gomock.Any(), gomock.Eq(sender.AccountNumber), gomock.Eq(int32(50))).
			Times(1).
			Return(transfers, nil)

		got, err := service.ListTransfers(context.Background(), sender.ID, 0)
		require.NoError(t, err)
		require.Equal(t, transfers, got)
	})

	t.Run("ExplicitLimit", func(t *testing.T) {
		service, repo, accountService, _ := newTestService(t)

		accountService.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
			Times(1).
			Return(sender, nil)
		repo.EXPECT().ListByAccount(gomock.Any(), gomock.Eq(sender.AccountNumber), gomock.Eq(int32(10))).
			Times(1).
			Return(transfers, nil)

		_, err := service.ListTransfers(context.Background(), sender.ID, 10)
		require.NoError(t, err)
	})

	t.Run("SenderNotFound", func(t *testing.T) {
		service, repo, accountService, _ := newTestService(t)

		accountService.EXPECT().Get(gomock.Any(), gomock.Any()).
			Times(1).
			Return(domain.Account{}, domain.ErrAccountNotFound)
		repo.EXPECT().ListByAccount(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := service.ListTransfers(context.Background(), 404, 0)
		require.ErrorIs(t, err, domain.ErrAccountNotFound)
	})
}
