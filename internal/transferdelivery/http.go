// Package transferdelivery manages delivery layer of transfers.
package transferdelivery

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/peerbank/ledgercore/internal/domain"
	"github.com/peerbank/ledgercore/internal/middleware"
	"github.com/peerbank/ledgercore/pkg/errorspkg"
	"github.com/peerbank/ledgercore/pkg/jsonresponse"
)

// Service provides service layer interface needed by transfer delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transferdelivery
type Service interface {
	Transfer(ctx context.Context, senderID int64, toAccountNumber, amount, description string) (domain.TransferTxResult, error)
	QuickTransfer(ctx context.Context, senderID int64, beneficiaryAccountNumber, amount, description string) (domain.TransferTxResult, error)
	ListTransfers(ctx context.Context, senderID int64, limit int32) ([]domain.Transfer, error)
}

var errInvalidLimit = errors.New("limit must be a non-negative integer")

// Handler facilitates transfer delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transfer handler.
func NewHandler(ts Service) *Handler {
	return &Handler{
		service: ts,
	}
}

type createRequest struct {
	ToAccountNumber string `json:"to_account_number" binding:"required,accountnumber"`
	Amount          string `json:"amount" binding:"required"`
	Description     string `json:"description"`
}

type quickCreateRequest struct {
	BeneficiaryAccountNumber string `json:"beneficiary_account_number" binding:"required,accountnumber"`
	Amount                   string `json:"amount" binding:"required"`
	Description              string `json:"description"`
}

type transferResponse struct {
	TransactionID    int64     `json:"transaction_id"`
	From             string    `json:"from"`
	To               string    `json:"to"`
	Amount           string    `json:"amount"`
	Description      string    `json:"description"`
	CreatedAt        time.Time `json:"created_at"`
	NewSenderBalance string    `json:"new_sender_balance"`
}

func newTransferResponse(result domain.TransferTxResult) transferResponse {
	return transferResponse{
		TransactionID:    result.Transfer.ID,
		From:             result.Transfer.From,
		To:               result.Transfer.To,
		Amount:           result.Transfer.Amount,
		Description:      result.Transfer.Description,
		CreatedAt:        result.Transfer.CreatedAt,
		NewSenderBalance: result.FromAccount.Balance,
	}
}

// Create handles http request to transfer money to an account number.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	senderID := gctx.MustGet(middleware.AccountIDKey).(int64)

	result, err := h.service.Transfer(ctx, senderID, req.ToAccountNumber, req.Amount, req.Description)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(statusFromError(err), jsonresponse.Error(publicError(err)))

		return
	}

	gctx.JSON(http.StatusOK, newTransferResponse(result))
}

// CreateQuick handles http request to transfer money to a saved beneficiary.
func (h *Handler) CreateQuick(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req quickCreateRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	senderID := gctx.MustGet(middleware.AccountIDKey).(int64)

	result, err := h.service.QuickTransfer(ctx, senderID, req.BeneficiaryAccountNumber, req.Amount, req.Description)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(statusFromError(err), jsonresponse.Error(publicError(err)))

		return
	}

	gctx.JSON(http.StatusOK, newTransferResponse(result))
}

type listResponse struct {
	Data struct {
		Transfers []domain.Transfer `json:"transfers"`
	} `json:"data"`
}

// List handles http request to get the sender's transfer history.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	senderID := gctx.MustGet(middleware.AccountIDKey).(int64)

	var limit int64
	if raw := gctx.Query("limit"); raw != "" {
		var err error

		limit, err = strconv.ParseInt(raw, 10, 32)
		if err != nil || limit < 0 {
			gctx.JSON(http.StatusBadRequest, jsonresponse.Error(errInvalidLimit))
			return
		}
	}

	transfers, err := h.service.ListTransfers(ctx, senderID, int32(limit))
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(statusFromError(err), jsonresponse.Error(publicError(err)))

		return
	}

	var res listResponse
	res.Data.Transfers = transfers

	gctx.JSON(http.StatusOK, res)
}

func statusFromError(err error) int {
	switch err {
	case domain.ErrInvalidAccountNumber,
		domain.ErrInvalidAmount,
		domain.ErrAmountTooSmall,
		domain.ErrDescriptionTooLong,
		domain.ErrInsufficientBalance,
		domain.ErrSelfTransfer,
		domain.ErrNotBeneficiary:
		return http.StatusBadRequest
	case domain.ErrAccountNotFound:
		return http.StatusNotFound
	case domain.ErrTransferConflict:
		return http.StatusConflict
	case errorspkg.ErrUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func publicError(err error) error {
	if statusFromError(err) == http.StatusInternalServerError {
		return errorspkg.ErrInternal
	}

	return err
}
