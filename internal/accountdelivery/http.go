// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/peerbank/ledgercore/internal/domain"
	"github.com/peerbank/ledgercore/internal/middleware"
	"github.com/peerbank/ledgercore/pkg/errorspkg"
	"github.com/peerbank/ledgercore/pkg/jsonresponse"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Create(ctx context.Context, name string) (domain.Account, error)
	Get(ctx context.Context, id int64) (domain.Account, error)
	GetByNumber(ctx context.Context, accountNumber string) (domain.Account, error)
	Search(ctx context.Context, callerID int64, accountNumber string) (domain.Account, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(as Service) *Handler {
	return &Handler{service: as}
}

type data struct {
	Account domain.Account `json:"account"`
}

type response struct {
	Data data `json:"data,omitempty"`
}

type createRequest struct {
	Name string `json:"name" binding:"required"`
}

// Create handles http request to open an account.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	createdAccount, err := h.service.Create(ctx, req.Name)
	if err != nil {
		l.Info().Err(err).Send()

		if err == domain.ErrAccountNumberTaken {
			gctx.JSON(http.StatusConflict, jsonresponse.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{createdAccount}})
}

type searchRequest struct {
	AccountNumber string `uri:"account_number" binding:"required,accountnumber"`
}

type searchResponseData struct {
	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
}

// Search handles http request to resolve an account number to its holder.
// Only the holder name and the number are exposed, never the balance.
func (h *Handler) Search(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req searchRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(domain.ErrInvalidAccountNumber))

		return
	}

	callerID := gctx.MustGet(middleware.AccountIDKey).(int64)

	account, err := h.service.Search(ctx, callerID, req.AccountNumber)
	if err != nil {
		l.Info().Err(err).Send()

		switch err {
		case domain.ErrInvalidAccountNumber, domain.ErrSelfLookup:
			gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))
			return
		case domain.ErrAccountNotFound:
			gctx.JSON(http.StatusNotFound, jsonresponse.Error(err))
			return
		case errorspkg.ErrUnavailable:
			gctx.JSON(http.StatusServiceUnavailable, jsonresponse.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, searchResponseData{
		Name:          account.Name,
		AccountNumber: account.AccountNumber,
	})
}
