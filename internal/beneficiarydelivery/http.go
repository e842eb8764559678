// Package beneficiarydelivery manages delivery layer of beneficiaries.
package beneficiarydelivery

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

// Service provides service layer interface needed by beneficiary delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package beneficiarydelivery
type Service interface {
	Add(ctx context.Context, ownerID int64, arg domain.AddBeneficiaryParams) (domain.Beneficiary, error)
	Remove(ctx context.Context, ownerID int64, accountNumber string) error
	List(ctx context.Context, ownerID int64) ([]domain.Beneficiary, error)
}

// Handler facilitates beneficiary delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns beneficiary handler.
func NewHandler(bs Service) *Handler {
	return &Handler{service: bs}
}

type addRequest struct {
	AccountNumber string `json:"account_number" binding:"required,accountnumber"`
	Name          string `json:"name" binding:"required"`
	Nickname      string `json:"nickname"`
}

type data struct {
	Beneficiary domain.Beneficiary `json:"beneficiary"`
}

type response struct {
	Data data `json:"data,omitempty"`
}

// Add handles http request to save a beneficiary.
func (h *Handler) Add(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req addRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	ownerID := gctx.MustGet(middleware.AccountIDKey).(int64)

	arg := domain.AddBeneficiaryParams{
		AccountNumber: req.AccountNumber,
		Name:          req.Name,
		Nickname:      req.Nickname,
	}

	beneficiary, err := h.service.Add(ctx, ownerID, arg)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(statusFromError(err), jsonresponse.Error(publicError(err)))

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{beneficiary}})
}

type removeRequest struct {
	AccountNumber string `uri:"account_number" binding:"required,accountnumber"`
}

// Remove handles http request to delete a beneficiary.
func (h *Handler) Remove(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req removeRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(domain.ErrInvalidAccountNumber))

		return
	}

	ownerID := gctx.MustGet(middleware.AccountIDKey).(int64)

	if err := h.service.Remove(ctx, ownerID, req.AccountNumber); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(statusFromError(err), jsonresponse.Error(publicError(err)))

		return
	}

	gctx.Status(http.StatusNoContent)
}

type listResponse struct {
	Data struct {
		Beneficiaries []domain.Beneficiary `json:"beneficiaries"`
	} `json:"data"`
}

// List handles http request to list the owner's beneficiaries.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	ownerID := gctx.MustGet(middleware.AccountIDKey).(int64)

	beneficiaries, err := h.service.List(ctx, ownerID)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(statusFromError(err), jsonresponse.Error(publicError(err)))

		return
	}

	var res listResponse
	res.Data.Beneficiaries = beneficiaries

	gctx.JSON(http.StatusOK, res)
}

func statusFromError(err error) int {
	switch err {
	case domain.ErrInvalidAccountNumber,
		domain.ErrBeneficiaryNameRequired,
		domain.ErrBeneficiaryLimit,
		domain.ErrSelfBeneficiary:
		return http.StatusBadRequest
	case domain.ErrBeneficiaryExists:
		return http.StatusConflict
	case domain.ErrAccountNotFound, domain.ErrBeneficiaryNotFound:
		return http.StatusNotFound
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
