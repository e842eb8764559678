package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/peerbank/ledgercore/internal/domain"
	"github.com/peerbank/ledgercore/pkg/jsonresponse"
)

// Authentication itself happens upstream; the gateway terminates the
// session and forwards the resolved account id in a trusted header.
const (
	AccountIDHeaderKey = "X-Account-ID"
	AccountIDKey       = "authenticated_account_id"
)

// SetIdentity sets the resolved sender identity on an outgoing request
// the way the gateway would. Used by tests and local tooling.
func SetIdentity(request *http.Request, accountID int64) {
	request.Header.Set(AccountIDHeaderKey, strconv.FormatInt(accountID, 10))
}

// GatewayAuth resolves the caller identity from the gateway header.
// Requests without a resolvable identity are rejected before reaching
// any handler.
func GatewayAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader(AccountIDHeaderKey)
		if len(header) == 0 {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, jsonresponse.Error(domain.ErrNotAuthenticated))
			return
		}

		accountID, err := strconv.ParseInt(header, 10, 64)
		if err != nil || accountID <= 0 {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, jsonresponse.Error(domain.ErrNotAuthenticated))
			return
		}

		ctx.Set(AccountIDKey, accountID)
		ctx.Next()
	}
}
