package accountdelivery

import (
	"github.com/go-playground/validator/v10"

	"github.com/peerbank/ledgercore/pkg/accountnumpkg"
)

// ValidAccountNumber validates whether the field is a well-formed
// 10-digit account number.
var ValidAccountNumber validator.Func = func(fl validator.FieldLevel) bool {
	if n, ok := fl.Field().Interface().(string); ok {
		return accountnumpkg.IsValid(n)
	}
	return false
}
