// Package accountnumpkg provides shared account number helpers.
package accountnumpkg

// Length is the number of digits in an external account number.
const Length = 10

// IsValid reports whether s is a well-formed account number
// (exactly Length ASCII digits).
func IsValid(s string) bool {
	if len(s) != Length {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
