package reportdelivery

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Upstream ids are opaque, so only whitespace and control characters are refused.
var accountIDRe = regexp.MustCompile(`^[^\s\p{C}]+$`)

// ValidAccountID validates whether the value looks like an account identifier.
var ValidAccountID validator.Func = func(fl validator.FieldLevel) bool {
	if id, ok := fl.Field().Interface().(string); ok {
		return accountIDRe.MatchString(id)
	}
	return false
}
