package common

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidEmail reports whether s looks like a deliverable address.
func ValidEmail(s string) bool {
	return validate.Var(strings.TrimSpace(s), "required,email") == nil
}

// Blank reports whether s is empty once trimmed.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
