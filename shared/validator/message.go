package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required": "{field} is required",
	"gte":      "{field} must be greater than or equal to {param}",
	"lte":      "{field} must be less than or equal to {param}",
	"gt":       "{field} must be greater than {param}",
	"min":      "{field} must be greater than or equal to {param}",
	"max":      "{field} must be less than or equal to {param}",
	"oneof":    "{field} must be one of {param}",
	"email":    "{field} must be a valid email address",
	"phone":    "{field} must be a valid phone number",
	"uuid":     "{field} must be a valid id",
	"gtfield":  "{field} must be after {param}",
	"nefield":  "{field} must differ from {param}",

	"mimetypes":   "{field} must be one of {param}",
	"maxfilesize": "{field} must not exceed {param} MB",
}

// message renders the first violation that has a template, or the raw validator text.
func message(err error) string {
	var violations val.ValidationErrors
	if !errors.As(err, &violations) {
		return err.Error()
	}

	for _, violation := range violations {
		template, ok := messages[violation.Tag()]
		if !ok {
			continue
		}

		return strings.NewReplacer("{field}", violation.Field(), "{param}", violation.Param()).Replace(template)
	}

	return violations.Error()
}
