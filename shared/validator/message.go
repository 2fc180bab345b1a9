package validator

import (
	"errors"
	"strconv"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var (
	messages = map[string]string{
		"required":    "{field} is required",
		"gte":         "{field} must be greater than or equal to {param}",
		"gt":          "{field} must be greater than {param}",
		"lte":         "{field} must be less than or equal to {param}",
		"oneof":       "{field} must be one of {param}",
		"max":         "{field} must be less than or equal to {param}",
		"min":         "{field} must be greater than or equal to {param}",
		"email":       "{field} must be a valid email address",
		"phone":       "{field} must contain at least {digits} digits",
		"clock":       "{field} must be a time in HH:MM format",
		"date":        "{field} must be a date in YYYY-MM-DD format",
		"valid":       "{field} is invalid",
		"mimetypes":   "{field} must be one of {param}",
		"maxfilesize": "{field} must not exceed {param} MB",
	}
)

// fieldPath drops the root struct name, e.g. "CreateBookingRequest.customer.phone" -> "customer.phone".
func fieldPath(fieldErr val.FieldError) string {
	namespace := fieldErr.Namespace()

	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}

	return fieldErr.Field()
}

func message(err error) string {
	var valErrors val.ValidationErrors

	if !errors.As(err, &valErrors) {
		return err.Error()
	}

	for _, valErr := range valErrors {
		template := messages[valErr.Tag()]
		if template == "" {
			continue
		}

		replacer := strings.NewReplacer(
			"{field}", fieldPath(valErr),
			"{param}", valErr.Param(),
			"{digits}", strconv.Itoa(minPhoneDigits),
		)

		return replacer.Replace(template)
	}

	return valErrors.Error()
}
