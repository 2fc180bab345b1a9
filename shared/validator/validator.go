package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"smashroom/config"
	"smashroom/shared/clock"
	"smashroom/shared/constant"
	"smashroom/shared/failure"
	"smashroom/shared/timezone"

	val "github.com/go-playground/validator/v10"
)

var (
	validate       *val.Validate
	minPhoneDigits = 9
)

// selfValidator is implemented by value types that check their own invariants.
type selfValidator interface {
	Validate() error
}

func validateSelf(field val.FieldLevel) bool {
	if v, ok := field.Field().Interface().(selfValidator); ok {
		return v.Validate() == nil
	}

	return false
}

func validatePhone(field val.FieldLevel) bool {
	digits := 0

	for _, r := range field.Field().String() {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '+' || r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}

	return digits >= minPhoneDigits
}

func validateClock(field val.FieldLevel) bool {
	_, err := clock.Parse(field.Field().String())

	return err == nil
}

func validateDate(field val.FieldLevel) bool {
	_, err := timezone.ParseDay(field.Field().String())

	return err == nil
}

func validateMimetype(field val.FieldLevel) bool {
	file, ok := field.Field().Interface().(multipart.FileHeader)
	if !ok {
		return false
	}

	allowedTypes := strings.Split(field.Param(), " ")

	return slices.Contains(allowedTypes, file.Header.Get(constant.RequestHeaderContentType))
}

func validateFileSize(field val.FieldLevel) bool {
	file, ok := field.Field().Interface().(multipart.FileHeader)
	if !ok {
		return false
	}

	maxSizeMB, err := strconv.ParseFloat(field.Param(), 64)
	if err != nil {
		return false
	}

	bytesConversion := 1024.0

	return file.Size <= int64(maxSizeMB*bytesConversion*bytesConversion)
}

// jsonFieldName reports fields by their JSON name so messages match the request payload.
func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]

	switch name {
	case "-":
		return ""
	case "":
		if form := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]; form != "" {
			return form
		}

		return field.Name
	default:
		return name
	}
}

func init() {
	if digits := config.Get().Booking.MinPhoneDigits; digits > 0 {
		minPhoneDigits = digits
	}

	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)

	custom := map[string]val.Func{
		"valid":       validateSelf,
		"phone":       validatePhone,
		"clock":       validateClock,
		"date":        validateDate,
		"mimetypes":   validateMimetype,
		"maxfilesize": validateFileSize,
	}

	for tag, fn := range custom {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// Validate decodes a JSON body into data and validates it.
// Decoding problems and rule violations both come back as 400 failures.
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)

	if err := decoder.Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	if v, ok := any(data).(selfValidator); ok {
		if err := v.Validate(); err != nil {
			return err //nolint:wrapcheck
		}
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
