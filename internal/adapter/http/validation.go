package http

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error   string       `json:"error"`
	Code    string       `json:"code"`
	Details []FieldError `json:"details,omitempty"`
}

var (
	// PAN: five letters, four digits, one letter
	rePAN   = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	rePhone = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
)

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// report json names, not Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("pan", func(fl validator.FieldLevel) bool {
		return rePAN.MatchString(strings.ToUpper(strings.TrimSpace(fl.Field().String())))
	})
	// phone: 10-15 digits, optional leading +, spaces and dashes ignored
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		s := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(fl.Field().String())
		return rePhone.MatchString(s)
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "email":
			out = append(out, FieldError{Field: field, Message: "must be a valid email address"})
		case "phone":
			out = append(out, FieldError{Field: field, Message: "must be a phone number of 10-15 digits"})
		case "pan":
			out = append(out, FieldError{Field: field, Message: "must be a PAN like ABCDE1234F"})
		case "oneof":
			out = append(out, FieldError{Field: field, Message: "must be one of: " + e.Param()})
		case "datetime":
			out = append(out, FieldError{Field: field, Message: "must be a date in YYYY-MM-DD format"})
		case "max":
			out = append(out, FieldError{Field: field, Message: "must be at most " + e.Param() + " long"})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
