package validator

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// values are trimmed before storage, so whitespace-only counts as empty
	validate.RegisterValidation("notblank", validators.NotBlank)

	validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "client", "pilot":
			return true
		}
		return false
	})

	validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})

	validate.RegisterValidation("booking_response", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "accepted", "declined":
			return true
		}
		return false
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	errors := make(map[string]string)
	for _, err := range validationErrors {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gt":
			errors[field] = "Value must be greater than " + err.Param()
		case "eqfield":
			errors[field] = "Must match " + strings.ToLower(err.Param())
		case "notblank":
			errors[field] = "This field cannot be blank"
		case "alphanum":
			errors[field] = "Only letters and digits are allowed"
		case "role":
			errors[field] = "Invalid role. Must be: client or pilot"
		case "isodate":
			errors[field] = "Invalid date. Expected YYYY-MM-DD"
		case "booking_response":
			errors[field] = "Invalid status. Must be: accepted or declined"
		case "unique":
			errors[field] = "Values must be unique"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
