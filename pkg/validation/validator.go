package validation

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// e164Pattern matches phone numbers in E.164 format, e.g. +79001234567
var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("phone", validatePhone)
		_ = validate.RegisterValidation("order_status", validateOrderStatus)
		_ = validate.RegisterValidation("customer_status", validateCustomerStatus)
	})
	return validate
}

// ValidateStruct validates a struct using its validate tags. Returns a
// *ValidationError with field-level details when validation fails.
func ValidateStruct(s interface{}) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok {
		return NewValidationError(errs)
	}
	return err
}

func validatePhone(fl validator.FieldLevel) bool {
	return e164Pattern.MatchString(fl.Field().String())
}

func validateOrderStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "pending", "paid", "fulfilled", "cancelled":
		return true
	}
	return false
}

func validateCustomerStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "good", "warning", "watch", "blacklisted":
		return true
	}
	return false
}
