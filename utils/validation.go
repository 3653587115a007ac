package utils

import (
    "fmt"
    "regexp"
    "strings"

    "github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
    validate = validator.New()
}

func ValidateStruct(s interface{}) error {
    return validate.Struct(s)
}

func ValidateIFSC(ifsc string) bool {
    ifscRegex := regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
    return ifscRegex.MatchString(ifsc)
}

func ValidateUPI(upi string) bool {
    upiRegex := regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,}@[a-zA-Z]{2,}$`)
    return upiRegex.MatchString(upi)
}

func ValidatePhone(phone string) bool {
    phoneRegex := regexp.MustCompile(`^[0-9]{10,15}$`)
    return phoneRegex.MatchString(phone)
}

func SanitizeString(input string) string {
    return strings.TrimSpace(input)
}

func FormatValidationError(err error) map[string]string {
    errors := make(map[string]string)

    if validationErrors, ok := err.(validator.ValidationErrors); ok {
        for _, fieldError := range validationErrors {
            field := strings.ToLower(fieldError.Field())
            switch fieldError.Tag() {
            case "required":
                errors[field] = fmt.Sprintf("%s is required", field)
            case "email":
                errors[field] = "Invalid email format"
            case "oneof":
                errors[field] = fmt.Sprintf("%s must be one of: %s", field, fieldError.Param())
            case "min":
                errors[field] = fmt.Sprintf("%s must be at least %s characters", field, fieldError.Param())
            case "max":
                errors[field] = fmt.Sprintf("%s must be at most %s characters", field, fieldError.Param())
            case "len":
                errors[field] = fmt.Sprintf("%s must be exactly %s characters", field, fieldError.Param())
            case "gt":
                errors[field] = fmt.Sprintf("%s must be greater than %s", field, fieldError.Param())
            case "gte":
                errors[field] = fmt.Sprintf("%s must be at least %s", field, fieldError.Param())
            default:
                errors[field] = fmt.Sprintf("%s is invalid", field)
            }
        }
    }

    return errors
}
