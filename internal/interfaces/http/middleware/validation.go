package middleware

import (
	"math"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/nepalmeatshop/backend/internal/domain/catalog"
	"github.com/nepalmeatshop/backend/internal/interfaces/http/dto"
)

// RequestIDKey is the context key for request ID
const RequestIDKey = "X-Request-ID"

// WeightStepKg is the increment customers can order in. Counter staff
// weigh cuts on quarter-kilo scales, so the API refuses anything finer.
const WeightStepKg = 0.25

// nepaliPhoneRegex matches Nepali mobile numbers with an optional +977
// country prefix, e.g. 9841234567 or +977-9841234567.
var nepaliPhoneRegex = regexp.MustCompile(`^(\+977[- ]?)?9\d{9}$`)

// SetupValidator configures the validator with custom tags
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// Use JSON tag names for field names in errors
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})

		// Expose decimal fields to the validator as float64. Without this
		// the validator descends into decimal.Decimal as a plain struct
		// and tags like required never fire.
		v.RegisterCustomTypeFunc(decimalToFloat, decimal.Decimal{})

		_ = v.RegisterValidation("nepaliphone", validateNepaliPhone)
		_ = v.RegisterValidation("meattype", validateMeatTypeTag)
		_ = v.RegisterValidation("weightstep", validateWeightStep)
	}
}

// decimalToFloat converts decimal.Decimal fields for validation
func decimalToFloat(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

// validateNepaliPhone checks the nepaliphone tag
func validateNepaliPhone(fl validator.FieldLevel) bool {
	return nepaliPhoneRegex.MatchString(fl.Field().String())
}

// validateMeatTypeTag checks the meattype tag
func validateMeatTypeTag(fl validator.FieldLevel) bool {
	return catalog.MeatType(fl.Field().String()).IsValid()
}

// validateWeightStep checks the weightstep tag. Quantities must be
// positive multiples of WeightStepKg; every multiple of 0.25 is exactly
// representable in a float64, so the remainder test is precise.
func validateWeightStep(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.Float64 {
		return false
	}
	kg := fl.Field().Float()
	return kg > 0 && math.Mod(kg, WeightStepKg) == 0
}

// FormatValidationErrors formats validation errors into a standard response
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: getValidationMessage(e),
			})
		}
	}

	return dto.NewValidationErrorResponse(
		"Request validation failed",
		requestID,
		details,
	)
}

// HandleValidationError returns a validation error response
func HandleValidationError(c *gin.Context, err error) {
	requestID := getRequestIDFromContext(c)
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, requestID))
}

// getRequestIDFromContext extracts request ID from gin context
func getRequestIDFromContext(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	if id := c.GetHeader(RequestIDKey); id != "" {
		return id
	}
	return ""
}

// getValidationMessage returns a human-readable validation message
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		if e.Type().Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "len":
		return "Must be exactly " + e.Param() + " characters"
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "lte":
		return "Must be less than or equal to " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "lt":
		return "Must be less than " + e.Param()
	case "url":
		return "Invalid URL format"
	case "numeric":
		return "Must be numeric"
	case "alphanum":
		return "Must be alphanumeric"
	case "alpha":
		return "Must contain only letters"
	case "nepaliphone":
		return "Must be a Nepali mobile number, e.g. 98XXXXXXXX or +977-98XXXXXXXX"
	case "meattype":
		return "Must be a known meat type"
	case "weightstep":
		return "Must be a positive quantity in steps of 0.25 kg"
	default:
		return "Invalid value"
	}
}
