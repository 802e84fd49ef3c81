package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/user-activity-api/internal/middleware"
	"github.com/noah-isme/user-activity-api/internal/service"
	"github.com/noah-isme/user-activity-api/internal/utils"
)

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func parseQueryInt(c *fiber.Ctx, key string) (int, bool, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, false, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, err
	}
	return parsed, true, nil
}

func parseUintParam(c *fiber.Ctx, key string) (uint, error) {
	value := strings.TrimSpace(c.Params(key))
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(parsed), nil
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return true
	}
	var fieldErr *service.FieldValidationError
	return errors.As(err, &fieldErr)
}

// fieldErrorsFrom flattens validation failures into the field-level shape of
// the error body. Struct field names are lowered to their JSON spelling.
func fieldErrorsFrom(err error) []utils.FieldError {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fieldErrors := make([]utils.FieldError, 0, len(validationErrors))
		for _, fe := range validationErrors {
			fieldErrors = append(fieldErrors, utils.FieldError{
				Field:         lowerFirst(fe.Field()),
				Message:       validationMessage(fe),
				RejectedValue: fe.Value(),
			})
		}
		return fieldErrors
	}

	var fieldErr *service.FieldValidationError
	if errors.As(err, &fieldErr) {
		return []utils.FieldError{{
			Field:         fieldErr.Field,
			Message:       fieldErr.Message,
			RejectedValue: fieldErr.Rejected,
		}}
	}

	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", lowerFirst(fe.Field()))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", lowerFirst(fe.Field()), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", lowerFirst(fe.Field()))
	}
}

func lowerFirst(name string) string {
	if name == "" {
		return name
	}
	runes := []rune(name)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
