package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// FieldError describes a single rejected input field.
type FieldError struct {
	Field         string      `json:"field"`
	Message       string      `json:"message"`
	RejectedValue interface{} `json:"rejectedValue,omitempty"`
}

// ErrorResponse is the structured body returned for every failed request.
type ErrorResponse struct {
	Timestamp   time.Time    `json:"timestamp"`
	Status      int          `json:"status"`
	Error       string       `json:"error"`
	Message     string       `json:"message"`
	Path        string       `json:"path"`
	FieldErrors []FieldError `json:"fieldErrors,omitempty"`
}

// SendSuccess sends the payload with an HTTP 200 status.
func SendSuccess(c *fiber.Ctx, payload interface{}) error {
	return SendSuccessWithStatus(c, fiber.StatusOK, payload)
}

// SendSuccessWithStatus sends the payload using the provided HTTP status code.
func SendSuccessWithStatus(c *fiber.Ctx, status int, payload interface{}) error {
	if status == 0 {
		status = fiber.StatusOK
	}

	return c.Status(status).JSON(payload)
}

// SendError sends a structured error body with the given status code.
func SendError(c *fiber.Ctx, status int, label, message string) error {
	return SendFieldErrors(c, status, label, message, nil)
}

// SendFieldErrors sends a structured error body carrying field-level detail.
func SendFieldErrors(c *fiber.Ctx, status int, label, message string, fieldErrors []FieldError) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(ErrorResponse{
		Timestamp:   time.Now().UTC(),
		Status:      status,
		Error:       label,
		Message:     message,
		Path:        c.Path(),
		FieldErrors: fieldErrors,
	})
}
