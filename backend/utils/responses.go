package utils

import (
	"errors"
	"fmt"
	"runtime/debug"

	"quizhub/backend/config"

	"github.com/gofiber/fiber/v2"
)

// FieldError is one entry of the per-field validation error list.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the error body shape for every failed request:
// {message, stack (null outside development), errors (validation only)}.
type ErrorResponse struct {
	Message string       `json:"message"`
	Stack   *string      `json:"stack"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// Fail writes an error response with the given status and message.
func Fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorResponse{Message: message})
}

// ValidationFailed writes the 400 validation response with field details.
func ValidationFailed(c *fiber.Ctx, errs []FieldError) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Message: "Validation failed",
		Errors:  errs,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusBadRequest, message)
}

// Conflict reports a duplicate resource. The API keeps a 400 status for
// conflicts, distinguished by message.
func Conflict(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusBadRequest, message)
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusUnauthorized, message)
}

func Forbidden(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusForbidden, message)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusNotFound, message)
}

// ServiceUnavailable reports an external dependency failure without exposing
// the underlying error. Callers log the detail themselves.
func ServiceUnavailable(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusInternalServerError, message)
}

func InternalServerError(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusInternalServerError, message)
}

// ErrorHandler is the app-level translator for errors returned (or panicked)
// out of handlers. Outside production it attaches a stack trace.
func ErrorHandler(cfg *config.Config) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "Internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
			message = fe.Message
		}

		resp := ErrorResponse{Message: message}
		if cfg.IsDevelopment() {
			stack := fmt.Sprintf("%v\n%s", err, debug.Stack())
			resp.Stack = &stack
		}

		return c.Status(status).JSON(resp)
	}
}
