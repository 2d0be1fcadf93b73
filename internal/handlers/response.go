package handlers

import (
	"errors"
	"fmt"

	"roti/internal/pricing"
	"roti/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Response is the envelope of every API response.
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    any               `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// requestError is a malformed or invalid request body.
type requestError struct {
	message string
	fields  map[string]string
	err     error
}

func (e *requestError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.message, e.err)
	}
	return e.message
}

func success(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func failure(c *fiber.Ctx, status int, message string, err error) error {
	resp := Response{Success: false, Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	return c.Status(status).JSON(resp)
}

// bind parses the request body into out and validates it.
func bind(c *fiber.Ctx, validate *validator.Validate, out any) error {
	if err := c.BodyParser(out); err != nil {
		return &requestError{message: "Invalid request body", err: err}
	}
	if err := validate.Struct(out); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return &requestError{message: "Invalid request body", err: err}
		}
		fields := make(map[string]string, len(validationErrors))
		for _, e := range validationErrors {
			fields[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return &requestError{message: "Validation failed", fields: fields}
	}
	return nil
}

// statusFor maps a service error onto an HTTP status.
func statusFor(err error) int {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrSizeNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrVariantNotFound),
		errors.Is(err, pricing.ErrSelectionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrDuplicateVariant),
		errors.Is(err, services.ErrSizeInUse),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrInvalidOrderStatus),
		errors.Is(err, services.ErrInvalidPrice),
		errors.Is(err, services.ErrInvalidSize):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrStoreUnavailable):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

// respondError writes err with the status it maps to. Internal errors are
// logged and their details withheld from the client.
func respondError(c *fiber.Ctx, logger *zap.Logger, message string, err error) error {
	status := statusFor(err)

	var reqErr *requestError
	if errors.As(err, &reqErr) {
		resp := Response{Success: false, Message: reqErr.message, Errors: reqErr.fields}
		if reqErr.err != nil {
			resp.Error = reqErr.err.Error()
		}
		return c.Status(status).JSON(resp)
	}

	if status >= fiber.StatusInternalServerError {
		logger.Error(message, zap.String("method", c.Method()), zap.String("path", c.Path()), zap.Error(err))
		if status == fiber.StatusInternalServerError {
			return failure(c, status, message, errors.New("internal server error"))
		}
		return failure(c, status, message, services.ErrStoreUnavailable)
	}
	logger.Debug(message, zap.String("path", c.Path()), zap.Error(err))
	return failure(c, status, message, err)
}
