package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/domain"
)

// Códigos de máquina que viajan en ErrorResponse.Details.
const (
	CodeValidation          = "VALIDATION"
	CodeInsufficientStock   = "INSUFFICIENT_STOCK"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeNotFound            = "NOT_FOUND"
	CodeAuthRequired        = "AUTH_REQUIRED"
	CodeInvalidToken        = "INVALID_TOKEN"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodePermissionDenied    = "PERMISSION_DENIED"
	CodeConflict            = "CONFLICT"
	CodeConcurrentUpdate    = "CONCURRENT_UPDATE"
	CodePartialCompletion   = "PARTIAL_COMPLETION"
	CodeLedgerInconsistency = "LEDGER_INCONSISTENCY"
	CodeInternal            = "INTERNAL"
)

func ok(c *fiber.Ctx, message string, data any) error {
	return c.JSON(dto.Response{Success: true, Message: message, Data: data})
}

func created(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusCreated).JSON(dto.Response{Success: true, Message: message, Data: data})
}

func fail(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Success: false, Message: message, Details: code})
}

// writeError traduce un error de dominio a status HTTP y código.
// PartialCompletion y LedgerInconsistency van primero: envuelven su causa y errors.Is también la vería.
func writeError(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError && code == CodeInternal {
		msg = "error interno"
	}
	return fail(c, status, code, msg)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrPartialCompletion):
		return fiber.StatusInternalServerError, CodePartialCompletion
	case errors.Is(err, domain.ErrLedgerInconsistency):
		return fiber.StatusInternalServerError, CodeLedgerInconsistency
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, CodeValidation
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusBadRequest, CodeInsufficientStock
	case errors.Is(err, domain.ErrInvalidTransition):
		return fiber.StatusBadRequest, CodeInvalidTransition
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, CodeNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, CodeUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, CodePermissionDenied
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicate),
		errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, CodeConflict
	case errors.Is(err, domain.ErrConcurrentUpdate):
		return fiber.StatusConflict, CodeConcurrentUpdate
	}
	return fiber.StatusInternalServerError, CodeInternal
}

// ErrorHandler para fiber.Config: rutas inexistentes, cuerpos demasiado grandes y errores no manejados
// salen con el mismo sobre que el resto de la API.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := CodeInternal
		switch fe.Code {
		case fiber.StatusNotFound:
			code = CodeNotFound
		case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge, fiber.StatusUnprocessableEntity:
			code = CodeValidation
		case fiber.StatusMethodNotAllowed:
			code = CodeNotFound
		}
		return fail(c, fe.Code, code, fe.Message)
	}
	return writeError(c, err)
}
