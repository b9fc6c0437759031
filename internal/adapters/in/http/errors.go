package http

import (
	"errors"
	"net/http"

	"freight/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// errorStatus maps core errors onto HTTP statuses. Anything unrecognized is a 500.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrCompliance):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrCarrierDispatch):
		return http.StatusBadGateway
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(status int, err error) Error {
	body := Error{Code: status, Message: http.StatusText(status)}
	if status == http.StatusInternalServerError {
		return body
	}
	body.Reason = err.Error()

	var validation *errs.ValidationError
	if errors.As(err, &validation) {
		body.Message = validation.Code
		for _, f := range validation.Fields {
			body.Fields = append(body.Fields, FieldError(f))
		}
	}
	return body
}

func (s *Server) fail(ctx echo.Context, err error) error {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			"method", ctx.Request().Method,
			"path", ctx.Path(),
			"error", err)
	}
	return ctx.JSON(status, errorBody(status, err))
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}
