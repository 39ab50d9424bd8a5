package api

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/design-studio/internal/service"
	"github.com/joeblew999/design-studio/internal/tiler"
)

// ToHumaError maps service and backend errors to HTTP problem responses.
func ToHumaError(err error) error {
	var (
		transportErr *tiler.TransportError
		decodeErr    *tiler.DecodeError
	)
	switch {
	case errors.Is(err, service.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, service.ErrKindMismatch):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, service.ErrInvalidStyle):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, service.ErrInvalidType):
		return huma.Error500InternalServerError("layer registry misconfigured", err)
	case errors.Is(err, context.DeadlineExceeded):
		return huma.Error504GatewayTimeout("tile backend timed out", err)
	case errors.As(err, &transportErr):
		return huma.Error502BadGateway("tile backend unavailable", err)
	case errors.As(err, &decodeErr):
		return huma.Error502BadGateway("tile backend returned an unexpected response", err)
	}
	return huma.Error500InternalServerError("internal error", err)
}
