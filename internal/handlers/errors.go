package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"balcao/internal/common"
	"balcao/internal/pos"
	"balcao/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// respondError renders a service error with the matching status and code.
// resource names the entity in 404 messages.
func respondError(c echo.Context, err error, resource string) error {
	if verr, ok := common.AsValidationError(err); ok {
		return common.SendValidationError(c, verr.Field, verr.Message)
	}

	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return common.SendNotFoundError(c, resource)
	case errors.Is(err, pos.ErrLineNotFound):
		return common.SendNotFoundError(c, "Cart line")
	case errors.Is(err, pos.ErrInsufficientStock):
		return common.SendConflictError(c, "INSUFFICIENT_STOCK", err.Error())
	case errors.Is(err, pos.ErrInvalidTransition):
		return common.SendConflictError(c, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, repositories.ErrDraftLocked):
		return common.SendConflictError(c, "DRAFT_LOCKED", err.Error())
	case errors.Is(err, pos.ErrEmptyCart),
		errors.Is(err, pos.ErrInvalidAmount),
		errors.Is(err, pos.ErrUnknownStatus):
		return c.JSON(http.StatusBadRequest, common.CreateErrorResponse("VALIDATION_ERROR", err.Error(), nil))
	}

	log.Ctx(c.Request().Context()).Error().Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("request failed")
	return common.SendServerError(c, "Internal server error")
}

func paramUUID(c echo.Context, name string) (uuid.UUID, error) {
	return common.ValidateUUID(c.Param(name), name)
}

func pagination(c echo.Context) (int, int, error) {
	limit, offset := 0, 0
	if raw := c.QueryParam("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, common.NewValidationError("limit", "must be an integer")
		}
		limit = v
	}
	if raw := c.QueryParam("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, common.NewValidationError("offset", "must be an integer")
		}
		offset = v
	}
	return common.ValidatePaginationParams(limit, offset)
}

func invalidBody(c echo.Context) error {
	return common.SendClientError(c, "Invalid request format")
}
