package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"vespernexus/internal/service"

	"github.com/labstack/echo/v4"
)

func decodeJSON(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeError(c echo.Context, status int, err error) error {
	return c.JSON(status, map[string]string{"error": err.Error()})
}

// writeServiceError translates service sentinels to HTTP statuses. The
// credential and challenge failures stay deliberately vague so a caller
// cannot probe which accounts exist. Anything unrecognized is a storage or
// programming error; its text stays server-side.
func writeServiceError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidChallenge),
		errors.Is(err, service.ErrUnknownAccount),
		errors.Is(err, service.ErrCodeNotFound),
		errors.Is(err, service.ErrCodeUnavailable),
		errors.Is(err, service.ErrUnknownPlan):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrAccountSuspended),
		errors.Is(err, service.ErrInsufficientPrivilege):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrAlreadyRegistered),
		errors.Is(err, service.ErrCodeAlreadyBound),
		errors.Is(err, service.ErrDuplicateCode):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		c.Logger().Error(err)
		return writeError(c, status, errors.New("internal error"))
	}
	return writeError(c, status, err)
}

func parseLimitOffset(c echo.Context) (int, int) {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	return limit, offset
}
