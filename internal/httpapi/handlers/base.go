package handlers

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const (
	defaultSkip  = 0
	defaultLimit = 50
)

var validate = validator.New()

// ValidateStruct runs struct tag validation on a bound request body,
// mirroring ivy's package-level validator.New() + Struct() usage.
func ValidateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// pagination parses the shared "skip"/"limit" query parameters, defaulting
// and clamping invalid or missing values rather than erroring.
func pagination(c echo.Context) (skip, limit int) {
	skip = defaultSkip
	limit = defaultLimit

	if v, err := strconv.Atoi(c.QueryParam("skip")); err == nil && v >= 0 {
		skip = v
	}
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		limit = v
	}
	return skip, limit
}

// PathID reads a required, non-empty path parameter. Ids in this domain
// are opaque strings (uuid.New().String() at creation), not typed UUIDs,
// so no parse step is needed beyond checking it was supplied.
func PathID(c echo.Context, param string) (string, error) {
	id := c.Param(param)
	if id == "" {
		return "", httperror.NewHTTPError(http.StatusBadRequest, "missing "+param)
	}
	return id, nil
}

// SuccessResponse returns a 200 OK with data.
func SuccessResponse(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, data)
}

// CreatedResponse returns a 201 Created with data.
func CreatedResponse(c echo.Context, data any) error {
	return c.JSON(http.StatusCreated, data)
}

// NoContentResponse returns a 204 No Content.
func NoContentResponse(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// BadRequest returns a 400 Bad Request error.
func BadRequest(message string) error {
	return httperror.NewHTTPError(http.StatusBadRequest, message)
}
