package handler

import (
	"net/http"
	"strconv"

	"github.com/abela7/geez-restaurant-sub000/internal/costing"

	"github.com/labstack/echo/v4"
)

// parseID reads a numeric path parameter
func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// engineError maps the costing error taxonomy onto an HTTP response.
// Validation and in-use failures carry their specific reason; anything
// else gets the generic message since the cause is not actionable by the
// end user.
func engineError(c echo.Context, err error, generic string) error {
	switch {
	case costing.IsValidation(err):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case costing.IsInUse(err):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case costing.IsNotFound(err):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": generic})
	}
}
