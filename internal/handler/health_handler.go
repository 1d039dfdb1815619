package handler

import (
	"net/http"

	"github.com/abela7/geez-restaurant-sub000/pkg/database"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports service and database health
func HealthCheck(c echo.Context) error {
	db := database.GetDB()
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Ping(); err == nil {
				return c.JSON(http.StatusOK, echo.Map{"status": "ok", "database": "up"})
			}
		}
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded", "database": "down"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
