package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthCheck reports whether the relational store answers a ping.
func (h *HealthHandler) HealthCheck(c echo.Context) error {
	status, code := "healthy", http.StatusOK
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request().Context())
	}
	if err != nil {
		status, code = "unavailable", http.StatusServiceUnavailable
	}
	return c.JSON(code, map[string]string{
		"status":  status,
		"service": "info-blog",
	})
}
