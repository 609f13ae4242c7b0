package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anonto42/info-blog/backend/internal/middleware"
	"github.com/anonto42/info-blog/backend/internal/models"
	"github.com/anonto42/info-blog/backend/internal/presenter"
	"github.com/anonto42/info-blog/backend/pkg/logger"
	"github.com/anonto42/info-blog/backend/pkg/storage"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	// maxPage keeps (page-1)*limit far from int overflow.
	maxPage = 1_000_000
)

// getUserIDFromContext returns the authenticated user's id, or 0.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get(middleware.UserContextKey).(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}

func requireUserID(c echo.Context) (uint, error) {
	if id := getUserIDFromContext(c); id != 0 {
		return id, nil
	}
	return 0, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
}

// parseIDParam reads a numeric path parameter. Malformed ids cannot match
// any row, so they are reported as not found.
func parseIDParam(c echo.Context, name, notFound string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, notFound)
	}
	return uint(id), nil
}

// queryUint reads an optional numeric query parameter; absent means 0.
func queryUint(c echo.Context, name string) (uint, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a positive integer")
	}
	return uint(v), nil
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	return c.Validate(req)
}

// pagination maps page/limit query parameters to offset and limit.
func pagination(c echo.Context) (offset, limit int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return (page - 1) * limit, limit
}

func presenterContext(c echo.Context, store storage.Store) presenter.Context {
	return presenter.Context{
		BaseURL: c.Scheme() + "://" + c.Request().Host,
		Locate:  store.URL,
	}
}

// storeError maps repository errors: missing rows become 404 with msg,
// anything else is logged and becomes 500.
func storeError(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, msg)
	}
	logger.Log.Error("store error", zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}
