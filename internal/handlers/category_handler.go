package handlers

import (
	"net/http"

	"github.com/anonto42/info-blog/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

type CategoryHandler struct {
	categoryRepository repositories.CategoryRepository
}

func NewCategoryHandler(categoryRepo repositories.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{categoryRepository: categoryRepo}
}

func (h *CategoryHandler) RegisterCategoryRoutes(g *echo.Group) {
	g.GET("/categories", h.ListCategories)
}

func (h *CategoryHandler) ListCategories(c echo.Context) error {
	categories, err := h.categoryRepository.ListCategories(c.Request().Context())
	if err != nil {
		return storeError(err, "")
	}
	return c.JSON(http.StatusOK, categories)
}
