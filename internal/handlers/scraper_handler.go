package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/info-blog/backend/internal/scraper"
	"github.com/anonto42/info-blog/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HeadlineSource is satisfied by *scraper.Scraper.
type HeadlineSource interface {
	Headlines(ctx context.Context) ([]scraper.Headline, error)
}

type ScraperHandler struct {
	source HeadlineSource
}

func NewScraperHandler(source HeadlineSource) *ScraperHandler {
	return &ScraperHandler{source: source}
}

func (h *ScraperHandler) RegisterScraperRoutes(g *echo.Group) {
	g.GET("/pars", h.Headlines)
}

// Headlines returns the titles scraped from the external listing
func (h *ScraperHandler) Headlines(c echo.Context) error {
	headlines, err := h.source.Headlines(c.Request().Context())
	if err != nil {
		logger.Log.Warn("scrape failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadGateway, "Failed to fetch headlines")
	}
	return c.JSON(http.StatusOK, headlines)
}
