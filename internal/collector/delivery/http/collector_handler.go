package http

import (
	"net/http"
	"strconv"

	"telegram-stock-pulse/internal/collector/service"
	"telegram-stock-pulse/internal/entity"
	"telegram-stock-pulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

const defaultMessagesLimit = 50

// CollectorHandler handles HTTP requests for the processing pipeline.
type CollectorHandler struct {
	collectorService service.CollectorService
	logger           *logger.Logger
}

// NewCollectorHandler creates a new CollectorHandler.
func NewCollectorHandler(collectorService service.CollectorService, logger *logger.Logger) *CollectorHandler {
	return &CollectorHandler{collectorService: collectorService, logger: logger}
}

// RegisterRoutes registers the pipeline routes to the Echo group.
func (h *CollectorHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/status", h.GetStatus)
	g.GET("/messages", h.GetMessages)
	g.GET("/report", h.GetReport)
}

func (h *CollectorHandler) GetStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.collectorService.Status())
}

func (h *CollectorHandler) GetMessages(c echo.Context) error {
	limit := defaultMessagesLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid limit"})
		}
		limit = parsed
	}

	var filters entity.MessageFilters
	if err := c.Bind(&filters); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid filters"})
	}

	messages := h.collectorService.RecentMessages(limit, filters)
	return c.JSON(http.StatusOK, echo.Map{
		"count":    len(messages),
		"messages": messages,
	})
}

func (h *CollectorHandler) GetReport(c echo.Context) error {
	report, err := h.collectorService.GenerateReport()
	if err != nil {
		h.logger.Warn("Report requested on empty buffer", logger.ErrorField(err))
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, report)
}
