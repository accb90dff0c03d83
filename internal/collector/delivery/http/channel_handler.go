package http

import (
	"net/http"
	"strings"
	"time"

	"telegram-stock-pulse/internal/collector/dto"
	"telegram-stock-pulse/internal/collector/registry"
	"telegram-stock-pulse/internal/entity"
	"telegram-stock-pulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ChannelHandler handles HTTP requests for the channel registry.
type ChannelHandler struct {
	registry *registry.Registry
	logger   *logger.Logger
}

// NewChannelHandler creates a new ChannelHandler.
func NewChannelHandler(reg *registry.Registry, logger *logger.Logger) *ChannelHandler {
	return &ChannelHandler{registry: reg, logger: logger}
}

// RegisterRoutes registers the channel routes to the Echo group.
func (h *ChannelHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetChannels)
	g.POST("", h.AddChannel)
	g.GET("/stats", h.GetStatistics)
	g.GET("/export", h.ExportChannels)
	g.GET("/:id", h.GetChannel)
	g.PUT("/:id", h.UpdateChannel)
	g.DELETE("/:id", h.RemoveChannel)
	g.POST("/:id/activate", h.ActivateChannel)
	g.POST("/:id/deactivate", h.DeactivateChannel)
}

func (h *ChannelHandler) GetChannels(c echo.Context) error {
	var channels []entity.Channel
	switch {
	case c.QueryParam("q") != "":
		channels = h.registry.SearchChannels(c.QueryParam("q"))
	case c.QueryParam("category") != "":
		channels = h.registry.GetChannelsByCategory(entity.NormalizeCategory(c.QueryParam("category")))
	case c.QueryParam("priority") != "":
		channels = h.registry.GetChannelsByPriority(entity.NormalizePriority(c.QueryParam("priority")))
	case c.QueryParam("active") == "true":
		channels = h.registry.GetActiveChannels()
	default:
		channels = h.registry.GetAllChannels()
	}
	return c.JSON(http.StatusOK, echo.Map{
		"count":    len(channels),
		"channels": channels,
	})
}

func (h *ChannelHandler) AddChannel(c echo.Context) error {
	var req dto.AddChannelRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if strings.TrimSpace(req.ID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Channel ID is required"})
	}

	h.registry.AddChannel(req.ID, entity.ChannelInfo{
		Name:               req.Name,
		Description:        req.Description,
		Category:           req.Category,
		Priority:           req.Priority,
		Keywords:           req.Keywords,
		Inactive:           req.Inactive,
		MonitoringInterval: time.Duration(req.MonitoringInterval) * time.Second,
	})

	channel, _ := h.registry.GetChannel(req.ID)
	return c.JSON(http.StatusCreated, channel)
}

func (h *ChannelHandler) GetChannel(c echo.Context) error {
	channel, ok := h.registry.GetChannel(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Channel not found"})
	}
	return c.JSON(http.StatusOK, channel)
}

func (h *ChannelHandler) UpdateChannel(c echo.Context) error {
	var req dto.UpdateChannelRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	update := entity.ChannelUpdate{
		Name:        req.Name,
		Description: req.Description,
		Keywords:    req.Keywords,
		IsActive:    req.IsActive,
	}
	if req.Category != nil {
		category := entity.NormalizeCategory(*req.Category)
		update.Category = &category
	}
	if req.Priority != nil {
		priority := entity.NormalizePriority(*req.Priority)
		update.Priority = &priority
	}
	if req.MonitoringInterval != nil {
		interval := time.Duration(*req.MonitoringInterval) * time.Second
		update.MonitoringInterval = &interval
	}

	if !h.registry.UpdateChannel(c.Param("id"), update) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Channel not found"})
	}
	channel, _ := h.registry.GetChannel(c.Param("id"))
	return c.JSON(http.StatusOK, channel)
}

func (h *ChannelHandler) RemoveChannel(c echo.Context) error {
	if !h.registry.RemoveChannel(c.Param("id")) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Channel not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ChannelHandler) ActivateChannel(c echo.Context) error {
	if !h.registry.ActivateChannel(c.Param("id")) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Channel not found"})
	}
	channel, _ := h.registry.GetChannel(c.Param("id"))
	return c.JSON(http.StatusOK, channel)
}

func (h *ChannelHandler) DeactivateChannel(c echo.Context) error {
	if !h.registry.DeactivateChannel(c.Param("id")) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Channel not found"})
	}
	channel, _ := h.registry.GetChannel(c.Param("id"))
	return c.JSON(http.StatusOK, channel)
}

func (h *ChannelHandler) GetStatistics(c echo.Context) error {
	return c.JSON(http.StatusOK, h.registry.GetStatistics())
}

func (h *ChannelHandler) ExportChannels(c echo.Context) error {
	format := c.QueryParam("format")
	if format == "" {
		format = "json"
	}

	data, err := h.registry.ExportChannels(format)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, dto.ExportResponse{Format: format, Data: data})
}
