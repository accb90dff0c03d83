package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"telegram-stock-pulse/internal/collector/registry"
	"telegram-stock-pulse/internal/entity"
	"telegram-stock-pulse/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	return log
}

func setupChannelHandler(t *testing.T) (*echo.Echo, *registry.Registry) {
	t.Helper()
	e := echo.New()
	reg := registry.NewEmpty(nil)
	handler := NewChannelHandler(reg, testLogger(t))
	handler.RegisterRoutes(e.Group("/api/v1/channels"))
	return e, reg
}

func TestAddChannelEndpoint(t *testing.T) {
	e, reg := setupChannelHandler(t)

	t.Run("creates channel", func(t *testing.T) {
		body := `{"id":"@new_ch","name":"새 채널","category":"news","priority":"high","keywords":["경제"]}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/channels", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		ch, ok := reg.GetChannel("@new_ch")
		require.True(t, ok)
		assert.Equal(t, entity.CategoryNews, ch.Category)
	})

	t.Run("missing id is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/channels", strings.NewReader(`{"name":"이름만"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestChannelLifecycleEndpoints(t *testing.T) {
	e, reg := setupChannelHandler(t)
	reg.AddChannel("@ch", entity.ChannelInfo{Name: "채널"})

	t.Run("get", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/channels/@ch", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("deactivate then activate", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/channels/@ch/deactivate", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		ch, _ := reg.GetChannel("@ch")
		assert.False(t, ch.IsActive)

		req = httptest.NewRequest(http.MethodPost, "/api/v1/channels/@ch/activate", nil)
		rec = httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		ch, _ = reg.GetChannel("@ch")
		assert.True(t, ch.IsActive)
	})

	t.Run("update", func(t *testing.T) {
		body := `{"priority":"high","monitoring_interval_seconds":120}`
		req := httptest.NewRequest(http.MethodPut, "/api/v1/channels/@ch", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		ch, _ := reg.GetChannel("@ch")
		assert.Equal(t, entity.PriorityHigh, ch.Priority)
	})

	t.Run("delete", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/channels/@ch", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		req = httptest.NewRequest(http.MethodDelete, "/api/v1/channels/@ch", nil)
		rec = httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGetChannelsWithQueries(t *testing.T) {
	e, reg := setupChannelHandler(t)
	reg.AddChannel("@a", entity.ChannelInfo{Name: "반도체 동향", Category: "sector"})
	reg.AddChannel("@b", entity.ChannelInfo{Name: "글로벌 마켓", Category: "international", Inactive: true})

	listed := func(target string) int {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var payload struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		return payload.Count
	}

	assert.Equal(t, 2, listed("/api/v1/channels"))
	assert.Equal(t, 1, listed("/api/v1/channels?active=true"))
	assert.Equal(t, 1, listed("/api/v1/channels?category=sector"))
	assert.Equal(t, 1, listed("/api/v1/channels?q=반도체"))
}

func TestExportEndpoint(t *testing.T) {
	e, reg := setupChannelHandler(t)
	reg.AddChannel("@ch", entity.ChannelInfo{})

	t.Run("defaults to json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/channels/export", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"format":"json"`)
	})

	t.Run("unsupported format is a client error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/channels/export?format=xml", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "unsupported format")
	})
}

func TestStatsEndpoint(t *testing.T) {
	e, reg := setupChannelHandler(t)
	reg.AddChannel("@ch", entity.ChannelInfo{})
	reg.UpdateMessageCount("@ch", 3)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/channels/stats", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var stats entity.RegistryStatistics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalChannels)
	assert.Equal(t, int64(3), stats.TotalMessages)
}
