package registry

import (
	"encoding/json"
	"strings"
	"testing"

	"telegram-stock-pulse/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewEmpty(nil)
	r.AddCategory("broker", "주요 증권사", "")
	r.AddChannel("@kiwoom_news", entity.ChannelInfo{
		Name:     "키움증권",
		Category: "broker",
		Priority: "high",
		Keywords: []string{"키움", "증권사"},
	})
	r.UpdateMessageCount("@kiwoom_news", 7)
	return r
}

func TestExportChannelsJSON(t *testing.T) {
	r := exportRegistry(t)

	out, err := r.ExportChannels("json")
	require.NoError(t, err)

	var channels []entity.Channel
	require.NoError(t, json.Unmarshal([]byte(out), &channels))
	require.Len(t, channels, 1)
	assert.Equal(t, "@kiwoom_news", channels[0].ID)
	assert.Equal(t, int64(7), channels[0].MessageCount)
}

func TestExportChannelsCSV(t *testing.T) {
	r := exportRegistry(t)

	out, err := r.ExportChannels("csv")
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ID,Name,Category,Priority,Keywords,Message Count,Active", lines[0])
	assert.Equal(t, "@kiwoom_news,키움증권,broker,high,키움;증권사,7,Yes", lines[1])
}

func TestExportChannelsText(t *testing.T) {
	r := exportRegistry(t)

	out, err := r.ExportChannels("txt")
	require.NoError(t, err)

	assert.Contains(t, out, "텔레그램 채널 관리 리포트")
	assert.Contains(t, out, "[주요 증권사]")
	assert.Contains(t, out, "• 키움증권 (@kiwoom_news)")
	assert.Contains(t, out, "Priority: high, Messages: 7")
	assert.Contains(t, out, "Keywords: 키움, 증권사")
}

func TestExportChannelsUnsupportedFormat(t *testing.T) {
	r := exportRegistry(t)

	out, err := r.ExportChannels("xml")
	require.Error(t, err)
	assert.Empty(t, out)
	assert.Contains(t, err.Error(), "unsupported format: xml")
}
