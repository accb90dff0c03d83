package registry

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"telegram-stock-pulse/internal/entity"
)

// ExportChannels renders the full channel list in the requested format.
// Supported formats are "json", "csv" and "txt"; anything else is an error.
func (r *Registry) ExportChannels(format string) (string, error) {
	channels := r.GetAllChannels()

	switch format {
	case "json":
		data, err := json.MarshalIndent(channels, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal channels: %w", err)
		}
		return string(data), nil
	case "csv":
		return generateCSV(channels), nil
	case "txt":
		return r.generateTextReport(channels), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func generateCSV(channels []entity.Channel) string {
	rows := []string{"ID,Name,Category,Priority,Keywords,Message Count,Active"}
	for _, ch := range channels {
		active := "No"
		if ch.IsActive {
			active = "Yes"
		}
		rows = append(rows, strings.Join([]string{
			ch.ID,
			ch.Name,
			string(ch.Category),
			string(ch.Priority),
			strings.Join(ch.Keywords, ";"),
			strconv.FormatInt(ch.MessageCount, 10),
			active,
		}, ","))
	}
	return strings.Join(rows, "\n")
}

func (r *Registry) generateTextReport(channels []entity.Channel) string {
	var b strings.Builder
	b.WriteString("텔레그램 채널 관리 리포트\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	grouped := make(map[entity.ChannelCategory][]entity.Channel)
	var catOrder []entity.ChannelCategory
	for _, ch := range channels {
		if _, ok := grouped[ch.Category]; !ok {
			catOrder = append(catOrder, ch.Category)
		}
		grouped[ch.Category] = append(grouped[ch.Category], ch)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, cat := range catOrder {
		b.WriteString(fmt.Sprintf("[%s]\n", r.categoryDisplayName(string(cat))))
		b.WriteString(strings.Repeat("-", 30) + "\n")

		for _, ch := range grouped[cat] {
			active := "No"
			if ch.IsActive {
				active = "Yes"
			}
			b.WriteString(fmt.Sprintf("• %s (%s)\n", ch.Name, ch.ID))
			b.WriteString(fmt.Sprintf("  Priority: %s, Messages: %d\n", ch.Priority, ch.MessageCount))
			b.WriteString(fmt.Sprintf("  Keywords: %s\n", strings.Join(ch.Keywords, ", ")))
			b.WriteString(fmt.Sprintf("  Active: %s\n\n", active))
		}
	}
	return b.String()
}
