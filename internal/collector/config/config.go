package config

import (
	"os"
	"strings"

	"telegram-stock-pulse/pkg/config"
)

// Telegram holds the transport credential and the startup allow-lists.
type Telegram struct {
	BotToken string   `mapstructure:"bot_token"`
	Channels []string `mapstructure:"channels"`
	Keywords []string `mapstructure:"keywords"`
	Stocks   []string `mapstructure:"stocks"`
}

// Filters holds the collector's pre-scoring filter thresholds.
type Filters struct {
	MinReliability       int  `mapstructure:"min_reliability"`
	EnableSpamFilter     bool `mapstructure:"enable_spam_filter"`
	MaxMessagesPerMinute int  `mapstructure:"max_messages_per_minute"`
}

// Report holds report generation settings.
type Report struct {
	OutputDir string `mapstructure:"output_dir"`
	Hourly    bool   `mapstructure:"hourly"`
}

// Config holds the full configuration for the collector service.
type Config struct {
	App      config.App    `mapstructure:"app"`
	Logger   config.Logger `mapstructure:"logger"`
	API      config.API    `mapstructure:"api"`
	Redis    config.Redis  `mapstructure:"redis"`
	Telegram Telegram      `mapstructure:"telegram"`
	Filters  Filters       `mapstructure:"filters"`
	Report   Report        `mapstructure:"report"`
}

// defaultKeywords and defaultStocks seed the monitoring allow-lists.
// Operator-supplied entries extend them, they never replace them.
var defaultKeywords = []string{
	"삼성전자", "LG에너지솔루션", "SK하이닉스", "삼성바이오로직스",
	"반도체", "AI", "2차전지", "바이오", "IT",
	"상승", "하락", "급등", "급락", "목표가", "실적", "공시",
}

var defaultStocks = []string{
	"005930", // 삼성전자
	"373220", // LG에너지솔루션
	"000660", // SK하이닉스
	"207940", // 삼성바이오로직스
	"068270", // 셀트리온
	"005490", // POSCO홀딩스
	"035420", // NAVER
	"035720", // 카카오
	"005380", // 현대차
	"000270", // 기아
}

// Load loads the collector configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	// MONITOR_KEYWORDS and MONITOR_STOCKS are comma-separated aliases kept
	// alongside the viper-derived TELEGRAM_* names.
	cfg.Telegram.Keywords = mergeAllowList(defaultKeywords, cfg.Telegram.Keywords, os.Getenv("MONITOR_KEYWORDS"))
	cfg.Telegram.Stocks = mergeAllowList(defaultStocks, cfg.Telegram.Stocks, os.Getenv("MONITOR_STOCKS"))
	if cfg.Filters.MinReliability == 0 {
		cfg.Filters.MinReliability = 50
	}
	if cfg.Filters.MaxMessagesPerMinute == 0 {
		cfg.Filters.MaxMessagesPerMinute = 100
	}
	return &cfg, nil
}

// mergeAllowList unions the seeded defaults with configured entries and a
// comma-separated env override, trimming whitespace and dropping blanks and
// duplicates while preserving first-seen order.
func mergeAllowList(defaults, configured []string, env string) []string {
	merged := make([]string, 0, len(defaults)+len(configured))
	seen := make(map[string]struct{}, len(defaults)+len(configured))
	add := func(values []string) {
		for _, v := range values {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			merged = append(merged, v)
		}
	}
	add(defaults)
	add(configured)
	if env != "" {
		add(strings.Split(env, ","))
	}
	return merged
}
