package registry

import "telegram-stock-pulse/internal/entity"

type seedCategory struct {
	id          string
	name        string
	description string
}

type seedChannel struct {
	id       string
	category string
	info     entity.ChannelInfo
}

var defaultCategories = []seedCategory{
	{"broker", "주요 증권사", "국내 주요 증권사 공식 채널"},
	{"news", "뉴스 미디어", "경제/증시 관련 뉴스 미디어"},
	{"community", "주식 커뮤니티", "주식 정보 공유 커뮤니티"},
	{"sector", "특정 섹터", "특정 산업/섹터 전문 채널"},
	{"international", "해외 증시", "해외 증시 및 글로벌 시장"},
	{"realtime", "실시간 정보", "실시간 주식 정보 및 시그널"},
}

var defaultChannels = []seedChannel{
	{"@miraeasset_news", "broker", entity.ChannelInfo{
		Name: "미래에셋증권", Description: "미래에셋증권 공식 채널", Priority: "high",
		Keywords: []string{"미래에셋", "리서치", "투자전략"},
	}},
	{"@kiwoom_news", "broker", entity.ChannelInfo{
		Name: "키움증권", Description: "키움증권 공식 채널", Priority: "high",
		Keywords: []string{"키움", "영업이익", "증권사"},
	}},
	{"@shinhan_news", "broker", entity.ChannelInfo{
		Name: "신한투자증권", Description: "신한투자증권 공식 채널", Priority: "high",
		Keywords: []string{"신한", "투자전략", "시장전망"},
	}},
	{"@maekyung_economy", "news", entity.ChannelInfo{
		Name: "매일경제", Description: "매일경제 경제 뉴스", Priority: "high",
		Keywords: []string{"경제", "증시", "기업"},
	}},
	{"@hankyung_economy", "news", entity.ChannelInfo{
		Name: "한국경제", Description: "한국경제 경제 뉴스", Priority: "high",
		Keywords: []string{"경제", "산업", "투자"},
	}},
	{"@munhwa_economy", "news", entity.ChannelInfo{
		Name: "문화일보 경제", Description: "문화일보 경제 섹션", Priority: "medium",
		Keywords: []string{"경제", "증권", "시장"},
	}},
	{"@stock_master_kr", "community", entity.ChannelInfo{
		Name: "주식 마스터", Description: "주식 정보 공유 커뮤니티", Priority: "medium",
		Keywords: []string{"주식", "종목", "분석"},
	}},
	{"@korea_stock_info", "community", entity.ChannelInfo{
		Name: "한국 주식 정보", Description: "국내 주식 정보 제공", Priority: "medium",
		Keywords: []string{"코스피", "코스닥", "주식"},
	}},
	{"@investment_korea", "community", entity.ChannelInfo{
		Name: "투자 Korea", Description: "투자 정보 및 분석", Priority: "medium",
		Keywords: []string{"투자", "분석", "전략"},
	}},
	{"@semiconductor_kr", "sector", entity.ChannelInfo{
		Name: "반도체 동향", Description: "반도체 산업 뉴스 및 분석", Priority: "medium",
		Keywords: []string{"반도체", "삼성전자", "SK하이닉스", "메모리"},
	}},
	{"@bio_stocks_kr", "sector", entity.ChannelInfo{
		Name: "바이오 주식", Description: "바이오/의약품 주식 정보", Priority: "medium",
		Keywords: []string{"바이오", "셀트리온", "신약", "임상"},
	}},
	{"@it_tech_stocks", "sector", entity.ChannelInfo{
		Name: "IT/테크 주식", Description: "IT 기술주 정보 및 분석", Priority: "medium",
		Keywords: []string{"IT", "테크", "플랫폼", "AI"},
	}},
	{"@wall_street_kr", "international", entity.ChannelInfo{
		Name: "월스트리트 한국", Description: "미국 증시 정보 및 분석", Priority: "low",
		Keywords: []string{"뉴욕", "나스닥", "S&P", "미국주식"},
	}},
	{"@global_markets", "international", entity.ChannelInfo{
		Name: "글로벌 마켓", Description: "글로벌 시장 동향 분석", Priority: "low",
		Keywords: []string{"글로벌", "해외주식", "환율"},
	}},
	{"@korea_stock_realtime", "realtime", entity.ChannelInfo{
		Name: "국내 주식 실시간", Description: "국내 주식 실시간 소식", Priority: "high",
		Keywords: []string{"실시간", "코스피", "거래량", "급등락"},
	}},
	{"@stock_signals_kr", "realtime", entity.ChannelInfo{
		Name: "주식 시그널", Description: "주식 투자 시그널 제공", Priority: "medium",
		Keywords: []string{"시그널", "매수", "매도", "타이밍"},
	}},
}

// seedDefaults loads the built-in channel catalog and its categories.
func (r *Registry) seedDefaults() {
	for _, cat := range defaultCategories {
		r.AddCategory(cat.id, cat.name, cat.description)
	}
	for _, ch := range defaultChannels {
		info := ch.info
		info.Category = ch.category
		r.AddChannel(ch.id, info)
	}
}

// categoryDisplayName resolves the category's human name, falling back to
// the raw id for categories never registered.
func (r *Registry) categoryDisplayName(id string) string {
	if cat, ok := r.categories[id]; ok {
		return cat.Name
	}
	return id
}
