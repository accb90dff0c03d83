package scorer

// Lexicon holds the static word lists the scorer matches against. It is
// loaded once at construction and never mutated afterwards, so a single
// instance can be shared freely.
type Lexicon struct {
	Positive []string
	Negative []string
	Neutral  []string

	// Investment term lists keyed by the four fixed categories.
	Market   []string
	Sector   []string
	Type     []string
	Analysis []string

	UrgencyMarkers []string

	// Companies is a closed gazetteer of well-known display names, not NLP.
	// Swap or extend the list without touching the scoring logic.
	Companies []string
}

// DefaultLexicon returns the built-in Korean investment lexicon.
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		Positive: []string{
			"상승", "오름", "급등", "상승세", "강세", "최고", "신고", "대박", "수익", "성공",
			"확신", "추천", "매수", "강력매수", "목표가", "상향", "기대", "호재", "긍정적",
			"반등", "회복", "돌파", "상승장", "상한가", "폭등", "큰손", "물량", "매집",
		},
		Negative: []string{
			"하락", "내림", "급락", "하락세", "약세", "최저", "신저", "대패", "손실", "실패",
			"우려", "비관", "매도", "강력매도", "하향", "악재", "부정적", "하락장",
			"하한가", "폭락", "작전", "탈주", "이탈", "분산", "환매",
		},
		Neutral: []string{
			"보합", "횡보", "관망", "대기", "분석", "예측", "전망", "정보", "뉴스", "공시",
			"발표", "결산", "실적", "보고서", "리서치", "의견", "목표가", "전망치",
		},
		Market:   []string{"코스피", "코스닥", "나스닥", "다우", "S&P", "상하이", "닛케이"},
		Sector:   []string{"반도체", "바이오", "IT", "금융", "자동차", "화학", "철강", "건설", "통신"},
		Type:     []string{"주식", "채권", "선물", "옵션", "ETF", "ETN", "펀드", "코인", "암호화폐"},
		Analysis: []string{"기술적", "펀더멘탈", "심리적", "수급", "차트", "보조지표", "이동평균"},
		UrgencyMarkers: []string{
			"긴급", "즉시", "지금", "바로", "빨리", "급등", "급락", "대박", "대패",
			"찬스", "마감임박", "오늘", "내일", "급변", "급작스러운",
		},
		Companies: []string{
			"삼성전자", "LG에너지솔루션", "SK하이닉스", "삼성바이오로직스", "LG화학",
			"현대차", "기아", "POSCO홀딩스", "NAVER", "카카오", "삼성SDI",
			"셀트리온", "현대모비스", "KB금융", "신한지주", "하나금융지주",
		},
	}
}

// termCategories returns the investment term lists in their fixed order.
func (l *Lexicon) termCategories() []struct {
	name  string
	terms []string
} {
	return []struct {
		name  string
		terms []string
	}{
		{"market", l.Market},
		{"sector", l.Sector},
		{"type", l.Type},
		{"analysis", l.Analysis},
	}
}
