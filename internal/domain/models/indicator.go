package models

// Language is a supported dashboard language.
type Language string

const (
	LangEN Language = "en"
	LangKO Language = "ko"
	LangJA Language = "ja"
	LangZH Language = "zh"
)

// DefaultLanguage is used when a request does not name one.
const DefaultLanguage = LangKO

// Languages lists supported languages.
var Languages = []Language{LangEN, LangKO, LangJA, LangZH}

// Valid reports whether l is supported.
func (l Language) Valid() bool {
	for _, known := range Languages {
		if l == known {
			return true
		}
	}
	return false
}

// Localized holds one string per language.
type Localized map[Language]string

// In returns the text for l, falling back to English.
func (t Localized) In(l Language) string {
	if s, ok := t[l]; ok && s != "" {
		return s
	}
	return t[LangEN]
}

// Sector groups indicators on the dashboard.
type Sector string

const (
	SectorSentiment Sector = "sentiment"
	SectorLiquidity Sector = "liquidity"
	SectorRates     Sector = "rates"
	SectorEconomy   Sector = "economy"
)

// Sectors lists sectors in display order.
var Sectors = []Sector{SectorSentiment, SectorLiquidity, SectorRates, SectorEconomy}

// SectorTitles are the localized sector headings.
var SectorTitles = map[Sector]Localized{
	SectorSentiment: {LangEN: "Sentiment", LangKO: "심리", LangJA: "心理", LangZH: "情绪"},
	SectorLiquidity: {LangEN: "Liquidity", LangKO: "유동성", LangJA: "流動性", LangZH: "流动性"},
	SectorRates:     {LangEN: "Rates", LangKO: "금리", LangJA: "金利", LangZH: "利率"},
	SectorEconomy:   {LangEN: "Economy", LangKO: "펀더멘털", LangJA: "ファンダメンタルズ", LangZH: "基本面"},
}

// Polarity says which direction of movement is adverse.
type Polarity string

const (
	// PolarityInverse: a rise is adverse (yields, volatility, dollar strength).
	PolarityInverse Polarity = "inverse"
	// PolarityDirect: a rise is favorable (risk appetite, liquidity).
	PolarityDirect Polarity = "direct"
	// PolarityBand: the level matters, both extremes are adverse (fear/greed).
	PolarityBand Polarity = "band"
)

// Indicator is the display metadata of one instrument key.
type Indicator struct {
	Key         InstrumentKey
	Sector      Sector
	Polarity    Polarity
	Source      string
	Name        Localized
	Description Localized
}

// Catalog maps every instrument key to its metadata, in display order.
var Catalog = []Indicator{
	{
		Key: KeyVIX, Sector: SectorSentiment, Polarity: PolarityInverse, Source: "Yahoo Finance (^VIX)",
		Name: Localized{LangEN: "VIX", LangKO: "VIX (변동성 지수)", LangJA: "VIX（恐怖指数）", LangZH: "VIX（波动率指数）"},
		Description: Localized{
			LangEN: "Implied volatility of S&P 500 options; rises when investors pay up for protection.",
			LangKO: "S&P 500 옵션의 내재 변동성으로, 투자자들이 하락 방어에 비용을 지불할 때 상승합니다.",
			LangJA: "S&P500オプションのインプライド・ボラティリティ。投資家がヘッジを求めると上昇します。",
			LangZH: "标普500期权的隐含波动率，投资者买入保护时上升。",
		},
	},
	{
		Key: KeyCNNIndex, Sector: SectorSentiment, Polarity: PolarityBand, Source: "CNN Business Fear & Greed",
		Name: Localized{LangEN: "CNN Fear & Greed", LangKO: "CNN 공포·탐욕 지수", LangJA: "CNN恐怖・強欲指数", LangZH: "CNN恐惧与贪婪指数"},
		Description: Localized{
			LangEN: "Composite 0-100 sentiment score; both extreme fear and extreme greed are warning signs.",
			LangKO: "0~100 범위의 종합 심리 지수로, 극단적 공포와 극단적 탐욕 모두 경고 신호입니다.",
			LangJA: "0〜100の総合センチメント指数。極端な恐怖も強欲も警戒サインです。",
			LangZH: "0-100的综合情绪指数，极度恐惧和极度贪婪都是警示信号。",
		},
	},
	{
		Key: KeyBitcoin, Sector: SectorSentiment, Polarity: PolarityDirect, Source: "Yahoo Finance (BTC-USD)",
		Name: Localized{LangEN: "Bitcoin", LangKO: "비트코인", LangJA: "ビットコイン", LangZH: "比特币"},
		Description: Localized{
			LangEN: "A high-beta proxy for speculative risk appetite.",
			LangKO: "투기적 위험 선호도를 보여주는 고베타 지표입니다.",
			LangJA: "投機的なリスク選好を映す高ベータの指標です。",
			LangZH: "反映投机性风险偏好的高贝塔指标。",
		},
	},
	{
		Key: KeyTGA, Sector: SectorLiquidity, Polarity: PolarityDirect, Source: "FRED (WTREGEN)",
		Name: Localized{LangEN: "Treasury General Account", LangKO: "재무부 일반계정 (TGA)", LangJA: "財務省一般勘定（TGA）", LangZH: "财政部一般账户（TGA）"},
		Description: Localized{
			LangEN: "Cash the Treasury holds at the Fed; drawdowns release liquidity into markets.",
			LangKO: "재무부가 연준에 보유한 현금으로, 감소하면 시장에 유동성이 공급됩니다.",
			LangJA: "財務省がFRBに保有する現金。減少すると市場に流動性が供給されます。",
			LangZH: "财政部存放在美联储的现金，减少时向市场释放流动性。",
		},
	},
	{
		Key: KeyHighYield, Sector: SectorLiquidity, Polarity: PolarityInverse, Source: "FRED (BAMLH0A0HYM2)",
		Name: Localized{LangEN: "High Yield Spread", LangKO: "하이일드 스프레드", LangJA: "ハイイールド・スプレッド", LangZH: "高收益债利差"},
		Description: Localized{
			LangEN: "Extra yield demanded on junk bonds; widening signals credit stress.",
			LangKO: "투기등급 채권에 요구되는 추가 수익률로, 확대되면 신용 경색 신호입니다.",
			LangJA: "ジャンク債に求められる上乗せ利回り。拡大は信用ストレスのサインです。",
			LangZH: "垃圾债要求的额外收益率，扩大意味着信用压力。",
		},
	},
	{
		Key: KeyDXY, Sector: SectorLiquidity, Polarity: PolarityInverse, Source: "Yahoo Finance (DX-Y.NYB)",
		Name: Localized{LangEN: "DXY", LangKO: "DXY (달러 인덱스)", LangJA: "ドルインデックス（DXY）", LangZH: "美元指数（DXY）"},
		Description: Localized{
			LangEN: "Dollar strength against a basket of majors; a strong dollar tightens global liquidity.",
			LangKO: "주요 통화 대비 달러 강세 지표로, 달러 강세는 글로벌 유동성을 위축시킵니다.",
			LangJA: "主要通貨に対するドルの強さ。ドル高は世界の流動性を引き締めます。",
			LangZH: "美元相对主要货币的强弱，美元走强会收紧全球流动性。",
		},
	},
	{
		Key: KeyUSDJPY, Sector: SectorLiquidity, Polarity: PolarityInverse, Source: "Yahoo Finance (JPY=X)",
		Name: Localized{LangEN: "USD/JPY", LangKO: "USD/JPY (달러-엔)", LangJA: "ドル円", LangZH: "美元/日元"},
		Description: Localized{
			LangEN: "Dollar-yen rate; sharp moves can unwind yen carry trades.",
			LangKO: "달러-엔 환율로, 급변동 시 엔 캐리 트레이드 청산을 유발할 수 있습니다.",
			LangJA: "ドル円相場。急変動は円キャリートレードの巻き戻しを招きます。",
			LangZH: "美元兑日元汇率，剧烈波动可能引发日元套利交易平仓。",
		},
	},
	{
		Key: KeyUS10Y, Sector: SectorRates, Polarity: PolarityInverse, Source: "Yahoo Finance (^TNX)",
		Name: Localized{LangEN: "US 10Y Yield", LangKO: "미국 10년물 금리", LangJA: "米10年債利回り", LangZH: "美国10年期国债收益率"},
		Description: Localized{
			LangEN: "Benchmark long-term borrowing cost; rising yields pressure valuations.",
			LangKO: "장기 차입 비용의 기준으로, 금리 상승은 밸류에이션에 부담을 줍니다.",
			LangJA: "長期金利の指標。利回り上昇はバリュエーションの重荷になります。",
			LangZH: "长期融资成本基准，收益率上升压制估值。",
		},
	},
	{
		Key: KeySOFR, Sector: SectorRates, Polarity: PolarityInverse, Source: "FRED (SOFR)",
		Name: Localized{LangEN: "SOFR", LangKO: "SOFR (단기 금리)", LangJA: "SOFR（短期金利）", LangZH: "SOFR（短期利率）"},
		Description: Localized{
			LangEN: "Secured overnight funding rate; spikes reveal funding-market stress.",
			LangKO: "담보부 익일물 금리로, 급등은 자금시장 경색을 의미합니다.",
			LangJA: "担保付翌日物調達金利。急騰は資金市場のひっ迫を示します。",
			LangZH: "有担保隔夜融资利率，飙升反映融资市场压力。",
		},
	},
	{
		Key: KeyFedWatch, Sector: SectorRates, Polarity: PolarityDirect, Source: "AI estimate (Gemini)",
		Name: Localized{LangEN: "FedWatch", LangKO: "FedWatch (동결 확률)", LangJA: "FedWatch（据え置き確率）", LangZH: "FedWatch（维持利率概率）"},
		Description: Localized{
			LangEN: "Model-estimated probability of a hold or cut at the next FOMC meeting.",
			LangKO: "다음 FOMC 회의에서 금리 동결 또는 인하 확률에 대한 AI 추정치입니다.",
			LangJA: "次回FOMCでの据え置きまたは利下げ確率のAI推定値です。",
			LangZH: "AI估计的下次FOMC会议维持或降息的概率。",
		},
	},
	{
		Key: KeyWTI, Sector: SectorEconomy, Polarity: PolarityInverse, Source: "Yahoo Finance (CL=F)",
		Name: Localized{LangEN: "WTI Oil", LangKO: "WTI 유가", LangJA: "WTI原油", LangZH: "WTI原油"},
		Description: Localized{
			LangEN: "Crude oil futures; rising energy costs feed inflation.",
			LangKO: "원유 선물 가격으로, 에너지 비용 상승은 인플레이션을 자극합니다.",
			LangJA: "原油先物価格。エネルギーコストの上昇はインフレを招きます。",
			LangZH: "原油期货价格，能源成本上升推高通胀。",
		},
	},
	{
		Key: KeyBreakeven, Sector: SectorEconomy, Polarity: PolarityDirect, Source: "FRED (T10YIE)",
		Name: Localized{LangEN: "10Y Breakeven Inflation", LangKO: "기대 인플레이션", LangJA: "期待インフレ率", LangZH: "通胀预期"},
		Description: Localized{
			LangEN: "Market-implied 10-year inflation expectation from TIPS pricing.",
			LangKO: "물가연동국채 가격에 반영된 10년 기대 인플레이션입니다.",
			LangJA: "物価連動債から算出される10年期待インフレ率です。",
			LangZH: "由通胀保值债券定价推算的10年期通胀预期。",
		},
	},
}

// LookupIndicator returns the catalog entry for key.
func LookupIndicator(key InstrumentKey) (Indicator, bool) {
	for _, ind := range Catalog {
		if ind.Key == key {
			return ind, true
		}
	}
	return Indicator{}, false
}

// StatusLabels are the localized verdict labels.
var StatusLabels = map[VerdictStatus]Localized{
	StatusRisk:       {LangEN: "Risk", LangKO: "위험", LangJA: "危険", LangZH: "危险"},
	StatusCaution:    {LangEN: "Caution", LangKO: "주의", LangJA: "注意", LangZH: "注意"},
	StatusNeutral:    {LangEN: "Neutral", LangKO: "중립", LangJA: "中立", LangZH: "中性"},
	StatusPositive:   {LangEN: "Safe", LangKO: "안전", LangJA: "安全", LangZH: "安全"},
	StatusOverheated: {LangEN: "Overheated", LangKO: "과열", LangJA: "過熱", LangZH: "过热"},
	StatusWaiting:    {LangEN: "Waiting", LangKO: "대기", LangJA: "待機", LangZH: "等待"},
}

// StatusLabel localizes a verdict status; unknown or empty statuses render as neutral.
func StatusLabel(s VerdictStatus, l Language) (VerdictStatus, string) {
	labels, ok := StatusLabels[s]
	if !ok {
		s = StatusNeutral
		labels = StatusLabels[StatusNeutral]
	}
	return s, labels.In(l)
}
