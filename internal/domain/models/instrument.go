package models

// InstrumentKey is the canonical name of one reading in a snapshot.
// The set is closed: every snapshot carries exactly these keys.
type InstrumentKey string

const (
	KeyUS10Y     InstrumentKey = "us10y"
	KeyUSDJPY    InstrumentKey = "usdjpy"
	KeyBitcoin   InstrumentKey = "bitcoin"
	KeyWTI       InstrumentKey = "wti"
	KeyVIX       InstrumentKey = "vix"
	KeyDXY       InstrumentKey = "dxy"
	KeyTGA       InstrumentKey = "tga"
	KeyHighYield InstrumentKey = "highYield"
	KeySOFR      InstrumentKey = "sofr"
	KeyBreakeven InstrumentKey = "breakeven"
	KeyFedWatch  InstrumentKey = "fedWatch"
	KeyCNNIndex  InstrumentKey = "cnnIndex"
)

// AllKeys lists every instrument key in display order.
var AllKeys = []InstrumentKey{
	KeyUS10Y, KeyUSDJPY, KeyBitcoin, KeyWTI, KeyVIX, KeyDXY,
	KeyTGA, KeyHighYield, KeySOFR, KeyBreakeven,
	KeyFedWatch, KeyCNNIndex,
}

// Valid reports whether k belongs to the closed key set.
func (k InstrumentKey) Valid() bool {
	for _, known := range AllKeys {
		if k == known {
			return true
		}
	}
	return false
}

func (k InstrumentKey) String() string { return string(k) }

// QuoteInstrument binds a market-data ticker to its snapshot key.
type QuoteInstrument struct {
	Ticker string
	Key    InstrumentKey
}

// QuoteInstruments is the fixed quote set.
var QuoteInstruments = []QuoteInstrument{
	{Ticker: "^TNX", Key: KeyUS10Y},
	{Ticker: "JPY=X", Key: KeyUSDJPY},
	{Ticker: "BTC-USD", Key: KeyBitcoin},
	{Ticker: "CL=F", Key: KeyWTI},
	{Ticker: "^VIX", Key: KeyVIX},
	{Ticker: "DX-Y.NYB", Key: KeyDXY},
}

// MacroSeries binds an economic series id to its snapshot key.
type MacroSeries struct {
	SeriesID string
	Key      InstrumentKey
}

// MacroSeriesSet is the fixed macro series set.
var MacroSeriesSet = []MacroSeries{
	{SeriesID: "WTREGEN", Key: KeyTGA},
	{SeriesID: "BAMLH0A0HYM2", Key: KeyHighYield},
	{SeriesID: "SOFR", Key: KeySOFR},
	{SeriesID: "T10YIE", Key: KeyBreakeven},
}

// InstrumentReading is one price/percent-change pair.
type InstrumentReading struct {
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"changePercent"`
}

// DefaultReading is used whenever a value could not be obtained.
var DefaultReading = InstrumentReading{}

// MarketData maps every instrument key to its reading.
type MarketData map[InstrumentKey]InstrumentReading

// NewMarketData returns a mapping with every key set to DefaultReading.
func NewMarketData() MarketData {
	m := make(MarketData, len(AllKeys))
	for _, k := range AllKeys {
		m[k] = DefaultReading
	}
	return m
}

// Complete reports whether every key is present.
func (m MarketData) Complete() bool {
	for _, k := range AllKeys {
		if _, ok := m[k]; !ok {
			return false
		}
	}
	return true
}

// Normalize returns a copy holding exactly the known keys, filling gaps with DefaultReading.
func (m MarketData) Normalize() MarketData {
	out := NewMarketData()
	for _, k := range AllKeys {
		if r, ok := m[k]; ok {
			out[k] = r
		}
	}
	return out
}
