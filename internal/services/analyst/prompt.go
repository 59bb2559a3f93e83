package analyst

import (
	"fmt"
	"strings"

	"MacroPulse/internal/domain/models"
	domsvc "MacroPulse/internal/domain/service"
)

const unavailable = "unavailable"

// promptRows fixes the order and wording of the numeric section.
var promptRows = []struct {
	key   models.InstrumentKey
	label string
	unit  string
}{
	{models.KeyUS10Y, "US 10Y Treasury yield", "%"},
	{models.KeyVIX, "VIX", ""},
	{models.KeyWTI, "WTI crude oil", " USD"},
	{models.KeyDXY, "Dollar index (DXY)", ""},
	{models.KeyUSDJPY, "USD/JPY", ""},
	{models.KeyBitcoin, "Bitcoin", " USD"},
}

var macroRows = []struct {
	key   models.InstrumentKey
	label string
	unit  string
}{
	{models.KeyTGA, "Treasury General Account", " USD mn"},
	{models.KeyHighYield, "High-yield spread", "%"},
	{models.KeySOFR, "SOFR", "%"},
	{models.KeyBreakeven, "10Y breakeven inflation", "%"},
}

// BuildPrompt renders the analyst prompt. Readings that could not be fetched are
// marked unavailable rather than shown as zero.
func BuildPrompt(in domsvc.AnalysisInput) string {
	var b strings.Builder

	b.WriteString("You are a senior macro strategist. Assess the market from the data below.\n\n")
	b.WriteString("[1. Market data]\n")
	for _, r := range promptRows {
		v := unavailable
		if in.QuoteOK[r.key] {
			reading := in.Quotes[r.key]
			v = fmt.Sprintf("%g%s (%+.2f%%)", reading.Price, r.unit, reading.ChangePercent)
		}
		fmt.Fprintf(&b, "- %s: %s\n", r.label, v)
	}
	for _, r := range macroRows {
		v := unavailable
		if in.MacroOK[r.key] {
			v = fmt.Sprintf("%g%s", in.Macro[r.key], r.unit)
		}
		fmt.Fprintf(&b, "- %s: %s\n", r.label, v)
	}
	cnn := unavailable
	if in.Sentiment.Observed {
		cnn = fmt.Sprintf("%g", in.Sentiment.Score)
	}
	fmt.Fprintf(&b, "- CNN Fear & Greed (observed): %s\n\n", cnn)

	b.WriteString("[2. Latest headlines (Fed remarks, market mood)]\n")
	if len(in.News.Headlines) > 0 {
		for _, h := range in.News.Headlines {
			fmt.Fprintf(&b, "- %s\n", h)
		}
	} else {
		b.WriteString(in.News.Filler)
		b.WriteString("\n")
	}

	b.WriteString(`
[Instructions]
1. Weigh hawkish or dovish Fed remarks in the headlines when estimating rate probabilities.
2. Classify the market as exactly one of: risk, caution, neutral, positive, overheated.
3. Summarize in three short lines, including news that matters.
4. Estimate the probability (0-100) that the Fed holds or cuts at the next meeting.
5. Estimate the CNN Fear & Greed score (0-100); use the observed value if one is given.

Respond with JSON only, no prose, in exactly this shape:
{"status":"neutral","summary":["...","...","..."],"estimated_fed_prob":0,"estimated_cnn_score":0}
`)
	return b.String()
}
