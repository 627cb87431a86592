package service

import (
	"context"
	"strings"

	"stockdata-api/pkg/indicators"
	"stockdata-api/pkg/series"
)

// IndicatorResult is the outcome of an indicator query: the last-row summary
// plus the full annotated series.
type IndicatorResult struct {
	Symbol    string         `json:"symbol"`
	Market    string         `json:"market"`
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	Latest    map[string]any `json:"latest"`
	History   series.Series  `json:"history"`
}

// TechnicalService layers indicator computation on top of the cached
// history flow.
type TechnicalService struct {
	stocks *StockService
}

// NewTechnicalService wires the service.
func NewTechnicalService(stocks *StockService) *TechnicalService {
	return &TechnicalService{stocks: stocks}
}

// indicatorOrder fixes the application order regardless of how the request
// lists them.
var indicatorOrder = []string{"ma", "ema", "macd", "rsi", "boll", "kdj", "atr"}

// SupportedIndicators returns the selectable indicator names.
func SupportedIndicators() []string {
	out := make([]string, len(indicatorOrder))
	copy(out, indicatorOrder)
	return out
}

// GetIndicators fetches history (through the cache), re-applies the series
// invariants, forward-fills missing prices, and computes the requested
// indicator subset - or all of them when names is empty.
func (s *TechnicalService) GetIndicators(ctx context.Context, symbol, startDate, endDate, market string, names []string) IndicatorResult {
	result := IndicatorResult{
		Symbol:    symbol,
		Market:    market,
		StartDate: startDate,
		EndDate:   endDate,
		Latest:    map[string]any{},
		History:   series.Series{},
	}

	history := s.stocks.GetStockHistory(ctx, symbol, startDate, endDate, market, false)
	if len(history) == 0 {
		return result
	}

	ser := series.FillMissing(series.Renormalize(history))

	selected := make(map[string]bool, len(names))
	for _, name := range names {
		selected[strings.ToLower(strings.TrimSpace(name))] = true
	}
	all := len(selected) == 0

	for _, name := range indicatorOrder {
		if !all && !selected[name] {
			continue
		}
		switch name {
		case "ma":
			ser = indicators.AddMA(ser)
		case "ema":
			ser = indicators.AddEMA(ser)
		case "macd":
			ser = indicators.AddMACD(ser, 0, 0, 0)
		case "rsi":
			ser = indicators.AddRSI(ser)
		case "boll":
			ser = indicators.AddBollinger(ser, 0, 0)
		case "kdj":
			ser = indicators.AddKDJ(ser, 0, 0)
		case "atr":
			ser = indicators.AddATR(ser, 0)
		}
	}

	result.Latest = indicators.Summarize(ser)
	result.History = ser
	return result
}
