package provider

// Market is static reference data for a supported market.
type Market struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Currency     string `json:"currency"`
	Timezone     string `json:"timezone"`
	TradingHours string `json:"trading_hours"`
}

var markets = []Market{
	{Code: MarketCN, Name: "China A-Shares", Currency: "CNY", Timezone: "Asia/Shanghai", TradingHours: "09:30-11:30, 13:00-15:00"},
	{Code: MarketHK, Name: "Hong Kong", Currency: "HKD", Timezone: "Asia/Hong_Kong", TradingHours: "09:30-12:00, 13:00-16:00"},
	{Code: MarketUS, Name: "United States", Currency: "USD", Timezone: "America/New_York", TradingHours: "09:30-16:00"},
}

// Markets returns the supported market descriptors.
func Markets() []Market {
	out := make([]Market, len(markets))
	copy(out, markets)
	return out
}

// MarketByCode looks up one market descriptor.
func MarketByCode(code string) (Market, bool) {
	for _, m := range markets {
		if m.Code == code {
			return m, true
		}
	}
	return Market{}, false
}
