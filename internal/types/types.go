package types

// ListReq asks for the instrument listing of one market.
type ListReq struct {
	Market       string `form:"market,default=CN,options=CN|HK|US"`
	ForceRefresh bool   `form:"force_refresh,optional"`
}

// SearchReq asks for a keyword match over a market's listing.
type SearchReq struct {
	Keyword string `form:"keyword"`
	Market  string `form:"market,default=CN,options=CN|HK|US"`
}

// HistoryReq asks for the daily series of one symbol.
type HistoryReq struct {
	Symbol       string `form:"symbol"`
	StartDate    string `form:"start_date"`
	EndDate      string `form:"end_date"`
	Market       string `form:"market,default=CN,options=CN|HK|US"`
	ForceRefresh bool   `form:"force_refresh,optional"`
}

// IndicatorsReq asks for technical indicators over a symbol's series.
// Indicators is a comma-separated subset of the supported names; empty
// means all of them.
type IndicatorsReq struct {
	Symbol     string `form:"symbol"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	Market     string `form:"market,default=CN,options=CN|HK|US"`
	Indicators string `form:"indicators,optional"`
}

// MarketReq names one market by code.
type MarketReq struct {
	Code string `path:"code"`
}

// ClearCacheReq scopes a cache purge to one key.
type ClearCacheReq struct {
	Namespace string `form:"namespace,options=history|stock_list"`
	Market    string `form:"market,default=CN,options=CN|HK|US"`
	Symbol    string `form:"symbol,optional"`
	StartDate string `form:"start_date,optional"`
	EndDate   string `form:"end_date,optional"`
}

// LoginReq carries the credentials for token issuance.
type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResp carries the issued token.
type LoginResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
}

// MeResp identifies the authenticated caller.
type MeResp struct {
	Username string `json:"username"`
}

// HealthResp reports liveness.
type HealthResp struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Response is the uniform envelope for every endpoint.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// OkResp wraps data in a success envelope.
func OkResp(data any) Response {
	return Response{Code: 0, Message: "ok", Data: data}
}
