package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"stockdata-api/internal/svc"
	"stockdata-api/internal/types"
)

func StockListHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ListReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		listings := svcCtx.Stocks.GetStockList(r.Context(), req.Market, req.ForceRefresh)
		httpx.OkJsonCtx(r.Context(), w, types.OkResp(map[string]any{
			"market": req.Market,
			"total":  len(listings),
			"stocks": listings,
		}))
	}
}

func StockSearchHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.SearchReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		matched := svcCtx.Stocks.SearchStocks(r.Context(), req.Keyword, req.Market)
		httpx.OkJsonCtx(r.Context(), w, types.OkResp(map[string]any{
			"keyword": req.Keyword,
			"market":  req.Market,
			"total":   len(matched),
			"stocks":  matched,
		}))
	}
}

func StockHistoryHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.HistoryReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		history := svcCtx.Stocks.GetStockHistory(
			r.Context(), req.Symbol, req.StartDate, req.EndDate, req.Market, req.ForceRefresh)
		httpx.OkJsonCtx(r.Context(), w, types.OkResp(map[string]any{
			"symbol":     req.Symbol,
			"market":     req.Market,
			"start_date": req.StartDate,
			"end_date":   req.EndDate,
			"total":      len(history),
			"history":    history,
		}))
	}
}
