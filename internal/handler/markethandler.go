package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"stockdata-api/internal/svc"
	"stockdata-api/internal/types"
	"stockdata-api/pkg/provider"
)

func MarketsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.OkJsonCtx(r.Context(), w, types.OkResp(map[string]any{
			"markets": provider.Markets(),
		}))
	}
}

func MarketHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.MarketReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		market, ok := provider.MarketByCode(req.Code)
		if !ok {
			httpx.WriteJsonCtx(r.Context(), w, http.StatusNotFound, types.Response{
				Code:    http.StatusNotFound,
				Message: "unknown market " + req.Code,
			})
			return
		}
		httpx.OkJsonCtx(r.Context(), w, types.OkResp(market))
	}
}
