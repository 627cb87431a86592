package handler

import (
	"net/http"
	"strings"

	"github.com/zeromicro/go-zero/rest/httpx"

	"stockdata-api/internal/service"
	"stockdata-api/internal/svc"
	"stockdata-api/internal/types"
)

func IndicatorsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.IndicatorsReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		var names []string
		for _, name := range strings.Split(req.Indicators, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}

		result := svcCtx.Technical.GetIndicators(
			r.Context(), req.Symbol, req.StartDate, req.EndDate, req.Market, names)
		httpx.OkJsonCtx(r.Context(), w, types.OkResp(result))
	}
}

func SupportedIndicatorsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.OkJsonCtx(r.Context(), w, types.OkResp(map[string]any{
			"indicators": service.SupportedIndicators(),
		}))
	}
}
