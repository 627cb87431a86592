package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"stockdata-api/internal/service"
	"stockdata-api/internal/svc"
	"stockdata-api/internal/types"
)

func CacheStatsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.OkJsonCtx(r.Context(), w, types.OkResp(svcCtx.Cache.Stats(r.Context())))
	}
}

// ClearCacheHandler deletes one cache entry from every tier. The key is
// rebuilt from the same parts the read path uses.
func ClearCacheHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ClearCacheReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		var parts []string
		switch req.Namespace {
		case service.HistoryNamespace:
			parts = []string{req.Market, req.Symbol, req.StartDate, req.EndDate}
		case service.ListNamespace:
			parts = []string{req.Market}
		}

		svcCtx.Cache.Delete(r.Context(), req.Namespace, parts...)
		httpx.OkJsonCtx(r.Context(), w, types.OkResp(map[string]any{
			"namespace": req.Namespace,
			"cleared":   true,
		}))
	}
}
