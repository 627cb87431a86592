package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest"

	"stockdata-api/internal/svc"
)

// RegisterHandlers wires all routes. Market data is public; indicator and
// cache administration routes require a bearer token.
func RegisterHandlers(server *rest.Server, svcCtx *svc.ServiceContext) {
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/healthz",
				Handler: HealthHandler(svcCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/v1/auth/login",
				Handler: LoginHandler(svcCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/stocks/list",
				Handler: StockListHandler(svcCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/stocks/search",
				Handler: StockSearchHandler(svcCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/stocks/history",
				Handler: StockHistoryHandler(svcCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/markets",
				Handler: MarketsHandler(svcCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/markets/:code",
				Handler: MarketHandler(svcCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/technical/supported",
				Handler: SupportedIndicatorsHandler(svcCtx),
			},
		},
	)

	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/auth/me",
				Handler: MeHandler(svcCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/technical/indicators",
				Handler: IndicatorsHandler(svcCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/cache/stats",
				Handler: CacheStatsHandler(svcCtx),
			},
			{
				Method:  http.MethodDelete,
				Path:    "/api/v1/cache",
				Handler: ClearCacheHandler(svcCtx),
			},
		},
		rest.WithJwt(svcCtx.Config.Auth.Secret),
	)
}
