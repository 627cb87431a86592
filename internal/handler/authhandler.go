package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"stockdata-api/internal/svc"
	"stockdata-api/internal/types"
)

func LoginHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.LoginReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		token, expiresAt, err := svcCtx.Auth.Login(req.Username, req.Password)
		if err != nil {
			httpx.WriteJsonCtx(r.Context(), w, http.StatusUnauthorized, types.Response{
				Code:    http.StatusUnauthorized,
				Message: "invalid username or password",
			})
			return
		}

		httpx.OkJsonCtx(r.Context(), w, types.OkResp(types.LoginResp{
			AccessToken: token,
			TokenType:   "bearer",
			ExpiresAt:   expiresAt.Unix(),
		}))
	}
}

func MeHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, _ := r.Context().Value("username").(string)
		httpx.OkJsonCtx(r.Context(), w, types.OkResp(types.MeResp{Username: username}))
	}
}
