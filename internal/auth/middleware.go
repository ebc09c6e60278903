package auth

import (
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/tx-ledger/internal/logging"
)

// Middleware resolves the caller from an "Authorization: Bearer" header.
// Requests without the header pass through anonymously; a header that does
// not verify is rejected with 401.
func Middleware(api huma.API, authority *TokenAuthority) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		header := ctx.Header("Authorization")
		if header == "" {
			next(ctx)
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "authorization header must use the Bearer scheme")
			return
		}

		caller, err := authority.Parse(strings.TrimSpace(tokenString))
		if err != nil {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "invalid bearer token", err)
			return
		}

		if logData := logging.GetLogData(ctx.Context()); logData != nil {
			logData.AddData("caller", caller.String())
		}
		next(huma.WithContext(ctx, WithCaller(ctx.Context(), caller)))
	}
}
