package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/WelderFernandes/event-ticket/internal/domain/authz"
)

const identityContextKey = "identity"

// ExtractIdentity は外部認証基盤が付与したヘッダーから認証済みIDを取り出す
// コアは認証を行わず、この値を信頼する
func ExtractIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := authz.Identity{
				ID:   c.Request().Header.Get("X-User-ID"),
				Role: authz.ParseRole(c.Request().Header.Get("X-User-Role")),
			}
			c.Set(identityContextKey, identity)
			return next(c)
		}
	}
}

// IdentityFrom はコンテキストから認証済みIDを取得する
func IdentityFrom(c echo.Context) authz.Identity {
	if v, ok := c.Get(identityContextKey).(authz.Identity); ok {
		return v
	}
	return authz.Identity{Role: authz.RoleUser}
}

// RequirePermission はロールの権限テーブルに基づいて操作を許可するミドルウェア
func RequirePermission(resource authz.Resource, action authz.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := IdentityFrom(c)
			if !authz.Can(identity.Role, resource, action) {
				return echo.NewHTTPError(http.StatusForbidden, "この操作を行う権限がありません")
			}
			return next(c)
		}
	}
}
