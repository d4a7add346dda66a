package middleware

import (
	"context"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/internal/service"
	"github.com/d60-Lab/gin-blog/pkg/jwt"
	"github.com/d60-Lab/gin-blog/pkg/logger"
	"github.com/d60-Lab/gin-blog/pkg/response"
)

const actorKey = "actor"

// TokenParser 由 pkg/jwt.Manager 实现
type TokenParser interface {
	Parse(token string) (*jwt.Claims, error)
}

// UserLookup 按 ID 取当前用户，用于拿到最新的 IsStaff
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// Auth 解析 Bearer token 并写入 Actor；缺失或无效时为匿名，不中断请求
func Auth(tokens TokenParser, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := service.Anonymous
		if raw := bearerToken(c.GetHeader("Authorization")); raw != "" {
			claims, err := tokens.Parse(raw)
			if err != nil {
				logger.Debug("invalid token", zap.Error(err))
			} else if u, err := users.GetByID(c.Request.Context(), claims.Subject); err == nil {
				actor = service.ActorFromUser(u)
			}
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// CurrentActor 取当前请求的 Actor；未经过 Auth 时为匿名
func CurrentActor(c *gin.Context) service.Actor {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(service.Actor); ok {
			return a
		}
	}
	return service.Anonymous
}

// RequireAuth 匿名访问跳转到登录页，并带上 next
func RequireAuth(loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentActor(c).IsAuthenticated() {
			response.Redirect(c, LoginRedirect(loginURL, c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireStaff 必须在 RequireAuth 之后使用
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentActor(c).IsStaff {
			response.Forbidden(c, "staff access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoginRedirect 拼出 login?next=...
func LoginRedirect(loginURL, next string) string {
	return loginURL + "?" + url.Values{"next": {next}}.Encode()
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
