package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-blog/internal/api/middleware"
	"github.com/d60-Lab/gin-blog/internal/pagination"
	"github.com/d60-Lab/gin-blog/internal/service"
	"github.com/d60-Lab/gin-blog/pkg/response"
)

// ReverseFunc 由路由名和路径参数生成 URL
type ReverseFunc func(name string, args ...string) string

// Services handler 依赖的全部服务
type Services struct {
	Posts    service.PostService
	Comments service.CommentService
	Follows  service.FollowService
	Feeds    service.FeedService
	Users    service.UserService
	Groups   service.GroupService
}

type Handler struct {
	posts    service.PostService
	comments service.CommentService
	follows  service.FollowService
	feeds    service.FeedService
	users    service.UserService
	groups   service.GroupService
	reverse  ReverseFunc
}

func New(s Services, reverse ReverseFunc) *Handler {
	return &Handler{
		posts:    s.Posts,
		comments: s.Comments,
		follows:  s.Follows,
		feeds:    s.Feeds,
		users:    s.Users,
		groups:   s.Groups,
		reverse:  reverse,
	}
}

// writeResult 写操作成功后的响应体，next 为客户端应跳转的页面
type writeResult struct {
	Data interface{} `json:"data"`
	Next string      `json:"next"`
}

func pageNumber(c *gin.Context) int {
	return pagination.ParseNumber(c.Query("page"))
}

// fail 按错误类型映射响应；forbiddenTo 为无权限时的跳转目标
func (h *Handler) fail(c *gin.Context, err error, form interface{}, forbiddenTo string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		response.FormErrors(c, verr.Errors, form)
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrUnauthenticated):
		response.Redirect(c, middleware.LoginRedirect(h.reverse("login"), c.Request.URL.RequestURI()))
	case errors.Is(err, service.ErrForbidden):
		if forbiddenTo == "" {
			response.Forbidden(c, err.Error())
			return
		}
		response.Redirect(c, forbiddenTo)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, err.Error())
	default:
		middleware.CaptureError(c, err)
		response.InternalError(c, err)
	}
}
