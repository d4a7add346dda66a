package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-blog/internal/api/middleware"
	"github.com/d60-Lab/gin-blog/pkg/response"
)

// Index 首页，整页缓存
// @Summary 全部帖子
// @Description 响应整体缓存 20 秒，期间新增或删除帖子不会反映到首页
// @Tags 帖子流
// @Produce json
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=service.PostPage}
// @Router /api/v1/ [get]
func (h *Handler) Index(c *gin.Context) {
	number := pageNumber(c)
	body, err := h.feeds.RenderIndex(c.Request.Context(), c.Request.URL.Query(), func(ctx context.Context) ([]byte, error) {
		page, err := h.feeds.Index(ctx, number)
		if err != nil {
			return nil, err
		}
		return json.Marshal(response.Response{Code: response.CodeOK, Message: "ok", Data: page})
	})
	if err != nil {
		h.fail(c, err, nil, "")
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// GroupList 分组下的帖子
// @Summary 分组帖子
// @Tags 帖子流
// @Produce json
// @Param slug path string true "分组 slug"
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=service.GroupFeed}
// @Failure 404 {object} response.Response
// @Router /api/v1/group/{slug} [get]
func (h *Handler) GroupList(c *gin.Context) {
	feed, err := h.feeds.Group(c.Request.Context(), c.Param("slug"), pageNumber(c))
	if err != nil {
		h.fail(c, err, nil, "")
		return
	}
	response.Success(c, feed)
}

// Profile 个人主页
// @Summary 作者主页
// @Tags 帖子流
// @Produce json
// @Security BearerAuth
// @Param username path string true "用户名"
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=service.ProfileFeed}
// @Failure 404 {object} response.Response
// @Router /api/v1/profile/{username} [get]
func (h *Handler) Profile(c *gin.Context) {
	feed, err := h.feeds.Profile(c.Request.Context(), middleware.CurrentActor(c), c.Param("username"), pageNumber(c))
	if err != nil {
		h.fail(c, err, nil, "")
		return
	}
	response.Success(c, feed)
}

// FollowIndex 关注作者的帖子
// @Summary 关注流
// @Tags 帖子流
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=service.PostPage}
// @Success 302 "未登录跳转登录页"
// @Router /api/v1/follow [get]
func (h *Handler) FollowIndex(c *gin.Context) {
	page, err := h.feeds.Following(c.Request.Context(), middleware.CurrentActor(c), pageNumber(c))
	if err != nil {
		h.fail(c, err, nil, "")
		return
	}
	response.Success(c, page)
}
