package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-blog/internal/api/middleware"
	"github.com/d60-Lab/gin-blog/pkg/response"
)

// ProfileFollow 关注作者
// @Summary 关注作者
// @Description 重复关注或关注自己都直接返回成功
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param username path string true "作者用户名"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/profile/{username}/follow [post]
func (h *Handler) ProfileFollow(c *gin.Context) {
	author, err := h.follows.Follow(c.Request.Context(), middleware.CurrentActor(c), c.Param("username"))
	if err != nil {
		h.fail(c, err, nil, "")
		return
	}
	response.Success(c, writeResult{Data: author, Next: h.reverse("profile", author.Username)})
}

// ProfileUnfollow 取消关注
// @Summary 取消关注
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param username path string true "作者用户名"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/profile/{username}/unfollow [post]
func (h *Handler) ProfileUnfollow(c *gin.Context) {
	author, err := h.follows.Unfollow(c.Request.Context(), middleware.CurrentActor(c), c.Param("username"))
	if err != nil {
		h.fail(c, err, nil, "")
		return
	}
	response.Success(c, writeResult{Data: author, Next: h.reverse("profile", author.Username)})
}
