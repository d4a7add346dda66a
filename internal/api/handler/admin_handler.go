package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-blog/internal/api/middleware"
	"github.com/d60-Lab/gin-blog/internal/validation"
	"github.com/d60-Lab/gin-blog/pkg/response"
)

// GroupIndex 全部分组
// @Summary 分组列表
// @Tags 分组
// @Produce json
// @Success 200 {object} response.Response{data=[]model.Group}
// @Router /api/v1/groups [get]
func (h *Handler) GroupIndex(c *gin.Context) {
	groups, err := h.groups.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, nil, "")
		return
	}
	response.Success(c, groups)
}

// GroupCreate 创建分组（管理员）
// @Summary 创建分组
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body validation.GroupForm true "分组信息"
// @Success 201 {object} response.Response{data=model.Group}
// @Failure 403 {object} response.Response
// @Router /api/v1/admin/groups [post]
func (h *Handler) GroupCreate(c *gin.Context) {
	var form validation.GroupForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	group, err := h.groups.Create(c.Request.Context(), middleware.CurrentActor(c), form)
	if err != nil {
		h.fail(c, err, form, "")
		return
	}
	response.Created(c, writeResult{Data: group, Next: h.reverse("group_list", group.Slug)})
}

// CacheClear 清空首页缓存
// @Summary 清空首页缓存
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/admin/cache [delete]
func (h *Handler) CacheClear(c *gin.Context) {
	if err := h.feeds.ClearIndexCache(c.Request.Context()); err != nil {
		h.fail(c, err, nil, "")
		return
	}
	response.Success(c, nil)
}
