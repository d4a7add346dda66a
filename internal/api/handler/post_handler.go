package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-blog/internal/api/middleware"
	"github.com/d60-Lab/gin-blog/internal/validation"
	"github.com/d60-Lab/gin-blog/pkg/response"
)

// PostDetail 帖子详情
// @Summary 帖子详情
// @Description 帖子、评论以及作者的帖子总数
// @Tags 帖子
// @Produce json
// @Param post_id path string true "帖子ID"
// @Success 200 {object} response.Response{data=service.PostDetail}
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{post_id} [get]
func (h *Handler) PostDetail(c *gin.Context) {
	detail, err := h.posts.Detail(c.Request.Context(), c.Param("post_id"))
	if err != nil {
		h.fail(c, err, nil, "")
		return
	}
	response.Success(c, detail)
}

// PostCreate 发帖
// @Summary 发帖
// @Tags 帖子
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body validation.PostForm true "帖子内容"
// @Success 201 {object} response.Response
// @Success 200 {object} response.Response "表单错误"
// @Success 302 "未登录跳转登录页"
// @Router /api/v1/create [post]
func (h *Handler) PostCreate(c *gin.Context) {
	var form validation.PostForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	actor := middleware.CurrentActor(c)
	post, err := h.posts.Create(c.Request.Context(), actor, form)
	if err != nil {
		h.fail(c, err, form, "")
		return
	}
	response.Created(c, writeResult{Data: post, Next: h.reverse("profile", actor.Username)})
}

// PostEdit 编辑帖子，仅作者可操作
// @Summary 编辑帖子
// @Description 非作者请求会被重定向到帖子详情
// @Tags 帖子
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param post_id path string true "帖子ID"
// @Param request body validation.PostForm true "帖子内容"
// @Success 200 {object} response.Response
// @Success 302 "非作者跳转详情页"
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{post_id}/edit [post]
func (h *Handler) PostEdit(c *gin.Context) {
	postID := c.Param("post_id")
	var form validation.PostForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	post, err := h.posts.Edit(c.Request.Context(), middleware.CurrentActor(c), postID, form)
	if err != nil {
		h.fail(c, err, form, h.reverse("post_detail", postID))
		return
	}
	response.Success(c, writeResult{Data: post, Next: h.reverse("post_detail", postID)})
}

// AddComment 评论
// @Summary 发表评论
// @Tags 帖子
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param post_id path string true "帖子ID"
// @Param request body validation.CommentForm true "评论内容"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{post_id}/comment [post]
func (h *Handler) AddComment(c *gin.Context) {
	postID := c.Param("post_id")
	var form validation.CommentForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	comment, err := h.comments.Add(c.Request.Context(), middleware.CurrentActor(c), postID, form)
	if err != nil {
		h.fail(c, err, form, "")
		return
	}
	response.Created(c, writeResult{Data: comment, Next: h.reverse("post_detail", postID)})
}
