package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-blog/internal/service"
	"github.com/d60-Lab/gin-blog/internal/validation"
	"github.com/d60-Lab/gin-blog/pkg/response"
)

// SignUp 注册
// @Summary 注册
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body validation.SignUpForm true "注册信息"
// @Success 201 {object} response.Response{data=service.Account}
// @Success 200 {object} response.Response "表单错误"
// @Router /api/v1/auth/signup [post]
func (h *Handler) SignUp(c *gin.Context) {
	var form validation.SignUpForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, err := h.users.SignUp(c.Request.Context(), form)
	if err != nil {
		form.Password = ""
		h.fail(c, err, form, "")
		return
	}
	response.Created(c, writeResult{Data: service.AccountOf(user), Next: h.reverse("index")})
}

// Login 登录，返回 JWT
// @Summary 登录
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body validation.LoginForm true "用户名与密码"
// @Param next query string false "登录后跳转地址"
// @Success 200 {object} response.Response{data=service.Session}
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var form validation.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	sess, err := h.users.Login(c.Request.Context(), form)
	if err != nil {
		form.Password = ""
		h.fail(c, err, form, "")
		return
	}
	next := c.Query("next")
	if next == "" {
		next = h.reverse("index")
	}
	response.Success(c, writeResult{Data: sess, Next: next})
}
