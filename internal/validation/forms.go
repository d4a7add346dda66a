package validation

import "strings"

// PostForm 创建/编辑帖子
type PostForm struct {
	Text    string `json:"text" form:"text" validate:"required"`
	GroupID string `json:"group" form:"group" validate:"omitempty,uuid"`
	Image   string `json:"image" form:"image" validate:"omitempty,max=255"`
}

func (f *PostForm) Clean() {
	f.Text = strings.TrimSpace(f.Text)
	f.GroupID = strings.TrimSpace(f.GroupID)
	f.Image = strings.TrimSpace(f.Image)
}

// Group 未选择分组时为 nil
func (f *PostForm) Group() *string {
	if f.GroupID == "" {
		return nil
	}
	g := f.GroupID
	return &g
}

// CommentForm 评论
type CommentForm struct {
	Text string `json:"text" form:"text" validate:"required"`
}

func (f *CommentForm) Clean() { f.Text = strings.TrimSpace(f.Text) }

// SignUpForm 注册
type SignUpForm struct {
	FirstName string `json:"first_name" form:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" form:"last_name" validate:"max=150"`
	Username  string `json:"username" form:"username" validate:"required,max=150,username"`
	Email     string `json:"email" form:"email" validate:"omitempty,email,max=254"`
	Password  string `json:"password" form:"password" validate:"required,min=8,max=128"`
}

func (f *SignUpForm) Clean() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
}

// LoginForm 登录
type LoginForm struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (f *LoginForm) Clean() { f.Username = strings.TrimSpace(f.Username) }

// GroupForm 创建分组（仅管理员）
type GroupForm struct {
	Title       string `json:"title" form:"title" validate:"required,max=200"`
	Slug        string `json:"slug" form:"slug" validate:"required,max=100,slug"`
	Description string `json:"description" form:"description"`
}

func (f *GroupForm) Clean() {
	f.Title = strings.TrimSpace(f.Title)
	f.Slug = strings.TrimSpace(f.Slug)
	f.Description = strings.TrimSpace(f.Description)
}
