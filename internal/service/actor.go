package service

import "github.com/d60-Lab/gin-blog/internal/model"

// Actor 发起操作的用户；零值即匿名
type Actor struct {
	ID       string
	Username string
	IsStaff  bool
}

// Anonymous 未登录访客
var Anonymous = Actor{}

func (a Actor) IsAuthenticated() bool { return a.ID != "" }

// ActorFromUser 由已认证用户构造 Actor
func ActorFromUser(u *model.User) Actor {
	if u == nil {
		return Anonymous
	}
	return Actor{ID: u.ID, Username: u.Username, IsStaff: u.IsStaff}
}
