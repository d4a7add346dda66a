package router

import (
	"fmt"
	"net/url"
	"strings"
)

const APIPrefix = "/api/v1"

// Route 具名路由，名字供重定向时反查 URL
type Route struct {
	Name   string
	Method string
	Path   string
}

var routes = []Route{
	{"index", "GET", "/"},
	{"group_list", "GET", "/group/:slug"},
	{"group_index", "GET", "/groups"},
	{"profile", "GET", "/profile/:username"},
	{"post_detail", "GET", "/posts/:post_id"},
	{"post_create", "POST", "/create"},
	{"post_edit", "POST", "/posts/:post_id/edit"},
	{"add_comment", "POST", "/posts/:post_id/comment"},
	{"follow_index", "GET", "/follow"},
	{"profile_follow", "POST", "/profile/:username/follow"},
	{"profile_unfollow", "POST", "/profile/:username/unfollow"},
	{"signup", "POST", "/auth/signup"},
	{"login", "POST", "/auth/login"},
	{"group_create", "POST", "/admin/groups"},
	{"cache_clear", "DELETE", "/admin/cache"},
}

var routesByName = func() map[string]Route {
	m := make(map[string]Route, len(routes))
	for _, r := range routes {
		m[r.Name] = r
	}
	return m
}()

// Routes 返回路由表副本
func Routes() []Route {
	return append([]Route(nil), routes...)
}

// Reverse 按顺序用 args 填充路径参数；名字未知或参数个数不符时 panic
func Reverse(name string, args ...string) string {
	r, ok := routesByName[name]
	if !ok {
		panic(fmt.Sprintf("router: no route named %q", name))
	}
	segments := strings.Split(r.Path, "/")
	i := 0
	for j, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		if i >= len(args) {
			panic(fmt.Sprintf("router: route %q needs more than %d args", name, len(args)))
		}
		segments[j] = url.PathEscape(args[i])
		i++
	}
	if i != len(args) {
		panic(fmt.Sprintf("router: route %q takes %d args, got %d", name, i, len(args)))
	}
	return APIPrefix + strings.Join(segments, "/")
}
