package tasks

import (
	"github.com/goliatone/go-router"
)

// RouteRegistrar captures the router methods used for registration.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Patch(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// RouteMiddleware carries the guard middleware the routes compose. The
// middleware package depends on this one, so the handlers receive the
// guards already built instead of constructing them.
type RouteMiddleware struct {
	Authenticated router.MiddlewareFunc
	AdminOnly     router.MiddlewareFunc
	Invited       router.MiddlewareFunc
}

// RegisterAuthRoutes mounts the account and session routes. The invite
// redemption route takes the token as a path parameter, so it must be
// registered after the fixed /users paths to avoid shadowing them.
func RegisterAuthRoutes(group RouteRegistrar, c *AuthController, mw RouteMiddleware) {
	group.Post("/users/login", c.Login)
	group.Post("/users/logout", c.Logout, mw.Authenticated)
	group.Post("/users/forgotPassword", c.ForgotPassword)
	group.Patch("/users/resetPassword/:token", c.ResetPassword)
	group.Post("/users/invite", c.Invite, mw.Authenticated, mw.AdminOnly)
	group.Get("/users/me", c.Me, mw.Authenticated)
	group.Patch("/users/me", c.UpdateMe, mw.Authenticated)
	group.Post("/users/:token", c.Register, mw.Invited)
}

// RegisterTaskRoutes mounts the task routes. The admin listing is a fixed
// path registered before the parameterized routes.
func RegisterTaskRoutes(group RouteRegistrar, c *TaskController, mw RouteMiddleware) {
	group.Get("/tasks/all", c.ListAll, mw.Authenticated, mw.AdminOnly)
	group.Post("/tasks", c.Create, mw.Authenticated)
	group.Get("/tasks", c.List, mw.Authenticated)
	group.Get("/tasks/:id", c.Get, mw.Authenticated)
	group.Patch("/tasks/:id", c.Update, mw.Authenticated)
	group.Delete("/tasks/:id", c.Delete, mw.Authenticated)
}
