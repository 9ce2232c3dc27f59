// Package server is the HTTP surface: gin routes, gates and JSON encoding
// around the services.
package server

import (
	"context"
	"net/http"

	"taskhub/internal/auth"
	"taskhub/internal/config"
	"taskhub/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators built once in main.
type Deps struct {
	Directory   *service.Directory
	Tasks       *service.Tasks
	Completions *service.Completions
	Tokens      *auth.Tokens
	Store       Pinger
	Log         *zap.SugaredLogger
}

type Server struct {
	cfg         config.Server
	directory   *service.Directory
	tasks       *service.Tasks
	completions *service.Completions
	tokens      *auth.Tokens
	store       Pinger
	log         *zap.SugaredLogger
	engine      *gin.Engine
}

func New(cfg config.Server, deps Deps) *Server {
	s := &Server{
		cfg:         cfg,
		directory:   deps.Directory,
		tasks:       deps.Tasks,
		completions: deps.Completions,
		tokens:      deps.Tokens,
		store:       deps.Store,
		log:         deps.Log,
	}
	s.engine = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	// Completion keys may carry escaped slashes.
	r.UseRawPath = true
	r.UnescapePathValues = true

	r.Use(requestLogger(s.log))
	r.Use(recovery(s.log))
	r.Use(corsMiddleware(s.cfg.AllowOrigins))

	r.GET("/healthz", s.healthz)

	// Public
	r.POST("/login", s.login)
	r.GET("/get_status/:token", s.getStatus)
	r.GET("/get_infoprocent_about_task/:group/:task_id", s.completionPercentage)

	admin := r.Group("/")
	admin.Use(s.adminOnly())
	{
		admin.POST("/register", s.register)
		admin.GET("/get_users", s.getUsers)
		admin.POST("/delete_user", s.deleteUser)
		admin.POST("/delete_group", s.deleteGroup)
		admin.GET("/get_users_add", s.getUsersAdd)
		admin.GET("/get_users_receive", s.getUsersReceive)
		admin.POST("/create_group/", s.createGroup)
		admin.GET("/get_groups/", s.getGroups)
		admin.POST("/edit_user/", s.editUser)
		admin.POST("/edit_group/", s.editGroup)
		admin.GET("/group_report/:group", s.groupReport)
	}

	member := r.Group("/")
	member.Use(s.authenticated())
	{
		member.GET("/get_my_groups", s.getMyGroups)
		member.GET("/get_my_info", s.getMyInfo)
		member.POST("/tasks", s.createTask)
		member.GET("/get_my_task", s.getMyTasks)
		member.GET("/get_my_created_task/", s.getMyCreatedTasks)
		member.POST("/push_task", s.pushTask)
		member.POST("/cancel_task", s.cancelTask)
		member.DELETE("/delete_task/:task_id", s.deleteTask)
		member.PUT("/update_task/", s.updateTask)
	}

	return r
}
