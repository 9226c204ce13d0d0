// Package web is the presentation layer: echo routes, form parsing,
// server-rendered templates, redirects, and flash messages. All task and
// account semantics live in internal/todo.
package web

import (
	"context"
	"embed"
	"html/template"
	"io"

	"todoweb/internal/todo"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

type Server struct {
	echo      *echo.Echo
	directory *todo.Directory
	sessions  *todo.Sessions
	tasks     *todo.Tasks
}

type renderer struct {
	templates *template.Template
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

func New(directory *todo.Directory, sessions *todo.Sessions, tasks *todo.Tasks) (*Server, error) {
	templates, err := template.New("").Funcs(template.FuncMap{
		"displayDate": todo.DisplayDate,
		"displayTime": todo.DisplayTime,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = &renderer{templates: templates}
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	s := &Server{
		echo:      e,
		directory: directory,
		sessions:  sessions,
		tasks:     tasks,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.echo.GET("/", s.handleLoginPage)
	s.echo.POST("/login", s.handleLogin)
	s.echo.GET("/register", s.handleRegisterPage)
	s.echo.POST("/register", s.handleRegister)
	s.echo.GET("/logout", s.handleLogout)

	s.echo.GET("/homepage", s.handleHomepage)
	s.echo.GET("/all", s.handleAll)
	s.echo.GET("/add", s.handleAddPage)
	s.echo.POST("/add", s.handleAdd)
	s.echo.GET("/edit/:id", s.handleEditPage)
	s.echo.POST("/edit/:id", s.handleEdit)
	s.echo.POST("/delete/:id", s.handleDelete)
	s.echo.GET("/search", s.handleSearch)
}

// Start serves HTTP on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
