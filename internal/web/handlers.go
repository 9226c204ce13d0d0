package web

import (
	"errors"
	"log"
	"net/http"

	"todoweb/internal/db/models"
	"todoweb/internal/todo"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// pageData is the template payload shared by all views.
type pageData struct {
	Flash    string
	Account  *models.Account
	Tasks    []*models.Task
	Task     *models.Task
	Input    todo.TaskInput
	Query    string
	SearchBy string
	Searched bool
}

// requireAccount resolves the current session. When the request is
// anonymous it writes a redirect to the login page and returns nil; the
// handler must stop.
func (s *Server) requireAccount(c echo.Context) (*models.Account, error) {
	account, err := s.sessions.Resolve(sessionToken(c))
	if err != nil {
		if errors.Is(err, todo.ErrUnauthenticated) {
			return nil, c.Redirect(http.StatusSeeOther, "/")
		}
		log.Printf("Error resolving session: %v", err)
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "could not resolve session")
	}
	return account, nil
}

func (s *Server) handleLoginPage(c echo.Context) error {
	// Already logged in, skip the form.
	if account, err := s.sessions.Resolve(sessionToken(c)); err == nil && account != nil {
		return c.Redirect(http.StatusSeeOther, "/homepage")
	}
	return c.Render(http.StatusOK, "login.html", pageData{Flash: popFlash(c)})
}

func (s *Server) handleLogin(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	_, token, err := s.sessions.Login(username, password)
	if err != nil {
		var verr *todo.ValidationError
		switch {
		case errors.As(err, &verr):
			setFlash(c, verr.Message)
		case errors.Is(err, todo.ErrInvalidCredentials):
			setFlash(c, "Invalid login credentials.")
		default:
			log.Printf("Error logging in %q: %v", username, err)
			setFlash(c, "Login failed, please try again.")
		}
		return c.Redirect(http.StatusSeeOther, "/")
	}

	setSessionCookie(c, token)
	return c.Redirect(http.StatusSeeOther, "/homepage")
}

func (s *Server) handleRegisterPage(c echo.Context) error {
	return c.Render(http.StatusOK, "register.html", pageData{Flash: popFlash(c)})
}

func (s *Server) handleRegister(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	match := c.FormValue("match")

	_, err := s.directory.Register(username, password, match)
	if err != nil {
		var verr *todo.ValidationError
		switch {
		case errors.As(err, &verr):
			setFlash(c, verr.Message)
		case errors.Is(err, todo.ErrDuplicateUsername):
			setFlash(c, "Username already exists.")
		default:
			log.Printf("Error registering %q: %v", username, err)
			setFlash(c, "Registration failed, please try again.")
		}
		return c.Redirect(http.StatusSeeOther, "/register")
	}

	setFlash(c, "Account created, please log in.")
	return c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleLogout(c echo.Context) error {
	if err := s.sessions.Logout(sessionToken(c)); err != nil {
		log.Printf("Error logging out: %v", err)
	}
	clearSessionCookie(c)
	return c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleHomepage(c echo.Context) error {
	account, err := s.requireAccount(c)
	if account == nil {
		return err
	}

	tasks, err := s.tasks.ListToday(account)
	if err != nil {
		log.Printf("Error listing today's tasks: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not load tasks")
	}
	return c.Render(http.StatusOK, "homepage.html", pageData{
		Flash:   popFlash(c),
		Account: account,
		Tasks:   tasks,
	})
}

func (s *Server) handleAll(c echo.Context) error {
	account, err := s.requireAccount(c)
	if account == nil {
		return err
	}

	tasks, err := s.tasks.ListOwned(account)
	if err != nil {
		log.Printf("Error listing tasks: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not load tasks")
	}
	return c.Render(http.StatusOK, "all.html", pageData{
		Flash:   popFlash(c),
		Account: account,
		Tasks:   tasks,
	})
}

func (s *Server) handleAddPage(c echo.Context) error {
	account, err := s.requireAccount(c)
	if account == nil {
		return err
	}
	return c.Render(http.StatusOK, "add.html", pageData{
		Flash:   popFlash(c),
		Account: account,
	})
}

func (s *Server) handleAdd(c echo.Context) error {
	account, err := s.requireAccount(c)
	if account == nil {
		return err
	}

	input := taskFormInput(c)
	if _, err := s.tasks.Add(account, input); err != nil {
		// Bad input re-renders the form with the submitted values intact.
		var verr *todo.ValidationError
		if errors.As(err, &verr) {
			return c.Render(http.StatusOK, "add.html", pageData{
				Flash:   verr.Message,
				Account: account,
				Input:   input,
			})
		}
		setFlash(c, taskErrorMessage(err, "Could not add the task."))
		return c.Redirect(http.StatusSeeOther, "/add")
	}
	setFlash(c, "Task added.")
	return c.Redirect(http.StatusSeeOther, "/homepage")
}

func (s *Server) handleEditPage(c echo.Context) error {
	account, err := s.requireAccount(c)
	if account == nil {
		return err
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		setFlash(c, "Task not found.")
		return c.Redirect(http.StatusSeeOther, "/all")
	}
	task, err := s.tasks.Get(account, taskID)
	if err != nil {
		setFlash(c, taskErrorMessage(err, "Could not load the task."))
		return c.Redirect(http.StatusSeeOther, "/all")
	}
	return c.Render(http.StatusOK, "edit.html", pageData{
		Flash:   popFlash(c),
		Account: account,
		Task:    task,
		Input: todo.TaskInput{
			Title:   task.Title,
			Content: task.Content,
			Label:   task.Label,
			Date:    task.Date,
			Time:    task.Time,
		},
	})
}

func (s *Server) handleEdit(c echo.Context) error {
	account, err := s.requireAccount(c)
	if account == nil {
		return err
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		setFlash(c, "Task not found.")
		return c.Redirect(http.StatusSeeOther, "/all")
	}
	input := taskFormInput(c)
	if _, err := s.tasks.Edit(account, taskID, input); err != nil {
		var verr *todo.ValidationError
		if errors.As(err, &verr) {
			return c.Render(http.StatusOK, "edit.html", pageData{
				Flash:   verr.Message,
				Account: account,
				Task:    &models.Task{ID: taskID},
				Input:   input,
			})
		}
		setFlash(c, taskErrorMessage(err, "Could not update the task."))
		return c.Redirect(http.StatusSeeOther, "/all")
	}
	setFlash(c, "Task updated.")
	return c.Redirect(http.StatusSeeOther, "/all")
}

func (s *Server) handleDelete(c echo.Context) error {
	account, err := s.requireAccount(c)
	if account == nil {
		return err
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		setFlash(c, "Task not found.")
		return c.Redirect(http.StatusSeeOther, "/all")
	}
	if err := s.tasks.Delete(account, taskID); err != nil {
		setFlash(c, taskErrorMessage(err, "Could not delete the task."))
		return c.Redirect(http.StatusSeeOther, "/all")
	}
	setFlash(c, "Task deleted.")
	return c.Redirect(http.StatusSeeOther, "/all")
}

func (s *Server) handleSearch(c echo.Context) error {
	account, err := s.requireAccount(c)
	if account == nil {
		return err
	}

	data := pageData{
		Flash:    popFlash(c),
		Account:  account,
		Query:    c.QueryParam("query"),
		SearchBy: c.QueryParam("search-by"),
	}

	// A bare GET shows the empty form; only a submitted form (which always
	// carries search-by) runs a query.
	if !c.QueryParams().Has("search-by") {
		return c.Render(http.StatusOK, "search.html", data)
	}

	results, err := s.tasks.Search(account, data.Query, data.SearchBy)
	if err != nil {
		var verr *todo.ValidationError
		if errors.As(err, &verr) {
			data.Flash = verr.Message
			return c.Render(http.StatusOK, "search.html", data)
		}
		log.Printf("Error searching tasks: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not search tasks")
	}
	data.Searched = true
	data.Tasks = results
	return c.Render(http.StatusOK, "search.html", data)
}

// taskFormInput pulls the five task fields out of the submitted form.
func taskFormInput(c echo.Context) todo.TaskInput {
	return todo.TaskInput{
		Title:   c.FormValue("title"),
		Content: c.FormValue("content"),
		Label:   c.FormValue("label"),
		Date:    c.FormValue("date"),
		Time:    c.FormValue("time"),
	}
}

// taskErrorMessage maps a task-layer error to a flash message.
func taskErrorMessage(err error, fallback string) string {
	var verr *todo.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.Is(err, todo.ErrNotFound):
		return "Task not found."
	case errors.Is(err, todo.ErrForbidden):
		return "That task belongs to another account."
	default:
		log.Printf("Task operation failed: %v", err)
		return fallback
	}
}
