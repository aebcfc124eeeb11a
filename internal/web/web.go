// Package web serves the server-rendered task board pages.
package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"taskboard/internal/auth"
	"taskboard/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	cookieName  = "taskboard_token"
	identityKey = auth.ContextKey
	homePath    = "/Boards/All"
	loginPath   = "/Users/Login"
)

type taskForm struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description" binding:"required"`
	BoardID     uint   `form:"boardId" binding:"required"`
}

type deleteForm struct {
	ID uint `form:"id" binding:"required"`
}

type searchForm struct {
	Keyword string `form:"keyword"`
}

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// taskView is the compact row shown in search results.
type taskView struct {
	ID          uint
	Title       string
	Description string
	Owner       string
}

// Controller renders the MVC pages.
type Controller struct {
	tasks  *service.TaskService
	boards *service.BoardService
	auth   *auth.Authenticator
	secure bool
}

func NewController(tasks *service.TaskService, boards *service.BoardService, authenticator *auth.Authenticator) *Controller {
	return &Controller{tasks: tasks, boards: boards, auth: authenticator}
}

// SecureCookies marks the session cookie as HTTPS-only.
func (ctl *Controller) SecureCookies(secure bool) {
	ctl.secure = secure
}

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("pages").ParseFS(templateFS, "templates/*.html"))
}

// Register installs the page templates and routes on router.
func Register(router *gin.Engine, ctl *Controller) {
	router.SetHTMLTemplate(Templates())

	router.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, homePath) })
	router.GET(loginPath, ctl.loginPage)
	router.POST(loginPath, ctl.login)
	router.POST("/Users/Logout", ctl.logout)

	pages := router.Group("", ctl.requireLogin)
	pages.GET(homePath, ctl.allBoards)

	tasks := pages.Group("/Tasks")
	{
		tasks.GET("/Details/:id", ctl.details)
		tasks.GET("/Create", ctl.createPage)
		tasks.POST("/Create", ctl.create)
		tasks.POST("/Delete", ctl.delete)
		tasks.GET("/Search", ctl.search)
		tasks.POST("/Search", ctl.search)
	}
}

func (ctl *Controller) requireLogin(c *gin.Context) {
	token, err := c.Cookie(cookieName)
	if err == nil {
		var id auth.Identity
		if id, err = ctl.auth.Verify(token); err == nil {
			c.Set(identityKey, id)
			c.Next()
			return
		}
	}
	c.Redirect(http.StatusFound, loginPath)
	c.Abort()
}

func currentUser(c *gin.Context) auth.Identity {
	id, _ := c.MustGet(identityKey).(auth.Identity)
	return id
}

func (ctl *Controller) render(c *gin.Context, status int, name, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	if id, ok := c.Get(identityKey); ok {
		data["User"] = id.(auth.Identity).Username
	}
	c.HTML(status, name, data)
}

func (ctl *Controller) renderError(c *gin.Context, status int, err error) {
	msg := http.StatusText(status)
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		msg = svcErr.Msg
	} else if err != nil {
		_ = c.Error(err)
	}
	ctl.render(c, status, "error", http.StatusText(status), gin.H{"Message": msg})
}

func (ctl *Controller) loginPage(c *gin.Context) {
	ctl.render(c, http.StatusOK, "users/login", "Log in", nil)
}

func (ctl *Controller) login(c *gin.Context) {
	var form loginForm
	_ = c.ShouldBind(&form)

	session, err := ctl.auth.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			ctl.render(c, http.StatusUnauthorized, "users/login", "Log in", gin.H{
				"Error":    "Invalid username or password.",
				"Username": form.Username,
			})
			return
		}
		ctl.renderError(c, http.StatusInternalServerError, err)
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, session.Token, maxAge, "/", "", ctl.secure, true)
	c.Redirect(http.StatusFound, homePath)
}

func (ctl *Controller) logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, "", -1, "/", "", ctl.secure, true)
	c.Redirect(http.StatusFound, loginPath)
}

func (ctl *Controller) allBoards(c *gin.Context) {
	boards, err := ctl.boards.All(c.Request.Context())
	if err != nil {
		ctl.renderError(c, http.StatusInternalServerError, err)
		return
	}
	ctl.render(c, http.StatusOK, "boards/all", "All boards", gin.H{"Boards": boards})
}

// details answers a missing task with 400, as the delete form does.
func (ctl *Controller) details(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		ctl.renderError(c, http.StatusBadRequest, nil)
		return
	}
	task, err := ctl.tasks.Get(c.Request.Context(), uint(id))
	if err != nil {
		ctl.renderError(c, statusFor(err), err)
		return
	}
	ctl.render(c, http.StatusOK, "tasks/details", "Task details", gin.H{"Task": task})
}

func (ctl *Controller) createPage(c *gin.Context) {
	ctl.renderCreateForm(c, http.StatusOK, taskForm{}, nil)
}

func (ctl *Controller) create(c *gin.Context) {
	var form taskForm
	if err := c.ShouldBind(&form); err != nil {
		ctl.renderCreateForm(c, http.StatusBadRequest, form, formProblems(err))
		return
	}

	_, err := ctl.tasks.Create(c.Request.Context(), currentUser(c), service.TaskInput{
		Title:       form.Title,
		Description: form.Description,
		Board:       service.BoardRef{ID: form.BoardID},
	})
	if err != nil {
		if errors.Is(err, service.ErrBadRequest) {
			ctl.renderCreateForm(c, http.StatusBadRequest, form, []string{err.Error()})
			return
		}
		ctl.renderError(c, statusFor(err), err)
		return
	}
	c.Redirect(http.StatusFound, homePath)
}

// formProblems turns a binding failure into messages for the form.
func formProblems(err error) []string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{"Invalid input."}
	}
	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Field()
		if field == "BoardID" {
			field = "Board"
		}
		if fe.Tag() == "required" {
			problems = append(problems, field+" is required.")
		} else {
			problems = append(problems, field+" is invalid.")
		}
	}
	return problems
}

func (ctl *Controller) renderCreateForm(c *gin.Context, status int, form taskForm, problems []string) {
	boards, err := ctl.boards.Options(c.Request.Context())
	if err != nil {
		ctl.renderError(c, http.StatusInternalServerError, err)
		return
	}
	ctl.render(c, status, "tasks/create", "Create task", gin.H{
		"Form":   form,
		"Boards": boards,
		"Errors": problems,
	})
}

func (ctl *Controller) delete(c *gin.Context) {
	var form deleteForm
	if err := c.ShouldBind(&form); err != nil {
		ctl.renderError(c, http.StatusBadRequest, nil)
		return
	}
	if _, err := ctl.tasks.Delete(c.Request.Context(), currentUser(c), form.ID); err != nil {
		ctl.renderError(c, statusFor(err), err)
		return
	}
	c.Redirect(http.StatusFound, homePath)
}

func (ctl *Controller) search(c *gin.Context) {
	var form searchForm
	_ = c.ShouldBind(&form)

	tasks, err := ctl.tasks.Search(c.Request.Context(), form.Keyword)
	if err != nil {
		ctl.renderError(c, statusFor(err), err)
		return
	}
	views := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, taskView{ID: t.ID, Title: t.Title, Description: t.Description, Owner: t.Owner.Username})
	}
	ctl.render(c, http.StatusOK, "tasks/search", "Search tasks", gin.H{
		"Keyword": form.Keyword,
		"Tasks":   views,
	})
}

// statusFor maps service errors onto page status codes. Missing tasks are
// reported as 400 on the MVC surface.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
