package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taskboard/internal/auth"
	"taskboard/internal/service"
)

type errorMsg struct {
	Message string `json:"message"`
}

type taskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Board       string `json:"board" binding:"required"`
}

func (r taskRequest) input() service.TaskInput {
	return service.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		Board:       service.BoardRef{Name: r.Board},
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
}

// Handler serves the JSON API.
type Handler struct {
	tasks  *service.TaskService
	boards *service.BoardService
	auth   *auth.Authenticator
}

func NewHandler(tasks *service.TaskService, boards *service.BoardService, authenticator *auth.Authenticator) *Handler {
	return &Handler{tasks: tasks, boards: boards, auth: authenticator}
}

// Register wires up all API routes on the provided router.
// Unexpected failures are attached to the gin context for RequestLogger.
func Register(router *gin.Engine, h *Handler) {
	router.GET("/healthz", h.healthz)

	api := router.Group("/api")
	api.POST("/users/login", h.login)

	protected := api.Group("", BearerAuth(h.auth))
	protected.GET("/boards", h.getBoards)

	tasks := protected.Group("/tasks")
	{
		tasks.GET("", h.getTasks)
		tasks.GET("/:id", h.getTaskByID)
		tasks.GET("/search/:keyword", h.getTasksByKeyword)
		tasks.GET("/board/:boardName", h.getTasksByBoardName)
		tasks.POST("/create", h.createTask)
		tasks.PUT("/:id", h.updateTask)
		tasks.DELETE("/:id", h.deleteTask)
	}
}

func (h *Handler) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "available"})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorMsg{Message: "Username and password are required."})
		return
	}
	session, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, errorMsg{Message: "Invalid username or password."})
			return
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		UserID:    session.Identity.UserID,
		Username:  session.Identity.Username,
	})
}

func (h *Handler) getBoards(c *gin.Context) {
	boards, err := h.boards.All(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, boards)
}

func (h *Handler) getTasks(c *gin.Context) {
	tasks, err := h.tasks.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) getTaskByID(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	task, err := h.tasks.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) getTasksByKeyword(c *gin.Context) {
	tasks, err := h.tasks.Search(c.Request.Context(), c.Param("keyword"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) getTasksByBoardName(c *gin.Context) {
	tasks, err := h.tasks.ListByBoard(c.Request.Context(), c.Param("boardName"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) createTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorMsg{Message: "Invalid input: " + err.Error()})
		return
	}
	task, err := h.tasks.Create(c.Request.Context(), identity(c), req.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/tasks/%d", task.ID))
	c.JSON(http.StatusCreated, task)
}

func (h *Handler) updateTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorMsg{Message: "Invalid input: " + err.Error()})
		return
	}
	if err := h.tasks.Update(c.Request.Context(), identity(c), id, req.input()); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	task, err := h.tasks.Delete(c.Request.Context(), identity(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// taskID parses the :id path parameter. Ids that cannot name a task are
// answered with 404 like any other missing task.
func taskID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, errorMsg{Message: fmt.Sprintf("Task #%s not found.", raw)})
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorMsg{Message: err.Error()})
	case errors.Is(err, service.ErrBadRequest):
		c.JSON(http.StatusBadRequest, errorMsg{Message: err.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, errorMsg{Message: err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, errorMsg{Message: "Internal server error."})
	}
}
