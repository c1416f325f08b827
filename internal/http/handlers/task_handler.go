package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"

	"github.com/IrinaBBB/TaskBoard/internal/domain"
	"github.com/IrinaBBB/TaskBoard/internal/http/dto"
	"github.com/IrinaBBB/TaskBoard/internal/service"
)

const (
	APIName    = "Welcome to the Task Manager API"
	APIVersion = "1.0.0"

	// GET by id answers without the trailing period, PUT and DELETE with it.
	msgTaskNotFound         = "Task not found"
	msgTaskNotFoundMutation = "Task not found."
	msgFieldsRequired       = "Title and description are required."
	msgInvalidJSON          = "Invalid JSON body."
	msgTaskDeleted          = "Task deleted successfully."
	msgInternal             = "internal server error"
)

type TaskService interface {
	ListTasks() []domain.Task
	GetTask(id int64) (domain.Task, error)
	CreateTask(title, description string) (domain.Task, error)
	UpdateTask(id int64, patch service.TaskPatch) (domain.Task, error)
	DeleteTask(id int64) error
}

type TaskHandler struct {
	taskService TaskService
}

func New(taskService TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// GET /
func (h *TaskHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, dto.WelcomeResponse{
		Message: APIName,
		Version: APIVersion,
		Endpoints: dto.WelcomeEndpoints{
			Tasks:    "/tasks",
			TaskByID: "/tasks/:id",
		},
	})
}

// GET /tasks
func (h *TaskHandler) List(c *gin.Context) {
	tasks := h.taskService.ListTasks()

	response := make([]dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		response = append(response, toResponse(task))
	}

	c.JSON(http.StatusOK, response)
}

// GET /tasks/{id}
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: msgTaskNotFound})
		return
	}

	task, err := h.taskService.GetTask(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: msgTaskNotFound})
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: msgInternal})
		}
		return
	}

	c.JSON(http.StatusOK, toResponse(task))
}

// POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := bindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgInvalidJSON})
		return
	}

	task, err := h.taskService.CreateTask(req.Title, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgFieldsRequired})
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: msgInternal})
		}
		return
	}

	c.JSON(http.StatusCreated, toResponse(task))
}

// PUT /tasks/{id}
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: msgTaskNotFoundMutation})
		return
	}

	var req dto.UpdateTaskRequest
	if err := bindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgInvalidJSON})
		return
	}

	task, err := h.taskService.UpdateTask(id, service.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: msgTaskNotFoundMutation})
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: msgInternal})
		}
		return
	}

	c.JSON(http.StatusOK, toResponse(task))
}

// DELETE /tasks/{id}
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: msgTaskNotFoundMutation})
		return
	}

	if err := h.taskService.DeleteTask(id); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: msgTaskNotFoundMutation})
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: msgInternal})
		}
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: msgTaskDeleted})
}

// NotFound answers every unmatched route.
func NotFound(c *gin.Context) {
	c.String(http.StatusNotFound, "Not Found")
}

func toResponse(task domain.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
	}
}

// bindJSON treats an empty body as {}.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// parseID reads an id the lenient way clients of this API expect: leading
// whitespace and an optional sign are accepted, then the leading run of
// digits is used and the rest ignored ("2abc" is 2). No digits means no id.
func parseID(raw string) (int64, bool) {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)

	sign := ""
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = "-"
		}
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}

	id, err := strconv.ParseInt(sign+s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
