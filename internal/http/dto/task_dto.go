package dto

// CreateTaskRequest ignores any client supplied id.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateTaskRequest fields are optional; empty means "keep".
type UpdateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type TaskResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type WelcomeResponse struct {
	Message   string           `json:"message"`
	Version   string           `json:"version"`
	Endpoints WelcomeEndpoints `json:"endpoints"`
}

type WelcomeEndpoints struct {
	Tasks    string `json:"tasks"`
	TaskByID string `json:"taskById"`
}
