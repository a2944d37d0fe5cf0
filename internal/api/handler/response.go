package handler

import "github.com/buildtrack/procurement-api/internal/core/domain"

// successResponse is the envelope of every successful API response.
type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func ok(message string, data any) successResponse {
	return successResponse{Success: true, Message: message, Data: data}
}

// authData is returned by register and login.
type authData struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

type userData struct {
	User *domain.User `json:"user"`
}

type usersData struct {
	Users []*domain.User `json:"users"`
}

type tokenData struct {
	Token string `json:"token"`
}

type projectData struct {
	Project *domain.Project `json:"project"`
}
