package dto

import "time"

type QuestionResponseDTO struct {
	ID            uint      `json:"id"`
	Exam          string    `json:"exam"`
	Subject       string    `json:"subject"`
	Topic         string    `json:"topic,omitempty"`
	Prompt        string    `json:"question"`
	Options       []string  `json:"options"`
	CorrectOption string    `json:"answer"`
	ImageRef      *string   `json:"image,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type UserResponseDTO struct {
	ID       uint   `json:"id"`
	ParentID *uint  `json:"parentId,omitempty"`
	Name     string `json:"name"`
	Username string `json:"username"`
	ExamType string `json:"examType,omitempty"`
	UserType string `json:"userType"`
}

type LoginResponse struct {
	Message string          `json:"message"`
	User    UserResponseDTO `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
