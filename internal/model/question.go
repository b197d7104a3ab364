package model

import (
	"time"

	"gorm.io/gorm"
)

type Question struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	Exam          string         `json:"exam" gorm:"not null;index:idx_questions_exam_subject"`
	Subject       string         `json:"subject" gorm:"not null;index:idx_questions_exam_subject"`
	Topic         string         `json:"topic"`
	Prompt        string         `json:"question" gorm:"type:text;not null"`
	Options       StringList     `json:"options" gorm:"type:jsonb;not null"`
	CorrectOption string         `json:"answer" gorm:"not null"`
	ImageRef      *string        `json:"image,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
