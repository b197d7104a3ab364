package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	UserTypeParent = "parent"
	UserTypeChild  = "child"
)

type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	ParentID  *uint          `json:"parent_id,omitempty" gorm:"index"`
	Name      string         `json:"name" gorm:"not null"`
	Username  string         `json:"username" gorm:"not null;uniqueIndex"`
	Password  string         `json:"-" gorm:"not null"`
	ExamType  string         `json:"exam_type,omitempty"`
	UserType  string         `json:"user_type" gorm:"not null"` // "parent" or "child"
	LoggedIn  bool           `json:"logged_in"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
