package model

import (
	"time"

	"gorm.io/gorm"
)

// ChildHistory is the append-only result history of one child.
// At most one row exists per ChildID; it is created lazily on the
// child's first submission.
type ChildHistory struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	ChildID   uint           `json:"child_id" gorm:"not null;uniqueIndex"`
	ChildName string         `json:"child_name" gorm:"not null"`
	Tests     []TestRecord   `json:"tests,omitempty" gorm:"foreignKey:ChildHistoryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TestRecord is one graded test. It is written exactly once per submission
// and never mutated afterwards.
type TestRecord struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	ChildHistoryID uint            `json:"-" gorm:"not null;index"`
	ParentID       *uint           `json:"parent_id,omitempty"`
	Exam           string          `json:"exam" gorm:"not null"`
	Subjects       []SubjectResult `json:"subjects" gorm:"foreignKey:TestRecordID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	OverallScore   int             `json:"overallScore" gorm:"not null"`
	Date           time.Time       `json:"date" gorm:"not null"`
	CreatedAt      time.Time       `json:"created_at"`
}

// SubjectResult is the per-subject breakdown within a TestRecord.
type SubjectResult struct {
	ID             uint         `gorm:"primarykey" json:"-"`
	TestRecordID   uint         `json:"-" gorm:"not null;index"`
	Subject        string       `json:"subject" gorm:"not null"`
	QuestionsCount int          `json:"questionsCount"`
	Correct        int          `json:"correct"`
	Total          int          `json:"total"`
	Percent        int          `json:"percent"`
	TopicBreakdown TopicTallies `json:"topicBreakdown" gorm:"type:jsonb"`
}
