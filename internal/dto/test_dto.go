package dto

import "time"

// --- DTOs for the live exam session ---

// StartTestDTO is the request for starting a timed test session.
type StartTestDTO struct {
	ChildID   uint     `json:"child_id" binding:"required"`
	ChildName string   `json:"child_name" binding:"required"`
	ParentID  *uint    `json:"parent_id"`
	Exam      string   `json:"exam" binding:"required"`
	Subjects  []string `json:"subjects" binding:"required,min=1,dive,required"`
}

// SessionQuestionDTO is a question as shown to the test-taker.
// The correct option is deliberately withheld.
type SessionQuestionDTO struct {
	ID            uint     `json:"id"`
	DisplayNumber int      `json:"displayNumber"`
	Subject       string   `json:"subject"`
	Topic         string   `json:"topic,omitempty"`
	Prompt        string   `json:"question"`
	Options       []string `json:"options"`
	ImageRef      *string  `json:"image,omitempty"`
}

// SessionDTO describes the current state of a live session.
type SessionDTO struct {
	SessionID        string                          `json:"session_id"`
	ChildID          uint                            `json:"child_id"`
	Exam             string                          `json:"exam"`
	Subjects         []string                        `json:"subjects"`
	Questions        map[string][]SessionQuestionDTO `json:"questions,omitempty"`
	SubjectIndex     int                             `json:"subject_index"`
	QuestionIndex    int                             `json:"question_index"`
	RemainingSeconds int                             `json:"remaining_seconds"`
	State            string                          `json:"state"`
}

// AnswerDTO records one chosen option for a question in the session.
type AnswerDTO struct {
	Subject    string `json:"subject" binding:"required"`
	QuestionID uint   `json:"question_id" binding:"required"`
	Option     string `json:"option" binding:"required"`
}

// --- DTOs for graded results ---

type SubjectResultDTO struct {
	Subject        string                   `json:"subject"`
	QuestionsCount int                      `json:"questionsCount"`
	Correct        int                      `json:"correct"`
	Total          int                      `json:"total"`
	Percent        int                      `json:"percent"`
	TopicBreakdown map[string]TopicTallyDTO `json:"topicBreakdown"`
}

type TopicTallyDTO struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

type TestRecordDTO struct {
	ID           uint               `json:"id"`
	Exam         string             `json:"exam"`
	Subjects     []SubjectResultDTO `json:"subjects"`
	OverallScore int                `json:"overallScore"`
	Date         time.Time          `json:"date"`
}

type ChildHistoryDTO struct {
	ID        uint            `json:"id"`
	ChildID   uint            `json:"childId"`
	ChildName string          `json:"childName"`
	Tests     []TestRecordDTO `json:"tests"`
}

// TestSubmitDTO is the wire payload accepted by POST /test/submit. It mirrors
// what the original portal's client sends: an already-shaped TestRecord plus
// the child identifiers.
type TestSubmitDTO struct {
	ChildID      uint               `json:"childId" binding:"required"`
	ChildName    string             `json:"childName" binding:"required"`
	ParentID     *uint              `json:"parentId"`
	Exam         string             `json:"exam" binding:"required"`
	Subjects     []SubjectResultDTO `json:"subjects" binding:"required,dive"`
	OverallScore int                `json:"overallScore"`
	Date         *time.Time         `json:"date"`
}

// ResultsResponse wraps a child's histories. Consumers of the original API
// accept either a bare list or this wrapped shape; we always wrap.
type ResultsResponse struct {
	Results []ChildHistoryDTO `json:"results"`
}
