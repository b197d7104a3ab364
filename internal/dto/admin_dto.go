package dto

// QuestionCreateDTO is one question in an admin upload batch.
type QuestionCreateDTO struct {
	Exam          string   `json:"exam" binding:"required"`
	Subject       string   `json:"subject" binding:"required"`
	Topic         string   `json:"topic"`
	Prompt        string   `json:"question" binding:"required"`
	Options       []string `json:"options" binding:"required,min=2,dive,required"`
	CorrectOption string   `json:"answer" binding:"required"`
	ImageRef      *string  `json:"image"`
}

// QuestionUpdateDTO carries partial edits to an existing question.
// Nil fields are left untouched.
type QuestionUpdateDTO struct {
	Exam          *string   `json:"exam"`
	Subject       *string   `json:"subject"`
	Topic         *string   `json:"topic"`
	Prompt        *string   `json:"question"`
	Options       *[]string `json:"options"`
	CorrectOption *string   `json:"answer"`
	ImageRef      *string   `json:"image"`
}
