package service

import (
	"testing"

	"github.com/nkechi/Smartprep/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddQuestions_AssignsIDsAndEchoesBack(t *testing.T) {
	repo := newFakeQuestionRepo()
	svc := NewQuestionService(repo)

	created, err := svc.AddQuestions([]dto.QuestionCreateDTO{
		{
			Exam:          "WAEC",
			Subject:       "Chemistry",
			Topic:         "Acids",
			Prompt:        "Which of these is an acid?",
			Options:       []string{"HCl", "NaOH", "NaCl", "H2O"},
			CorrectOption: "HCl",
		},
		{
			Exam:          "WAEC",
			Subject:       "Chemistry",
			Prompt:        "Water boils at?",
			Options:       []string{"90C", "100C"},
			CorrectOption: "100C",
		},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, uint(1), created[0].ID)
	assert.Equal(t, uint(2), created[1].ID)
	assert.Equal(t, "Which of these is an acid?", created[0].Prompt)
	assert.Equal(t, []string{"HCl", "NaOH", "NaCl", "H2O"}, created[0].Options)
}

func TestUpdateQuestion_AppliesOnlyProvidedFields(t *testing.T) {
	repo := newFakeQuestionRepo(mathQuestions(1, "WAEC", "Mathematics")...)
	svc := NewQuestionService(repo)

	newPrompt := "What is 2 + 2?"
	newAnswer := "C"
	updated, err := svc.UpdateQuestion(1, dto.QuestionUpdateDTO{
		Prompt:        &newPrompt,
		CorrectOption: &newAnswer,
	})
	require.NoError(t, err)
	assert.Equal(t, "What is 2 + 2?", updated.Prompt)
	assert.Equal(t, "WAEC", updated.Exam)
	assert.Equal(t, "Mathematics", updated.Subject)
	assert.Equal(t, "C", repo.questions[0].CorrectOption)
}

func TestUpdateQuestion_UnknownID(t *testing.T) {
	svc := NewQuestionService(newFakeQuestionRepo())

	_, err := svc.UpdateQuestion(99, dto.QuestionUpdateDTO{})
	assert.Error(t, err)
}

func TestDeleteQuestion_RemovesFromBank(t *testing.T) {
	repo := newFakeQuestionRepo(mathQuestions(2, "WAEC", "Mathematics")...)
	svc := NewQuestionService(repo)

	require.NoError(t, svc.DeleteQuestion(1))
	assert.Len(t, repo.questions, 1)

	assert.Error(t, svc.DeleteQuestion(1))
}

func TestGetQuestions_FiltersByExamAndSubject(t *testing.T) {
	bank := mathQuestions(3, "WAEC", "Mathematics")
	bank = append(bank, mathQuestions(2, "BECE", "Mathematics")...)
	repo := newFakeQuestionRepo(bank...)
	svc := NewQuestionService(repo)

	waec, err := svc.GetQuestions("WAEC", "Mathematics")
	require.NoError(t, err)
	assert.Len(t, waec, 3)

	all, err := svc.GetQuestions("BECE", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
