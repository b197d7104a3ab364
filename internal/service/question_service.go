package service

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/nkechi/Smartprep/internal/dto"
	"github.com/nkechi/Smartprep/internal/model"
	"github.com/nkechi/Smartprep/internal/repository"
	"github.com/rs/zerolog/log"
)

// QuestionService covers the admin side of the question bank plus the
// filtered retrieval used by exam assembly and the client.
type QuestionService interface {
	AddQuestions(reqs []dto.QuestionCreateDTO) ([]dto.QuestionResponseDTO, error)
	UpdateQuestion(id uint, req dto.QuestionUpdateDTO) (*dto.QuestionResponseDTO, error)
	DeleteQuestion(id uint) error
	GetQuestions(exam, subject string) ([]dto.QuestionResponseDTO, error)
}

type questionService struct {
	questionRepo repository.QuestionRepository
}

func NewQuestionService(questionRepo repository.QuestionRepository) QuestionService {
	return &questionService{questionRepo: questionRepo}
}

func (s *questionService) AddQuestions(reqs []dto.QuestionCreateDTO) ([]dto.QuestionResponseDTO, error) {
	questions := make([]model.Question, 0, len(reqs))
	for _, req := range reqs {
		questions = append(questions, model.Question{
			Exam:          req.Exam,
			Subject:       req.Subject,
			Topic:         req.Topic,
			Prompt:        req.Prompt,
			Options:       model.StringList(req.Options),
			CorrectOption: req.CorrectOption,
			ImageRef:      req.ImageRef,
		})
	}

	created, err := s.questionRepo.CreateBatch(questions)
	if err != nil {
		log.Error().Err(err).Int("count", len(questions)).Msg("AddQuestions: failed to save questions")
		return nil, fmt.Errorf("error saving questions: %w", err)
	}

	dtos := make([]dto.QuestionResponseDTO, len(created))
	for i := range created {
		dtos[i] = toQuestionDTO(&created[i])
	}
	return dtos, nil
}

func (s *questionService) UpdateQuestion(id uint, req dto.QuestionUpdateDTO) (*dto.QuestionResponseDTO, error) {
	question, err := s.questionRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("question not found with ID %d: %w", id, err)
	}

	if req.Exam != nil {
		question.Exam = *req.Exam
	}
	if req.Subject != nil {
		question.Subject = *req.Subject
	}
	if req.Topic != nil {
		question.Topic = *req.Topic
	}
	if req.Prompt != nil {
		question.Prompt = *req.Prompt
	}
	if req.Options != nil {
		question.Options = model.StringList(*req.Options)
	}
	if req.CorrectOption != nil {
		question.CorrectOption = *req.CorrectOption
	}
	if req.ImageRef != nil {
		question.ImageRef = req.ImageRef
	}

	if err := s.questionRepo.Update(question); err != nil {
		log.Error().Err(err).Uint("questionID", id).Msg("UpdateQuestion: failed to save changes")
		return nil, fmt.Errorf("error updating question %d: %w", id, err)
	}

	resp := toQuestionDTO(question)
	return &resp, nil
}

func (s *questionService) DeleteQuestion(id uint) error {
	if _, err := s.questionRepo.FindByID(id); err != nil {
		return fmt.Errorf("question not found with ID %d: %w", id, err)
	}
	if err := s.questionRepo.Delete(id); err != nil {
		log.Error().Err(err).Uint("questionID", id).Msg("DeleteQuestion: failed to delete")
		return fmt.Errorf("error deleting question %d: %w", id, err)
	}
	return nil
}

func (s *questionService) GetQuestions(exam, subject string) ([]dto.QuestionResponseDTO, error) {
	questions, err := s.questionRepo.FindByExamAndSubject(exam, subject)
	if err != nil {
		log.Error().Err(err).Str("exam", exam).Str("subject", subject).Msg("GetQuestions: repository error")
		return nil, fmt.Errorf("error fetching questions: %w", err)
	}

	dtos := make([]dto.QuestionResponseDTO, len(questions))
	for i := range questions {
		dtos[i] = toQuestionDTO(&questions[i])
	}
	return dtos, nil
}

func toQuestionDTO(question *model.Question) dto.QuestionResponseDTO {
	var out dto.QuestionResponseDTO
	if err := copier.Copy(&out, question); err != nil {
		log.Error().Err(err).Uint("questionID", question.ID).Msg("Failed to copy question model to DTO")
	}
	out.Options = []string(question.Options)
	return out
}
