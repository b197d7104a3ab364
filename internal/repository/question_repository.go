package repository

import (
	"github.com/nkechi/Smartprep/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	CreateBatch(questions []model.Question) ([]model.Question, error)
	FindByID(id uint) (*model.Question, error)
	// FindByExamAndSubject returns the bank filtered by exam and subject.
	// An empty subject means all subjects for that exam.
	FindByExamAndSubject(exam, subject string) ([]model.Question, error)
	DistinctSubjects(exam string) ([]string, error)
	Update(question *model.Question) error
	Delete(id uint) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) CreateBatch(questions []model.Question) ([]model.Question, error) {
	if len(questions) == 0 {
		return questions, nil
	}
	if err := r.db.Create(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByExamAndSubject(exam, subject string) ([]model.Question, error) {
	var questions []model.Question
	query := r.db.Where("exam = ?", exam)
	if subject != "" {
		query = query.Where("subject = ?", subject)
	}
	if err := query.Order("id ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) DistinctSubjects(exam string) ([]string, error) {
	var subjects []string
	err := r.db.Model(&model.Question{}).
		Where("exam = ? AND deleted_at IS NULL", exam).
		Distinct().
		Order("subject ASC").
		Pluck("subject", &subjects).Error
	return subjects, err
}

func (r *questionRepository) Update(question *model.Question) error {
	return r.db.Save(question).Error
}

func (r *questionRepository) Delete(id uint) error {
	return r.db.Delete(&model.Question{}, id).Error
}
