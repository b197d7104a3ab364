package service

import (
	"errors"
	"fmt"

	"github.com/nkechi/Smartprep/internal/model"
	"gorm.io/gorm"
)

// fakeQuestionRepo is an in-memory QuestionRepository for service tests.
type fakeQuestionRepo struct {
	questions []model.Question
	nextID    uint
	failWith  error
}

func newFakeQuestionRepo(questions ...model.Question) *fakeQuestionRepo {
	repo := &fakeQuestionRepo{nextID: 1}
	for _, q := range questions {
		q.ID = repo.nextID
		repo.nextID++
		repo.questions = append(repo.questions, q)
	}
	return repo
}

func (r *fakeQuestionRepo) CreateBatch(questions []model.Question) ([]model.Question, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	for i := range questions {
		questions[i].ID = r.nextID
		r.nextID++
		r.questions = append(r.questions, questions[i])
	}
	return questions, nil
}

func (r *fakeQuestionRepo) FindByID(id uint) (*model.Question, error) {
	for i := range r.questions {
		if r.questions[i].ID == id {
			q := r.questions[i]
			return &q, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeQuestionRepo) FindByExamAndSubject(exam, subject string) ([]model.Question, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	var out []model.Question
	for _, q := range r.questions {
		if q.Exam == exam && (subject == "" || q.Subject == subject) {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *fakeQuestionRepo) DistinctSubjects(exam string) ([]string, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	seen := make(map[string]bool)
	var out []string
	for _, q := range r.questions {
		if q.Exam == exam && !seen[q.Subject] {
			seen[q.Subject] = true
			out = append(out, q.Subject)
		}
	}
	return out, nil
}

func (r *fakeQuestionRepo) Update(question *model.Question) error {
	for i := range r.questions {
		if r.questions[i].ID == question.ID {
			r.questions[i] = *question
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeQuestionRepo) Delete(id uint) error {
	for i := range r.questions {
		if r.questions[i].ID == id {
			r.questions = append(r.questions[:i], r.questions[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// fakeResultRepo is an in-memory ResultRepository. Appends are deep-copied so
// tests can assert that stored records are never mutated afterwards.
type fakeResultRepo struct {
	histories    map[uint]*model.ChildHistory
	nextRecordID uint
	appendCalls  int
	failWith     error
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{histories: make(map[uint]*model.ChildHistory), nextRecordID: 1}
}

func (r *fakeResultRepo) AppendTest(childID uint, childName string, record *model.TestRecord) (*model.ChildHistory, error) {
	r.appendCalls++
	if r.failWith != nil {
		return nil, r.failWith
	}

	history, ok := r.histories[childID]
	if !ok {
		history = &model.ChildHistory{ID: uint(len(r.histories) + 1), ChildID: childID, ChildName: childName}
		r.histories[childID] = history
	}

	stored := copyRecord(record)
	stored.ID = r.nextRecordID
	record.ID = stored.ID
	r.nextRecordID++
	stored.ChildHistoryID = history.ID
	history.Tests = append(history.Tests, stored)

	out := *history
	out.Tests = make([]model.TestRecord, len(history.Tests))
	copy(out.Tests, history.Tests)
	return &out, nil
}

func (r *fakeResultRepo) FindByChildID(childID uint) (*model.ChildHistory, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	history, ok := r.histories[childID]
	if !ok {
		return nil, nil
	}
	out := *history
	out.Tests = make([]model.TestRecord, len(history.Tests))
	copy(out.Tests, history.Tests)
	return &out, nil
}

func copyRecord(record *model.TestRecord) model.TestRecord {
	out := *record
	out.Subjects = make([]model.SubjectResult, len(record.Subjects))
	for i, sr := range record.Subjects {
		copied := sr
		copied.TopicBreakdown = make(model.TopicTallies, len(sr.TopicBreakdown))
		for topic, tally := range sr.TopicBreakdown {
			copied.TopicBreakdown[topic] = tally
		}
		out.Subjects[i] = copied
	}
	return out
}

var errStoreDown = errors.New("result store unavailable")

func mathQuestions(n int, exam, subject string) []model.Question {
	questions := make([]model.Question, n)
	for i := range questions {
		questions[i] = model.Question{
			Exam:          exam,
			Subject:       subject,
			Topic:         "Algebra",
			Prompt:        fmt.Sprintf("Question %d", i+1),
			Options:       model.StringList{"A", "B", "C", "D"},
			CorrectOption: "A",
		}
	}
	return questions
}
