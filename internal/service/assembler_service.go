package service

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/nkechi/Smartprep/internal/model"
	"github.com/nkechi/Smartprep/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	questionLimitEnglish = 60
	questionLimitDefault = 40
)

// defaultSubjects lists the subjects offerable per exam type when the bank
// holds no questions for that exam yet.
var defaultSubjects = map[string][]string{
	"WAEC": {"Mathematics", "English", "Physics", "Chemistry", "Biology"},
	"BECE": {"Mathematics", "English Language", "Basic Science", "Social Studies", "ICT"},
}

// AssembledQuestion is a bank question as placed into a test: the display
// number is its 1-based position in the shuffled, truncated sequence and is
// what the test-taker sees instead of the stored id.
type AssembledQuestion struct {
	model.Question
	DisplayNumber int
}

// AssemblerService draws the per-subject question sets for a new test.
type AssemblerService interface {
	// Assemble returns, for each requested subject, a randomly shuffled
	// prefix of the bank filtered by exam and subject. "English Language"
	// (case-insensitive) is capped at 60 questions, every other subject at
	// 40. A subject with fewer questions than the cap yields all of them;
	// a subject with none yields an empty slice.
	Assemble(exam string, subjects []string) (map[string][]AssembledQuestion, error)
	// OfferableSubjects lists the subjects a child may pick for an exam:
	// the distinct subjects present in the bank, or the static default list
	// when the bank has none.
	OfferableSubjects(exam string) ([]string, error)
}

type assemblerService struct {
	questionRepo repository.QuestionRepository
}

func NewAssemblerService(questionRepo repository.QuestionRepository) AssemblerService {
	return &assemblerService{questionRepo: questionRepo}
}

func (s *assemblerService) Assemble(exam string, subjects []string) (map[string][]AssembledQuestion, error) {
	assembled := make(map[string][]AssembledQuestion, len(subjects))

	for _, subject := range subjects {
		questions, err := s.questionRepo.FindByExamAndSubject(exam, subject)
		if err != nil {
			log.Error().Err(err).Str("exam", exam).Str("subject", subject).Msg("Assemble: failed to load question bank")
			return nil, fmt.Errorf("error loading questions for %s/%s: %w", exam, subject, err)
		}

		shuffled := make([]model.Question, len(questions))
		copy(shuffled, questions)
		rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		limit := questionLimit(subject)
		if len(shuffled) > limit {
			shuffled = shuffled[:limit]
		}

		selected := make([]AssembledQuestion, len(shuffled))
		for i, q := range shuffled {
			selected[i] = AssembledQuestion{Question: q, DisplayNumber: i + 1}
		}
		assembled[subject] = selected
	}

	return assembled, nil
}

func (s *assemblerService) OfferableSubjects(exam string) ([]string, error) {
	subjects, err := s.questionRepo.DistinctSubjects(exam)
	if err != nil {
		return nil, fmt.Errorf("error listing subjects for exam %s: %w", exam, err)
	}
	if len(subjects) == 0 {
		return defaultSubjects[exam], nil
	}
	return subjects, nil
}

func questionLimit(subject string) int {
	if strings.EqualFold(subject, "English Language") {
		return questionLimitEnglish
	}
	return questionLimitDefault
}
