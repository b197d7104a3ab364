package service

import (
	"math"
	"time"

	"github.com/nkechi/Smartprep/internal/model"
)

// SessionSnapshot is the final state of a test session handed to the grader.
type SessionSnapshot struct {
	ChildID   uint
	ChildName string
	ParentID  *uint
	Exam      string
	Subjects  []string
	Questions map[string][]AssembledQuestion
	// Answers maps subject -> question id -> chosen option. An absent entry
	// is an unanswered question and grades as incorrect.
	Answers     map[string]map[uint]string
	SubmittedAt time.Time
}

// GraderService converts a completed session into a graded TestRecord.
// Grading is pure and never fails: malformed input (missing answers, empty
// subjects, unknown topics) resolves to incorrect answers or empty buckets
// so a test is never blocked at submission time.
type GraderService interface {
	Grade(snapshot SessionSnapshot) *model.TestRecord
}

type graderService struct{}

func NewGraderService() GraderService {
	return &graderService{}
}

func (g *graderService) Grade(snapshot SessionSnapshot) *model.TestRecord {
	subjectResults := make([]model.SubjectResult, 0, len(snapshot.Subjects))
	percentSum := 0

	for _, subject := range snapshot.Subjects {
		questions := snapshot.Questions[subject]
		answers := snapshot.Answers[subject]

		correct := 0
		breakdown := make(model.TopicTallies)
		for _, q := range questions {
			tally := breakdown[q.Topic]
			tally.Total++
			if answers[q.ID] == q.CorrectOption {
				correct++
				tally.Correct++
			}
			breakdown[q.Topic] = tally
		}

		total := len(questions)
		percent := 0
		if total > 0 {
			percent = int(math.Round(float64(correct) / float64(total) * 100))
		}
		percentSum += percent

		subjectResults = append(subjectResults, model.SubjectResult{
			Subject:        subject,
			QuestionsCount: total,
			Correct:        correct,
			Total:          total,
			Percent:        percent,
			TopicBreakdown: breakdown,
		})
	}

	// Unweighted mean: a 5-question subject counts the same as a 60-question one.
	overall := 0
	if len(subjectResults) > 0 {
		overall = int(math.Round(float64(percentSum) / float64(len(subjectResults))))
	}

	date := snapshot.SubmittedAt
	if date.IsZero() {
		date = time.Now()
	}

	return &model.TestRecord{
		ParentID:     snapshot.ParentID,
		Exam:         snapshot.Exam,
		Subjects:     subjectResults,
		OverallScore: overall,
		Date:         date,
	}
}
