package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nkechi/Smartprep/internal/dto"
	"github.com/nkechi/Smartprep/internal/model"
	"github.com/rs/zerolog/log"
)

// SecondsPerSubject is the countdown time granted per chosen subject.
const SecondsPerSubject = 30 * 60

type SessionState string

const (
	SessionActive     SessionState = "active"
	SessionSubmitting SessionState = "submitting"
	SessionTerminated SessionState = "terminated"
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionNotActive  = errors.New("session is no longer active")
	ErrSessionTerminated = errors.New("session already submitted")
)

// SubmitOutcome is what a successful submission yields: the graded record
// and the child's updated history.
type SubmitOutcome struct {
	Record  *model.TestRecord
	History *dto.ChildHistoryDTO
}

// Session is one in-progress test. It owns the question snapshot fixed at
// assembly time, the recorded answers, the cursor and the countdown, and it
// drives the active -> submitting -> terminated lifecycle. All methods are
// safe for concurrent use; the per-session mutex serializes answers against
// the ticker and submission.
type Session struct {
	ID        string
	ChildID   uint
	ChildName string
	ParentID  *uint
	Exam      string
	Subjects  []string

	mu                sync.Mutex
	questions         map[string][]AssembledQuestion
	answers           map[string]map[uint]string
	subjectIndex      int
	questionIndex     int
	remainingSeconds  int
	deadlineReachedAt *time.Time
	state             SessionState
	// pendingRecord survives a failed persist so a retry does not re-grade.
	pendingRecord *model.TestRecord

	grader  GraderService
	results ResultService
	// onTerminate detaches the session from its manager.
	onTerminate func()

	stop     chan struct{}
	stopOnce sync.Once
}

func newSession(id string, req dto.StartTestDTO, questions map[string][]AssembledQuestion, grader GraderService, results ResultService, onTerminate func()) *Session {
	return &Session{
		ID:               id,
		ChildID:          req.ChildID,
		ChildName:        req.ChildName,
		ParentID:         req.ParentID,
		Exam:             req.Exam,
		Subjects:         req.Subjects,
		questions:        questions,
		answers:          make(map[string]map[uint]string),
		remainingSeconds: len(req.Subjects) * SecondsPerSubject,
		state:            SessionActive,
		grader:           grader,
		results:          results,
		onTerminate:      onTerminate,
		stop:             make(chan struct{}),
	}
}

// Answer records the chosen option for a question. Re-answering the same
// question replaces the prior choice; the cursor does not move.
func (s *Session) Answer(subject string, questionID uint, option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != SessionActive {
		return ErrSessionNotActive
	}
	if s.answers[subject] == nil {
		s.answers[subject] = make(map[uint]string)
	}
	s.answers[subject][questionID] = option
	return nil
}

// Next advances the cursor, crossing into the next subject's first question
// at a subject boundary. It is a no-op on the last question of the last
// subject.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != SessionActive {
		return ErrSessionNotActive
	}
	current := s.questions[s.Subjects[s.subjectIndex]]
	if s.questionIndex < len(current)-1 {
		s.questionIndex++
	} else if s.subjectIndex < len(s.Subjects)-1 {
		s.subjectIndex++
		s.questionIndex = 0
	}
	return nil
}

// Previous retreats the cursor, crossing back to the last question of the
// previous subject at a boundary. It is a no-op on the very first question.
func (s *Session) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != SessionActive {
		return ErrSessionNotActive
	}
	if s.questionIndex > 0 {
		s.questionIndex--
	} else if s.subjectIndex > 0 {
		s.subjectIndex--
		previous := s.questions[s.Subjects[s.subjectIndex]]
		s.questionIndex = len(previous) - 1
		if s.questionIndex < 0 {
			s.questionIndex = 0
		}
	}
	return nil
}

// Tick decrements the countdown by one second. When it reaches zero the
// session submits itself; there is no way to cancel the auto-submission.
func (s *Session) Tick() {
	s.mu.Lock()
	if s.state != SessionActive {
		s.mu.Unlock()
		return
	}
	s.remainingSeconds--
	if s.remainingSeconds > 0 {
		s.mu.Unlock()
		return
	}
	s.remainingSeconds = 0
	now := time.Now()
	s.deadlineReachedAt = &now
	s.mu.Unlock()

	// A manual Submit can win the race between the state check above and
	// this call; the session is already terminated then, not stuck.
	if _, err := s.Submit(); err != nil && !errors.Is(err, ErrSessionTerminated) {
		log.Error().Err(err).Str("sessionID", s.ID).Uint("childID", s.ChildID).Msg("Auto-submit at deadline failed; session kept for retry")
	}
}

// Submit grades the session and appends the record to the child's history.
// From Active it grades and persists; a failed persist leaves the session in
// Submitting with the graded record retained, and calling Submit again
// retries persistence without re-grading. Submitting an already terminated
// session is a caller error.
func (s *Session) Submit() (*SubmitOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case SessionTerminated:
		return nil, ErrSessionTerminated
	case SessionActive:
		s.state = SessionSubmitting
		s.pendingRecord = s.grader.Grade(s.snapshotLocked())
	case SessionSubmitting:
		// Retry of a failed persist; pendingRecord is already graded.
	}

	history, err := s.results.AppendRecord(s.ChildID, s.ChildName, s.pendingRecord)
	if err != nil {
		return nil, fmt.Errorf("submission could not be saved, retry submit: %w", err)
	}

	s.state = SessionTerminated
	s.stopTicker()
	if s.onTerminate != nil {
		s.onTerminate()
	}
	return &SubmitOutcome{Record: s.pendingRecord, History: history}, nil
}

// Discard terminates the session without grading, as when the test-taker
// navigates away.
func (s *Session) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == SessionTerminated {
		return
	}
	s.state = SessionTerminated
	s.stopTicker()
	if s.onTerminate != nil {
		s.onTerminate()
	}
}

func (s *Session) snapshotLocked() SessionSnapshot {
	submittedAt := time.Now()
	if s.deadlineReachedAt != nil {
		submittedAt = *s.deadlineReachedAt
	}

	answers := make(map[string]map[uint]string, len(s.answers))
	for subject, chosen := range s.answers {
		byQuestion := make(map[uint]string, len(chosen))
		for id, option := range chosen {
			byQuestion[id] = option
		}
		answers[subject] = byQuestion
	}

	return SessionSnapshot{
		ChildID:     s.ChildID,
		ChildName:   s.ChildName,
		ParentID:    s.ParentID,
		Exam:        s.Exam,
		Subjects:    s.Subjects,
		Questions:   s.questions,
		Answers:     answers,
		SubmittedAt: submittedAt,
	}
}

func (s *Session) stopTicker() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// State reports the lifecycle state, cursor and remaining time.
func (s *Session) State() (SessionState, int, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.subjectIndex, s.questionIndex, s.remainingSeconds
}

// ToDTO renders the session for the API, withholding correct options.
func (s *Session) ToDTO(includeQuestions bool) dto.SessionDTO {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := dto.SessionDTO{
		SessionID:        s.ID,
		ChildID:          s.ChildID,
		Exam:             s.Exam,
		Subjects:         s.Subjects,
		SubjectIndex:     s.subjectIndex,
		QuestionIndex:    s.questionIndex,
		RemainingSeconds: s.remainingSeconds,
		State:            string(s.state),
	}
	if !includeQuestions {
		return out
	}

	out.Questions = make(map[string][]dto.SessionQuestionDTO, len(s.questions))
	for subject, questions := range s.questions {
		sanitized := make([]dto.SessionQuestionDTO, len(questions))
		for i, q := range questions {
			sanitized[i] = dto.SessionQuestionDTO{
				ID:            q.ID,
				DisplayNumber: q.DisplayNumber,
				Subject:       subject,
				Topic:         q.Topic,
				Prompt:        q.Prompt,
				Options:       q.Options,
				ImageRef:      q.ImageRef,
			}
		}
		out.Questions[subject] = sanitized
	}
	return out
}
