package service

import (
	"sync"
	"testing"

	"github.com/nkechi/Smartprep/internal/dto"
	"github.com/nkechi/Smartprep/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingGrader wraps the real grader to assert grading happens exactly once
// per submission, including across persist retries.
type countingGrader struct {
	inner GraderService
	calls int
}

func (g *countingGrader) Grade(snapshot SessionSnapshot) *model.TestRecord {
	g.calls++
	return g.inner.Grade(snapshot)
}

type sessionFixture struct {
	sess       *Session
	grader     *countingGrader
	resultRepo *fakeResultRepo
	terminated bool
}

func newSessionFixture(t *testing.T, subjects []string, perSubject int) *sessionFixture {
	t.Helper()

	questions := make(map[string][]AssembledQuestion, len(subjects))
	nextID := uint(1)
	for _, subject := range subjects {
		qs := make([]AssembledQuestion, perSubject)
		for i := 0; i < perSubject; i++ {
			qs[i] = AssembledQuestion{
				Question: model.Question{
					ID:            nextID,
					Exam:          "WAEC",
					Subject:       subject,
					Topic:         "General",
					Options:       model.StringList{"A", "B", "C", "D"},
					CorrectOption: "A",
				},
				DisplayNumber: i + 1,
			}
			nextID++
		}
		questions[subject] = qs
	}

	f := &sessionFixture{
		grader:     &countingGrader{inner: NewGraderService()},
		resultRepo: newFakeResultRepo(),
	}
	req := dto.StartTestDTO{ChildID: 7, ChildName: "Ada", Exam: "WAEC", Subjects: subjects}
	f.sess = newSession("sess-1", req, questions, f.grader, NewResultService(f.resultRepo), func() { f.terminated = true })
	return f
}

func (f *sessionFixture) questionID(subject string, index int) uint {
	return f.sess.questions[subject][index].ID
}

func TestSession_InitialState(t *testing.T) {
	f := newSessionFixture(t, []string{"Mathematics", "Physics"}, 3)

	state, subjectIdx, questionIdx, remaining := f.sess.State()
	assert.Equal(t, SessionActive, state)
	assert.Equal(t, 0, subjectIdx)
	assert.Equal(t, 0, questionIdx)
	assert.Equal(t, 2*SecondsPerSubject, remaining)
}

func TestSession_AnswerIsIdempotentLastWriteWins(t *testing.T) {
	f := newSessionFixture(t, []string{"Mathematics"}, 2)
	q1 := f.questionID("Mathematics", 0)

	require.NoError(t, f.sess.Answer("Mathematics", q1, "B"))
	require.NoError(t, f.sess.Answer("Mathematics", q1, "A"))

	outcome, err := f.sess.Submit()
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Record.Subjects[0].Correct)

	// And the other way round: a correct answer replaced by a wrong one.
	f2 := newSessionFixture(t, []string{"Mathematics"}, 2)
	q1 = f2.questionID("Mathematics", 0)
	require.NoError(t, f2.sess.Answer("Mathematics", q1, "A"))
	require.NoError(t, f2.sess.Answer("Mathematics", q1, "B"))

	outcome, err = f2.sess.Submit()
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.Record.Subjects[0].Correct)
}

func TestSession_CursorCrossesSubjectBoundaries(t *testing.T) {
	f := newSessionFixture(t, []string{"Mathematics", "Physics"}, 2)

	require.NoError(t, f.sess.Next()) // math q2
	require.NoError(t, f.sess.Next()) // physics q1
	_, subjectIdx, questionIdx, _ := f.sess.State()
	assert.Equal(t, 1, subjectIdx)
	assert.Equal(t, 0, questionIdx)

	require.NoError(t, f.sess.Previous()) // back to math, last question
	_, subjectIdx, questionIdx, _ = f.sess.State()
	assert.Equal(t, 0, subjectIdx)
	assert.Equal(t, 1, questionIdx)
}

func TestSession_CursorNoOpAtExtremes(t *testing.T) {
	f := newSessionFixture(t, []string{"Mathematics"}, 2)

	require.NoError(t, f.sess.Previous())
	_, subjectIdx, questionIdx, _ := f.sess.State()
	assert.Equal(t, 0, subjectIdx)
	assert.Equal(t, 0, questionIdx)

	require.NoError(t, f.sess.Next())
	require.NoError(t, f.sess.Next()) // already on last question
	_, subjectIdx, questionIdx, _ = f.sess.State()
	assert.Equal(t, 0, subjectIdx)
	assert.Equal(t, 1, questionIdx)
}

func TestSession_TickExpiryAutoSubmits(t *testing.T) {
	f := newSessionFixture(t, []string{"Mathematics"}, 2)
	require.NoError(t, f.sess.Answer("Mathematics", f.questionID("Mathematics", 0), "A"))

	f.sess.mu.Lock()
	f.sess.remainingSeconds = 1
	f.sess.mu.Unlock()

	f.sess.Tick()

	state, _, _, remaining := f.sess.State()
	assert.Equal(t, SessionTerminated, state)
	assert.Equal(t, 0, remaining)
	assert.True(t, f.terminated)
	assert.Equal(t, 1, f.resultRepo.appendCalls)

	history, err := f.resultRepo.FindByChildID(7)
	require.NoError(t, err)
	require.NotNil(t, history)
	require.Len(t, history.Tests, 1)
	assert.Equal(t, 50, history.Tests[0].OverallScore)
}

func TestSession_ActionsRejectedAfterSubmit(t *testing.T) {
	f := newSessionFixture(t, []string{"Mathematics"}, 2)

	_, err := f.sess.Submit()
	require.NoError(t, err)

	assert.ErrorIs(t, f.sess.Answer("Mathematics", 1, "A"), ErrSessionNotActive)
	assert.ErrorIs(t, f.sess.Next(), ErrSessionNotActive)
	assert.ErrorIs(t, f.sess.Previous(), ErrSessionNotActive)

	_, err = f.sess.Submit()
	assert.ErrorIs(t, err, ErrSessionTerminated)
}

func TestSession_SubmitRetryAfterFailedPersist(t *testing.T) {
	f := newSessionFixture(t, []string{"Mathematics"}, 2)
	require.NoError(t, f.sess.Answer("Mathematics", f.questionID("Mathematics", 0), "A"))

	f.resultRepo.failWith = errStoreDown
	_, err := f.sess.Submit()
	require.Error(t, err)

	state, _, _, _ := f.sess.State()
	assert.Equal(t, SessionSubmitting, state)
	assert.False(t, f.terminated)

	// Retry succeeds once the store is back, without re-grading.
	f.resultRepo.failWith = nil
	outcome, err := f.sess.Submit()
	require.NoError(t, err)
	assert.Equal(t, 1, f.grader.calls)
	assert.Equal(t, 2, f.resultRepo.appendCalls)
	require.Len(t, outcome.History.Tests, 1)

	state, _, _, _ = f.sess.State()
	assert.Equal(t, SessionTerminated, state)
	assert.True(t, f.terminated)
}

func TestSession_TickRacingManualSubmitAppendsOnce(t *testing.T) {
	for i := 0; i < 50; i++ {
		f := newSessionFixture(t, []string{"Mathematics"}, 2)
		f.sess.mu.Lock()
		f.sess.remainingSeconds = 1
		f.sess.mu.Unlock()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			f.sess.Tick()
		}()
		go func() {
			defer wg.Done()
			// Either side may win; a loss surfaces as ErrSessionTerminated.
			_, _ = f.sess.Submit()
		}()
		wg.Wait()

		state, _, _, _ := f.sess.State()
		require.Equal(t, SessionTerminated, state)
		require.Equal(t, 1, f.resultRepo.appendCalls)
	}
}

func TestSession_TickIgnoredWhenNotActive(t *testing.T) {
	f := newSessionFixture(t, []string{"Mathematics"}, 2)
	_, err := f.sess.Submit()
	require.NoError(t, err)

	f.sess.Tick()
	assert.Equal(t, 1, f.resultRepo.appendCalls)
}

func TestSession_DiscardSkipsGrading(t *testing.T) {
	f := newSessionFixture(t, []string{"Mathematics"}, 2)

	f.sess.Discard()

	state, _, _, _ := f.sess.State()
	assert.Equal(t, SessionTerminated, state)
	assert.True(t, f.terminated)
	assert.Equal(t, 0, f.grader.calls)
	assert.Equal(t, 0, f.resultRepo.appendCalls)
}

func TestSession_ToDTOWithholdsCorrectOptions(t *testing.T) {
	f := newSessionFixture(t, []string{"Mathematics"}, 2)

	out := f.sess.ToDTO(true)
	require.Len(t, out.Questions["Mathematics"], 2)
	assert.Equal(t, 1, out.Questions["Mathematics"][0].DisplayNumber)
	assert.Equal(t, []string{"A", "B", "C", "D"}, out.Questions["Mathematics"][0].Options)
	assert.Equal(t, string(SessionActive), out.State)
}
