package service

import (
	"sync"
	"testing"

	"github.com/nkechi/Smartprep/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManagerFixture(t *testing.T) (SessionManager, *fakeQuestionRepo, *fakeResultRepo) {
	t.Helper()
	questionRepo := newFakeQuestionRepo(mathQuestions(5, "WAEC", "Mathematics")...)
	resultRepo := newFakeResultRepo()
	manager := NewSessionManager(NewAssemblerService(questionRepo), NewGraderService(), NewResultService(resultRepo))
	return manager, questionRepo, resultRepo
}

func startRequest(childID uint) dto.StartTestDTO {
	return dto.StartTestDTO{ChildID: childID, ChildName: "Ada", Exam: "WAEC", Subjects: []string{"Mathematics"}}
}

func TestSessionManager_StartAndGet(t *testing.T) {
	manager, _, _ := newManagerFixture(t)

	sess, err := manager.Start(startRequest(7))
	require.NoError(t, err)
	defer sess.Discard()

	assert.NotEmpty(t, sess.ID)
	assert.Len(t, sess.questions["Mathematics"], 5)

	found, err := manager.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, found)
}

func TestSessionManager_GetUnknownSession(t *testing.T) {
	manager, _, _ := newManagerFixture(t)

	_, err := manager.Get("no-such-session")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionManager_NewSessionReplacesChildsPrior(t *testing.T) {
	manager, _, _ := newManagerFixture(t)

	first, err := manager.Start(startRequest(7))
	require.NoError(t, err)

	second, err := manager.Start(startRequest(7))
	require.NoError(t, err)
	defer second.Discard()

	state, _, _, _ := first.State()
	assert.Equal(t, SessionTerminated, state)
	_, err = manager.Get(first.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	found, err := manager.Get(second.ID)
	require.NoError(t, err)
	assert.Same(t, second, found)
}

func TestSessionManager_ConcurrentStartsLeaveOneLiveSession(t *testing.T) {
	manager, _, _ := newManagerFixture(t)

	const starters = 8
	sessions := make([]*Session, starters)
	var wg sync.WaitGroup
	for i := 0; i < starters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess, err := manager.Start(startRequest(7))
			if assert.NoError(t, err) {
				sessions[i] = sess
			}
		}(i)
	}
	wg.Wait()

	var live *Session
	for _, sess := range sessions {
		require.NotNil(t, sess)
		if state, _, _, _ := sess.State(); state != SessionTerminated {
			require.Nil(t, live, "more than one live session for the child")
			live = sess
		}
	}
	require.NotNil(t, live)
	defer live.Discard()

	found, err := manager.Get(live.ID)
	require.NoError(t, err)
	assert.Same(t, live, found)
}

func TestSessionManager_DiscardDetachesSession(t *testing.T) {
	manager, _, _ := newManagerFixture(t)

	sess, err := manager.Start(startRequest(7))
	require.NoError(t, err)

	require.NoError(t, manager.Discard(sess.ID))
	_, err = manager.Get(sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.ErrorIs(t, manager.Discard(sess.ID), ErrSessionNotFound)
}

func TestSessionManager_SubmitDetachesSession(t *testing.T) {
	manager, _, resultRepo := newManagerFixture(t)

	sess, err := manager.Start(startRequest(7))
	require.NoError(t, err)

	outcome, err := sess.Submit()
	require.NoError(t, err)
	assert.NotNil(t, outcome.Record)
	assert.Equal(t, 1, resultRepo.appendCalls)

	_, err = manager.Get(sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionManager_AssemblyFailureSurfaces(t *testing.T) {
	manager, questionRepo, _ := newManagerFixture(t)
	questionRepo.failWith = errStoreDown

	_, err := manager.Start(startRequest(7))
	assert.ErrorIs(t, err, errStoreDown)
}
