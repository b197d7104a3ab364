package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nkechi/Smartprep/internal/dto"
	"github.com/rs/zerolog/log"
)

// SessionManager owns every live test session. A child has at most one
// active session; starting a new test discards the previous one. Sessions
// live only in process memory and do not survive a restart.
type SessionManager interface {
	Start(req dto.StartTestDTO) (*Session, error)
	Get(sessionID string) (*Session, error)
	Discard(sessionID string) error
}

type sessionManager struct {
	assembler AssemblerService
	grader    GraderService
	results   ResultService

	mu      sync.Mutex
	byID    map[string]*Session
	byChild map[uint]string
}

func NewSessionManager(assembler AssemblerService, grader GraderService, results ResultService) SessionManager {
	return &sessionManager{
		assembler: assembler,
		grader:    grader,
		results:   results,
		byID:      make(map[string]*Session),
		byChild:   make(map[uint]string),
	}
}

func (m *sessionManager) Start(req dto.StartTestDTO) (*Session, error) {
	questions, err := m.assembler.Assemble(req.Exam, req.Subjects)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	sess := newSession(id, req, questions, m.grader, m.results, func() { m.remove(id) })

	// The prior-session lookup and the registration of the replacement must
	// be one critical section, or two racing starts for the same child can
	// both miss the other and leave two live sessions.
	m.mu.Lock()
	prior := m.byID[m.byChild[req.ChildID]]
	m.byID[id] = sess
	m.byChild[req.ChildID] = id
	m.mu.Unlock()

	if prior != nil {
		log.Warn().Str("sessionID", prior.ID).Uint("childID", req.ChildID).Msg("Discarding prior session for child starting a new test")
		prior.Discard()
	}

	go m.runCountdown(sess)

	log.Info().Str("sessionID", id).Uint("childID", req.ChildID).Str("exam", req.Exam).Strs("subjects", req.Subjects).Msg("Test session started")
	return sess, nil
}

func (m *sessionManager) Get(sessionID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.byID[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (m *sessionManager) Discard(sessionID string) error {
	sess, err := m.Get(sessionID)
	if err != nil {
		return err
	}
	sess.Discard()
	return nil
}

func (m *sessionManager) remove(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.byID[sessionID]; ok {
		if m.byChild[sess.ChildID] == sessionID {
			delete(m.byChild, sess.ChildID)
		}
		delete(m.byID, sessionID)
	}
}

// runCountdown drives the one-second ticks until the session leaves Active.
func (m *sessionManager) runCountdown(sess *Session) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-sess.stop:
			return
		case <-ticker.C:
			sess.Tick()
		}
	}
}
