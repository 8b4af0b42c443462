package services

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/treyzar/lotto-advisor/pkg/models"
)

var ErrSessionNotFound = errors.New("session not found")

// Session owns the wizards of one visitor. The refinement wizard is created
// lazily once the primary questionnaire completes. The primary wizard and the
// timestamp are set once at creation; the remaining fields are guarded by the
// session's own mutex because handlers touch the same session concurrently.
type Session struct {
	id        uuid.UUID
	primary   *Wizard
	createdAt time.Time

	mu        sync.RWMutex
	refine    *Wizard
	profile   *models.Profile
	shortlist []models.RankedItem
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) Primary() *Wizard {
	return s.primary
}

// Refine returns the refinement wizard, or nil while the primary
// questionnaire is still in progress.
func (s *Session) Refine() *Wizard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refine
}

func (s *Session) Profile() *models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

func (s *Session) SetShortlist(items []models.RankedItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shortlist = items
}

func (s *Session) Shortlist() []models.RankedItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shortlist
}

// SessionService keeps questionnaire sessions in memory. Sessions are cheap
// and ephemeral; expired ones are swept on each create.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	logger   *logrus.Logger
}

func NewSessionService(ttl time.Duration, logger *logrus.Logger) *SessionService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionService{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		logger:   logger,
	}
}

func (ss *SessionService) Create() *Session {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	now := time.Now()
	for id, session := range ss.sessions {
		if now.Sub(session.createdAt) > ss.ttl {
			delete(ss.sessions, id)
		}
	}

	session := &Session{
		id:        uuid.New(),
		primary:   NewPrimaryQuestionnaire(),
		createdAt: now,
	}
	ss.sessions[session.id] = session
	sessionsStarted.Inc()
	return session
}

func (ss *SessionService) Get(id uuid.UUID) (*Session, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	session, ok := ss.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if time.Since(session.createdAt) > ss.ttl {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// CompletePrimary finalizes the profile and opens the refinement wizard.
func (ss *SessionService) CompletePrimary(session *Session) models.Profile {
	profile := ProfileFromWizard(session.primary)

	session.mu.Lock()
	defer session.mu.Unlock()
	session.profile = &profile
	if session.refine == nil {
		session.refine = NewRefinementQuestionnaire()
	}
	return profile
}
