package main

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"easysql/internal/nl2sql"
)

const (
	sessionCookie  = "easysql_session"
	maxHistory     = 20
	maxStoredItems = 50
	sessionTTL     = 2 * time.Hour
)

// StoredResult keeps one answer around so the chart and CSV endpoints
// can address it by ID.
type StoredResult struct {
	ID       string
	Answer   *Answer
	StoredAt time.Time
}

type session struct {
	history  []nl2sql.Turn
	results  map[string]*StoredResult
	order    []string
	lastSeen time.Time
}

// SessionStore keeps per-browser conversation state in memory.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*session)}
}

// NewSessionID returns a fresh random session token.
func NewSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// math-free fallback keyed on the clock, still unique enough
		// for an anonymous single-host UI
		return hex.EncodeToString([]byte(time.Now().Format(time.RFC3339Nano)))
	}
	return hex.EncodeToString(buf)
}

func (s *SessionStore) get(id string) *session {
	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{results: make(map[string]*StoredResult)}
		s.sessions[id] = sess
	}
	sess.lastSeen = time.Now()
	s.expire()
	return sess
}

// expire drops sessions idle past the TTL. Called with mu held.
func (s *SessionStore) expire() {
	cutoff := time.Now().Add(-sessionTTL)
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

// History returns a copy of the conversation turns for a session.
func (s *SessionStore) History(id string) []nl2sql.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.get(id)
	out := make([]nl2sql.Turn, len(sess.history))
	copy(out, sess.history)
	return out
}

// AddTurn appends a question/SQL exchange, keeping the newest turns.
func (s *SessionStore) AddTurn(id string, turn nl2sql.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.get(id)
	sess.history = append(sess.history, turn)
	if len(sess.history) > maxHistory {
		sess.history = sess.history[len(sess.history)-maxHistory:]
	}
}

// ClearHistory empties the conversation for a session.
func (s *SessionStore) ClearHistory(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.get(id)
	sess.history = nil
}

// StoreResult saves an answer and returns its addressable ID.
func (s *SessionStore) StoreResult(id string, answer *Answer) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.get(id)

	resultID := NewSessionID()
	sess.results[resultID] = &StoredResult{ID: resultID, Answer: answer, StoredAt: time.Now()}
	sess.order = append(sess.order, resultID)
	for len(sess.order) > maxStoredItems {
		delete(sess.results, sess.order[0])
		sess.order = sess.order[1:]
	}
	return resultID
}

// Result looks up a stored answer by ID.
func (s *SessionStore) Result(id, resultID string) (*StoredResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.get(id)
	r, ok := sess.results[resultID]
	return r, ok
}
