// Package session holds live editing sessions: one edit controller per
// lesson being authored, in a TTL-evicted in-memory registry.
package session

import (
	"sync"
	"time"

	"github.com/dgallion1/lessonscript/internal/editor"
	"github.com/dgallion1/lessonscript/internal/lesson"
	"github.com/dgallion1/lessonscript/internal/script"
)

// Session binds one edit controller to an id. The document is owned by the
// controller; all access goes through Do so concurrent HTTP requests on the
// same session are serialized.
type Session struct {
	mu sync.Mutex

	ID        string
	CreatedAt time.Time
	updatedAt time.Time

	controller *editor.Controller
	text       string
}

// New creates a session around the given stored text.
func New(text string, opts script.Options) *Session {
	now := time.Now()
	s := &Session{
		ID:        lesson.NewID(),
		CreatedAt: now,
		updatedAt: now,
		text:      text,
	}
	s.controller = editor.NewControllerWith(text, func(t string) {
		s.text = t
	}, opts)
	return s
}

// Do runs fn with exclusive access to the session's controller.
func (s *Session) Do(fn func(c *editor.Controller)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.controller)
	s.updatedAt = time.Now()
}

// Text returns the latest canonical serialized text.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// UpdatedAt returns the time of the last access.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// Store is a thread-safe in-memory session registry with TTL eviction.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration

	Stats *OpStats
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		Stats:    NewOpStats(time.Hour),
	}
}

func (st *Store) Put(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
}

func (st *Store) Get(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.sessions[id]
}

func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Cleanup removes sessions idle past the TTL.
func (st *Store) Cleanup() {
	st.mu.Lock()
	defer st.mu.Unlock()
	now := time.Now()
	for id, s := range st.sessions {
		if now.Sub(s.UpdatedAt()) > st.ttl {
			delete(st.sessions, id)
		}
	}
}
