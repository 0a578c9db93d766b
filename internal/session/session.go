package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"contractiq/internal/index"
	"contractiq/internal/model"
)

var ErrNotFound = errors.New("session not found")

// Session is the single value object carrying everything that must survive
// across one user's sequence of interactions: uploaded document summaries,
// the current embedding index, and the chat transcript. Nothing here is
// persisted; state dies with the process.
type Session struct {
	ID        string
	Title     string
	CreatedAt time.Time

	mu         sync.Mutex
	Documents  []model.Document
	Index      *index.Index
	Transcript []model.ChatTurn
}

// Lock serializes operations on one session. The original application reran
// strictly sequentially per user; the lock is the server-side equivalent, so
// a stale index can never be queried concurrently with a newer upload.
func (s *Session) Lock() { s.mu.Lock() }

func (s *Session) Unlock() { s.mu.Unlock() }

// Store is the in-memory session registry.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

func (st *Store) Create(title string) *Session {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "New Analysis"
	}
	s := &Session{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: time.Now(),
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(st.sessions, id)
	return nil
}

func (st *Store) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
