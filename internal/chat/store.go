package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/skku-swe/someplace/internal/kv"
)

var ErrSessionNotFound = errors.New("chat: session not found")

// Store owns the chat sessions of one user and the pointer to the active one.
// Every mutation rewrites the whole session list under a single storage key.
type Store struct {
	mu       sync.Mutex
	kv       kv.Store
	key      string
	sessions []Session
	activeID string

	now   func() time.Time
	newID func() (string, error)
}

// NewStore loads the persisted sessions. Unreadable or corrupt content is
// logged and treated as an empty history.
func NewStore(ctx context.Context, store kv.Store, key string) *Store {
	s := &Store{
		kv:    store,
		key:   key,
		now:   time.Now,
		newID: NewSessionID,
	}
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			log.Printf("[ChatStore] load failed key=%s err=%v", s.key, err)
		}
		return
	}

	var sessions []Session
	if err := json.Unmarshal(raw, &sessions); err != nil {
		log.Printf("[ChatStore] failed to parse chat history key=%s err=%v", s.key, err)
		return
	}

	s.sessions = sessions
	if len(sessions) > 0 {
		s.activeID = sessions[0].ID
	}
}

// StartNewChat clears the active pointer; the next AddMessage opens a new session.
func (s *Store) StartNewChat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeID = ""
}

// SelectSession makes id active. Unknown ids are ignored and reported as false.
func (s *Store) SelectSession(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(id) < 0 {
		return false
	}
	s.activeID = id
	return true
}

// AddMessage appends msg to the session that is active at the time of the
// call. With no active session a new one is created, seeded with the welcome
// message, and made active. The returned error only reports a failed write to
// storage; the in-memory state has been updated regardless.
func (s *Store) AddMessage(ctx context.Context, msg Message) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	idx := s.indexOf(s.activeID)
	if idx >= 0 {
		sess := &s.sessions[idx]
		sess.Messages = append(sess.Messages[:len(sess.Messages):len(sess.Messages)], msg)
		sess.LastUpdatedAt = now
		out := sess.clone()

		sort.SliceStable(s.sessions, func(i, j int) bool {
			return s.sessions[i].LastUpdatedAt.After(s.sessions[j].LastUpdatedAt)
		})
		return out, s.persist(ctx)
	}

	id, err := s.newID()
	if err != nil {
		return Session{}, fmt.Errorf("new session id: %w", err)
	}

	sess := Session{
		ID:            id,
		Title:         TitleFrom(msg.Text),
		Messages:      []Message{WelcomeMessage(), msg},
		CreatedAt:     now,
		LastUpdatedAt: now,
	}
	s.sessions = append([]Session{sess}, s.sessions...)
	s.activeID = id

	return sess.clone(), s.persist(ctx)
}

// DeleteSession removes a session. When none remain the storage key itself is
// removed rather than holding an empty list.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrSessionNotFound
	}

	s.sessions = append(s.sessions[:idx:idx], s.sessions[idx+1:]...)
	if s.activeID == id {
		s.activeID = ""
	}

	if len(s.sessions) == 0 {
		return s.kv.Delete(ctx, s.key)
	}
	return s.persist(ctx)
}

func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Sessions returns the sessions ordered by last update, newest first.
func (s *Store) Sessions() []Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess.clone())
	}
	return out
}

func (s *Store) Session(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return Session{}, false
	}
	return s.sessions[idx].clone(), true
}

// CurrentMessages is what the chat pane shows: the active session's history,
// or just the welcome message in the fresh new-chat state.
func (s *Store) CurrentMessages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(s.activeID)
	if idx < 0 {
		return []Message{WelcomeMessage()}
	}
	return append([]Message(nil), s.sessions[idx].Messages...)
}

func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			return i
		}
	}
	return -1
}

// must hold mu
func (s *Store) persist(ctx context.Context) error {
	b, err := json.Marshal(s.sessions)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, s.key, b); err != nil {
		log.Printf("[ChatStore] save failed key=%s sessions=%d err=%v", s.key, len(s.sessions), err)
		return err
	}
	return nil
}
