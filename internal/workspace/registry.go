package workspace

import (
	"context"
	"log"
	"sync"

	"github.com/skku-swe/someplace/internal/chat"
	"github.com/skku-swe/someplace/internal/events"
	"github.com/skku-swe/someplace/internal/kv"
	"github.com/skku-swe/someplace/internal/mapview"
	"github.com/skku-swe/someplace/internal/recommend"
)

// Anonymous owns the shared workspace used when authentication is off.
const Anonymous = "anonymous"

type Deps struct {
	Store         kv.Store
	StorageKey    string
	Recommender   recommend.Recommender
	Router        mapview.Router
	Publisher     events.Publisher
	HistoryWindow int
}

// Registry lazily creates one workspace per user and keeps it for the life
// of the process.
type Registry struct {
	deps Deps

	mu    sync.Mutex
	items map[string]*Workspace
}

func NewRegistry(deps Deps) *Registry {
	if deps.StorageKey == "" {
		deps.StorageKey = "someplace_chat_sessions"
	}
	return &Registry{deps: deps, items: make(map[string]*Workspace)}
}

func (r *Registry) Get(ctx context.Context, userID string) *Workspace {
	if userID == "" {
		userID = Anonymous
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if w, ok := r.items[userID]; ok {
		return w
	}

	store := chat.NewStore(ctx, r.deps.Store, r.StorageKey(userID))
	w := New(userID, store, mapview.NewCoordinator(r.deps.Router), r.deps.Recommender, r.deps.Publisher, r.deps.HistoryWindow)
	r.items[userID] = w
	log.Printf("[Workspace] created user=%s sessions=%d", userID, len(store.Sessions()))
	return w
}

// StorageKey is the kv key holding a user's session list.
func (r *Registry) StorageKey(userID string) string {
	if userID == "" || userID == Anonymous {
		return r.deps.StorageKey
	}
	return r.deps.StorageKey + ":" + userID
}
