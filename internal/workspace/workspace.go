// Package workspace ties one user's chat sessions, map state and
// recommendation client together.
package workspace

import (
	"context"
	"errors"
	"log"
	"strconv"
	"sync/atomic"

	"github.com/skku-swe/someplace/internal/chat"
	"github.com/skku-swe/someplace/internal/events"
	"github.com/skku-swe/someplace/internal/mapview"
	"github.com/skku-swe/someplace/internal/place"
	"github.com/skku-swe/someplace/internal/recommend"
	"github.com/skku-swe/someplace/internal/route"
)

// ErrorReply is the assistant message shown when a recommendation fails.
const ErrorReply = "죄송합니다. 오류가 발생했습니다."

var ErrMessageNotFound = errors.New("message not found")

type Workspace struct {
	userID string
	window int

	chat *chat.Store
	maps *mapview.Coordinator
	rec  recommend.Recommender
	pub  events.Publisher

	loading atomic.Int32
}

func New(userID string, store *chat.Store, maps *mapview.Coordinator, rec recommend.Recommender, pub events.Publisher, window int) *Workspace {
	if pub == nil {
		pub = events.Nop{}
	}
	if window <= 0 {
		window = recommend.DefaultHistoryWindow
	}
	return &Workspace{
		userID: userID,
		window: window,
		chat:   store,
		maps:   maps,
		rec:    rec,
		pub:    pub,
	}
}

func (w *Workspace) UserID() string            { return w.userID }
func (w *Workspace) Chat() *chat.Store         { return w.chat }
func (w *Workspace) Map() *mapview.Coordinator { return w.maps }
func (w *Workspace) Loading() bool             { return w.loading.Load() > 0 }

// Search records the user's query, asks for recommendations and records the
// assistant reply. A failed recommendation becomes a scripted error reply
// rather than an error. The reply goes to whichever session is active when
// it arrives.
func (w *Workspace) Search(ctx context.Context, query string) (chat.Message, error) {
	q, err := recommend.NormalizeQuery(query)
	if err != nil {
		return chat.Message{}, err
	}

	w.loading.Add(1)
	defer w.loading.Add(-1)

	history := recommend.ReduceHistory(w.chat.CurrentMessages(), w.window)

	sess, err := w.chat.AddMessage(ctx, chat.Message{Role: chat.RoleUser, Text: q})
	if err != nil {
		if sess.ID == "" {
			return chat.Message{}, err
		}
		log.Printf("[Workspace] user=%s persisting query failed: %v", w.userID, err)
	}

	reply := chat.Message{Role: chat.RoleAssistant}
	res, err := w.rec.Recommend(ctx, q, history)
	if err != nil {
		log.Printf("[Workspace] user=%s session=%s recommend failed: %v", w.userID, sess.ID, err)
		reply.Text = ErrorReply
		w.publish(ctx, events.TypeSearchFailed, sess.ID, map[string]string{"query": q, "error": err.Error()})
	} else {
		reply.Text = res.Summary
		reply.Places = res.Places
		w.publish(ctx, events.TypeSearch, sess.ID, map[string]string{"query": q, "places": strconv.Itoa(len(res.Places))})
	}

	if _, err := w.chat.AddMessage(ctx, reply); err != nil {
		log.Printf("[Workspace] user=%s persisting reply failed: %v", w.userID, err)
	}
	return reply, nil
}

// NewChat leaves the current session and clears the map.
func (w *Workspace) NewChat() {
	w.chat.StartNewChat()
	w.maps.Reset()
}

func (w *Workspace) DeleteSession(ctx context.Context, id string) error {
	if err := w.chat.DeleteSession(ctx, id); err != nil {
		return err
	}
	w.publish(ctx, events.TypeSessionDeleted, id, nil)
	return nil
}

// ApplyMessagePlaces plots the places attached to one message of a session.
func (w *Workspace) ApplyMessagePlaces(sessionID string, index int) (int, error) {
	sess, ok := w.chat.Session(sessionID)
	if !ok {
		return 0, chat.ErrSessionNotFound
	}
	if index < 0 || index >= len(sess.Messages) {
		return 0, ErrMessageNotFound
	}
	return w.maps.ApplyPlaces(sess.Messages[index].Places), nil
}

func (w *Workspace) SetRouteStart(ctx context.Context, key place.Key) (*route.Entry, error) {
	e, err := w.maps.SetRouteStart(ctx, key)
	if err == nil && e != nil {
		w.routeComputed(ctx, e)
	}
	return e, err
}

func (w *Workspace) SetRouteEnd(ctx context.Context, key place.Key) (*route.Entry, error) {
	e, err := w.maps.SetRouteEnd(ctx, key)
	if err == nil && e != nil {
		w.routeComputed(ctx, e)
	}
	return e, err
}

func (w *Workspace) ChangeMode(ctx context.Context, mode route.Mode) (*route.Entry, error) {
	e, err := w.maps.ChangeMode(ctx, mode)
	if err == nil && e != nil {
		w.routeComputed(ctx, e)
	}
	return e, err
}

func (w *Workspace) routeComputed(ctx context.Context, e *route.Entry) {
	w.publish(ctx, events.TypeRouteComputed, "", map[string]string{
		"start":    e.StartName,
		"end":      e.EndName,
		"mode":     string(e.Key.Mode),
		"distance": route.FormatDistance(e.Summary.Distance),
		"duration": route.FormatDuration(e.Summary.Duration),
	})
}

// Events are best effort.
func (w *Workspace) publish(ctx context.Context, t events.Type, sessionID string, attrs map[string]string) {
	e := events.New(t, w.userID, sessionID, attrs)
	if err := w.pub.Publish(context.WithoutCancel(ctx), e); err != nil {
		log.Printf("[Workspace] publish event failed type=%s user=%s err=%v", t, w.userID, err)
	}
}
