package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skku-swe/someplace/internal/auth"
	"github.com/skku-swe/someplace/internal/config"
	"github.com/skku-swe/someplace/internal/directions"
	"github.com/skku-swe/someplace/internal/httpapi/handlers"
	"github.com/skku-swe/someplace/internal/kv"
	"github.com/skku-swe/someplace/internal/mapview"
	"github.com/skku-swe/someplace/internal/place"
	"github.com/skku-swe/someplace/internal/recommend"
	"github.com/skku-swe/someplace/internal/route"
	"github.com/skku-swe/someplace/internal/workspace"
)

type fakeRouter struct{ err error }

func (f fakeRouter) Route(_ context.Context, origin, dest place.LatLng) (*directions.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &directions.Result{
		Path:     orb.LineString{{origin.Lng, origin.Lat}, {dest.Lng, dest.Lat}},
		Distance: 1500,
		Duration: 300,
	}, nil
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	token  string
}

func newTestServer(t *testing.T, cfg config.Config, router mapview.Router) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if cfg.MapLinkHost == "" {
		cfg.MapLinkHost = "map.kakao.com"
	}
	reg := workspace.NewRegistry(workspace.Deps{
		Store:       kv.NewMemoryStore(),
		Recommender: recommend.Mock{},
		Router:      router,
	})
	h := handlers.NewHandler(cfg, reg, nil)
	return &testServer{t: t, engine: NewRouter(cfg, h)}
}

func (s *testServer) do(method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func TestPing(t *testing.T) {
	s := newTestServer(t, config.Config{}, fakeRouter{})
	w, env := s.do(http.MethodGet, "/ping", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestNotFoundEnvelope(t *testing.T) {
	s := newTestServer(t, config.Config{}, fakeRouter{})
	w, env := s.do(http.MethodGet, "/nope", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 40400, env.Code)
}

func TestSearch_EmptyQueryIsNoContent(t *testing.T) {
	s := newTestServer(t, config.Config{}, fakeRouter{})
	w, _ := s.do(http.MethodPost, "/chat/search", gin.H{"query": "  "})

	assert.Equal(t, http.StatusNoContent, w.Code)

	_, env := s.do(http.MethodGet, "/chat/sessions", nil)
	var data struct {
		Sessions []json.RawMessage `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Empty(t, data.Sessions)
}

type mapState struct {
	Map struct {
		Displayed []place.Place `json:"displayedPlaces"`
		Saved     []struct {
			Key place.Key `json:"key"`
		} `json:"savedPlaces"`
		RouteState string        `json:"routeState"`
		Routes     []route.Entry `json:"routes"`
	} `json:"map"`
}

func TestChatAndMapFlow(t *testing.T) {
	s := newTestServer(t, config.Config{}, fakeRouter{})

	w, env := s.do(http.MethodPost, "/chat/search", gin.H{"query": "용산 데이트 코스"})
	require.Equal(t, http.StatusOK, w.Code)
	var searched struct {
		SessionID string `json:"current_session_id"`
		Reply     struct {
			Places []place.Place `json:"places"`
		} `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &searched))
	require.Len(t, searched.Reply.Places, 3)

	w, env = s.do(http.MethodPost, "/map/places/apply", gin.H{"session_id": searched.SessionID, "message_index": 2})
	require.Equal(t, http.StatusOK, w.Code, env.Message)

	var st mapState
	require.NoError(t, json.Unmarshal(env.Data, &st))
	require.Len(t, st.Map.Displayed, 3)
	a, b := st.Map.Displayed[0].Key(), st.Map.Displayed[1].Key()

	w, _ = s.do(http.MethodPost, "/map/saved", gin.H{"key": a, "category": "spot"})
	require.Equal(t, http.StatusOK, w.Code)
	w, env = s.do(http.MethodPost, "/map/saved", gin.H{"key": a, "category": "etc"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 10003, env.Code)

	w, _ = s.do(http.MethodPost, "/map/route/start", gin.H{"key": a})
	require.Equal(t, http.StatusOK, w.Code)
	w, env = s.do(http.MethodPost, "/map/route/end", gin.H{"key": b})
	require.Equal(t, http.StatusOK, w.Code)

	st = mapState{}
	require.NoError(t, json.Unmarshal(env.Data, &st))
	assert.Equal(t, "idle", st.Map.RouteState)
	require.Len(t, st.Map.Routes, 1)

	w, env = s.do(http.MethodPut, "/map/route/mode", gin.H{"mode": "walk"})
	require.Equal(t, http.StatusOK, w.Code)
	var changed struct {
		Route *route.Entry `json:"route"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &changed))
	require.NotNil(t, changed.Route)
	assert.InDelta(t, 1200.0, changed.Route.Summary.Duration, 1e-9)

	w, env = s.do(http.MethodPost, "/map/routes/link", gin.H{"start": a, "end": b, "mode": "walk"})
	require.Equal(t, http.StatusOK, w.Code)
	var link struct {
		URL      string `json:"url"`
		Distance string `json:"distance"`
		Duration string `json:"duration"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &link))
	assert.Contains(t, link.URL, "https://map.kakao.com/link/by/walk/")
	assert.Equal(t, "1.5 km", link.Distance)
	assert.Equal(t, "20분", link.Duration)

	w, _ = s.do(http.MethodPost, "/map/routes/remove", gin.H{"start": a, "end": b, "mode": "car"})
	require.Equal(t, http.StatusOK, w.Code)
	w, env = s.do(http.MethodPost, "/map/routes/select", gin.H{"start": a, "end": b, "mode": "car"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 40007, env.Code)

	w, _ = s.do(http.MethodPost, "/chat/sessions/new", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, env = s.do(http.MethodGet, "/map/state", nil)
	st = mapState{}
	require.NoError(t, json.Unmarshal(env.Data, &st))
	assert.Empty(t, st.Map.Displayed)
	assert.Len(t, st.Map.Saved, 1)

	w, _ = s.do(http.MethodDelete, "/chat/sessions/"+searched.SessionID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, env = s.do(http.MethodDelete, "/chat/sessions/"+searched.SessionID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 40004, env.Code)
}

func TestRouteFailureIsBadGateway(t *testing.T) {
	s := newTestServer(t, config.Config{}, fakeRouter{err: errors.New("route api error: HTTP 500")})
	a := place.Place{ID: "1", Name: "A", Latitude: 37.5, Longitude: 127.0}
	b := place.Place{ID: "2", Name: "B", Latitude: 37.6, Longitude: 127.1}

	w, _ := s.do(http.MethodPost, "/map/places/apply", gin.H{"places": []place.Place{a, b}})
	require.Equal(t, http.StatusOK, w.Code)

	_, _ = s.do(http.MethodPost, "/map/route/start", gin.H{"key": a.Key()})
	w, env := s.do(http.MethodPost, "/map/route/end", gin.H{"key": b.Key()})

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, handlers.RouteFailedMessage, env.Message)

	w, env = s.do(http.MethodPost, "/map/route/start", gin.H{"key": place.Key{ID: "missing"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 40006, env.Code)
}

func TestSelectUnknownSessionIsNoop(t *testing.T) {
	s := newTestServer(t, config.Config{}, fakeRouter{})
	w, env := s.do(http.MethodPost, "/chat/sessions/missing/select", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Selected bool `json:"selected"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.False(t, data.Selected)
}

func TestAuth_SeparatesWorkspaces(t *testing.T) {
	cfg := config.Config{JWTSecret: "secret"}
	s := newTestServer(t, cfg, fakeRouter{})

	w, env := s.do(http.MethodGet, "/chat/sessions", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 40100, env.Code)

	alice, err := auth.SignJWT("alice", "secret", time.Hour)
	require.NoError(t, err)
	bob, err := auth.SignJWT("bob", "secret", time.Hour)
	require.NoError(t, err)

	s.token = alice
	w, _ = s.do(http.MethodPost, "/chat/search", gin.H{"query": "용산"})
	require.Equal(t, http.StatusOK, w.Code)

	s.token = bob
	_, env = s.do(http.MethodGet, "/chat/sessions", nil)
	var data struct {
		Sessions []json.RawMessage `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Empty(t, data.Sessions)

	s.token = "garbage"
	w, env = s.do(http.MethodGet, "/chat/sessions", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 40101, env.Code)
}

func TestActivityDisabled(t *testing.T) {
	s := newTestServer(t, config.Config{}, fakeRouter{})
	w, _ := s.do(http.MethodGet, "/activity", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
