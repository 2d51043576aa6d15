package directions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skku-swe/someplace/internal/place"
)

var (
	seoulStation = place.LatLng{Lat: 37.5547, Lng: 126.9707}
	namsan       = place.LatLng{Lat: 37.5512, Lng: 126.9882}
)

func TestRoute_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "KakaoAK secret", r.Header.Get("Authorization"))
		assert.Equal(t, "126.9707,37.5547", r.URL.Query().Get("origin"))
		assert.Equal(t, "126.9882,37.5512", r.URL.Query().Get("destination"))
		assert.Equal(t, "RECOMMEND", r.URL.Query().Get("priority"))

		w.Header().Set("Content-Type", "application/json;charset=UTF-8")
		_, _ = w.Write([]byte(`{"routes":[{"result_code":0,"summary":{"distance":2100,"duration":540},
			"sections":[{"roads":[{"vertexes":[126.9707,37.5547,126.98,37.553]},{"vertexes":[126.9882,37.5512]}]}]}]}`))
	}))
	defer srv.Close()

	c := NewClient("secret", srv.URL, time.Second)
	res, err := c.Route(context.Background(), seoulStation, namsan)
	require.NoError(t, err)

	assert.Equal(t, 2100.0, res.Distance)
	assert.Equal(t, 540.0, res.Duration)
	assert.Equal(t, orb.LineString{{126.9707, 37.5547}, {126.98, 37.553}, {126.9882, 37.5512}}, res.Path)
}

func TestRoute_MissingKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer srv.Close()

	_, err := NewClient("", srv.URL, time.Second).Route(context.Background(), seoulStation, namsan)
	assert.ErrorIs(t, err, ErrMissingKey)
	assert.False(t, called)
}

func TestRoute_ErrorStatusTruncatesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(strings.Repeat("e", 1000)))
	}))
	defer srv.Close()

	_, err := NewClient("k", srv.URL, time.Second).Route(context.Background(), seoulStation, namsan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 401")
	assert.Contains(t, err.Error(), strings.Repeat("e", 200))
	assert.NotContains(t, err.Error(), strings.Repeat("e", 201))
}

func TestRoute_NonJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}))
	defer srv.Close()

	_, err := NewClient("k", srv.URL, time.Second).Route(context.Background(), seoulStation, namsan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content-type: text/html")
	assert.Contains(t, err.Error(), "maintenance")
}

func TestRoute_NoRoutes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"routes":[]}`))
	}))
	defer srv.Close()

	_, err := NewClient("k", srv.URL, time.Second).Route(context.Background(), seoulStation, namsan)
	assert.ErrorIs(t, err, ErrNoRoute)
}

func TestRoute_NonZeroResultCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"routes":[{"result_code":104,"result_msg":"출발지와 도착지가 5 m 이내로 설정된 경우 경로를 탐색할 수 없음"}]}`))
	}))
	defer srv.Close()

	res, err := NewClient("k", srv.URL, time.Second).Route(context.Background(), seoulStation, namsan)
	assert.Nil(t, res)
	require.ErrorIs(t, err, ErrRouteFailed)
	assert.Contains(t, err.Error(), "result_code=104")
	assert.Contains(t, err.Error(), "경로를 탐색할 수 없음")
}
