// Package directions talks to the Kakao Mobility car directions API.
package directions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"

	"github.com/skku-swe/someplace/internal/place"
)

const DefaultURL = "https://apis-navi.kakaomobility.com/v1/directions"

var (
	ErrMissingKey  = errors.New("directions: KAKAO REST key is not configured")
	ErrNoRoute     = errors.New("directions: no route found (routes[0] missing)")
	ErrRouteFailed = errors.New("directions: route search failed")
)

// Result is the first route of a directions response. Duration is the
// service's car estimate in seconds.
type Result struct {
	Path     orb.LineString
	Distance float64
	Duration float64
}

type Client struct {
	restKey    string
	endpoint   string
	httpClient *http.Client
}

func NewClient(restKey, endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		restKey:    restKey,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Route requests a route from origin to dest.
func (c *Client) Route(ctx context.Context, origin, dest place.LatLng) (*Result, error) {
	if c.restKey == "" {
		return nil, ErrMissingKey
	}

	reqURL, err := c.buildURL(origin, dest)
	if err != nil {
		return nil, fmt.Errorf("directions: build url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "KakaoAK "+c.restKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readSnippet(resp.Body)
		log.Printf("[Directions] error status=%d body=%q", resp.StatusCode, truncate(body, 300))
		return nil, fmt.Errorf("route api error: HTTP %d\n%s", resp.StatusCode, truncate(body, 200))
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		body := readSnippet(resp.Body)
		log.Printf("[Directions] non-json response content-type=%q body=%q", contentType, truncate(body, 300))
		return nil, fmt.Errorf("route api error: non-JSON response\ncontent-type: %s\nbody: %s", contentType, truncate(body, 200))
	}

	var apiResp kakaoResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("directions: decode response: %w", err)
	}
	if len(apiResp.Routes) == 0 {
		return nil, ErrNoRoute
	}

	first := apiResp.Routes[0]
	if first.ResultCode != 0 {
		log.Printf("[Directions] route search failed result_code=%d result_msg=%q", first.ResultCode, first.ResultMsg)
		return nil, fmt.Errorf("%w: result_code=%d %s", ErrRouteFailed, first.ResultCode, first.ResultMsg)
	}
	path := make(orb.LineString, 0)
	for _, s := range first.Sections {
		for _, r := range s.Roads {
			for i := 0; i+1 < len(r.Vertexes); i += 2 {
				path = append(path, orb.Point{r.Vertexes[i], r.Vertexes[i+1]})
			}
		}
	}

	log.Printf("[Directions] route found distance=%.0f duration=%.0f points=%d", first.Summary.Distance, first.Summary.Duration, len(path))

	return &Result{
		Path:     path,
		Distance: first.Summary.Distance,
		Duration: first.Summary.Duration,
	}, nil
}

// Kakao expects "x,y", that is "lng,lat".
func (c *Client) buildURL(origin, dest place.LatLng) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("origin", formatXY(origin))
	q.Set("destination", formatXY(dest))
	q.Set("priority", "RECOMMEND")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func formatXY(p place.LatLng) string {
	return strconv.FormatFloat(p.Lng, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lat, 'f', -1, 64)
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4*1024))
	return strings.TrimSpace(string(b))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// --- Kakao Mobility response ---

type kakaoResponse struct {
	Routes []kakaoRoute `json:"routes"`
}

type kakaoRoute struct {
	ResultCode int            `json:"result_code"`
	ResultMsg  string         `json:"result_msg"`
	Summary    kakaoSummary   `json:"summary"`
	Sections   []kakaoSection `json:"sections"`
}

type kakaoSummary struct {
	Distance float64 `json:"distance"` // meters
	Duration float64 `json:"duration"` // seconds
}

type kakaoSection struct {
	Roads []kakaoRoad `json:"roads"`
}

type kakaoRoad struct {
	Vertexes []float64 `json:"vertexes"`
}
