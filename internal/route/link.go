package route

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/skku-swe/someplace/internal/place"
)

const (
	LinkByWalk    = "walk"
	LinkByTraffic = "traffic"

	defaultStartName = "출발지"
	defaultEndName   = "도착지"
)

var ErrUnknownLinkKind = errors.New("unknown link kind")

// DeepLink builds a map-application navigation URL between two points.
func DeepLink(host, by, startName string, start place.LatLng, endName string, end place.LatLng) (string, error) {
	by = strings.ToLower(strings.TrimSpace(by))
	if by != LinkByWalk && by != LinkByTraffic {
		return "", ErrUnknownLinkKind
	}
	if host == "" {
		host = "map.kakao.com"
	}
	if strings.TrimSpace(startName) == "" {
		startName = defaultStartName
	}
	if strings.TrimSpace(endName) == "" {
		endName = defaultEndName
	}
	return fmt.Sprintf("https://%s/link/by/%s/%s,%v,%v/%s,%v,%v",
		host, by,
		url.PathEscape(startName), start.Lat, start.Lng,
		url.PathEscape(endName), end.Lat, end.Lng,
	), nil
}

// LinkKind picks the deep-link flavor for a travel mode.
func LinkKind(m Mode) string {
	if m == ModeWalk {
		return LinkByWalk
	}
	return LinkByTraffic
}
