// Package route models computed point-to-point routes between saved places.
package route

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/paulmach/orb"

	"github.com/skku-swe/someplace/internal/place"
)

type Mode string

const (
	ModeCar     Mode = "car"
	ModeWalk    Mode = "walk"
	ModeTransit Mode = "transit"
)

// Speeds in meters per second used when the directions service only reports car durations.
const (
	walkSpeed    = 1.25
	transitSpeed = 5.6
)

var ErrUnknownMode = errors.New("unknown travel mode")

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeCar, ModeWalk, ModeTransit:
		return m, nil
	}
	return "", ErrUnknownMode
}

// AdjustDuration returns the travel time in seconds for mode. Distance is
// always the service's own value; only car keeps the service's duration.
func AdjustDuration(mode Mode, distance, duration float64) float64 {
	switch mode {
	case ModeWalk:
		return distance / walkSpeed
	case ModeTransit:
		return distance / transitSpeed
	default:
		return duration
	}
}

type Key struct {
	Start place.Key `json:"start"`
	End   place.Key `json:"end"`
	Mode  Mode      `json:"mode"`
}

type Summary struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

type Entry struct {
	Key       Key            `json:"key"`
	StartName string         `json:"startName"`
	EndName   string         `json:"endName"`
	Summary   Summary        `json:"summary"`
	Path      []place.LatLng `json:"path"`
	Start     place.LatLng   `json:"startLatLng"`
	End       place.LatLng   `json:"endLatLng"`
}

// NewEntry builds an entry from a raw directions result, applying the mode's
// duration rule.
func NewEntry(start, end place.Place, mode Mode, path orb.LineString, distance, duration float64) Entry {
	pts := make([]place.LatLng, 0, len(path))
	for _, p := range path {
		pts = append(pts, place.LatLng{Lat: p.Lat(), Lng: p.Lon()})
	}
	return Entry{
		Key:       Key{Start: start.Key(), End: end.Key(), Mode: mode},
		StartName: start.Name,
		EndName:   end.Name,
		Summary:   Summary{Distance: distance, Duration: AdjustDuration(mode, distance, duration)},
		Path:      pts,
		Start:     start.LatLng(),
		End:       end.LatLng(),
	}
}

// Bound covers the path and both endpoints.
func (e Entry) Bound() orb.Bound {
	b := orb.Point{e.Start.Lng, e.Start.Lat}.Bound()
	b = b.Extend(orb.Point{e.End.Lng, e.End.Lat})
	for _, p := range e.Path {
		b = b.Extend(orb.Point{p.Lng, p.Lat})
	}
	return b
}

func (e Entry) Clone() Entry {
	e.Path = append([]place.LatLng(nil), e.Path...)
	return e
}

// FormatDistance renders meters as kilometers with one decimal.
func FormatDistance(meters float64) string {
	return fmt.Sprintf("%.1f km", meters/1000)
}

// FormatDuration renders seconds as whole minutes, with hours once past 60.
func FormatDuration(seconds float64) string {
	mins := int(math.Round(seconds / 60))
	if mins < 60 {
		return fmt.Sprintf("%d분", mins)
	}
	if mins%60 == 0 {
		return fmt.Sprintf("%d시간", mins/60)
	}
	return fmt.Sprintf("%d시간 %d분", mins/60, mins%60)
}
