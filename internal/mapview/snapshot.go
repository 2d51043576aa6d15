package mapview

import (
	"github.com/paulmach/orb"

	"github.com/skku-swe/someplace/internal/place"
	"github.com/skku-swe/someplace/internal/route"
)

type RouteState string

const (
	RouteIdle        RouteState = "idle"
	RouteStartChosen RouteState = "start_chosen"
	RouteEndChosen   RouteState = "end_chosen"
	RouteBothChosen  RouteState = "both_chosen"
)

type Viewport struct {
	SouthWest place.LatLng `json:"southWest"`
	NorthEast place.LatLng `json:"northEast"`
	Center    place.LatLng `json:"center"`
}

type Snapshot struct {
	Displayed   []place.Place `json:"displayedPlaces"`
	Selected    *place.Key    `json:"selectedPlace"`
	Saved       []SavedPlace  `json:"savedPlaces"`
	Mode        route.Mode    `json:"routeMode"`
	RouteState  RouteState    `json:"routeState"`
	RouteStart  *place.Key    `json:"routeStart"`
	RouteEnd    *place.Key    `json:"routeEnd"`
	Routes      []route.Entry `json:"routes"`
	ActiveRoute *route.Entry  `json:"activeRoute"`
	Viewport    *Viewport     `json:"viewport"`
}

func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Displayed:  make([]place.Place, 0, len(c.displayed)),
		Saved:      make([]SavedPlace, 0, len(c.saved)),
		Routes:     make([]route.Entry, 0, len(c.routes)),
		Mode:       c.mode,
		RouteState: c.routeState(),
		Selected:   copyKey(c.selected),
		RouteStart: copyKey(c.start),
		RouteEnd:   copyKey(c.end),
	}
	for _, p := range c.displayed {
		s.Displayed = append(s.Displayed, p.Clone())
	}
	for _, sp := range c.saved {
		sp.Place = sp.Place.Clone()
		s.Saved = append(s.Saved, sp)
	}
	for _, e := range c.routes {
		s.Routes = append(s.Routes, e.Clone())
		if c.active != nil && e.Key == *c.active {
			active := e.Clone()
			s.ActiveRoute = &active
		}
	}
	s.Viewport = c.viewport(s.ActiveRoute)
	return s
}

// must hold mu
func (c *Coordinator) routeState() RouteState {
	switch {
	case c.start != nil && c.end != nil:
		return RouteBothChosen
	case c.start != nil:
		return RouteStartChosen
	case c.end != nil:
		return RouteEndChosen
	default:
		return RouteIdle
	}
}

// viewport fits the active route, or else the plotted places. The center
// follows the selected place when there is one.
// must hold mu
func (c *Coordinator) viewport(active *route.Entry) *Viewport {
	var (
		b   orb.Bound
		has bool
	)
	if active != nil {
		b, has = active.Bound(), true
	} else {
		for _, p := range c.displayed {
			pt := orb.Point{p.Longitude, p.Latitude}
			if !has {
				b, has = pt.Bound(), true
				continue
			}
			b = b.Extend(pt)
		}
	}
	if !has {
		return nil
	}

	center := b.Center()
	v := &Viewport{
		SouthWest: place.LatLng{Lat: b.Min.Lat(), Lng: b.Min.Lon()},
		NorthEast: place.LatLng{Lat: b.Max.Lat(), Lng: b.Max.Lon()},
		Center:    place.LatLng{Lat: center.Lat(), Lng: center.Lon()},
	}
	if active == nil && c.selected != nil {
		if p, ok := c.resolve(*c.selected); ok {
			v.Center = p.LatLng()
		}
	}
	return v
}

func copyKey(k *place.Key) *place.Key {
	if k == nil {
		return nil
	}
	out := *k
	return &out
}
