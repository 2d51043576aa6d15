// Package mapview tracks what the map shows: plotted places, bookmarked
// places, pending route endpoints and computed routes.
package mapview

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/skku-swe/someplace/internal/directions"
	"github.com/skku-swe/someplace/internal/place"
	"github.com/skku-swe/someplace/internal/route"
)

var (
	ErrPlaceNotFound = errors.New("place not found")
	ErrRouteNotFound = errors.New("route not found")
)

// Router is the directions lookup the coordinator depends on.
type Router interface {
	Route(ctx context.Context, origin, dest place.LatLng) (*directions.Result, error)
}

type SavedPlace struct {
	Key      place.Key      `json:"key"`
	Place    place.Place    `json:"place"`
	Category place.Category `json:"category"`
	SavedAt  time.Time      `json:"savedAt"`
}

type pair struct {
	start, end place.Key
}

// Coordinator is safe for concurrent use. Directions calls run without the
// lock held; their results are applied when they arrive, whatever changed
// in the meantime.
type Coordinator struct {
	mu sync.Mutex

	router Router
	now    func() time.Time

	displayed []place.Place
	selected  *place.Key
	saved     []SavedPlace

	mode     route.Mode
	start    *place.Key
	end      *place.Key
	lastPair *pair

	routes []route.Entry
	active *route.Key
}

func NewCoordinator(router Router) *Coordinator {
	return &Coordinator{
		router: router,
		now:    time.Now,
		mode:   route.ModeCar,
	}
}

// ApplyPlaces plots places that are not already displayed and selects the
// first place of the batch. It returns how many were added.
func (c *Coordinator) ApplyPlaces(places []place.Place) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[place.Key]struct{}, len(c.displayed)+len(places))
	for _, p := range c.displayed {
		seen[p.Key()] = struct{}{}
	}

	added := 0
	for _, p := range places {
		k := p.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		c.displayed = append(c.displayed, p.Clone())
		added++
	}

	if len(places) > 0 {
		k := places[0].Key()
		c.selected = &k
	}
	return added
}

func (c *Coordinator) RemovePlace(key place.Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.displayedIndex(key)
	if idx < 0 {
		return false
	}
	c.displayed = append(c.displayed[:idx:idx], c.displayed[idx+1:]...)
	if c.selected != nil && *c.selected == key {
		c.selected = nil
	}
	return true
}

func (c *Coordinator) SelectPlace(key place.Key) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.resolve(key); !ok {
		return ErrPlaceNotFound
	}
	c.selected = &key
	return nil
}

// SavePlace bookmarks a plotted place under category. Saving the same
// (place, category) twice is a no-op reported as false.
func (c *Coordinator) SavePlace(key place.Key, category place.Category) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, sp := range c.saved {
		if sp.Key == key && sp.Category == category {
			return false, nil
		}
	}
	p, ok := c.resolve(key)
	if !ok {
		return false, ErrPlaceNotFound
	}
	c.saved = append(c.saved, SavedPlace{
		Key:      key,
		Place:    p.Clone(),
		Category: category,
		SavedAt:  c.now(),
	})
	return true, nil
}

// RemoveSavedPlace drops a bookmark. A pending route endpoint on that place
// is cleared along with the displayed route.
func (c *Coordinator) RemoveSavedPlace(key place.Key, category place.Category) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := false
	kept := c.saved[:0:0]
	for _, sp := range c.saved {
		if sp.Key == key && sp.Category == category {
			removed = true
			continue
		}
		kept = append(kept, sp)
	}
	c.saved = kept

	if c.start != nil && *c.start == key {
		c.start = nil
		c.active = nil
	}
	if c.end != nil && *c.end == key {
		c.end = nil
		c.active = nil
	}
	return removed
}

// SetRouteStart designates the route origin. With a different destination
// already chosen the route is requested right away and the returned entry is
// non-nil.
func (c *Coordinator) SetRouteStart(ctx context.Context, key place.Key) (*route.Entry, error) {
	c.mu.Lock()
	if _, ok := c.resolve(key); !ok {
		c.mu.Unlock()
		return nil, ErrPlaceNotFound
	}
	c.start = &key
	if c.end == nil || *c.end == key {
		c.mu.Unlock()
		return nil, nil
	}
	p, mode := pair{start: key, end: *c.end}, c.mode
	c.mu.Unlock()

	return c.requestRoute(ctx, p, mode)
}

func (c *Coordinator) SetRouteEnd(ctx context.Context, key place.Key) (*route.Entry, error) {
	c.mu.Lock()
	if _, ok := c.resolve(key); !ok {
		c.mu.Unlock()
		return nil, ErrPlaceNotFound
	}
	c.end = &key
	if c.start == nil || *c.start == key {
		c.mu.Unlock()
		return nil, nil
	}
	p, mode := pair{start: *c.start, end: key}, c.mode
	c.mu.Unlock()

	return c.requestRoute(ctx, p, mode)
}

// ChangeMode switches the travel mode. The pending pair is requested under
// the new mode if both ends are chosen; otherwise the last requested pair is
// re-issued while both of its places can still be found.
func (c *Coordinator) ChangeMode(ctx context.Context, mode route.Mode) (*route.Entry, error) {
	c.mu.Lock()
	c.mode = mode

	var p *pair
	switch {
	case c.start != nil && c.end != nil:
		p = &pair{start: *c.start, end: *c.end}
	case c.lastPair != nil:
		_, okStart := c.resolve(c.lastPair.start)
		_, okEnd := c.resolve(c.lastPair.end)
		if okStart && okEnd {
			cp := *c.lastPair
			p = &cp
		}
	}
	c.mu.Unlock()

	if p == nil {
		return nil, nil
	}
	return c.requestRoute(ctx, *p, mode)
}

func (c *Coordinator) requestRoute(ctx context.Context, p pair, mode route.Mode) (*route.Entry, error) {
	c.mu.Lock()
	start, okStart := c.resolve(p.start)
	end, okEnd := c.resolve(p.end)
	c.mu.Unlock()
	if !okStart || !okEnd {
		return nil, ErrPlaceNotFound
	}

	log.Printf("[MapView] route request start=%q end=%q mode=%s", start.Name, end.Name, mode)

	res, err := c.router.Route(ctx, start.LatLng(), end.LatLng())
	if err != nil {
		log.Printf("[MapView] route request failed start=%q end=%q mode=%s err=%v", start.Name, end.Name, mode, err)
		return nil, err
	}

	entry := route.NewEntry(start, end, mode, res.Path, res.Distance, res.Duration)

	c.mu.Lock()
	defer c.mu.Unlock()

	replaced := false
	for i := range c.routes {
		if c.routes[i].Key == entry.Key {
			c.routes[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		c.routes = append(c.routes, entry)
	}
	k := entry.Key
	c.active = &k
	c.start, c.end = nil, nil
	c.lastPair = &p

	out := entry.Clone()
	return &out, nil
}

func (c *Coordinator) RemoveRoute(key route.Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.routes {
		if c.routes[i].Key == key {
			c.routes = append(c.routes[:i:i], c.routes[i+1:]...)
			if c.active != nil && *c.active == key {
				c.active = nil
			}
			return true
		}
	}
	return false
}

func (c *Coordinator) SelectRoute(key route.Key) (route.Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.routes {
		if e.Key == key {
			k := key
			c.active = &k
			return e.Clone(), nil
		}
	}
	return route.Entry{}, ErrRouteNotFound
}

// Route returns a stored route without changing the active one.
func (c *Coordinator) Route(key route.Key) (route.Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.routes {
		if e.Key == key {
			return e.Clone(), true
		}
	}
	return route.Entry{}, false
}

// Reset clears the plotted places and every route. Bookmarks and the travel
// mode survive.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.displayed = nil
	c.selected = nil
	c.start, c.end = nil, nil
	c.lastPair = nil
	c.routes = nil
	c.active = nil
}

// must hold mu
func (c *Coordinator) displayedIndex(key place.Key) int {
	for i := range c.displayed {
		if c.displayed[i].Key() == key {
			return i
		}
	}
	return -1
}

// resolve looks a key up among displayed places first, then bookmarks.
// must hold mu
func (c *Coordinator) resolve(key place.Key) (place.Place, bool) {
	if idx := c.displayedIndex(key); idx >= 0 {
		return c.displayed[idx], true
	}
	for _, sp := range c.saved {
		if sp.Key == key {
			return sp.Place, true
		}
	}
	return place.Place{}, false
}
