// Package place holds the recommended-place model shared by the chat history,
// the map coordinator and the recommendation adapter.
package place

import (
	"errors"
	"strings"
)

type Category string

const (
	CategoryRestaurant Category = "restaurant"
	CategoryCafe       Category = "cafe"
	CategorySpot       Category = "spot"
	CategoryEtc        Category = "etc"
)

var ErrUnknownCategory = errors.New("unknown category")

// ParseSavedCategory accepts only the categories a place can be bookmarked under.
func ParseSavedCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryRestaurant, CategoryCafe, CategorySpot:
		return c, nil
	}
	return "", ErrUnknownCategory
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Place struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	Latitude      float64  `json:"latitude"`
	Longitude     float64  `json:"longitude"`
	Category      Category `json:"category"`
	Rating        float64  `json:"rating"`
	ReviewSummary string   `json:"reviewSummary"`
	ImageURLs     []string `json:"imageUrls"`
}

// Key is the locally unique identity of a place. Backend ids repeat across
// recommendations, so the coordinates are part of the key.
type Key struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p Place) Key() Key {
	id := p.ID
	if id == "" {
		id = "noid"
	}
	return Key{ID: id, Lat: p.Latitude, Lng: p.Longitude}
}

func (p Place) LatLng() LatLng {
	return LatLng{Lat: p.Latitude, Lng: p.Longitude}
}

// Clone copies the image slice so stored snapshots never alias caller data.
func (p Place) Clone() Place {
	p.ImageURLs = append([]string(nil), p.ImageURLs...)
	return p
}
