package recommend

import (
	"strings"

	"github.com/skku-swe/someplace/internal/place"
)

const (
	DefaultAddress       = "주소 정보 없음"
	DefaultReviewSummary = "AI가 추천하는 장소입니다."
	PlaceholderImageURL  = "https://via.placeholder.com/300x200?text=No+Image"

	// A zero rating from the backend means "not rated".
	DefaultRating = 4.5
)

// MapCategory maps backend categories case-insensitively.
func MapCategory(backend string) place.Category {
	switch strings.ToUpper(strings.TrimSpace(backend)) {
	case "RESTAURANT":
		return place.CategoryRestaurant
	case "CAFE":
		return place.CategoryCafe
	case "ATTRACTION":
		return place.CategorySpot
	default:
		return place.CategoryEtc
	}
}

// AdaptPlace substitutes every documented default exactly once.
func AdaptPlace(p backendPlace) place.Place {
	out := place.Place{
		ID:            string(p.ID),
		Name:          p.Name,
		Address:       DefaultAddress,
		Latitude:      p.Latitude,
		Longitude:     p.Longitude,
		Category:      place.CategoryEtc,
		Rating:        DefaultRating,
		ReviewSummary: DefaultReviewSummary,
		ImageURLs:     []string{PlaceholderImageURL},
	}
	if p.Address != nil && *p.Address != "" {
		out.Address = *p.Address
	}
	if p.Category != nil {
		out.Category = MapCategory(*p.Category)
	}
	if p.Rating != nil && *p.Rating != 0 {
		out.Rating = *p.Rating
	}
	if p.ReviewSummary != nil && *p.ReviewSummary != "" {
		out.ReviewSummary = *p.ReviewSummary
	}
	if len(p.ImageURLs) > 0 {
		out.ImageURLs = append([]string(nil), p.ImageURLs...)
	}
	return out
}

func adapt(resp backendResponse) *Result {
	places := make([]place.Place, 0, len(resp.Places))
	for _, p := range resp.Places {
		places = append(places, AdaptPlace(p))
	}
	return &Result{
		Message: resp.Message,
		Summary: ParseSummary(resp.Summary),
		Places:  places,
	}
}
