package recommend

import (
	"bytes"
	"encoding/json"

	"github.com/skku-swe/someplace/internal/place"
)

// HistoryMessage is the trimmed form of a chat message sent to the backend.
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type recommendReq struct {
	Query   string           `json:"query"`
	History []HistoryMessage `json:"history"`
}

// backendPlace mirrors the backend payload. Optional fields are pointers (or a
// nil slice) so that absent values can be told apart from present ones.
type backendPlace struct {
	ID            backendID `json:"id"`
	Name          string    `json:"name"`
	Address       *string   `json:"address"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Category      *string   `json:"category"`
	Rating        *float64  `json:"rating"`
	ReviewSummary *string   `json:"reviewSummary"`
	ImageURLs     []string  `json:"imageUrls"`
}

// backendID accepts both numeric and string ids.
type backendID string

func (id *backendID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = backendID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = backendID(n.String())
	return nil
}

type backendResponse struct {
	Message string         `json:"message"`
	Places  []backendPlace `json:"places"`
	Summary string         `json:"summary"`
}

type Result struct {
	Message string        `json:"message"`
	Summary string        `json:"summary"`
	Places  []place.Place `json:"places"`
}
