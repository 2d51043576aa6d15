package recommend

import (
	"errors"
	"strings"

	"github.com/skku-swe/someplace/internal/chat"
)

const DefaultHistoryWindow = 10

var ErrEmptyQuery = errors.New("recommend: empty query")

// NormalizeQuery trims the query and rejects blank input.
func NormalizeQuery(q string) (string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return "", ErrEmptyQuery
	}
	return q, nil
}

// ReduceHistory keeps role and text only, and only the most recent window entries.
func ReduceHistory(messages []chat.Message, window int) []HistoryMessage {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	if len(messages) > window {
		messages = messages[len(messages)-window:]
	}
	out := make([]HistoryMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, HistoryMessage{Role: string(m.Role), Content: m.Text})
	}
	return out
}
