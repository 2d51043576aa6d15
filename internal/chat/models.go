package chat

import (
	"time"

	"github.com/skku-swe/someplace/internal/place"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

const WelcomeText = "안녕하세요! 설레는 데이트를 위한 장소를 추천해 드릴게요. \n원하시는 지역이나 분위기를 말씀해주세요! 💕"

// Message is immutable once appended to a session.
type Message struct {
	Role   Role          `json:"role"`
	Text   string        `json:"text"`
	Places []place.Place `json:"places,omitempty"`
}

func WelcomeMessage() Message {
	return Message{Role: RoleAssistant, Text: WelcomeText}
}

type Session struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Messages      []Message `json:"messages"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

func (s Session) clone() Session {
	s.Messages = append([]Message(nil), s.Messages...)
	return s
}

const titleMaxRunes = 15

// TitleFrom derives a session title from the first user message.
func TitleFrom(text string) string {
	r := []rune(text)
	if len(r) > titleMaxRunes {
		return string(r[:titleMaxRunes]) + "..."
	}
	return text
}
