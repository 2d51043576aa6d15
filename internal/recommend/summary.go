package recommend

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

const (
	summaryFallback      = "추천 장소를 확인해보세요!"
	summaryParseFallback = "AI 요약 정보를 불러오는 중입니다."

	legacyCommentsKey = "추천 멘트"
	legacyPlaceKey    = "장소"
)

// ParseSummary renders the legacy JSON-embedded summary format. Plain text
// summaries pass through unchanged.
func ParseSummary(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return raw
	}

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		log.Printf("[Recommend] summary parsing failed: %v", err)
		return summaryParseFallback
	}

	var comments []map[string]string
	if err := json.Unmarshal(parsed[legacyCommentsKey], &comments); err != nil || comments == nil {
		return summaryFallback
	}

	blocks := make([]string, 0, len(comments))
	for _, c := range comments {
		blocks = append(blocks, fmt.Sprintf("✨ **%s**\n%s", c[legacyPlaceKey], c[legacyCommentsKey]))
	}
	return strings.Join(blocks, "\n\n")
}
