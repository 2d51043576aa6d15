package recommend

import (
	"context"
	"time"
)

// Mock answers every query with a fixed Yongsan course. It is used for
// front-end development without the real backend.
type Mock struct {
	Delay time.Duration
}

func (m Mock) Recommend(ctx context.Context, query string, history []HistoryMessage) (*Result, error) {
	if _, err := NormalizeQuery(query); err != nil {
		return nil, err
	}
	if m.Delay > 0 {
		t := time.NewTimer(m.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	return mockYongsan(), nil
}

func mockYongsan() *Result {
	raw := backendResponse{
		Message: "SUCCESS",
		Summary: "용산에서 즐기는 여유로운 데이트 코스를 추천해 드릴게요. 전쟁기념관을 둘러본 뒤 용리단길에서 식사와 커피를 즐겨보세요.",
		Places: []backendPlace{
			{
				ID: "1", Name: "전쟁기념관", Address: strPtr("서울 용산구 이태원로 29"),
				Latitude: 37.5365, Longitude: 126.9772, Category: strPtr("ATTRACTION"), Rating: floatPtr(4.6),
				ReviewSummary: strPtr("넓은 야외 전시와 산책로가 있어 천천히 걷기 좋아요."),
			},
			{
				ID: "2", Name: "용리단길 파스타", Address: strPtr("서울 용산구 한강대로 52길"),
				Latitude: 37.5311, Longitude: 126.9707, Category: strPtr("RESTAURANT"), Rating: floatPtr(0),
			},
			{
				ID: "3", Name: "삼각지 루프탑 카페",
				Latitude: 37.5349, Longitude: 126.9731, Category: strPtr("CAFE"), Rating: floatPtr(4.4),
			},
		},
	}
	return adapt(raw)
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

var _ Recommender = Mock{}
var _ Recommender = (*HTTPClient)(nil)
