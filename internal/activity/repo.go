// Package activity stores workspace events in the SQL database.
package activity

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/skku-swe/someplace/internal/events"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) (*Repo, error) {
	if err := db.AutoMigrate(&Log{}); err != nil {
		return nil, fmt.Errorf("migrate activity_logs: %w", err)
	}
	return &Repo{db: db}, nil
}

// Insert records e once; redelivered events with a known id are ignored.
func (r *Repo) Insert(ctx context.Context, e events.Event) error {
	var attrs string
	if len(e.Attrs) > 0 {
		b, err := json.Marshal(e.Attrs)
		if err != nil {
			return err
		}
		attrs = string(b)
	}
	row := Log{
		EventID:    e.ID,
		Type:       string(e.Type),
		UserID:     e.UserID,
		SessionID:  e.SessionID,
		Attrs:      attrs,
		OccurredAt: e.At,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "event_id"}}, DoNothing: true}).
		Create(&row).Error
}

// ListRecent returns a user's newest events first.
func (r *Repo) ListRecent(ctx context.Context, userID string, limit int) ([]Log, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var logs []Log
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("occurred_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// Publish writes the event straight to the table. The server uses this when
// no broker is configured.
func (r *Repo) Publish(ctx context.Context, e events.Event) error {
	return r.Insert(ctx, e)
}

var _ events.Publisher = (*Repo)(nil)
