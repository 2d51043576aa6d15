package activity

import "time"

type Log struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID    string    `gorm:"type:varchar(26);uniqueIndex;not null" json:"event_id"`
	Type       string    `gorm:"type:varchar(32);index;not null" json:"type"`
	UserID     string    `gorm:"type:varchar(128);index;not null" json:"user_id"`
	SessionID  string    `gorm:"type:varchar(26)" json:"session_id,omitempty"`
	Attrs      string    `gorm:"type:text" json:"attrs,omitempty"`
	OccurredAt time.Time `gorm:"index" json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Log) TableName() string { return "activity_logs" }
