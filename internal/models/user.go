package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// User is the flat storage row for a community member. The primary key is the
// Telegram user ID and is never generated locally.
type User struct {
	ID                  int64      `gorm:"primaryKey;autoIncrement:false"`
	Username            *string    `gorm:"size:255;index"`
	FirstName           *string    `gorm:"size:255"`
	GithubUsername      *string    `gorm:"size:255;index"`
	WalletAddress       *string    `gorm:"size:255"`
	BuilderScore        float64    `gorm:"not null;default:0"`
	NominationsReceived int        `gorm:"not null;default:0"`
	NominationsGiven    StringList `gorm:"type:jsonb"`
	TelegramMessages    int        `gorm:"not null;default:0"`
	TelegramReplies     int        `gorm:"not null;default:0"`
	GithubCommits       int        `gorm:"not null;default:0"`
	GithubPRs           int        `gorm:"column:github_prs;not null;default:0"`
	GithubIssues        int        `gorm:"not null;default:0"`
	CreatedAt           time.Time
}

// StringList stores an ordered list of strings in a single jsonb column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}
