package ledger

import (
	"time"

	"builders-bot/internal/models"
)

type TelegramActivity struct {
	Messages int `json:"messages"`
	Replies  int `json:"replies"`
}

type GithubContributions struct {
	Commits int `json:"commits"`
	PRs     int `json:"prs"`
	Issues  int `json:"issues"`
}

// Profile is the nested logical view of a user that callers consume. Related
// counters are grouped into sub-objects even though storage keeps them as
// flat columns.
type Profile struct {
	UserID              int64               `json:"user_id"`
	Username            *string             `json:"username"`
	FirstName           *string             `json:"first_name"`
	GithubUsername      *string             `json:"github_username"`
	WalletAddress       *string             `json:"wallet_address"`
	BuilderScore        float64             `json:"builder_score"`
	CreatedAt           time.Time           `json:"created_at"`
	NominationsReceived int                 `json:"nominations_received"`
	NominationsGiven    []string            `json:"nominations_given"`
	TelegramActivity    TelegramActivity    `json:"telegram_activity"`
	GithubContributions GithubContributions `json:"github_contributions"`
}

// profileFromRow is the only place the flat storage row becomes the nested
// profile shape. Every logical field has a deterministic source column; a
// missing given-list maps to an empty slice, counters map to their columns
// which default to zero at insert.
func profileFromRow(row models.User) Profile {
	given := make([]string, len(row.NominationsGiven))
	copy(given, row.NominationsGiven)

	return Profile{
		UserID:              row.ID,
		Username:            row.Username,
		FirstName:           row.FirstName,
		GithubUsername:      row.GithubUsername,
		WalletAddress:       row.WalletAddress,
		BuilderScore:        row.BuilderScore,
		CreatedAt:           row.CreatedAt,
		NominationsReceived: row.NominationsReceived,
		NominationsGiven:    given,
		TelegramActivity: TelegramActivity{
			Messages: row.TelegramMessages,
			Replies:  row.TelegramReplies,
		},
		GithubContributions: GithubContributions{
			Commits: row.GithubCommits,
			PRs:     row.GithubPRs,
			Issues:  row.GithubIssues,
		},
	}
}
