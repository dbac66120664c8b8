package webhook

// GitHub event payloads, trimmed to the fields the counters need.

type PushEvent struct {
	Commits []Commit `json:"commits"`
}

type Commit struct {
	ID     string       `json:"id"`
	Author CommitAuthor `json:"author"`
}

type CommitAuthor struct {
	Username string `json:"username"`
}

type PullRequestEvent struct {
	Action      string `json:"action"`
	PullRequest struct {
		User Account `json:"user"`
	} `json:"pull_request"`
}

type IssuesEvent struct {
	Action string `json:"action"`
	Issue  struct {
		User Account `json:"user"`
	} `json:"issue"`
}

type Account struct {
	Login string `json:"login"`
}

type ScoreUpdate struct {
	UserID int64   `json:"user_id"`
	Score  float64 `json:"score"`
}
