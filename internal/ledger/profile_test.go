package ledger

import (
	"context"
	"reflect"
	"testing"
	"time"

	"builders-bot/internal/models"
)

func TestProfileFromRow_Defaults(t *testing.T) {
	profile := profileFromRow(models.User{ID: 7})

	if profile.UserID != 7 {
		t.Errorf("expected user id 7, got %d", profile.UserID)
	}
	if profile.NominationsGiven == nil {
		t.Error("given-list must default to an empty slice, not nil")
	}
	if profile.TelegramActivity != (TelegramActivity{}) {
		t.Errorf("expected zero telegram activity, got %+v", profile.TelegramActivity)
	}
	if profile.GithubContributions != (GithubContributions{}) {
		t.Errorf("expected zero github contributions, got %+v", profile.GithubContributions)
	}
}

// Round-trip: a row written with populated counters must come back through
// the nested view with exactly the same values.
func TestProfileRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	username := "alice"
	gh := "alice-gh"
	row := models.User{
		ID:                  42,
		Username:            &username,
		GithubUsername:      &gh,
		BuilderScore:        9.5,
		NominationsReceived: 3,
		NominationsGiven:    models.StringList{"bob", "carol"},
		TelegramMessages:    11,
		TelegramReplies:     4,
		GithubCommits:       7,
		GithubPRs:           2,
		GithubIssues:        1,
		CreatedAt:           time.Now(),
	}
	if err := store.DB.Create(&row).Error; err != nil {
		t.Fatalf("failed to insert row: %v", err)
	}

	profile, err := store.GetUser(ctx, 42)
	if err != nil {
		t.Fatalf("failed to read user back: %v", err)
	}

	if profile.TelegramActivity != (TelegramActivity{Messages: 11, Replies: 4}) {
		t.Errorf("telegram activity mismatch: %+v", profile.TelegramActivity)
	}
	if profile.GithubContributions != (GithubContributions{Commits: 7, PRs: 2, Issues: 1}) {
		t.Errorf("github contributions mismatch: %+v", profile.GithubContributions)
	}
	if !reflect.DeepEqual(profile.NominationsGiven, []string{"bob", "carol"}) {
		t.Errorf("given-list mismatch: %v", profile.NominationsGiven)
	}
	if profile.NominationsReceived != 3 {
		t.Errorf("received counter mismatch: %d", profile.NominationsReceived)
	}
	if profile.BuilderScore != 9.5 {
		t.Errorf("builder score mismatch: %v", profile.BuilderScore)
	}
}
