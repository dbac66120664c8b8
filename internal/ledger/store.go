package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"builders-bot/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidKind  = errors.New("invalid counter kind")
)

// Telegram activity kinds.
const (
	KindMessages = "messages"
	KindReplies  = "replies"
)

// GitHub contribution kinds.
const (
	KindCommits = "commits"
	KindPRs     = "prs"
	KindIssues  = "issues"
)

var telegramActivityColumns = map[string]string{
	KindMessages: "telegram_messages",
	KindReplies:  "telegram_replies",
}

var githubContributionColumns = map[string]string{
	KindCommits: "github_commits",
	KindPRs:     "github_prs",
	KindIssues:  "github_issues",
}

const topBuildersTTL = time.Minute

// Store owns all reads and writes against the users and projects tables.
// Redis is optional; when present it caches the top-builders leaderboard.
type Store struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewStore(db *gorm.DB, rdb *redis.Client) *Store {
	return &Store{DB: db, Redis: rdb}
}

// GetOrCreateUser returns the profile for id, inserting a fresh row with
// zeroed counters when none exists. A concurrent insert of the same id is
// absorbed: the conflicting write is dropped and the surviving row re-read,
// so calling this twice always yields the same row.
func (s *Store) GetOrCreateUser(ctx context.Context, id int64, username, firstName string) (Profile, error) {
	var row models.User
	err := s.DB.WithContext(ctx).First(&row, "id = ?", id).Error
	if err == nil {
		return profileFromRow(row), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Profile{}, fmt.Errorf("failed to look up user %d: %w", id, err)
	}

	row = models.User{
		ID:               id,
		Username:         optional(username),
		FirstName:        optional(firstName),
		NominationsGiven: models.StringList{},
		CreatedAt:        time.Now(),
	}

	result := s.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if result.Error != nil {
		return Profile{}, fmt.Errorf("failed to create user %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		// Lost the insert race, another caller created the row first.
		if err := s.DB.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
			return Profile{}, fmt.Errorf("failed to re-read user %d after insert conflict: %w", id, err)
		}
	}
	return profileFromRow(row), nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (Profile, error) {
	var row models.User
	if err := s.DB.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Profile{}, ErrUserNotFound
		}
		return Profile{}, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return profileFromRow(row), nil
}

// GetUserByUsername looks a user up by Telegram username, with or without a
// leading '@'. Usernames are not unique in the schema; the first match wins.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (Profile, error) {
	username = strings.TrimPrefix(username, "@")

	var row models.User
	err := s.DB.WithContext(ctx).Where("username = ?", username).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Profile{}, ErrUserNotFound
		}
		return Profile{}, fmt.Errorf("failed to get user by username %q: %w", username, err)
	}
	return profileFromRow(row), nil
}

func (s *Store) GetUserByGithubUsername(ctx context.Context, githubUsername string) (Profile, error) {
	var row models.User
	err := s.DB.WithContext(ctx).Where("github_username = ?", githubUsername).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Profile{}, ErrUserNotFound
		}
		return Profile{}, fmt.Errorf("failed to get user by github username %q: %w", githubUsername, err)
	}
	return profileFromRow(row), nil
}

func (s *Store) GetAllUsers(ctx context.Context) ([]Profile, error) {
	var rows []models.User
	if err := s.DB.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	profiles := make([]Profile, len(rows))
	for i, row := range rows {
		profiles[i] = profileFromRow(row)
	}
	return profiles, nil
}

// GetTopBuilders returns up to limit users ordered by builder score
// descending, ties broken by storage order. Served from the Redis cache when
// a fresh entry exists; a miss falls through to the database and rewrites
// the cache best-effort.
func (s *Store) GetTopBuilders(ctx context.Context, limit int) ([]Profile, error) {
	if s.Redis != nil {
		if raw, err := s.Redis.Get(ctx, topBuildersKey(limit)).Bytes(); err == nil {
			var cached []Profile
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}
	return s.RefreshTopBuilders(ctx, limit)
}

// RefreshTopBuilders reads the leaderboard from the database and rewrites
// the cache entry. Used by GetTopBuilders on a miss and by the background
// warmer.
func (s *Store) RefreshTopBuilders(ctx context.Context, limit int) ([]Profile, error) {
	var rows []models.User
	err := s.DB.WithContext(ctx).Order("builder_score DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query top builders: %w", err)
	}
	profiles := make([]Profile, len(rows))
	for i, row := range rows {
		profiles[i] = profileFromRow(row)
	}

	if s.Redis != nil {
		if raw, err := json.Marshal(profiles); err == nil {
			if err := s.Redis.Set(ctx, topBuildersKey(limit), raw, topBuildersTTL).Err(); err != nil {
				log.Printf("Failed to cache top builders: %v", err)
			}
		}
	}
	return profiles, nil
}

func (s *Store) UpdateUserGithub(ctx context.Context, id int64, githubUsername string) error {
	return s.updateUserColumn(ctx, id, "github_username", githubUsername)
}

func (s *Store) UpdateUserWallet(ctx context.Context, id int64, walletAddress string) error {
	return s.updateUserColumn(ctx, id, "wallet_address", walletAddress)
}

func (s *Store) UpdateUserBuilderScore(ctx context.Context, id int64, score float64) error {
	return s.updateUserColumn(ctx, id, "builder_score", score)
}

// UpdateTelegramActivity increments one of the Telegram counters. The
// increment runs as a single UPDATE against the column, so concurrent calls
// on the same user never lose an update.
func (s *Store) UpdateTelegramActivity(ctx context.Context, id int64, kind string) error {
	column, ok := telegramActivityColumns[kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	return s.incrementColumn(ctx, "id = ?", id, column)
}

// UpdateGithubContribution increments one of the GitHub counters for the
// user who linked githubUsername. Fails closed when no user has linked that
// identity.
func (s *Store) UpdateGithubContribution(ctx context.Context, githubUsername, kind string) error {
	column, ok := githubContributionColumns[kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	return s.incrementColumn(ctx, "github_username = ?", githubUsername, column)
}

func (s *Store) updateUserColumn(ctx context.Context, id int64, column string, value interface{}) error {
	result := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		return fmt.Errorf("failed to update %s for user %d: %w", column, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *Store) incrementColumn(ctx context.Context, query string, arg interface{}, column string) error {
	result := s.DB.WithContext(ctx).Model(&models.User{}).Where(query, arg).
		Update(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment %s: %w", column, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func topBuildersKey(limit int) string {
	return fmt.Sprintf("top_builders:%d", limit)
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
