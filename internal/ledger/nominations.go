package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"builders-bot/internal/models"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// NominationResult is the structured outcome of AddNomination. Validation
// failures and storage errors come back as StatusError with a human-readable
// message; they are never surfaced as raised errors.
type NominationResult struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Nominee *Profile `json:"nominee,omitempty"`
}

var errAlreadyNominated = errors.New("already nominated")

// AddNomination records that nominator nominated nomineeUsername. Checks run
// in order: nominator exists, nominee exists, not a self-nomination, not a
// duplicate. On success the nominee is appended to the nominator's
// given-list and the nominee's received counter incremented inside one
// transaction, so the counter pair cannot be left half-applied.
//
// The given-list is append-only and order-preserving. The duplicate check is
// repeated inside the transaction against a re-read of the nominator row held
// under a FOR UPDATE lock: concurrent nominations by the same nominator
// serialize on that lock instead of basing their list writes on the same
// stale snapshot.
func (s *Store) AddNomination(ctx context.Context, nominatorID int64, nomineeUsername string) NominationResult {
	nomineeUsername = strings.TrimPrefix(nomineeUsername, "@")

	nominator, err := s.GetUser(ctx, nominatorID)
	if errors.Is(err, ErrUserNotFound) {
		return errorResult("You must set up your profile before nominating others")
	}
	if err != nil {
		log.Printf("Error loading nominator %d: %v", nominatorID, err)
		return errorResult("Database error")
	}

	nominee, err := s.GetUserByUsername(ctx, nomineeUsername)
	if errors.Is(err, ErrUserNotFound) {
		return errorResult(fmt.Sprintf("User @%s not found. Make sure they have set up their profile.", nomineeUsername))
	}
	if err != nil {
		log.Printf("Error loading nominee @%s: %v", nomineeUsername, err)
		return errorResult("Database error")
	}

	if nominator.UserID == nominee.UserID {
		return errorResult("You cannot nominate yourself")
	}
	if contains(nominator.NominationsGiven, nomineeUsername) {
		return errorResult(fmt.Sprintf("You have already nominated @%s", nomineeUsername))
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&row, "id = ?", nominatorID).Error; err != nil {
			return err
		}
		if contains(row.NominationsGiven, nomineeUsername) {
			return errAlreadyNominated
		}

		updated := append(append(models.StringList{}, row.NominationsGiven...), nomineeUsername)
		if err := tx.Model(&models.User{}).Where("id = ?", nominatorID).
			Update("nominations_given", updated).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", nominee.UserID).
			Update("nominations_received", gorm.Expr("nominations_received + 1")).Error
	})
	if errors.Is(err, errAlreadyNominated) {
		return errorResult(fmt.Sprintf("You have already nominated @%s", nomineeUsername))
	}
	if err != nil {
		log.Printf("Error adding nomination %d -> @%s: %v", nominatorID, nomineeUsername, err)
		return errorResult("Database error")
	}

	result := NominationResult{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("You have successfully nominated @%s", nomineeUsername),
	}
	if refreshed, err := s.GetUserByUsername(ctx, nomineeUsername); err == nil {
		result.Nominee = &refreshed
	}
	return result
}

func errorResult(message string) NominationResult {
	return NominationResult{Status: StatusError, Message: message}
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
