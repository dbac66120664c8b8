package worker

import (
	"context"
	"log"
	"time"

	"builders-bot/internal/ledger"
)

const defaultLeaderboardSize = 10

// Warmer keeps the top-builders cache fresh so leaderboard reads rarely hit
// PostgreSQL directly.
type Warmer struct {
	Store    *ledger.Store
	Interval time.Duration
}

func NewWarmer(store *ledger.Store, interval time.Duration) *Warmer {
	return &Warmer{
		Store:    store,
		Interval: interval,
	}
}

func (w *Warmer) Start() {
	ticker := time.NewTicker(w.Interval)
	log.Println("Background leaderboard warmer started")

	// Run once at start
	w.refresh()

	for range ticker.C {
		w.refresh()
	}
}

func (w *Warmer) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := w.Store.RefreshTopBuilders(ctx, defaultLeaderboardSize); err != nil {
		log.Printf("Failed to refresh leaderboard cache: %v", err)
	}
}
