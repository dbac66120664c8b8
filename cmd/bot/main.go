package main

import (
	"log"
	"net/http"
	"time"

	"builders-bot/internal/bot"
	"builders-bot/internal/config"
	"builders-bot/internal/database"
	"builders-bot/internal/ledger"
	"builders-bot/internal/passport"
	"builders-bot/internal/webhook"
	"builders-bot/internal/worker"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db, err := database.ConnectPostgres(cfg)
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}

	// Connect to Redis
	rdb, err := database.ConnectRedis(cfg)
	if err != nil {
		log.Fatalf("Could not connect to redis: %v", err)
	}

	store := ledger.NewStore(db, rdb)

	// Identity gateway, per-call session policy: every operation gets a
	// fresh provider session and releases it when done.
	gateway := passport.NewGateway(passport.ClientFactory(cfg.PassportAPIURL, cfg.PassportClientKey))
	authHandler := passport.NewHandler(gateway)

	hookHandler := webhook.NewHandler(store, cfg.GithubHookSecret, cfg.ScoreAPIKey, cfg.AllowedHookCIDRs)

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/otp/send", authHandler.HandleSendOTP)
	mux.HandleFunc("/auth/otp/verify", authHandler.HandleVerifyOTP)
	mux.HandleFunc("/hooks/github", hookHandler.HandleGithub)
	mux.HandleFunc("/hooks/score", hookHandler.HandleScore)

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := http.ListenAndServe(cfg.HTTPAddr, mux); err != nil {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	warmer := worker.NewWarmer(store, 5*time.Minute)
	go warmer.Start()

	if cfg.BotToken == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, running without the Telegram tracker")
		select {}
	}

	tracker, err := bot.NewBot(cfg.BotToken, store)
	if err != nil {
		log.Fatalf("Could not create bot: %v", err)
	}

	log.Println("Service started successfully")
	tracker.Start()
}
