package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net"
	"net/http"

	"builders-bot/internal/ledger"
	"builders-bot/internal/utils"
)

// Handler receives GitHub events and score updates from the external scoring
// process and turns them into ledger counter updates.
type Handler struct {
	Store        *ledger.Store
	Secret       string
	ScoreAPIKey  string
	AllowedCIDRs []string
}

func NewHandler(store *ledger.Store, secret, scoreAPIKey string, allowedCIDRs []string) *Handler {
	return &Handler{
		Store:        store,
		Secret:       secret,
		ScoreAPIKey:  scoreAPIKey,
		AllowedCIDRs: allowedCIDRs,
	}
}

// HandleGithub processes push, pull_request and issues events. Delivery is
// authenticated with the X-Hub-Signature-256 HMAC and, when configured, a
// source CIDR allowlist. Unknown events and events from unlinked GitHub
// accounts are acknowledged and ignored.
func (h *Handler) HandleGithub(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if len(h.AllowedCIDRs) > 0 {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if !utils.IsAllowedIP(host, h.AllowedCIDRs) {
			log.Printf("Rejected webhook from disallowed source %s", host)
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	if h.Secret != "" && !validSignature(body, r.Header.Get("X-Hub-Signature-256"), h.Secret) {
		log.Printf("Rejected webhook with invalid signature")
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	event := r.Header.Get("X-GitHub-Event")
	switch event {
	case "push":
		err = h.processPush(r, body)
	case "pull_request":
		err = h.processPullRequest(r, body)
	case "issues":
		err = h.processIssues(r, body)
	case "ping":
		// Delivery check, nothing to record.
	default:
		log.Printf("Ignored github event: %s", event)
	}

	if err != nil {
		log.Printf("Failed to process %s event: %v", event, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) processPush(r *http.Request, body []byte) error {
	var event PushEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return err
	}

	for _, commit := range event.Commits {
		if commit.Author.Username == "" {
			continue
		}
		err := h.Store.UpdateGithubContribution(r.Context(), commit.Author.Username, ledger.KindCommits)
		if errors.Is(err, ledger.ErrUserNotFound) {
			// Pushes from accounts nobody linked are expected.
			log.Printf("No user found with GitHub username: %s", commit.Author.Username)
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) processPullRequest(r *http.Request, body []byte) error {
	var event PullRequestEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return err
	}
	if event.Action != "opened" {
		return nil
	}
	return h.recordContribution(r, event.PullRequest.User.Login, ledger.KindPRs)
}

func (h *Handler) processIssues(r *http.Request, body []byte) error {
	var event IssuesEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return err
	}
	if event.Action != "opened" {
		return nil
	}
	return h.recordContribution(r, event.Issue.User.Login, ledger.KindIssues)
}

func (h *Handler) recordContribution(r *http.Request, login, kind string) error {
	if login == "" {
		return nil
	}
	err := h.Store.UpdateGithubContribution(r.Context(), login, kind)
	if errors.Is(err, ledger.ErrUserNotFound) {
		log.Printf("No user found with GitHub username: %s", login)
		return nil
	}
	return err
}

// HandleScore lets the external scoring process overwrite a user's builder
// score. Authenticated with a shared API key.
func (h *Handler) HandleScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.ScoreAPIKey == "" || r.Header.Get("X-Api-Key") != h.ScoreAPIKey {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var update ScoreUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Printf("Failed to decode score update: %v", err)
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	err := h.Store.UpdateUserBuilderScore(r.Context(), update.UserID, update.Score)
	if errors.Is(err, ledger.ErrUserNotFound) {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("Failed to update builder score for %d: %v", update.UserID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func validSignature(body []byte, header, secret string) bool {
	const prefix = "sha256="
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(header[len(prefix):])) == 1
}
