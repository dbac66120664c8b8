package passport

import (
	"encoding/json"
	"log"
	"net/http"
)

// Handler exposes the gateway over HTTP for the bot frontend. Responses are
// always an Envelope, matching what the gateway itself returns.
type Handler struct {
	Gateway *Gateway
}

func NewHandler(gateway *Gateway) *Handler {
	return &Handler{Gateway: gateway}
}

func (h *Handler) HandleSendOTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req sendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Failed to decode send-otp request: %v", err)
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	writeEnvelope(w, h.Gateway.SendOTP(r.Context(), req.CountryCode, req.PhoneNumber))
}

func (h *Handler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req loginWithPhoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Failed to decode verify-otp request: %v", err)
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	writeEnvelope(w, h.Gateway.VerifyOTP(r.Context(), req.CountryCode, req.PhoneNumber, req.Code))
}

func writeEnvelope(w http.ResponseWriter, envelope Envelope) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		log.Printf("Failed to write envelope: %v", err)
	}
}
