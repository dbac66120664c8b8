package passport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Client talks to the passport provider's HTTP API. It must be initialized
// before use and released with Close; the Gateway drives that lifecycle
// through a SessionFactory.
type Client struct {
	BaseURL    string
	ClientKey  string
	HTTPClient *http.Client

	sessionToken string
}

func NewClient(baseURL, clientKey string) *Client {
	return &Client{
		BaseURL:   baseURL,
		ClientKey: clientKey,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Initialize performs the provider handshake and stores the session token
// used by subsequent calls.
func (c *Client) Initialize(ctx context.Context) error {
	resp, err := c.doRequest(ctx, "POST", "/session", initializeRequest{ClientKey: c.ClientKey}, false)
	if err != nil {
		return fmt.Errorf("failed to initialize passport session: %w", err)
	}

	var session initializeResponse
	if err := json.Unmarshal(resp, &session); err != nil {
		return fmt.Errorf("failed to unmarshal session response: %w", err)
	}
	if session.SessionToken == "" {
		return fmt.Errorf("provider returned no session token")
	}

	c.sessionToken = session.SessionToken
	return nil
}

// SendOTP asks the provider to send a one-time password. The response fields
// are returned verbatim.
func (c *Client) SendOTP(ctx context.Context, countryCode, phoneNumber string) (Envelope, error) {
	body := sendOTPRequest{CountryCode: countryCode, PhoneNumber: phoneNumber}
	resp, err := c.doRequest(ctx, "POST", "/auth/otp/send", body, true)
	if err != nil {
		return nil, err
	}
	return parseEnvelope(resp)
}

// LoginWithPhone verifies an OTP and logs the user in.
func (c *Client) LoginWithPhone(ctx context.Context, countryCode, phoneNumber, code string) (Envelope, error) {
	body := loginWithPhoneRequest{CountryCode: countryCode, PhoneNumber: phoneNumber, Code: code}
	resp, err := c.doRequest(ctx, "POST", "/auth/login/phone", body, false)
	if err != nil {
		return nil, err
	}
	return parseEnvelope(resp)
}

// Close releases the provider session. Safe to call on an uninitialized
// client.
func (c *Client) Close() error {
	if c.sessionToken == "" {
		return nil
	}
	_, err := c.doRequest(context.Background(), "DELETE", "/session", nil, false)
	c.sessionToken = ""
	if err != nil {
		return fmt.Errorf("failed to close passport session: %w", err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, method, endpoint string, body interface{}, idempotent bool) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	url := fmt.Sprintf("%s%s", c.BaseURL, endpoint)
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.ClientKey))
	if c.sessionToken != "" {
		req.Header.Set("X-Session-Token", c.sessionToken)
	}
	if idempotent {
		// OTP sends are retried by impatient users; the key lets the
		// provider dedupe them.
		req.Header.Set("Idempotence-Key", uuid.New().String())
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("api error: %s (status: %d)", string(respBody), resp.StatusCode)
	}

	return respBody, nil
}

func parseEnvelope(raw []byte) (Envelope, error) {
	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal provider response: %w", err)
	}
	return envelope, nil
}
