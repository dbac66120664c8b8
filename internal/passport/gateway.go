package passport

import (
	"context"
	"errors"
	"log"
	"strings"
)

// Session is one handle to the passport provider. Close releases it.
type Session interface {
	SendOTP(ctx context.Context, countryCode, phoneNumber string) (Envelope, error)
	LoginWithPhone(ctx context.Context, countryCode, phoneNumber, code string) (Envelope, error)
	Close() error
}

// SessionFactory yields a session for one gateway call. The factory owns the
// lifecycle policy; the gateway just acquires, uses, and releases.
type SessionFactory func(ctx context.Context) (Session, error)

// Gateway normalizes all passport operations into Envelopes. Session
// acquisition failures, provider errors, and transport errors all come back
// as a failure envelope; no error escapes.
type Gateway struct {
	newSession SessionFactory
}

func NewGateway(factory SessionFactory) *Gateway {
	return &Gateway{newSession: factory}
}

// ClientFactory is the per-call policy: a fresh initialized client for every
// operation, released unconditionally when the call finishes. A missing
// client key is reported at acquisition time, so callers still get a uniform
// failure envelope instead of a startup fault.
func ClientFactory(baseURL, clientKey string) SessionFactory {
	return func(ctx context.Context) (Session, error) {
		if clientKey == "" {
			return nil, errors.New("passport client key is not configured")
		}
		client := NewClient(baseURL, clientKey)
		if err := client.Initialize(ctx); err != nil {
			return nil, err
		}
		return client, nil
	}
}

// SharedSession is the singleton policy: every call reuses one long-lived
// session whose per-call release is a no-op. Closing the underlying session
// stays with whoever constructed it.
func SharedSession(session Session) SessionFactory {
	return func(ctx context.Context) (Session, error) {
		return noCloseSession{session}, nil
	}
}

type noCloseSession struct {
	Session
}

func (noCloseSession) Close() error { return nil }

// SendOTP sends a one-time password to the given phone. A leading '+' on the
// country code is stripped before forwarding.
func (g *Gateway) SendOTP(ctx context.Context, countryCode, phoneNumber string) Envelope {
	return g.withSession(ctx, func(session Session) (Envelope, error) {
		return session.SendOTP(ctx, normalizeCountryCode(countryCode), phoneNumber)
	})
}

// VerifyOTP checks the code and logs the user in with the provider.
func (g *Gateway) VerifyOTP(ctx context.Context, countryCode, phoneNumber, code string) Envelope {
	return g.withSession(ctx, func(session Session) (Envelope, error) {
		return session.LoginWithPhone(ctx, normalizeCountryCode(countryCode), phoneNumber, code)
	})
}

func (g *Gateway) withSession(ctx context.Context, fn func(Session) (Envelope, error)) Envelope {
	session, err := g.newSession(ctx)
	if err != nil {
		log.Printf("Failed to acquire passport session: %v", err)
		return Failure(err.Error())
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Printf("Failed to release passport session: %v", err)
		}
	}()

	envelope, err := fn(session)
	if err != nil {
		log.Printf("Passport request failed: %v", err)
		return Failure(err.Error())
	}
	return envelope
}

func normalizeCountryCode(countryCode string) string {
	return strings.TrimPrefix(countryCode, "+")
}
