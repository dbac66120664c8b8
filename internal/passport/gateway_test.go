package passport

import (
	"context"
	"errors"
	"testing"
)

type fakeSession struct {
	lastCountryCode string
	lastPhone       string
	lastCode        string
	envelope        Envelope
	err             error
	closes          int
}

func (f *fakeSession) SendOTP(ctx context.Context, countryCode, phoneNumber string) (Envelope, error) {
	f.lastCountryCode = countryCode
	f.lastPhone = phoneNumber
	return f.envelope, f.err
}

func (f *fakeSession) LoginWithPhone(ctx context.Context, countryCode, phoneNumber, code string) (Envelope, error) {
	f.lastCountryCode = countryCode
	f.lastPhone = phoneNumber
	f.lastCode = code
	return f.envelope, f.err
}

func (f *fakeSession) Close() error {
	f.closes++
	return nil
}

func factoryFor(session *fakeSession) SessionFactory {
	return func(ctx context.Context) (Session, error) {
		return session, nil
	}
}

func TestGatewaySendOTP_StripsLeadingPlus(t *testing.T) {
	session := &fakeSession{envelope: Envelope{"success": true, "request_id": "abc"}}
	gateway := NewGateway(factoryFor(session))

	envelope := gateway.SendOTP(context.Background(), "+91", "9876543210")

	if session.lastCountryCode != "91" {
		t.Errorf("expected country code 91, got %q", session.lastCountryCode)
	}
	if session.lastPhone != "9876543210" {
		t.Errorf("phone number changed: %q", session.lastPhone)
	}
	if !envelope.OK() {
		t.Errorf("expected success envelope, got %v", envelope)
	}
	// Provider fields pass through verbatim.
	if envelope["request_id"] != "abc" {
		t.Errorf("provider field dropped: %v", envelope)
	}
}

func TestGatewaySendOTP_NoPlusUnchanged(t *testing.T) {
	session := &fakeSession{envelope: Envelope{"success": true}}
	gateway := NewGateway(factoryFor(session))

	gateway.SendOTP(context.Background(), "1", "5551234")
	if session.lastCountryCode != "1" {
		t.Errorf("expected country code 1, got %q", session.lastCountryCode)
	}
}

func TestGatewayVerifyOTP_ForwardsCode(t *testing.T) {
	session := &fakeSession{envelope: Envelope{"success": true, "token": "jwt"}}
	gateway := NewGateway(factoryFor(session))

	envelope := gateway.VerifyOTP(context.Background(), "+1", "5551234", "123456")

	if session.lastCountryCode != "1" || session.lastCode != "123456" {
		t.Errorf("request not forwarded: cc=%q code=%q", session.lastCountryCode, session.lastCode)
	}
	if envelope["token"] != "jwt" {
		t.Errorf("provider field dropped: %v", envelope)
	}
}

func TestGateway_SessionReleasedAfterEachCall(t *testing.T) {
	session := &fakeSession{envelope: Envelope{"success": true}}
	gateway := NewGateway(factoryFor(session))

	gateway.SendOTP(context.Background(), "1", "5551234")
	if session.closes != 1 {
		t.Errorf("expected 1 close after success, got %d", session.closes)
	}

	session.err = errors.New("provider unavailable")
	gateway.SendOTP(context.Background(), "1", "5551234")
	if session.closes != 2 {
		t.Errorf("expected close after failure too, got %d", session.closes)
	}
}

func TestGateway_ProviderErrorBecomesFailureEnvelope(t *testing.T) {
	session := &fakeSession{err: errors.New("provider unavailable")}
	gateway := NewGateway(factoryFor(session))

	envelope := gateway.VerifyOTP(context.Background(), "1", "5551234", "000000")
	if envelope.OK() {
		t.Fatal("expected failure envelope")
	}
	if envelope.Message() != "provider unavailable" {
		t.Errorf("unexpected message: %q", envelope.Message())
	}
}

func TestGateway_FactoryFailureBecomesFailureEnvelope(t *testing.T) {
	gateway := NewGateway(func(ctx context.Context) (Session, error) {
		return nil, errors.New("no session for you")
	})

	envelope := gateway.SendOTP(context.Background(), "1", "5551234")
	if envelope.OK() {
		t.Fatal("expected failure envelope")
	}
	if envelope.Message() != "no session for you" {
		t.Errorf("unexpected message: %q", envelope.Message())
	}
}

func TestClientFactory_MissingKey(t *testing.T) {
	gateway := NewGateway(ClientFactory("http://localhost", ""))

	envelope := gateway.SendOTP(context.Background(), "1", "5551234")
	if envelope.OK() {
		t.Fatal("expected failure envelope when client key is missing")
	}
	if envelope.Message() == "" {
		t.Error("expected a message explaining the configuration error")
	}
}

func TestSharedSession_PerCallCloseIsNoOp(t *testing.T) {
	session := &fakeSession{envelope: Envelope{"success": true}}
	gateway := NewGateway(SharedSession(session))

	gateway.SendOTP(context.Background(), "1", "5551234")
	gateway.SendOTP(context.Background(), "1", "5551234")

	if session.closes != 0 {
		t.Errorf("shared session must not be closed per call, got %d closes", session.closes)
	}
}
