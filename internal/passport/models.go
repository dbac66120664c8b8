package passport

// Envelope is the uniform result shape of gateway operations. On the happy
// path it carries the provider's response fields verbatim; on any failure it
// collapses to {"success": false, "message": <error text>}. Nothing else
// ever crosses the gateway boundary.
type Envelope map[string]interface{}

func Failure(message string) Envelope {
	return Envelope{"success": false, "message": message}
}

func (e Envelope) OK() bool {
	ok, _ := e["success"].(bool)
	return ok
}

func (e Envelope) Message() string {
	message, _ := e["message"].(string)
	return message
}

type sendOTPRequest struct {
	CountryCode string `json:"country_code"`
	PhoneNumber string `json:"phone_number"`
}

type loginWithPhoneRequest struct {
	CountryCode string `json:"country_code"`
	PhoneNumber string `json:"phone_number"`
	Code        string `json:"code"`
}

type initializeRequest struct {
	ClientKey string `json:"client_key"`
}

type initializeResponse struct {
	SessionToken string `json:"session_token"`
}
