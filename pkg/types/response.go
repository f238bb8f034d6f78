// Package types holds the wire shapes shared by every storefront endpoint.
package types

// SuccessEnvelope wraps catalog views, cart summaries and health reports
// under a single "data" key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// ErrorEnvelope is the body of every non-2xx storefront response.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries a stable machine code (VALIDATION_ERROR,
// INVALID_DISCOUNT_CODE, ...) and a shopper-facing message. A rejected
// discount code puts the refreshed cart summary in Details.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// NewErrorEnvelope builds an error body. Nil details are left out of the JSON.
func NewErrorEnvelope(code, message string, details any) ErrorEnvelope {
	return ErrorEnvelope{Error: ErrorBody{Code: code, Message: message, Details: details}}
}
