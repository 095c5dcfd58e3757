package types

// SuccessEnvelope is the single response shape for successful calls.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError carries the public error surface of a failed call.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope is the single response shape for failed calls.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
