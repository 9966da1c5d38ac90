package common

import (
	"encoding/json"
	"net/http"
	"time"
)

// Envelope is the standard REST response shape. Every REST endpoint
// answers with it, success or failure.
type Envelope struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorBody  `json:"error,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// ErrorBody carries error details inside the envelope.
type ErrorBody struct {
	Message    string                 `json:"message"`
	StatusCode int                    `json:"statusCode"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

// RespondJSON sends a success envelope
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	writeEnvelope(w, status, Envelope{
		Success: status >= 200 && status < 300,
		Data:    data,
	})
}

// RespondMessage sends a success envelope with a message and data
func RespondMessage(w http.ResponseWriter, status int, message string, data interface{}) {
	writeEnvelope(w, status, Envelope{
		Success: status >= 200 && status < 300,
		Message: message,
		Data:    data,
	})
}

// RespondError sends an error envelope
func RespondError(w http.ResponseWriter, status int, code, message string) {
	writeEnvelope(w, status, Envelope{
		Success: false,
		Error: &ErrorBody{
			Message:    message,
			StatusCode: status,
			Code:       code,
		},
	})
}

// RespondErrorWithDetails sends an error envelope with additional details
func RespondErrorWithDetails(w http.ResponseWriter, status int, code, message string, details map[string]interface{}) {
	writeEnvelope(w, status, Envelope{
		Success: false,
		Error: &ErrorBody{
			Message:    message,
			StatusCode: status,
			Code:       code,
			Details:    details,
		},
	})
}

func writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	env.Timestamp = time.Now().Format(time.RFC3339)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}
