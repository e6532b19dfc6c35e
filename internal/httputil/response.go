package httputil

import (
	"encoding/json"
	"net/http"
)

// Envelope is the response shape shared by every API endpoint. Successful
// responses carry Data; failures carry Error and, when available, Details
// from the upstream provider.
type Envelope struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data,omitempty"`
	Error    string      `json:"error,omitempty"`
	Details  string      `json:"details,omitempty"`
	Fallback bool        `json:"fallback,omitempty"`
}

// RespondJSON writes a JSON response with the given status code.
// It handles encoding errors safely by marshaling first, preventing
// partial responses if encoding fails after headers are sent.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		RespondError(w, http.StatusInternalServerError, "failed to encode response", "")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// RespondData writes a success envelope around data.
func RespondData(w http.ResponseWriter, status int, data interface{}) {
	RespondJSON(w, status, Envelope{Success: true, Data: data})
}

// RespondError writes a failure envelope with an error message and
// optional upstream details.
func RespondError(w http.ResponseWriter, status int, message, details string) {
	payload, err := json.Marshal(Envelope{Success: false, Error: message, Details: details})
	if err != nil {
		// Fallback to plain text if JSON encoding fails
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal server error"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}
