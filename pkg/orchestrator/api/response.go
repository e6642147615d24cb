package api

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/kreditmy/signing-orchestrator/pkg/util"
)

// Response is the envelope every JSON endpoint returns.
type Response struct {
	Success       bool        `json:"success"`
	Message       string      `json:"message,omitempty"`
	Data          interface{} `json:"data,omitempty"`
	Error         interface{} `json:"error,omitempty"`
	CorrelationID string      `json:"correlationId,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, res Response) {
	res.CorrelationID = util.CorrelationID(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		util.CtxLogger(r.Context()).Warnf("failed to encode/write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, Response{Success: false, Message: message})
}
