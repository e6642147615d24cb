package model

import (
	"errors"
	"fmt"
)

var ErrInvalidParameter = errors.New("") // Base error for invalid parameter
var ErrUnauthorized = errors.New("")     // Base error for authentication
var ErrGatewayError = errors.New("")     // Base error for MTSA gateway
var ErrWorkflowError = errors.New("")    // Base error for signing workflow

// Authentication errors
var ErrMissingSignature = fmt.Errorf("missing webhook signature%w", ErrUnauthorized)
var ErrSignatureMismatch = fmt.Errorf("webhook signature mismatch%w", ErrUnauthorized)
var ErrInvalidAPIToken = fmt.Errorf("invalid API token%w", ErrUnauthorized)

// Gateway errors
var ErrGatewayTransport = fmt.Errorf("gateway transport failure%w", ErrGatewayError)
var ErrGatewayUnavailable = fmt.Errorf("gateway unavailable%w", ErrGatewayError)

// Workflow failure codes carried on SigningResponse.Error / EnrollmentResponse.Error.
const (
	CodeOTPFailed        = "OTP_FAILED"
	CodeEnrollmentFailed = "ENROLLMENT_FAILED"
	CodeEnrollmentError  = "ENROLLMENT_ERROR"
	CodeSigningFailed    = "SIGNING_FAILED"
	CodeWorkflowError    = "WORKFLOW_ERROR"
)

// WorkflowError is the structured failure shape every business failure is
// translated into before it reaches the HTTP layer. Raw transport errors
// never escape the signing service.
type WorkflowError struct {
	Code    string `json:"code"`
	Details string `json:"details"`
}

func NewWorkflowError(code, details string) *WorkflowError {
	return &WorkflowError{Code: code, Details: details}
}

func (e *WorkflowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Details)
}
