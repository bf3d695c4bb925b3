// Package types provides common type definitions for the membership service.
package types

// SessionState represents the lifecycle state of a member session.
type SessionState string

const (
	// SessionUninitialized is the state before the first load completes
	SessionUninitialized SessionState = "uninitialized"
	// SessionLoading is the state while the session is being resolved
	SessionLoading SessionState = "loading"
	// SessionAuthenticated is the state of a resolved, signed-in session
	SessionAuthenticated SessionState = "authenticated"
	// SessionAnonymous is the state of a resolved, signed-out session
	SessionAnonymous SessionState = "anonymous"
)

// AuthEventType represents an event emitted by the hosted auth provider.
type AuthEventType string

const (
	// AuthEventSignedIn is emitted when a user completes sign-in
	AuthEventSignedIn AuthEventType = "signed_in"
	// AuthEventSignedOut is emitted when a user signs out
	AuthEventSignedOut AuthEventType = "signed_out"
	// AuthEventUserUpdated is emitted when user metadata changes
	AuthEventUserUpdated AuthEventType = "user_updated"
	// AuthEventTokenRefreshed is emitted when a session token is refreshed
	AuthEventTokenRefreshed AuthEventType = "token_refreshed"
)

// MemberEventType classifies entries in the audit event log.
type MemberEventType string

const (
	// EventSessionStarted records a session resolving to authenticated
	EventSessionStarted MemberEventType = "session_started"
	// EventSessionEnded records a sign-out
	EventSessionEnded MemberEventType = "session_ended"
	// EventWalletLinked records a successful wallet link
	EventWalletLinked MemberEventType = "wallet_linked"
	// EventWalletUnlinked records a wallet unlink
	EventWalletUnlinked MemberEventType = "wallet_unlinked"
	// EventNFTMinted records a membership NFT mint
	EventNFTMinted MemberEventType = "nft_minted"
)

// Error codes shared across component boundaries.
const (
	CodeInvalidInput        = "INVALID_INPUT"
	CodeNotAuthenticated    = "NOT_AUTHENTICATED"
	CodeSignatureMismatch   = "SIGNATURE_MISMATCH"
	CodeWalletAlreadyLinked = "WALLET_ALREADY_LINKED"
	CodeUserRejected        = "USER_REJECTED"
	CodeNotFound            = "NOT_FOUND"
	CodeStoreError          = "STORE_ERROR"
)

// ServiceError represents a structured error returned across component
// boundaries instead of a bare error chain.
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return e.Code + ": " + e.Message
}

// NewServiceError creates a ServiceError with the given code and message.
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}

// WithDetail attaches a detail field and returns the error for chaining.
func (e *ServiceError) WithDetail(key string, value interface{}) *ServiceError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsCode reports whether err is a ServiceError with the given code.
func IsCode(err error, code string) bool {
	svcErr, ok := err.(*ServiceError)
	return ok && svcErr.Code == code
}
