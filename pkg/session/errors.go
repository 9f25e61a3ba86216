package session

import "errors"

var (
	// ErrDuplicateToken indicates the store already holds a record for the token
	ErrDuplicateToken = errors.New("session.duplicate_token")

	// ErrSessionNotFound indicates no live session matches the token.
	// Expired and never-issued tokens both produce it.
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrSaveFailed indicates a session could not be created
	ErrSaveFailed = errors.New("session.save_error")

	// ErrGetFailed indicates the store failed during lookup
	ErrGetFailed = errors.New("session.get_error")

	// ErrEditFailed indicates the store failed while patching a session
	ErrEditFailed = errors.New("session.edit_error")

	// ErrDeleteFailed indicates the store failed while deleting a session
	ErrDeleteFailed = errors.New("session.delete_error")

	// ErrUnauthenticated indicates the bearer credential is missing, unknown or expired
	ErrUnauthenticated = errors.New("session.unauthenticated")

	// ErrMissingToken indicates the request carried no bearer credential
	ErrMissingToken = errors.New("session.missing_token")

	// ErrInternalAuth indicates the store failed while authenticating a request
	ErrInternalAuth = errors.New("session.internal_auth_error")

	// ErrInvalidFieldPath indicates an edit targeted a field outside session data
	ErrInvalidFieldPath = errors.New("session.invalid_field_path")

	// ErrMissingData indicates a session was created without data
	ErrMissingData = errors.New("session.missing_data")

	// ErrNoStore indicates no store is configured
	ErrNoStore = errors.New("session.no_store")

	// ErrNoIssuer indicates no token issuer is configured
	ErrNoIssuer = errors.New("session.no_issuer")
)
