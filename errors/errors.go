package errors

import "fmt"

// Chat store
var (
	ErrNotFound          = fmt.Errorf("not found")
	ErrInvalidName       = fmt.Errorf("invalid name")
	ErrNameTooLong       = fmt.Errorf("chat name is too long")
	ErrNotAuthorized     = fmt.Errorf("not authorized")
	ErrCannotRemoveOwner = fmt.Errorf("the owner cannot be removed from a chat")
	ErrMalformedStore    = fmt.Errorf("malformed chat store")
	ErrIOFailure         = fmt.Errorf("chat store i/o failure")
	ErrEmptyMessage      = fmt.Errorf("message cannot be empty")
	ErrMessageTooLong    = fmt.Errorf("message exceeds the maximum length")
)

// Accounts
var (
	ErrUserNotFound       = fmt.Errorf("user not found")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid username or password")
	ErrInvalidPassword    = fmt.Errorf("password does not satisfy the complexity rules")
	ErrInvalidUser        = fmt.Errorf("invalid user")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrSessionExpired     = fmt.Errorf("session expired")
	ErrBootstrapClosed    = fmt.Errorf("an account already exists")
)

// Runtime
var (
	ErrWorkerPanic          = fmt.Errorf("worker panic")
	ErrEmptyWords           = fmt.Errorf("no words have been found")
	ErrSessionAlreadyActive = fmt.Errorf("a live session is already active for this user")
	ErrUnknownCommand       = fmt.Errorf("unknown command")
	ErrUnknownBackend       = fmt.Errorf("unknown chat store backend")
	ErrEmptyQuery           = fmt.Errorf("nothing to search for")
)
