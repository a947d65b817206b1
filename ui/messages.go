package ui

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/AlexandreSaynov/tp1ADC/domain/chat"
	"github.com/AlexandreSaynov/tp1ADC/errors"
)

// Describe turns an operation failure into the short line shown to the user.
func Describe(err error) string {
	switch {
	case stderrors.Is(err, errors.ErrNotAuthorized):
		return "Only the chat owner can manage this chat."
	case stderrors.Is(err, errors.ErrCannotRemoveOwner):
		return "The owner cannot be removed from the chat."
	case stderrors.Is(err, errors.ErrInvalidName):
		return "Chat name cannot be empty."
	case stderrors.Is(err, errors.ErrNameTooLong):
		return fmt.Sprintf("Chat name is too long (%d characters max).", chat.MaxNameLength)
	case stderrors.Is(err, errors.ErrNotFound):
		return "This chat no longer exists."
	case stderrors.Is(err, errors.ErrSessionAlreadyActive):
		return "You already have a chat open."
	case stderrors.Is(err, errors.ErrIOFailure):
		return "The chat store could not be written. Please retry."
	default:
		return err.Error()
	}
}

// IsInputClosed reports whether the terminal input has ended.
func IsInputClosed(err error) bool {
	return stderrors.Is(err, io.EOF)
}
