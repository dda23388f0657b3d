package common

import (
	"errors"
	"fmt"
)

// Kind classifies a command failure. Validation, permission and not-found
// outcomes are user-visible only; platform and internal failures are also
// logged and recorded in the error_logs table.
type Kind int

const (
	KindValidation Kind = iota
	KindPermission
	KindNotFound
	KindPlatform
	KindInternal
)

type CommandError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func Validation(msg string) error {
	return &CommandError{Kind: KindValidation, Message: msg}
}

func Permission() error {
	return &CommandError{Kind: KindPermission, Message: "Missing permissions"}
}

func NotFound(msg string) error {
	return &CommandError{Kind: KindNotFound, Message: msg}
}

func Platform(msg string, err error) error {
	return &CommandError{Kind: KindPlatform, Message: msg, Err: err}
}

func Internal(err error) error {
	return &CommandError{Kind: KindInternal, Message: "An error occurred while executing that command", Err: err}
}

// KindOf returns the classification for err. Anything that is not a
// CommandError counts as internal.
func KindOf(err error) Kind {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Kind
	}
	return KindInternal
}

// UserMessage returns the text shown to the invoking channel for err.
func UserMessage(err error) string {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Message
	}
	return "An error occurred while executing that command"
}
