package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrTestNotFound       = errors.New("test not found")
	ErrTestHasNoQuestions = errors.New("test has no questions to grade")
	ErrNoRecipient        = errors.New("either a user or a group must be selected")
	ErrAmbiguousRecipient = errors.New("select either a user or a group, not both")
	ErrGroupEmpty         = errors.New("group has no members")
	ErrNoAttachment       = errors.New("no attachment stored for this email")
)
