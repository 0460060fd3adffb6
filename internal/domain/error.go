package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrChatBusy means a prompt is already in flight for the chat.
	ErrChatBusy = errors.New("chat already has a prompt in flight")
	// ErrRateLimited covers Telegram 429s and backend quota rejections.
	ErrRateLimited = errors.New("rate limited")
	// ErrAuthFailed is fatal: the credential was rejected, retrying cannot help.
	ErrAuthFailed = errors.New("authentication failed")
	// ErrNetwork marks transient transport failures that are safe to retry.
	ErrNetwork = errors.New("network error")
	// ErrEmptyReply is returned when the backend answers with no usable content.
	ErrEmptyReply = errors.New("empty reply from prompt backend")
)
