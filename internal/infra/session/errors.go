package session

import "errors"

var (
	ErrSessionNotFound = errors.New("session: wizard session not found")
	ErrCodec           = errors.New("session: failed to encode or decode session")
	ErrStore           = errors.New("session: store failure")
)
